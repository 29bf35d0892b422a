package synchronizer

// SyncError is an error raised by the synchronizer
type SyncError string

func (e SyncError) Error() string {
	return string(e)
}

const (
	ErrNilConfig    SyncError = "config cannot be nil"
	ErrNilUUID      SyncError = "uuid generator cannot be nil"
	ErrNilLogger    SyncError = "logger cannot be nil"
	ErrClosed       SyncError = "publisher is closed"
	ErrStaleVersion SyncError = "snapshot version is not newer than the latest"
)
