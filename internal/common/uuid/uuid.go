package uuid

import "github.com/google/uuid"

//go:generate mockgen -package=mocks -destination=mocks/mock_uuid.go github.com/KirkDiggler/dobbelen/internal/common/uuid UUID

// UUID generates the ids for sessions, seats and subscriptions
type UUID interface {
	NewUUID() string
}

// DefaultUUID issues random version 4 ids
type DefaultUUID struct{}

func New() *DefaultUUID {
	return &DefaultUUID{}
}

// NewUUID returns a new id in its canonical string form
func (d *DefaultUUID) NewUUID() string {
	return uuid.NewString()
}
