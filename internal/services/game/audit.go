package game

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// auditJob is one ledger or archive write
type auditJob struct {
	what   string
	gameID string
	write  func(ctx context.Context) error
}

// auditWriter runs ledger and archive writes on its own goroutine so a slow
// store never holds a session lock. Writes run in the order they were queued.
type auditWriter struct {
	mu      sync.RWMutex
	closed  bool
	jobs    chan auditJob
	done    chan struct{}
	timeout time.Duration
	logger  *zap.Logger
}

func newAuditWriter(buffer int, timeout time.Duration, logger *zap.Logger) *auditWriter {
	if buffer <= 0 {
		buffer = DefaultAuditBuffer
	}
	if timeout <= 0 {
		timeout = DefaultAuditTimeout
	}
	return &auditWriter{
		jobs:    make(chan auditJob, buffer),
		done:    make(chan struct{}),
		timeout: timeout,
		logger:  logger,
	}
}

// enqueue hands a write to the writer goroutine. It never blocks: when the
// queue is full or the writer is closed the write is dropped and logged.
func (w *auditWriter) enqueue(what, gameID string, write func(ctx context.Context) error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.closed {
		w.logger.Warn("audit writer closed, dropping write",
			zap.String("write", what),
			zap.String("game_id", gameID))
		return
	}

	select {
	case w.jobs <- auditJob{what: what, gameID: gameID, write: write}:
	default:
		w.logger.Error("audit queue full, dropping write",
			zap.String("write", what),
			zap.String("game_id", gameID),
			zap.Int("queued", len(w.jobs)))
	}
}

// run drains the queue until close
func (w *auditWriter) run() {
	defer close(w.done)

	for job := range w.jobs {
		ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
		err := job.write(ctx)
		cancel()

		if err != nil {
			w.logger.Error("audit write failed",
				zap.String("write", job.what),
				zap.String("game_id", job.gameID),
				zap.Error(err))
		}
	}
}

// close stops accepting writes and waits for the queued ones
func (w *auditWriter) close() {
	w.mu.Lock()
	if !w.closed {
		w.closed = true
		close(w.jobs)
	}
	w.mu.Unlock()

	<-w.done
}
