package synchronizer

import (
	"sync"

	"go.uber.org/zap"

	"github.com/KirkDiggler/dobbelen/internal/common/uuid"
)

// DefaultBufferSize is the per-subscriber channel depth
const DefaultBufferSize = 16

// Subscription receives canonical snapshots until it is unsubscribed
type Subscription struct {
	ID string
	C  <-chan *Snapshot
}

// Publisher holds the latest snapshot of one session and fans it out to subscribers
type Publisher struct {
	mu          sync.RWMutex
	sessionID   string
	latest      *Snapshot
	subscribers map[string]chan *Snapshot
	bufferSize  int
	closed      bool

	uuid   uuid.UUID
	logger *zap.Logger
}

// Config holds the dependencies of a publisher
type Config struct {
	SessionID  string
	BufferSize int
	UUID       uuid.UUID
	Logger     *zap.Logger
}

// NewPublisher creates a publisher for one session
func NewPublisher(cfg *Config) (*Publisher, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if cfg.UUID == nil {
		return nil, ErrNilUUID
	}
	if cfg.Logger == nil {
		return nil, ErrNilLogger
	}

	size := cfg.BufferSize
	if size <= 0 {
		size = DefaultBufferSize
	}

	return &Publisher{
		sessionID:   cfg.SessionID,
		subscribers: make(map[string]chan *Snapshot),
		bufferSize:  size,
		uuid:        cfg.UUID,
		logger:      cfg.Logger,
	}, nil
}

// Publish replaces the latest snapshot and delivers it to every subscriber.
// Delivery never blocks: a subscriber whose buffer is full loses its oldest
// pending snapshot.
func (p *Publisher) Publish(s *Snapshot) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrClosed
	}
	if p.latest != nil && s.Version <= p.latest.Version {
		return ErrStaleVersion
	}
	p.latest = s

	for id, ch := range p.subscribers {
		select {
		case ch <- s:
			continue
		default:
		}

		// drop the oldest frame so the newest always lands
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- s:
		default:
		}
		p.logger.Debug("subscriber lagging, dropped snapshot",
			zap.String("session_id", p.sessionID),
			zap.String("subscriber_id", id),
			zap.Uint64("version", s.Version))
	}

	return nil
}

// Latest returns the most recently published snapshot, or nil before the first publish
func (p *Publisher) Latest() *Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.latest
}

// Subscribe registers a new observer. The latest snapshot, if any, is queued first.
func (p *Publisher) Subscribe() (*Subscription, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, ErrClosed
	}

	id := p.uuid.NewUUID()
	ch := make(chan *Snapshot, p.bufferSize)
	if p.latest != nil {
		ch <- p.latest
	}
	p.subscribers[id] = ch

	p.logger.Debug("subscriber added",
		zap.String("session_id", p.sessionID),
		zap.String("subscriber_id", id),
		zap.Int("subscribers", len(p.subscribers)))

	return &Subscription{ID: id, C: ch}, nil
}

// Unsubscribe drops an observer and closes its channel. Unknown ids are ignored.
func (p *Publisher) Unsubscribe(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	ch, ok := p.subscribers[id]
	if !ok {
		return
	}
	delete(p.subscribers, id)
	close(ch)

	p.logger.Debug("subscriber removed",
		zap.String("session_id", p.sessionID),
		zap.String("subscriber_id", id),
		zap.Int("subscribers", len(p.subscribers)))
}

// SubscriberCount returns the number of active subscribers
func (p *Publisher) SubscriberCount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.subscribers)
}

// Close unsubscribes everyone and rejects further publishes
func (p *Publisher) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	p.closed = true
	for id, ch := range p.subscribers {
		delete(p.subscribers, id)
		close(ch)
	}
}
