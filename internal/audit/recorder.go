package audit

import (
	"context"
	"log/slog"
	"sync"
)

// DefaultQueueSize is the buffer size for the async audit queue.
// Entries beyond this are dropped (best-effort) to avoid back-pressure on requests.
const DefaultQueueSize = 256

// Recorder queues audit entries and writes them serially in the background.
//
// Record never blocks. Run must be started once; it drains whatever is still
// queued when its context is cancelled and then returns.
type Recorder struct {
	repo   Repository
	source string
	ch     chan *AuditLog
	logger *slog.Logger

	done     chan struct{}
	doneOnce sync.Once
}

// NewRecorder creates a recorder writing to repo. source is stored on every
// entry (e.g. "api").
func NewRecorder(repo Repository, source string, queueSize int, logger *slog.Logger) *Recorder {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	return &Recorder{
		repo:   repo,
		source: source,
		ch:     make(chan *AuditLog, queueSize),
		logger: logger,
		done:   make(chan struct{}),
	}
}

// Record enqueues an entry for the account entityID performed by actorID.
// If the queue is full the entry is dropped and a warning is logged.
// A nil Recorder discards everything.
func (r *Recorder) Record(action, entityID, actorID string, details map[string]any) {
	if r == nil {
		return
	}

	entry := &AuditLog{
		Action:     action,
		EntityType: EntityAccount,
		EntityID:   entityID,
		UserID:     actorID,
		Source:     r.source,
		Details:    details,
	}

	select {
	case r.ch <- entry:
	default:
		r.logger.Warn("audit queue full, dropping entry",
			"action", action,
			"entity_id", entityID,
		)
	}
}

// Run writes queued entries until ctx is cancelled, then drains the rest.
// Writes use a background context so shutdown does not abort them.
func (r *Recorder) Run(ctx context.Context) {
	defer r.doneOnce.Do(func() { close(r.done) })

	for {
		select {
		case entry := <-r.ch:
			r.write(entry)
		case <-ctx.Done():
			for {
				select {
				case entry := <-r.ch:
					r.write(entry)
				default:
					return
				}
			}
		}
	}
}

// Done is closed when Run has returned.
func (r *Recorder) Done() <-chan struct{} {
	return r.done
}

func (r *Recorder) write(entry *AuditLog) {
	if err := r.repo.Create(context.Background(), entry); err != nil {
		r.logger.Error("audit log write failed",
			"action", entry.Action,
			"entity_id", entry.EntityID,
			"error", err,
		)
	}
}
