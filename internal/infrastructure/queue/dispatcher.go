package queue

import (
	"context"
	"hash/fnv"
	"time"

	"github.com/rs/zerolog"

	"github.com/AssetAkire/Capstone-FacilityFix/internal/core/domain"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Processor consumes audit entries off the worker channels.
type Processor interface {
	Process(ctx context.Context, e domain.AuditEntry) error
}

// Dispatcher routes audit entries to a fixed set of workers using consistent
// hashing on the actor uid, preserving per-actor ordering of the trail.
// Recording is fire-and-forget: when a worker channel is full the entry is
// dropped and logged rather than blocking the operation.
type Dispatcher struct {
	workers   []chan domain.AuditEntry
	processor Processor
	log       zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, processor Processor, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers:   make([]chan domain.AuditEntry, numWorkers),
		processor: processor,
		log:       log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.AuditEntry, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Record builds and enqueues an audit entry for the worker responsible for
// the actor. Implements ports.AuditSink.
func (d *Dispatcher) Record(actorUID, action, targetUID, detail string) {
	entry := domain.AuditEntry{
		ActorUID:  actorUID,
		Action:    action,
		TargetUID: targetUID,
		Detail:    detail,
		Timestamp: time.Now().UTC(),
	}
	select {
	case d.workers[d.shardIndex(actorUID)] <- entry:
	default:
		d.log.Warn().Str("actor", actorUID).Str("action", action).Msg("audit queue full, entry dropped")
	}
}

// shardIndex maps an actor uid deterministically to a worker index.
func (d *Dispatcher) shardIndex(actorUID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(actorUID))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.AuditEntry) {
	for {
		select {
		case <-ctx.Done():
			return
		case entry, ok := <-ch:
			if !ok {
				return
			}
			if err := d.processor.Process(ctx, entry); err != nil {
				d.log.Error().Err(err).
					Str("actor", entry.ActorUID).
					Int("worker_id", id).
					Msg("audit entry processing failed")
			}
		}
	}
}
