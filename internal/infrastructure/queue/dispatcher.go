package queue

import (
	"context"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/bugtrackr/bugtrack-api/internal/api/metrics"
	"github.com/bugtrackr/bugtrack-api/internal/core/domain"
	"github.com/bugtrackr/bugtrack-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher records audit entries asynchronously on a fixed set of workers,
// sharded by resource id so entries for the same resource are written in the
// order their mutations committed. Audit failures are logged and dropped; a
// mutation never fails because its audit entry could not be written.
type Dispatcher struct {
	workers []chan domain.AuditEntry
	repo    ports.AuditRepository
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, repo ports.AuditRepository, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.AuditEntry, numWorkers),
		repo:    repo,
		log:     log,
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

// Enqueue sends an entry to the worker responsible for its resource id.
// Non-blocking up to channelBuffer capacity.
func (d *Dispatcher) Enqueue(entry domain.AuditEntry) {
	i := d.shardIndex(entry.ResourceID)
	d.workers[i] <- entry
	metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(i)).Set(float64(len(d.workers[i])))
}

// shardIndex maps a resource id deterministically to a worker index.
func (d *Dispatcher) shardIndex(resourceID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(resourceID))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.AuditEntry) {
	worker := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case entry, ok := <-ch:
			if !ok {
				return
			}
			if err := d.repo.Record(ctx, &entry); err != nil {
				d.log.Error().Err(err).
					Str("action", entry.Action).
					Str("resource_id", entry.ResourceID).
					Int("worker_id", id).
					Msg("audit write failed")
			}
			metrics.AuditQueueDepth.WithLabelValues(worker).Set(float64(len(ch)))
		}
	}
}
