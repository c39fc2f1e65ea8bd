package queue

import (
	"context"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/mealdesk/canteen-api/internal/api/metrics"
	"github.com/mealdesk/canteen-api/internal/core/ports"
)

const (
	defaultWorkers = 8
	channelBuffer  = 256
)

// Dispatcher routes collection events to a fixed set of workers using
// consistent hashing on the member id, guaranteeing per-member ordering.
type Dispatcher struct {
	workers []chan ports.CollectionInput
	service ports.MealService
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.MealService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.CollectionInput, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.CollectionInput, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue sends an event to the worker responsible for its member.
// The call is non-blocking up to channelBuffer capacity.
func (d *Dispatcher) Enqueue(event ports.CollectionInput) {
	idx := d.shardIndex(event.MemberUniqueID)
	d.workers[idx] <- event
	metrics.MealEventsQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
}

// EnqueueBatch enqueues multiple events preserving per-member ordering.
func (d *Dispatcher) EnqueueBatch(events []ports.CollectionInput) {
	for _, e := range events {
		d.Enqueue(e)
	}
}

// shardIndex maps a member id deterministically to a worker index.
func (d *Dispatcher) shardIndex(memberUniqueID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(memberUniqueID))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.CollectionInput) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			if err := d.service.Process(ctx, event); err != nil {
				d.log.Error().Err(err).
					Str("member_unique_id", event.MemberUniqueID).
					Int("worker_id", id).
					Msg("collection event processing failed")
			}
			metrics.MealEventsQueueDepth.WithLabelValues(strconv.Itoa(id)).Set(float64(len(ch)))
		}
	}
}
