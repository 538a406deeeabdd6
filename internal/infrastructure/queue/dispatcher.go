package queue

import (
	"context"
	"encoding/binary"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/socialconnect/social-api/internal/core/domain"
	"github.com/socialconnect/social-api/internal/core/ports"
	"github.com/socialconnect/social-api/internal/pkg/metrics"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher hands activity records to a fixed set of workers, sharded by
// user ID so each user's records are persisted in the order they happened.
// It implements ports.ActivityRecorder.
type Dispatcher struct {
	workers []chan domain.Activity
	service ports.ActivityService
	log     zerolog.Logger
	wg      sync.WaitGroup
}

var _ ports.ActivityRecorder = (*Dispatcher)(nil)

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.ActivityService, log zerolog.Logger) *Dispatcher {
	return newDispatcher(numWorkers, channelBuffer, service, log)
}

func newDispatcher(numWorkers, buffer int, service ports.ActivityService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.Activity, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.Activity, buffer)
	}
	return d
}

// Start launches the workers. They stop when ctx is cancelled; Wait blocks
// until they have.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker has returned.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Record queues a for its user's worker. It never blocks: when the worker is
// saturated the record is dropped and counted.
func (d *Dispatcher) Record(a domain.Activity) {
	idx := d.shardIndex(a.UserID)
	select {
	case d.workers[idx] <- a:
		metrics.ActivityQueueDepth.WithLabelValues(strconv.Itoa(idx)).Inc()
	default:
		metrics.ActivityDroppedTotal.Inc()
		d.log.Warn().
			Str("kind", string(a.Kind)).
			Int64("user_id", a.UserID).
			Int("worker_id", idx).
			Msg("activity queue full, record dropped")
	}
}

// shardIndex maps a user ID deterministically to a worker index.
func (d *Dispatcher) shardIndex(userID int64) int {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(userID))
	h := fnv.New32a()
	_, _ = h.Write(buf[:])
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.Activity) {
	defer d.wg.Done()
	depth := metrics.ActivityQueueDepth.WithLabelValues(strconv.Itoa(id))

	for {
		select {
		case <-ctx.Done():
			if n := len(ch); n > 0 {
				d.log.Warn().Int("worker_id", id).Int("pending", n).Msg("activity worker stopped with pending records")
			}
			return
		case a := <-ch:
			depth.Dec()
			start := time.Now()
			outcome := "ok"
			if err := d.service.Process(ctx, a); err != nil {
				outcome = "error"
				d.log.Error().Err(err).
					Str("kind", string(a.Kind)).
					Int64("user_id", a.UserID).
					Int("worker_id", id).
					Msg("activity processing failed")
			}
			metrics.ActivityProcessingDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
		}
	}
}
