package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/mindforge/mindforge-api/internal/api/metrics"
	"github.com/mindforge/mindforge-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	insertTimeout  = 5 * time.Second
)

// AuditDispatcher implements ports.AuditSink by routing audit events to a
// fixed set of workers using consistent hashing on the username, so events
// for one account are persisted in the order they were recorded. Enqueueing
// never blocks the request path: when a worker's buffer is full the event is
// dropped and counted in the log.
type AuditDispatcher struct {
	workers []chan ports.AuditEvent
	repo    ports.AuditRepository
	log     zerolog.Logger

	wg      sync.WaitGroup
	mu      sync.RWMutex
	stopped bool
}

// NewAuditDispatcher creates a dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewAuditDispatcher(numWorkers int, repo ports.AuditRepository, log zerolog.Logger) *AuditDispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &AuditDispatcher{
		workers: make([]chan ports.AuditEvent, numWorkers),
		repo:    repo,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.AuditEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers run until Stop closes their
// queues rather than on a request context, so events recorded while the HTTP
// server drains still get persisted.
func (d *AuditDispatcher) Start() {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(i, ch)
	}
}

// Record queues an event on the worker responsible for its username. Lock
// transitions are counted here, so threshold lockouts and admin locks feed
// the same counter regardless of which service recorded them.
func (d *AuditDispatcher) Record(event ports.AuditEvent) {
	if event.Action == ports.AuditAccountLocked || event.Action == ports.AuditAdminLock {
		metrics.AccountLockoutsTotal.Inc()
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.stopped {
		d.log.Warn().
			Str("username", event.Username).
			Str("action", event.Action).
			Msg("audit dispatcher stopped, event dropped")
		return
	}

	idx := d.shardIndex(event.Username)
	select {
	case d.workers[idx] <- event:
		metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		d.log.Warn().
			Str("username", event.Username).
			Str("action", event.Action).
			Msg("audit queue full, event dropped")
	}
}

// Stop closes the worker queues and waits for buffered events to be
// persisted, up to timeout. Call it after the HTTP server has finished
// draining; Record calls arriving later are dropped, never sent on a closed
// channel.
func (d *AuditDispatcher) Stop(timeout time.Duration) {
	d.mu.Lock()
	if !d.stopped {
		d.stopped = true
		for _, ch := range d.workers {
			close(ch)
		}
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(timeout):
		d.log.Warn().Msg("audit queue drain timed out, remaining events dropped")
	}
}

// shardIndex maps a username deterministically to a worker index.
func (d *AuditDispatcher) shardIndex(username string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(username))
	return int(h.Sum32()) % len(d.workers)
}

func (d *AuditDispatcher) runWorker(id int, ch <-chan ports.AuditEvent) {
	defer d.wg.Done()
	label := strconv.Itoa(id)
	for event := range ch {
		metrics.AuditQueueDepth.WithLabelValues(label).Set(float64(len(ch)))

		// Inserts carry their own deadline so a cancelled server context
		// cannot fail writes that were already queued.
		ctx, cancel := context.WithTimeout(context.Background(), insertTimeout)
		err := d.repo.Insert(ctx, event)
		cancel()
		if err != nil {
			d.log.Error().Err(err).
				Str("username", event.Username).
				Str("action", event.Action).
				Int("worker_id", id).
				Msg("audit event persistence failed")
		}
	}
}
