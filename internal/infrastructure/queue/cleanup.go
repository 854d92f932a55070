package queue

import (
	"context"
	"errors"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/travelbook/story-api/internal/core/domain"
	"github.com/travelbook/story-api/internal/core/ports"
	"github.com/travelbook/story-api/internal/pkg/metrics"
)

const (
	defaultWorkers = 2
	channelBuffer  = 256
	deleteTimeout  = 10 * time.Second
)

// CleanupDispatcher removes image files in the background after their story
// is gone. Filenames are sharded over a fixed set of workers with FNV-1a so
// repeated requests for one file are handled in order by the same worker.
// Failures are logged and counted, never retried.
type CleanupDispatcher struct {
	workers []chan string
	store   ports.ImageStore
	log     zerolog.Logger

	mu      sync.RWMutex
	stopped bool
	wg      sync.WaitGroup
}

// NewCleanupDispatcher creates a dispatcher with numWorkers workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewCleanupDispatcher(numWorkers int, store ports.ImageStore, log zerolog.Logger) *CleanupDispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &CleanupDispatcher{
		workers: make([]chan string, numWorkers),
		store:   store,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan string, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines.
func (d *CleanupDispatcher) Start() {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(i, ch)
	}
}

// Stop closes the queues and waits for workers to drain what was already
// enqueued. Later Enqueue calls are dropped.
func (d *CleanupDispatcher) Stop() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.stopped = true
	for _, ch := range d.workers {
		close(ch)
	}
	d.mu.Unlock()

	d.wg.Wait()
}

// Enqueue schedules filename for deletion without blocking. When the worker
// queue is full or the dispatcher is stopped the job is dropped.
func (d *CleanupDispatcher) Enqueue(filename string) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.stopped {
		d.drop(filename, "dispatcher stopped")
		return
	}

	idx := d.shardIndex(filename)
	select {
	case d.workers[idx] <- filename:
		metrics.ImageCleanupQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		d.drop(filename, "queue full")
	}
}

func (d *CleanupDispatcher) drop(filename, reason string) {
	metrics.ImageCleanupTotal.WithLabelValues("dropped").Inc()
	d.log.Warn().Str("filename", filename).Str("reason", reason).Msg("image cleanup dropped")
}

// shardIndex maps a filename deterministically to a worker index.
func (d *CleanupDispatcher) shardIndex(filename string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(filename))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *CleanupDispatcher) runWorker(id int, ch <-chan string) {
	defer d.wg.Done()
	label := strconv.Itoa(id)

	for filename := range ch {
		metrics.ImageCleanupQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
		d.remove(id, filename)
	}
}

func (d *CleanupDispatcher) remove(workerID int, filename string) {
	ctx, cancel := context.WithTimeout(context.Background(), deleteTimeout)
	defer cancel()

	err := d.store.Delete(ctx, filename)
	switch {
	case err == nil:
		metrics.ImageCleanupTotal.WithLabelValues("deleted").Inc()
		d.log.Debug().Str("filename", filename).Int("worker_id", workerID).Msg("image file deleted")
	case errors.Is(err, domain.ErrImageNotFound):
		metrics.ImageCleanupTotal.WithLabelValues("missing").Inc()
		d.log.Info().Str("filename", filename).Msg("image file already absent")
	default:
		metrics.ImageCleanupTotal.WithLabelValues("error").Inc()
		d.log.Error().Err(err).Str("filename", filename).Int("worker_id", workerID).Msg("image cleanup failed")
	}
}
