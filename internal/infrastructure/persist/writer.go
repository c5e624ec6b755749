// Package persist implements the fire-and-forget write-behind path between
// the state containers and the snapshot store.
package persist

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/craftlink/marketplace-core/internal/core/ports"
	"github.com/craftlink/marketplace-core/internal/metrics"
)

const (
	defaultWorkers = 4
	channelBuffer  = 64
	writeTimeout   = 5 * time.Second
)

type write struct {
	key  string
	data []byte
}

// Writer routes snapshot writes to a fixed set of workers using consistent
// hashing on the snapshot key, so writes to the same key are applied in
// order (last-write-wins stays coherent). Callers never wait on a write and
// never see its error: failures are logged and counted, and the in-memory
// state remains authoritative for the rest of the process lifetime.
type Writer struct {
	workers []chan write
	store   ports.SnapshotStore
	log     zerolog.Logger
	wg      sync.WaitGroup
}

var _ ports.SnapshotWriter = (*Writer)(nil)

// NewWriter creates a Writer with numWorkers sharded workers. If
// numWorkers <= 0, defaultWorkers is used.
func NewWriter(numWorkers int, store ports.SnapshotStore, log zerolog.Logger) *Writer {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	w := &Writer{
		workers: make([]chan write, numWorkers),
		store:   store,
		log:     log,
	}
	for i := range w.workers {
		w.workers[i] = make(chan write, channelBuffer)
	}
	return w
}

// Start launches all worker goroutines. Workers drain their channels until
// Close is called; each store write is bounded by its own timeout so pending
// snapshots still land during shutdown.
func (w *Writer) Start() {
	for i, ch := range w.workers {
		w.wg.Add(1)
		go w.runWorker(i, ch)
	}
}

// Enqueue schedules a snapshot write. Non-blocking up to the channel buffer.
func (w *Writer) Enqueue(key string, data []byte) {
	i := w.shardIndex(key)
	w.workers[i] <- write{key: key, data: data}
	metrics.SnapshotQueueDepth.WithLabelValues(strconv.Itoa(i)).Set(float64(len(w.workers[i])))
}

// Close stops accepting writes, drains pending ones, and waits for the
// workers to exit.
func (w *Writer) Close() {
	for _, ch := range w.workers {
		close(ch)
	}
	w.wg.Wait()
}

// shardIndex maps a snapshot key deterministically to a worker index.
func (w *Writer) shardIndex(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32()) % len(w.workers)
}

func (w *Writer) runWorker(id int, ch <-chan write) {
	defer w.wg.Done()
	for wr := range ch {
		writeCtx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		err := w.store.Save(writeCtx, wr.key, wr.data)
		cancel()

		metrics.SnapshotQueueDepth.WithLabelValues(strconv.Itoa(id)).Set(float64(len(ch)))
		if err != nil {
			metrics.SnapshotWriteFailuresTotal.WithLabelValues(wr.key).Inc()
			w.log.Warn().Err(err).
				Str("key", wr.key).
				Int("worker_id", id).
				Msg("snapshot write failed, in-memory state kept")
			continue
		}
		w.log.Debug().Str("key", wr.key).Int("bytes", len(wr.data)).Msg("snapshot written")
	}
}
