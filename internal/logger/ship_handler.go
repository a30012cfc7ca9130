package logger

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

const (
	defaultShipBuffer  = 1024
	defaultDrainWindow = 5 * time.Second
)

type queuedRecord struct {
	ctx     context.Context
	record  slog.Record
	handler slog.Handler
}

// shipQueue is shared by every handler derived from the same root so that
// WithAttrs/WithGroup copies feed one background sender.
type shipQueue struct {
	mu      sync.RWMutex
	records chan queuedRecord
	closed  bool
	dropped atomic.Uint64
	done    sync.WaitGroup
}

// shipHandler hands records to a background goroutine so remote log shipping
// never blocks a request. Records are dropped when the buffer is full.
type shipHandler struct {
	queue *shipQueue
	next  slog.Handler
}

func newShipHandler(next slog.Handler, buffer int) *shipHandler {
	if buffer <= 0 {
		buffer = defaultShipBuffer
	}
	q := &shipQueue{records: make(chan queuedRecord, buffer)}
	q.done.Add(1)
	go func() {
		defer q.done.Done()
		for rec := range q.records {
			_ = rec.handler.Handle(rec.ctx, rec.record)
		}
	}()
	return &shipHandler{queue: q, next: next}
}

func (h *shipHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *shipHandler) Handle(ctx context.Context, r slog.Record) error {
	h.queue.mu.RLock()
	defer h.queue.mu.RUnlock()
	if h.queue.closed {
		return nil
	}
	select {
	case h.queue.records <- queuedRecord{ctx: context.WithoutCancel(ctx), record: r.Clone(), handler: h.next}:
	default:
		h.queue.dropped.Add(1)
	}
	return nil
}

func (h *shipHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &shipHandler{queue: h.queue, next: h.next.WithAttrs(attrs)}
}

func (h *shipHandler) WithGroup(name string) slog.Handler {
	return &shipHandler{queue: h.queue, next: h.next.WithGroup(name)}
}

// Dropped reports how many records were discarded because the buffer was full.
func (h *shipHandler) Dropped() uint64 {
	return h.queue.dropped.Load()
}

func (h *shipHandler) drain(ctx context.Context) error {
	h.queue.mu.Lock()
	if h.queue.closed {
		h.queue.mu.Unlock()
		return nil
	}
	h.queue.closed = true
	close(h.queue.records)
	h.queue.mu.Unlock()

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, defaultDrainWindow)
		defer cancel()
	}

	finished := make(chan struct{})
	go func() {
		h.queue.done.Wait()
		close(finished)
	}()
	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
