package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// Errors returned by AsyncHandler.HandleEvent.
var (
	ErrQueueClosed = errors.New("event queue is closed")
	ErrQueueFull   = errors.New("event queue is full")
)

// AsyncConfig holds configuration for an AsyncHandler.
type AsyncConfig struct {
	// WorkerCount is the number of goroutines delivering events.
	// If zero or negative, defaults to 1
	WorkerCount int

	// QueueSize is the buffer size of the pending event queue.
	QueueSize int
}

// DefaultAsyncConfig returns an AsyncConfig with reasonable defaults.
func DefaultAsyncConfig() AsyncConfig {
	return AsyncConfig{
		WorkerCount: 2,
		QueueSize:   100,
	}
}

// AsyncHandler decouples a slow handler (a network publisher, say) from the
// request path. Events are queued and delivered by a pool of workers;
// delivery errors are logged, never returned to the emitter.
type AsyncHandler struct {
	next   EventHandler
	queue  chan *Event
	wg     sync.WaitGroup
	mu     sync.RWMutex
	closed bool
	logger *slog.Logger
}

// NewAsyncHandler starts the worker pool and returns the handler.
// Stop must be called to release the workers.
func NewAsyncHandler(next EventHandler, config AsyncConfig, logger *slog.Logger) *AsyncHandler {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "async_event_handler"))

	workerCount := config.WorkerCount
	if workerCount <= 0 {
		logger.Warn("invalid worker count specified, using default",
			slog.Int("specified_count", config.WorkerCount),
			slog.Int("default_count", 1))
		workerCount = 1
	}
	queueSize := config.QueueSize
	if queueSize < 0 {
		queueSize = 0
	}

	h := &AsyncHandler{
		next:   next,
		queue:  make(chan *Event, queueSize),
		logger: logger,
	}
	for i := 0; i < workerCount; i++ {
		h.wg.Add(1)
		go h.worker(i)
	}
	return h
}

// HandleEvent queues the event without blocking.
func (h *AsyncHandler) HandleEvent(_ context.Context, event *Event) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.closed {
		return ErrQueueClosed
	}

	select {
	case h.queue <- event:
		return nil
	default:
		return fmt.Errorf("%w: queue capacity %d reached", ErrQueueFull, cap(h.queue))
	}
}

// Stop closes the queue and waits for queued events to be delivered or for
// ctx to expire, whichever comes first.
func (h *AsyncHandler) Stop(ctx context.Context) error {
	h.mu.Lock()
	if !h.closed {
		h.closed = true
		close(h.queue)
	}
	h.mu.Unlock()

	done := make(chan struct{})
	go func() {
		h.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		h.logger.Info("event queue drained")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("event queue did not drain: %w", ctx.Err())
	}
}

func (h *AsyncHandler) worker(id int) {
	defer h.wg.Done()

	h.logger.Debug("starting worker", slog.Int("worker_id", id))
	for event := range h.queue {
		if err := h.next.HandleEvent(context.Background(), event); err != nil {
			h.logger.Error("event delivery failed",
				slog.String("error", err.Error()),
				slog.Int("worker_id", id),
				slog.String("event_id", event.ID.String()),
				slog.String("event_type", event.Type))
		}
	}
	h.logger.Debug("event queue closed, stopping worker", slog.Int("worker_id", id))
}
