package audit

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Publisher records the holder-visible activity trail. Emission is
// synchronous by default; a buffered publisher never blocks the approval
// path and sheds load instead of stalling it.
type Publisher struct {
	store  Store
	logger *slog.Logger

	queue chan Event
	done  sync.WaitGroup
}

// PublisherOption configures the Publisher.
type PublisherOption func(*Publisher)

// WithAsyncBuffer moves persistence to a background goroutine with the given
// queue capacity. Events beyond capacity are dropped, not queued.
func WithAsyncBuffer(size int) PublisherOption {
	return func(p *Publisher) {
		if size > 0 {
			p.queue = make(chan Event, size)
		}
	}
}

// WithPublisherLogger sets the logger used for drop and persistence failures.
func WithPublisherLogger(logger *slog.Logger) PublisherOption {
	return func(p *Publisher) {
		p.logger = logger
	}
}

func NewPublisher(store Store, opts ...PublisherOption) *Publisher {
	p := &Publisher{store: store}
	for _, opt := range opts {
		opt(p)
	}
	if p.queue != nil {
		p.done.Add(1)
		go p.drain()
	}
	return p
}

func (p *Publisher) drain() {
	defer p.done.Done()
	for event := range p.queue {
		if err := p.store.Append(context.Background(), event); err != nil && p.logger != nil {
			p.logger.Error("audit event not persisted",
				"error", err,
				"action", event.Action,
				"origin", event.Origin,
			)
		}
	}
}

// Emit records one event, stamping the timestamp when the caller left it zero.
func (p *Publisher) Emit(ctx context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if p.queue == nil {
		return p.store.Append(ctx, event)
	}
	select {
	case p.queue <- event:
	default:
		if p.logger != nil {
			p.logger.Warn("audit queue full, event dropped",
				"action", event.Action,
				"origin", event.Origin,
			)
		}
	}
	return nil
}

// Close stops the buffered publisher after persisting everything queued.
func (p *Publisher) Close() {
	if p.queue != nil {
		close(p.queue)
		p.done.Wait()
	}
}

// List returns the trail recorded for one page context.
func (p *Publisher) List(ctx context.Context, origin string) ([]Event, error) {
	return p.store.ListByOrigin(ctx, origin)
}
