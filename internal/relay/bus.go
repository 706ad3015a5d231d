package relay

import (
	"context"
	"log/slog"
	"sync"

	"didwallet/contracts/wire"
	pkgerrors "didwallet/pkg/domain-errors"
)

// Bus accepts page connections and serves them against the mediator. Each
// connection behaves like a message port: envelopes are delivered in order
// and each caller blocks on its own reply.
type Bus struct {
	mediator *Mediator
	logger   *slog.Logger
	done     chan struct{}

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// BusOption configures the Bus.
type BusOption func(*Bus)

// WithBusLogger sets the logger.
func WithBusLogger(logger *slog.Logger) BusOption {
	return func(b *Bus) {
		b.logger = logger
	}
}

func NewBus(mediator *Mediator, opts ...BusOption) *Bus {
	b := &Bus{mediator: mediator, logger: slog.Default(), done: make(chan struct{})}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

type busRequest struct {
	ctx   context.Context
	env   wire.Envelope
	reply chan busReply
}

type busReply struct {
	payload any
	err     error
}

// PageConn is one page context attached to the bus. The origin is fixed at
// connect time by the transport and applied to every message sent through the
// connection.
type PageConn struct {
	origin    string
	requests  chan busRequest
	done      chan struct{}
	closeOnce sync.Once
}

// Connect attaches a page with the given transport-verified origin and starts
// serving it. The connection lives until it is closed or the bus shuts down.
func (b *Bus) Connect(origin string) (*PageConn, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, pkgerrors.New(pkgerrors.CodeInvariantViolation, "bus is closed")
	}

	conn := &PageConn{
		origin:   origin,
		requests: make(chan busRequest),
		done:     make(chan struct{}),
	}
	b.wg.Add(1)
	go b.serve(conn)
	b.logger.Debug("page connected", "origin", origin)
	return conn, nil
}

func (b *Bus) serve(conn *PageConn) {
	defer b.wg.Done()
	for {
		select {
		case req := <-conn.requests:
			// Handled off the loop so a request awaiting a holder decision
			// does not stall liveness probes on the same connection.
			b.wg.Add(1)
			go func(req busRequest) {
				defer b.wg.Done()
				payload, err := b.mediator.Dispatch(req.ctx, conn.origin, req.env)
				if err != nil {
					b.logger.Warn("message dropped",
						"origin", conn.origin,
						"type", req.env.Type,
						"error", err,
					)
				}
				req.reply <- busReply{payload: payload, err: err}
			}(req)
		case <-conn.done:
			return
		case <-b.done:
			return
		}
	}
}

// Close stops accepting connections and waits for in-flight ones to drain.
func (b *Bus) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	close(b.done)
	b.mu.Unlock()
	b.wg.Wait()
}

// Origin returns the transport-verified origin of the connection.
func (c *PageConn) Origin() string {
	return c.origin
}

// Request sends one envelope and blocks until its response arrives. Messages
// on one connection are delivered in order; responses arrive as each
// completes.
func (c *PageConn) Request(ctx context.Context, env wire.Envelope) (any, error) {
	req := busRequest{ctx: ctx, env: env, reply: make(chan busReply, 1)}
	select {
	case c.requests <- req:
	case <-c.done:
		return nil, pkgerrors.New(pkgerrors.CodeInvariantViolation, "connection is closed")
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	select {
	case reply := <-req.reply:
		return reply.payload, reply.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close detaches the page from the bus.
func (c *PageConn) Close() {
	c.closeOnce.Do(func() { close(c.done) })
}
