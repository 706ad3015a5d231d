package relay

import (
	"context"
	"sync"

	pkgerrors "didwallet/pkg/domain-errors"
)

// SurfaceNotifier wakes the privileged surface when a request needs a
// decision. Activation fails when no surface is attached, which the approval
// flow reports back to the caller as surface_unavailable.
type SurfaceNotifier struct {
	mu   sync.Mutex
	subs map[chan struct{}]struct{}
}

func NewSurfaceNotifier() *SurfaceNotifier {
	return &SurfaceNotifier{subs: make(map[chan struct{}]struct{})}
}

// Subscribe attaches a surface listener. The returned channel fires on
// activation; cancel must be called when the listener goes away.
func (n *SurfaceNotifier) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)
	n.mu.Lock()
	n.subs[ch] = struct{}{}
	n.mu.Unlock()

	cancel := func() {
		n.mu.Lock()
		delete(n.subs, ch)
		n.mu.Unlock()
	}
	return ch, cancel
}

// Activate signals every attached listener. A listener that has not drained
// its previous signal is not signaled again.
func (n *SurfaceNotifier) Activate(_ context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.subs) == 0 {
		return pkgerrors.New(pkgerrors.CodeSurfaceUnavailable, "no surface attached")
	}
	for ch := range n.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
	return nil
}
