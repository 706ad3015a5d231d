package wallet

import (
	"sync"
	"time"
)

// LockTimer locks the wallet after a period of inactivity. It is an explicit
// owned object rather than ambient state: the session resets it on every
// activity event and cancels it when the wallet locks for another reason.
type LockTimer struct {
	mu     sync.Mutex
	idle   time.Duration
	timer  *time.Timer
	onLock func()
}

// NewLockTimer builds a stopped timer; Reset arms it.
func NewLockTimer(idle time.Duration, onLock func()) *LockTimer {
	return &LockTimer{idle: idle, onLock: onLock}
}

// Reset re-arms the idle countdown. Called on every activity event.
func (t *LockTimer) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		t.timer.Stop()
	}
	t.timer = time.AfterFunc(t.idle, t.onLock)
}

// Cancel stops the countdown without firing.
func (t *LockTimer) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}
