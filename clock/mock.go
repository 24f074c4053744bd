package clock

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Mock is a controllable time source for testing. Time never moves on
// its own; Advance and SetTime release pending timers, tickers, and
// sleepers whose deadlines are reached, in deadline order.
type Mock struct {
	mu      sync.Mutex
	now     time.Time
	waiters []*waiter
}

type waiter struct {
	deadline time.Time
	ch       chan time.Time
	period   time.Duration // 0 for one-shot timers
	stopped  bool
}

// NewMock creates a mock clock starting at the given time
func NewMock(start time.Time) *Mock {
	return &Mock{now: start}
}

// Now returns the current mocked time
func (m *Mock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// After returns a channel that fires when Advance moves time past d
func (m *Mock) After(d time.Duration) <-chan time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	w := &waiter{deadline: m.now.Add(d), ch: make(chan time.Time, 1)}
	if d <= 0 {
		w.ch <- m.now
		return w.ch
	}
	m.waiters = append(m.waiters, w)
	return w.ch
}

// Timer returns a one-shot timer driven by Advance
func (m *Mock) Timer(d time.Duration) Timer {
	m.mu.Lock()
	defer m.mu.Unlock()
	w := &waiter{deadline: m.now.Add(d), ch: make(chan time.Time, 1)}
	if d <= 0 {
		w.ch <- m.now
		w.stopped = true
		return &mockTimer{m: m, w: w}
	}
	m.waiters = append(m.waiters, w)
	return &mockTimer{m: m, w: w}
}

// Ticker returns a ticker driven by Advance
func (m *Mock) Ticker(d time.Duration) Ticker {
	if d <= 0 {
		panic("clock: non-positive ticker interval")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	w := &waiter{deadline: m.now.Add(d), ch: make(chan time.Time, 1), period: d}
	m.waiters = append(m.waiters, w)
	return &mockTicker{m: m, w: w}
}

// Sleep blocks until Advance moves time past d or ctx is cancelled
func (m *Mock) Sleep(ctx context.Context, d time.Duration) error {
	select {
	case <-m.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Advance moves the clock forward, firing every deadline crossed in
// chronological order
func (m *Mock) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now.Add(d)
	m.fireUntil(target)
	m.now = target
	m.mu.Unlock()
}

// SetTime jumps the clock to t, firing deadlines passed on the way
func (m *Mock) SetTime(t time.Time) {
	m.mu.Lock()
	if t.After(m.now) {
		m.fireUntil(t)
	}
	m.now = t
	m.mu.Unlock()
}

// fireUntil delivers all waiters with deadlines <= target.
// Caller holds the lock. Tickers re-arm and can fire repeatedly
// within a single advance.
func (m *Mock) fireUntil(target time.Time) {
	for {
		var next *waiter
		for _, w := range m.waiters {
			if w.stopped || w.deadline.After(target) {
				continue
			}
			if next == nil || w.deadline.Before(next.deadline) {
				next = w
			}
		}
		if next == nil {
			return
		}

		m.now = next.deadline
		select {
		case next.ch <- next.deadline:
		default: // receiver lagging, drop the tick like time.Ticker does
		}
		if next.period > 0 {
			next.deadline = next.deadline.Add(next.period)
		} else {
			next.stopped = true
			m.compact()
		}
	}
}

func (m *Mock) compact() {
	live := m.waiters[:0]
	for _, w := range m.waiters {
		if !w.stopped {
			live = append(live, w)
		}
	}
	m.waiters = live
}

// PendingDeadlines reports the outstanding timer deadlines, soonest
// first. Useful when a test wants to advance exactly to the next event.
func (m *Mock) PendingDeadlines() []time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]time.Time, 0, len(m.waiters))
	for _, w := range m.waiters {
		if !w.stopped {
			out = append(out, w.deadline)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

type mockTimer struct {
	m *Mock
	w *waiter
}

func (t *mockTimer) C() <-chan time.Time {
	return t.w.ch
}

func (t *mockTimer) Stop() bool {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	pending := !t.w.stopped
	t.w.stopped = true
	t.m.compact()
	return pending
}

type mockTicker struct {
	m *Mock
	w *waiter
}

func (t *mockTicker) C() <-chan time.Time {
	return t.w.ch
}

func (t *mockTicker) Stop() {
	t.m.mu.Lock()
	t.w.stopped = true
	t.m.compact()
	t.m.mu.Unlock()
}
