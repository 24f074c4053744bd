package runtime

import (
	"context"
	"sync"
	"time"

	"github.com/lixenwraith/tui/clock"
	"github.com/lixenwraith/tui/terminal"
)

// Subscription is a long-running message stream. Stream starts a
// goroutine that sends on the returned channel and closes it when the
// stream ends or the context is cancelled. Timing goes through the
// supplied clock so subscriptions run deterministically under a mock.
type Subscription[M any] interface {
	Stream(ctx context.Context, clk clock.Clock) <-chan M
}

// SubFunc adapts a function to the Subscription interface
type SubFunc[M any] func(ctx context.Context, clk clock.Clock) <-chan M

func (f SubFunc[M]) Stream(ctx context.Context, clk clock.Clock) <-chan M {
	return f(ctx, clk)
}

// send delivers m unless the context ends first; reports delivery
func send[M any](ctx context.Context, out chan<- M, m M) bool {
	select {
	case out <- m:
		return true
	case <-ctx.Done():
		return false
	}
}

// Every emits fn(now) at each interval, the first emission one full
// interval after the stream starts
func Every[M any](d time.Duration, fn func(time.Time) M) Subscription[M] {
	return SubFunc[M](func(ctx context.Context, clk clock.Clock) <-chan M {
		out := make(chan M)
		go func() {
			defer close(out)
			tk := clk.Ticker(d)
			defer tk.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case t := <-tk.C():
					if !send(ctx, out, fn(t)) {
						return
					}
				}
			}
		}()
		return out
	})
}

// EveryNow is Every with an immediate first emission
func EveryNow[M any](d time.Duration, fn func(time.Time) M) Subscription[M] {
	return SubFunc[M](func(ctx context.Context, clk clock.Clock) <-chan M {
		out := make(chan M)
		go func() {
			defer close(out)
			if !send(ctx, out, fn(clk.Now())) {
				return
			}
			tk := clk.Ticker(d)
			defer tk.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case t := <-tk.C():
					if !send(ctx, out, fn(t)) {
						return
					}
				}
			}
		}()
		return out
	})
}

// After emits a single message once the delay elapses, then ends
func After[M any](d time.Duration, msg M) Subscription[M] {
	return SubFunc[M](func(ctx context.Context, clk clock.Clock) <-chan M {
		out := make(chan M, 1)
		go func() {
			defer close(out)
			select {
			case <-ctx.Done():
			case <-clk.After(d):
				send(ctx, out, msg)
			}
		}()
		return out
	})
}

// FromChannel forwards messages from an external channel until it
// closes or the context ends
func FromChannel[M any](ch <-chan M) Subscription[M] {
	return SubFunc[M](func(ctx context.Context, clk clock.Clock) <-chan M {
		out := make(chan M)
		go func() {
			defer close(out)
			for {
				select {
				case <-ctx.Done():
					return
				case m, ok := <-ch:
					if !ok {
						return
					}
					if !send(ctx, out, m) {
						return
					}
				}
			}
		}()
		return out
	})
}

// TerminalEvents converts terminal events from a source channel into
// messages; fn returning false drops the event
func TerminalEvents[M any](src <-chan terminal.Event, fn func(terminal.Event) (M, bool)) Subscription[M] {
	return SubFunc[M](func(ctx context.Context, clk clock.Clock) <-chan M {
		out := make(chan M)
		go func() {
			defer close(out)
			for {
				select {
				case <-ctx.Done():
					return
				case ev, ok := <-src:
					if !ok {
						return
					}
					if m, want := fn(ev); want {
						if !send(ctx, out, m) {
							return
						}
					}
				}
			}
		}()
		return out
	})
}

// MapSub converts a subscription's message type
func MapSub[M, N any](sub Subscription[M], fn func(M) N) Subscription[N] {
	return SubFunc[N](func(ctx context.Context, clk clock.Clock) <-chan N {
		out := make(chan N)
		go func() {
			defer close(out)
			in := sub.Stream(ctx, clk)
			for {
				select {
				case <-ctx.Done():
					return
				case m, ok := <-in:
					if !ok {
						return
					}
					if !send(ctx, out, fn(m)) {
						return
					}
				}
			}
		}()
		return out
	})
}

// FilterSub drops messages failing the predicate
func FilterSub[M any](sub Subscription[M], pred func(M) bool) Subscription[M] {
	return SubFunc[M](func(ctx context.Context, clk clock.Clock) <-chan M {
		out := make(chan M)
		go func() {
			defer close(out)
			in := sub.Stream(ctx, clk)
			for {
				select {
				case <-ctx.Done():
					return
				case m, ok := <-in:
					if !ok {
						return
					}
					if pred(m) && !send(ctx, out, m) {
						return
					}
				}
			}
		}()
		return out
	})
}

// TakeSub ends the stream after n messages, cancelling the upstream.
// n <= 0 ends immediately.
func TakeSub[M any](sub Subscription[M], n int) Subscription[M] {
	return SubFunc[M](func(ctx context.Context, clk clock.Clock) <-chan M {
		out := make(chan M)
		if n <= 0 {
			close(out)
			return out
		}
		go func() {
			defer close(out)
			inner, cancel := context.WithCancel(ctx)
			defer cancel()
			in := sub.Stream(inner, clk)
			taken := 0
			for taken < n {
				select {
				case <-ctx.Done():
					return
				case m, ok := <-in:
					if !ok {
						return
					}
					if !send(ctx, out, m) {
						return
					}
					taken++
				}
			}
		}()
		return out
	})
}

// Debounce emits a message only after d of upstream silence. When the
// upstream ends with a message still pending, the pending message is
// emitted before closing.
func Debounce[M any](sub Subscription[M], d time.Duration) Subscription[M] {
	return SubFunc[M](func(ctx context.Context, clk clock.Clock) <-chan M {
		out := make(chan M)
		go func() {
			defer close(out)
			in := sub.Stream(ctx, clk)
			var pending M
			var has bool
			var quiet <-chan time.Time
			for {
				select {
				case <-ctx.Done():
					return
				case m, ok := <-in:
					if !ok {
						if has {
							send(ctx, out, pending)
						}
						return
					}
					pending, has = m, true
					quiet = clk.After(d)
				case <-quiet:
					if has && !send(ctx, out, pending) {
						return
					}
					has = false
					quiet = nil
				}
			}
		}()
		return out
	})
}

// Throttle lets one message through, then drops the rest until d has
// elapsed. d <= 0 returns the subscription unchanged.
func Throttle[M any](sub Subscription[M], d time.Duration) Subscription[M] {
	if d <= 0 {
		return sub
	}
	return SubFunc[M](func(ctx context.Context, clk clock.Clock) <-chan M {
		out := make(chan M)
		go func() {
			defer close(out)
			in := sub.Stream(ctx, clk)
			var nextAllowed time.Time
			for {
				select {
				case <-ctx.Done():
					return
				case m, ok := <-in:
					if !ok {
						return
					}
					now := clk.Now()
					if now.Before(nextAllowed) {
						continue
					}
					if !send(ctx, out, m) {
						return
					}
					nextAllowed = now.Add(d)
				}
			}
		}()
		return out
	})
}

// BatchSub merges subscriptions into one stream. With no arguments
// the stream ends immediately.
func BatchSub[M any](subs ...Subscription[M]) Subscription[M] {
	return SubFunc[M](func(ctx context.Context, clk clock.Clock) <-chan M {
		out := make(chan M)
		if len(subs) == 0 {
			close(out)
			return out
		}
		var wg sync.WaitGroup
		for _, sub := range subs {
			wg.Add(1)
			go func(s Subscription[M]) {
				defer wg.Done()
				in := s.Stream(ctx, clk)
				for {
					select {
					case <-ctx.Done():
						return
					case m, ok := <-in:
						if !ok {
							return
						}
						if !send(ctx, out, m) {
							return
						}
					}
				}
			}(sub)
		}
		go func() {
			wg.Wait()
			close(out)
		}()
		return out
	})
}
