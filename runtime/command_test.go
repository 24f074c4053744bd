package runtime

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/tui/frame"
	"github.com/lixenwraith/tui/overlay"
	"github.com/lixenwraith/tui/terminal"
	"github.com/lixenwraith/tui/theme"
)

type tMsg struct {
	tag string
	n   int
}

type nopOverlay struct{}

func (nopOverlay) HandleEvent(terminal.Event) overlay.Action[tMsg] {
	return overlay.Propagate[tMsg]()
}
func (nopOverlay) View(*frame.Frame, frame.Rect, *theme.Theme) {}

func TestCommandConstructors(t *testing.T) {
	require.True(t, None[tMsg]().IsNone())
	require.Equal(t, 0, None[tMsg]().Len())

	require.Equal(t, 1, Message(tMsg{tag: "a"}).Len())
	require.False(t, Message(tMsg{tag: "a"}).IsNone())

	b := Batch(Message(tMsg{tag: "a"}), None[tMsg](), Message(tMsg{tag: "b"}))
	require.Equal(t, 2, b.Len())

	require.Equal(t, 3, Message(tMsg{tag: "a"}).And(b).Len())
}

func TestHandlerCoreExecuteOrder(t *testing.T) {
	var h handlerCore[tMsg]
	cmd := Batch(
		Message(tMsg{tag: "first"}),
		Perform(func() (tMsg, bool) { return tMsg{tag: "second"}, true }),
		Perform(func() (tMsg, bool) { return tMsg{}, false }),
		Quit[tMsg](),
		PushOverlay[tMsg](nopOverlay{}),
		PopOverlay[tMsg](),
	)
	futures := h.execute(cmd)
	require.Empty(t, futures)

	msgs := h.takePending()
	require.Len(t, msgs, 2)
	require.Equal(t, "first", msgs[0].tag)
	require.Equal(t, "second", msgs[1].tag)
	require.Empty(t, h.takePending(), "drain is destructive")

	require.True(t, h.quit)
	pushes, pops := h.takeStackOps()
	require.Len(t, pushes, 1)
	require.Equal(t, 1, pops)
}

func TestHandlerCoreCollectsFutures(t *testing.T) {
	var h handlerCore[tMsg]
	cmd := Batch(
		PerformAsync(func(ctx context.Context) (tMsg, bool) { return tMsg{tag: "x"}, true }),
		PerformAsync(func(ctx context.Context) (tMsg, bool) { return tMsg{}, false }),
	)
	require.Len(t, h.execute(cmd), 2)
	require.Empty(t, h.takePending())
}

func TestCommandClone(t *testing.T) {
	cmd := Batch(
		Message(tMsg{tag: "m"}),
		Perform(func() (tMsg, bool) { return tMsg{}, true }),
		PerformAsync(func(ctx context.Context) (tMsg, bool) { return tMsg{}, true }),
		PushOverlay[tMsg](nopOverlay{}),
		PopOverlay[tMsg](),
		Quit[tMsg](),
	)
	clone := cmd.Clone()
	// messages, pops and quit survive; closures and pushes do not
	require.Equal(t, 3, clone.Len())
}

func TestMapCommand(t *testing.T) {
	type other struct{ s string }
	cmd := Batch(
		Message(tMsg{tag: "a"}),
		Perform(func() (tMsg, bool) { return tMsg{tag: "b"}, true }),
		PushOverlay[tMsg](nopOverlay{}),
		Quit[tMsg](),
	)
	mapped := Map(cmd, func(m tMsg) other { return other{s: m.tag} })
	// push dropped, the rest carried over
	require.Equal(t, 3, mapped.Len())

	var h handlerCore[other]
	h.execute(mapped)
	msgs := h.takePending()
	require.Equal(t, []other{{s: "a"}, {s: "b"}}, msgs)
	require.True(t, h.quit)
}

func TestSpawnPendingDeliversMessages(t *testing.T) {
	h := NewCommandHandler[tMsg](zerolog.Nop())
	h.Execute(PerformAsync(func(ctx context.Context) (tMsg, bool) {
		return tMsg{tag: "async"}, true
	}))
	require.Equal(t, 1, h.PendingFutures())

	msgCh := make(chan tMsg, 1)
	errCh := make(chan error, 1)
	var wg sync.WaitGroup
	h.SpawnPending(context.Background(), msgCh, errCh, &wg)
	require.Equal(t, 0, h.PendingFutures())
	wg.Wait()

	require.Equal(t, "async", (<-msgCh).tag)
}

func TestSpawnPendingRoutesErrors(t *testing.T) {
	boom := errors.New("boom")
	h := NewCommandHandler[tMsg](zerolog.Nop())
	h.Execute(TryPerformAsync(
		func(ctx context.Context) (int, error) { return 0, boom },
		func(v int) tMsg { return tMsg{n: v} },
	))

	msgCh := make(chan tMsg, 1)
	errCh := make(chan error, 1)
	var wg sync.WaitGroup
	h.SpawnPending(context.Background(), msgCh, errCh, &wg)
	wg.Wait()

	require.ErrorIs(t, <-errCh, boom)
	select {
	case <-msgCh:
		t.Fatal("failed effect must not produce a message")
	default:
	}
}

func TestSpawnPendingDropsErrorOnFullChannel(t *testing.T) {
	h := NewCommandHandler[tMsg](zerolog.Nop())
	for i := 0; i < 2; i++ {
		h.Execute(TryPerformAsync(
			func(ctx context.Context) (int, error) { return 0, errors.New("overflow") },
			func(v int) tMsg { return tMsg{} },
		))
	}

	msgCh := make(chan tMsg, 2)
	errCh := make(chan error, 1) // room for only one
	var wg sync.WaitGroup
	h.SpawnPending(context.Background(), msgCh, errCh, &wg)
	wg.Wait() // must not block despite the full channel

	require.Len(t, errCh, 1)
}

func TestTryPerformAsyncSuccess(t *testing.T) {
	h := NewCommandHandler[tMsg](zerolog.Nop())
	h.Execute(TryPerformAsync(
		func(ctx context.Context) (int, error) { return 41, nil },
		func(v int) tMsg { return tMsg{n: v + 1} },
	))

	msgCh := make(chan tMsg, 1)
	errCh := make(chan error, 1)
	var wg sync.WaitGroup
	h.SpawnPending(context.Background(), msgCh, errCh, &wg)
	wg.Wait()

	require.Equal(t, 42, (<-msgCh).n)
	require.Empty(t, errCh)
}

func TestPerformAsyncFallibleMapsBothOutcomes(t *testing.T) {
	h := NewCommandHandler[tMsg](zerolog.Nop())
	h.Execute(PerformAsyncFallible(
		func(ctx context.Context) (string, error) { return "", errors.New("nope") },
		func(v string, err error) tMsg {
			if err != nil {
				return tMsg{tag: "failed"}
			}
			return tMsg{tag: v}
		},
	))

	msgCh := make(chan tMsg, 1)
	errCh := make(chan error, 1)
	var wg sync.WaitGroup
	h.SpawnPending(context.Background(), msgCh, errCh, &wg)
	wg.Wait()

	require.Equal(t, "failed", (<-msgCh).tag)
	require.Empty(t, errCh, "fallible maps errors to messages, not the error channel")
}

func TestSpawnPendingRespectsCancellation(t *testing.T) {
	h := NewCommandHandler[tMsg](zerolog.Nop())
	h.Execute(PerformAsync(func(ctx context.Context) (tMsg, bool) {
		<-ctx.Done()
		return tMsg{tag: "late"}, true
	}))

	ctx, cancel := context.WithCancel(context.Background())
	msgCh := make(chan tMsg) // unbuffered, nobody reads
	errCh := make(chan error, 1)
	var wg sync.WaitGroup
	h.SpawnPending(ctx, msgCh, errCh, &wg)

	cancel()
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("cancelled future did not unwind")
	}
}
