package runtime

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/lixenwraith/tui/overlay"
)

// handlerCore accumulates the synchronous effects of executed
// commands: dispatched messages, overlay stack operations, and the
// quit flag. Deferred futures are returned to the caller.
type handlerCore[M any] struct {
	pending []M
	pushes  []overlay.Overlay[M]
	pops    int
	quit    bool
}

// execute walks a command's actions in order. Sync effects land in
// the core; futures are returned for the caller to spawn.
func (h *handlerCore[M]) execute(cmd Command[M]) []Future[M] {
	var futures []Future[M]
	for _, a := range cmd.actions {
		switch a.kind {
		case actMessage:
			h.pending = append(h.pending, a.msg)
		case actSync:
			if m, ok := a.sync(); ok {
				h.pending = append(h.pending, m)
			}
		case actFuture:
			futures = append(futures, a.future)
		case actQuit:
			h.quit = true
		case actPushOverlay:
			h.pushes = append(h.pushes, a.push)
		case actPopOverlay:
			h.pops++
		}
	}
	return futures
}

// takePending drains the accumulated messages in FIFO order
func (h *handlerCore[M]) takePending() []M {
	out := h.pending
	h.pending = nil
	return out
}

// takeStackOps drains the overlay pushes and pop count
func (h *handlerCore[M]) takeStackOps() ([]overlay.Overlay[M], int) {
	pushes := h.pushes
	pops := h.pops
	h.pushes = nil
	h.pops = 0
	return pushes, pops
}

// CommandHandler executes commands and owns the deferred futures
// until they are spawned
type CommandHandler[M any] struct {
	handlerCore[M]
	futures []Future[M]
	logger  zerolog.Logger
}

// NewCommandHandler creates a handler logging through the given logger
func NewCommandHandler[M any](logger zerolog.Logger) *CommandHandler[M] {
	return &CommandHandler[M]{logger: logger}
}

// Execute runs a command's sync effects and queues its futures
func (h *CommandHandler[M]) Execute(cmd Command[M]) {
	h.futures = append(h.futures, h.execute(cmd)...)
}

// PendingFutures returns the number of futures awaiting spawn
func (h *CommandHandler[M]) PendingFutures() int {
	return len(h.futures)
}

// SpawnPending launches every queued future on its own goroutine.
// Messages race shutdown on msgCh; errors try-send to errCh and are
// dropped with a debug log when it is full.
func (h *CommandHandler[M]) SpawnPending(ctx context.Context, msgCh chan<- M, errCh chan<- error, wg *sync.WaitGroup) {
	futures := h.futures
	h.futures = nil
	for _, f := range futures {
		f := f
		wg.Add(1)
		go func() {
			defer wg.Done()
			m, ok, err := f(ctx)
			if err != nil {
				select {
				case errCh <- err:
				default:
					h.logger.Debug().Err(err).Msg("error channel full, dropping async error")
				}
			}
			if !ok {
				return
			}
			select {
			case msgCh <- m:
			case <-ctx.Done():
			}
		}()
	}
}
