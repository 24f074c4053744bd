package runtime

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/lixenwraith/tui/capture"
	"github.com/lixenwraith/tui/clock"
	"github.com/lixenwraith/tui/terminal"
)

// Runtime drives an App asynchronously: a select loop multiplexes
// messages from commands and subscriptions, terminal input, logic
// ticks, and render ticks. All timing flows through the injected
// clock, so a mock clock makes the whole runtime deterministic.
type Runtime[S, M any] struct {
	core    *Core[S, M]
	handler *CommandHandler[M]
	cfg     Config
	clk     clock.Clock

	msgCh      chan M
	errCh      chan error
	termEvents <-chan terminal.Event

	baseCtx context.Context
	cancel  context.CancelFunc
	subWG   sync.WaitGroup
	futWG   sync.WaitGroup

	lastTick time.Time
	closer   func()
}

// New creates a runtime over an explicit backend and clock. The app's
// Init runs immediately; its command executes before New returns,
// with async effects deferred until the first ProcessPending or Run.
func New[S, M any](app App[S, M], backend terminal.Backend, cfg Config, clk clock.Clock) (*Runtime[S, M], error) {
	state, cmd := app.Init()
	core, err := NewCore(app, state, backend, cfg.Logger)
	if err != nil {
		return nil, err
	}

	baseCtx, cancel := context.WithCancel(clock.Context(context.Background(), clk))
	r := &Runtime[S, M]{
		core:     core,
		handler:  NewCommandHandler[M](cfg.Logger),
		cfg:      cfg,
		clk:      clk,
		msgCh:    make(chan M, cfg.ChannelCapacity),
		errCh:    make(chan error, cfg.ChannelCapacity),
		baseCtx:  baseCtx,
		cancel:   cancel,
		lastTick: clk.Now(),
	}
	r.applyCommand(cmd)
	return r, nil
}

// NewVirtual creates a runtime rendering into a capture backend of
// the given size, for tests and headless use
func NewVirtual[S, M any](app App[S, M], width, height int, cfg Config, clk clock.Clock) (*Runtime[S, M], error) {
	var backend *capture.Backend
	if cfg.CaptureHistory {
		backend = capture.WithHistory(width, height, cfg.HistoryCapacity)
	} else {
		backend = capture.New(width, height)
	}
	return New(app, backend, cfg, clk)
}

// NewTerminal creates a runtime on the real terminal with the wall
// clock. Close tears the terminal down.
func NewTerminal[S, M any](app App[S, M], cfg Config) (*Runtime[S, M], error) {
	backend, err := terminal.NewTcellBackend()
	if err != nil {
		return nil, fmt.Errorf("open terminal: %w", err)
	}
	r, err := New[S, M](app, backend, cfg, clock.NewReal())
	if err != nil {
		backend.Fini()
		return nil, err
	}
	r.termEvents = backend.Events()
	r.closer = backend.Fini
	return r, nil
}

// State returns the application state
func (r *Runtime[S, M]) State() *S {
	return r.core.State()
}

// Core returns the synchronous core
func (r *Runtime[S, M]) Core() *Core[S, M] {
	return r.core
}

// Backend returns the drawing backend
func (r *Runtime[S, M]) Backend() terminal.Backend {
	return r.core.Backend()
}

// Clock returns the runtime's time source
func (r *Runtime[S, M]) Clock() clock.Clock {
	return r.clk
}

// Send queues a terminal event for processing
func (r *Runtime[S, M]) Send(ev terminal.Event) {
	r.core.Queue().Push(ev)
}

// Events returns the input queue for builder-style scripting
func (r *Runtime[S, M]) Events() *EventQueue {
	return r.core.Queue()
}

// MessageSender exposes the message channel for external producers
func (r *Runtime[S, M]) MessageSender() chan<- M {
	return r.msgCh
}

// Dispatch runs one message through Update, executes the returned
// command's sync effects, and keeps going until no follow-up messages
// remain. Overlay operations apply after the dispatch that requested
// them. Async effects are queued; ProcessPending spawns them.
func (r *Runtime[S, M]) Dispatch(m M) {
	cmd := r.core.app.Update(&r.core.state, m)
	r.handler.Execute(cmd)
	r.runFollowups()
}

// DispatchAll dispatches messages in order
func (r *Runtime[S, M]) DispatchAll(msgs ...M) {
	for _, m := range msgs {
		r.Dispatch(m)
	}
}

// applyCommand executes a command outside a message dispatch, e.g.
// the init command
func (r *Runtime[S, M]) applyCommand(cmd Command[M]) {
	r.handler.Execute(cmd)
	r.runFollowups()
}

// runFollowups drains handler state: queued messages go back through
// Update in FIFO order; overlay ops and the quit flag apply after
// each round
func (r *Runtime[S, M]) runFollowups() {
	for {
		r.applyStackOps()
		if r.handler.quit {
			r.handler.quit = false
			r.core.RequestQuit()
		}
		msgs := r.handler.takePending()
		if len(msgs) == 0 {
			return
		}
		for _, m := range msgs {
			cmd := r.core.app.Update(&r.core.state, m)
			r.handler.Execute(cmd)
		}
	}
}

// applyStackOps pops before pushing so a pop+push command replaces
// the top overlay
func (r *Runtime[S, M]) applyStackOps() {
	pushes, pops := r.handler.takeStackOps()
	for i := 0; i < pops; i++ {
		r.core.PopOverlay()
	}
	for _, o := range pushes {
		r.core.PushOverlay(o)
	}
}

// ProcessPending spawns every queued async effect
func (r *Runtime[S, M]) ProcessPending() {
	r.handler.SpawnPending(r.baseCtx, r.msgCh, r.errCh, &r.futWG)
}

// processEvents drains the input queue, dispatching resulting
// messages
func (r *Runtime[S, M]) processEvents() {
	for {
		m, res := r.core.ProcessEvent()
		switch res {
		case EventNone:
			return
		case EventDispatched:
			r.Dispatch(m)
		}
	}
}

// drainMessages dispatches buffered async messages, bounded per call
func (r *Runtime[S, M]) drainMessages() {
	for n := 0; n < r.cfg.MaxMessagesPerTick; n++ {
		select {
		case m := <-r.msgCh:
			r.Dispatch(m)
		default:
			return
		}
	}
}

// Tick runs one logic step: buffered messages, queued input events,
// the app's OnTick, async spawn, then a render
func (r *Runtime[S, M]) Tick() error {
	r.drainMessages()
	r.processEvents()
	r.tickHandler()
	r.ProcessPending()
	return r.core.Render()
}

// RunTicks runs n logic steps
func (r *Runtime[S, M]) RunTicks(n int) error {
	for i := 0; i < n; i++ {
		if err := r.Tick(); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runtime[S, M]) tickHandler() {
	th, ok := any(r.core.app).(TickHandler[S, M])
	if !ok {
		return
	}
	now := r.clk.Now()
	elapsed := now.Sub(r.lastTick)
	r.lastTick = now
	if m, want := th.OnTick(&r.core.state, elapsed); want {
		r.Dispatch(m)
	}
}

// Subscribe starts a subscription; its messages feed the runtime
// until the stream ends or the runtime shuts down
func (r *Runtime[S, M]) Subscribe(sub Subscription[M]) {
	ch := sub.Stream(r.baseCtx, r.clk)
	r.subWG.Add(1)
	go func() {
		defer r.subWG.Done()
		for m := range ch {
			select {
			case r.msgCh <- m:
			case <-r.baseCtx.Done():
				return
			}
		}
		r.cfg.Logger.Debug().Msg("subscription stream ended")
	}()
}

// SubscribeAll starts multiple subscriptions
func (r *Runtime[S, M]) SubscribeAll(subs ...Subscription[M]) {
	for _, s := range subs {
		r.Subscribe(s)
	}
}

// Quit requests shutdown and cancels async work
func (r *Runtime[S, M]) Quit() {
	r.core.RequestQuit()
	r.cancel()
}

// ShouldQuit reports whether shutdown was requested
func (r *Runtime[S, M]) ShouldQuit() bool {
	return r.core.ShouldQuit()
}

// TakeErrors drains and returns buffered async errors
func (r *Runtime[S, M]) TakeErrors() []error {
	var out []error
	for {
		select {
		case err := <-r.errCh:
			out = append(out, err)
		default:
			return out
		}
	}
}

// HasErrors reports whether async errors are buffered
func (r *Runtime[S, M]) HasErrors() bool {
	return len(r.errCh) > 0
}

// Run drives the application until quit or context cancellation.
// Backend I/O errors abort the loop and are returned after teardown.
func (r *Runtime[S, M]) Run(ctx context.Context) error {
	tick := r.clk.Ticker(r.cfg.TickRate)
	defer tick.Stop()
	frameTick := r.clk.Ticker(r.cfg.FrameRate)
	defer frameTick.Stop()

	r.lastTick = r.clk.Now()
	r.ProcessPending()
	if err := r.core.Render(); err != nil {
		return r.shutdown(err)
	}

	for !r.core.ShouldQuit() {
		select {
		case <-ctx.Done():
			r.core.RequestQuit()
		case <-r.baseCtx.Done():
			r.core.RequestQuit()
		case m := <-r.msgCh:
			r.Dispatch(m)
			r.ProcessPending()
		case ev, ok := <-r.termEvents:
			if !ok {
				r.termEvents = nil
				continue
			}
			r.core.Queue().Push(ev)
			r.processEvents()
			r.ProcessPending()
		case <-tick.C():
			r.drainMessages()
			r.processEvents()
			r.tickHandler()
			r.ProcessPending()
		case <-frameTick.C():
			if err := r.core.Render(); err != nil {
				return r.shutdown(err)
			}
		}
	}
	return r.shutdown(nil)
}

// shutdown cancels async work, waits for it, renders a final frame,
// and runs the app's exit hook
func (r *Runtime[S, M]) shutdown(cause error) error {
	r.cancel()
	r.subWG.Wait()
	r.futWG.Wait()

	if cause == nil {
		if err := r.core.Render(); err != nil {
			cause = err
		}
	}
	if eh, ok := any(r.core.app).(ExitHook[S]); ok {
		eh.OnExit(&r.core.state)
	}
	if r.closer != nil {
		r.closer()
	}
	return cause
}

// Close releases runtime resources without running the app loop
func (r *Runtime[S, M]) Close() {
	r.cancel()
	r.subWG.Wait()
	r.futWG.Wait()
	if r.closer != nil {
		r.closer()
	}
}

// Capture returns the virtual backend, or nil when rendering to a
// real terminal
func (r *Runtime[S, M]) Capture() *capture.Backend {
	if b, ok := r.core.Backend().(*capture.Backend); ok {
		return b
	}
	return nil
}

// Screen returns the virtual screen as plain text
func (r *Runtime[S, M]) Screen() string {
	if b := r.Capture(); b != nil {
		return b.String()
	}
	return ""
}

// ScreenANSI returns the virtual screen with ANSI styling
func (r *Runtime[S, M]) ScreenANSI() string {
	if b := r.Capture(); b != nil {
		return b.ANSI()
	}
	return ""
}

// CellAt returns a cell of the virtual screen
func (r *Runtime[S, M]) CellAt(x, y int) terminal.Cell {
	if b := r.Capture(); b != nil {
		return b.Cell(x, y)
	}
	return terminal.NewCell()
}

// ContainsText reports whether the virtual screen shows the text
func (r *Runtime[S, M]) ContainsText(s string) bool {
	if b := r.Capture(); b != nil {
		return b.ContainsText(s)
	}
	return false
}

// FindText locates text on the virtual screen
func (r *Runtime[S, M]) FindText(s string) []capture.Position {
	if b := r.Capture(); b != nil {
		return b.FindText(s)
	}
	return nil
}
