package engine

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"usikit"
)

// Sentinel engine names reported by NewThreadedEngine when the
// background startup could not produce a real one.
const (
	// FailedEngineName is reported when the engine process could not be
	// spawned at all.
	FailedEngineName = "Engine Failed"

	// UnknownEngineName is reported when the handshake failed or timed
	// out.
	UnknownEngineName = "Unknown"
)

// MoveResign is the reserved move-result value signalling resignation or
// an unfavorable mate-search outcome. It is a protocol-level signal, not
// a board move; callers must check for it before interpreting a result
// as a move.
const MoveResign = "resign"

// ThreadedEngine is a non-blocking facade over a Handler. The live
// session runs entirely on a dedicated control goroutine; callers only
// enqueue commands and poll a move-result queue, and never block on
// engine I/O after construction.
//
// The facade deliberately trades observability for a never-blocking
// caller experience: spawn and handshake failures degrade to sentinel
// names, and per-command transport failures are swallowed. Done exposes
// the control goroutine's exit for callers that need a health signal.
type ThreadedEngine struct {
	commands chan usikit.GuiCommand
	done     chan struct{}
	name     string

	// mu guards the move receiver against accidental concurrent polling;
	// in normal use a single caller polls.
	mu    sync.Mutex
	moves chan string
}

// NewThreadedEngine spawns the engine described by cfg on a background
// control goroutine and returns a facade over it.
//
// The only terminal error is failing to resolve a working directory;
// everything else — unreachable executable, failed handshake — degrades
// to a sentinel Name and a facade whose commands go nowhere. The call
// blocks up to the name timeout (default 10s) waiting for the handshake
// to report the engine name.
func NewThreadedEngine(cfg Config, opts ...Option) (*ThreadedEngine, error) {
	o := resolveOptions(opts...)

	workDir := cfg.WorkingDir
	if workDir == "" {
		if cfg.Path == "" {
			return nil, fmt.Errorf("engine: cannot determine working directory: empty engine path")
		}
		workDir = filepath.Dir(cfg.Path)
	}

	e := &ThreadedEngine{
		commands: make(chan usikit.GuiCommand, o.CommandBuffer),
		moves:    make(chan string, o.MoveBuffer),
		done:     make(chan struct{}),
	}

	// One-shot: the control goroutine sends exactly one name. Buffered so
	// the send never blocks if this constructor has already timed out.
	namec := make(chan string, 1)
	go e.run(cfg, workDir, o, namec)

	select {
	case name := <-namec:
		e.name = name
	case <-time.After(o.NameTimeout):
		e.name = UnknownEngineName
	}
	return e, nil
}

// Name returns the engine name captured during construction. It never
// changes afterwards; FailedEngineName and UnknownEngineName report a
// failed startup.
func (e *ThreadedEngine) Name() string { return e.name }

// SetPosition enqueues a position command. The payload is passed through
// verbatim ("startpos …" or "sfen …" form).
func (e *ThreadedEngine) SetPosition(position string) {
	e.enqueue(usikit.Position(position))
}

// Go enqueues a search with the given parameters.
func (e *ThreadedEngine) Go(params usikit.ThinkParams) {
	e.enqueue(usikit.Go(params))
}

// GoByoyomi enqueues a search with a fixed per-move time allowance.
func (e *ThreadedEngine) GoByoyomi(d time.Duration) {
	e.Go(usikit.ThinkParams{Byoyomi: d})
}

// GoInfinite enqueues a search that runs until Stop.
func (e *ThreadedEngine) GoInfinite() {
	e.Go(usikit.ThinkParams{Infinite: true})
}

// GoMate enqueues a mate search, unbounded when timeout is nil.
func (e *ThreadedEngine) GoMate(timeout *time.Duration) {
	if timeout == nil {
		e.Go(usikit.ThinkParams{Mate: usikit.MateInfinite()})
	} else {
		e.Go(usikit.ThinkParams{Mate: usikit.MateIn(*timeout)})
	}
}

// Stop enqueues a stop command. This is a protocol-level hint to the
// engine, not a cancellation primitive; an in-flight move result may
// still arrive.
func (e *ThreadedEngine) Stop() {
	e.enqueue(usikit.Stop())
}

// SetOption enqueues a setoption command. A nil value sends the
// valueless form. Call IsReady afterwards to make the engine confirm it
// has processed the change.
func (e *ThreadedEngine) SetOption(name string, value *string) {
	e.enqueue(usikit.SetOption(name, value))
}

// IsReady enqueues a readiness query.
func (e *ThreadedEngine) IsReady() {
	e.enqueue(usikit.IsReady())
}

// PollMove returns the next queued move result without blocking. The
// second return is false both when no result is queued and when the
// session has died — use Done to tell the two apart.
func (e *ThreadedEngine) PollMove() (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	select {
	case mv := <-e.moves:
		return mv, true
	default:
		return "", false
	}
}

// Done is closed when the control goroutine exits, whether through Close
// or because the session died. After Done, all commands are no-ops and
// PollMove drains whatever results were already queued.
func (e *ThreadedEngine) Done() <-chan struct{} { return e.done }

// Close enqueues a quit command. It does not wait for the control
// goroutine to finish; process teardown completes asynchronously.
func (e *ThreadedEngine) Close() {
	e.enqueue(usikit.Quit())
}

// enqueue queues a command for the control goroutine. Once the control
// goroutine has exited the command is silently dropped — by design, the
// facade never surfaces transport failures.
func (e *ThreadedEngine) enqueue(cmd usikit.GuiCommand) {
	select {
	case e.commands <- cmd:
	case <-e.done:
	}
}

// run is the control goroutine: it owns the Handler exclusively and is
// the only writer to the engine's input stream, so commands reach the
// engine in enqueue order with no locking.
func (e *ThreadedEngine) run(cfg Config, workDir string, o Options, namec chan<- string) {
	defer close(e.done)

	h, err := Spawn(cfg.Path, workDir, cfg.Args, WithScannerBuffer(o.ScannerBuffer))
	if err != nil {
		namec <- FailedEngineName
		return
	}
	defer h.Close()

	// Pre-handshake options are best-effort; engines that don't need
	// them ignore the failure mode entirely.
	for _, opt := range cfg.PreHandshakeOptions {
		_ = h.SendCommandBeforeHandshake(usikit.SetOption(opt.Name, opt.Value))
	}

	name := UnknownEngineName
	if info, err := h.GetInfo(); err == nil {
		name = info.Name()
	}
	namec <- name

	if err := h.Prepare(); err != nil {
		return
	}
	if err := h.SendCommand(usikit.NewGame()); err != nil {
		return
	}
	if _, err := h.Listen(e.filterMoves); err != nil {
		return
	}

	for cmd := range e.commands {
		// Best-effort delivery: a transport failure on a single command
		// never ends the session. Quit always ends the loop, delivered
		// or not.
		_ = h.SendCommand(cmd)
		if cmd.Type == usikit.GuiQuit {
			return
		}
	}
}

// filterMoves is the listener hook: it narrows the engine's command
// stream down to a single stream of move-result strings.
func (e *ThreadedEngine) filterMoves(cmd usikit.EngineCommand) error {
	switch cmd.Type {
	case usikit.EngineBestMove:
		switch {
		case cmd.BestMove.Resign:
			e.pushMove(MoveResign)
		case cmd.BestMove.Win:
			// A win declaration carries no move to forward.
		default:
			e.pushMove(cmd.BestMove.Move)
		}
	case usikit.EngineCheckmate:
		if cmd.Checkmate.Status == usikit.CheckmateFound {
			if len(cmd.Checkmate.Moves) > 0 {
				e.pushMove(cmd.Checkmate.Moves[0])
			}
		} else {
			// nomate, notimplemented and timeout all collapse to the
			// resignation sentinel.
			e.pushMove(MoveResign)
		}
	}
	return nil
}

func (e *ThreadedEngine) pushMove(mv string) {
	select {
	case e.moves <- mv:
	default:
		// Queue full: the poller has abandoned the session. Dropping here
		// keeps the listener from blocking forever on a reader that will
		// never come back.
	}
}
