// Package engine drives USI engine processes: it spawns the subordinate
// process, performs the handshake and readiness exchange, hands the
// output stream to a background listener, and offers a non-blocking
// threaded facade on top of the raw session handler.
package engine

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"

	"usikit"
)

// phase tracks the session's position in the protocol lifecycle. It
// only ever moves forward: pre-handshake → handshake started →
// listening. The listener hand-off additionally nils the scanner, so a
// reuse attempt is a typed error rather than a nil dereference.
type phase int

const (
	phasePreHandshake phase = iota
	phaseHandshakeStarted
	phaseListening
)

// Hook is called by the listener loop for each decoded engine command.
// Returning an error terminates the loop; the error is delivered as the
// loop's final outcome, wrapped in usikit.HookError.
type Hook func(usikit.EngineCommand) error

// Handler owns a spawned USI engine process and its two pipe halves.
//
// A Handler is confined to a single goroutine: the caller (in practice
// the ThreadedEngine control goroutine) is the only writer to the
// process's input stream, so writes need no locking. The one crossing
// point is Listen, which transfers exclusive ownership of the output
// stream to a background goroutine — after that hand-off GetInfo and
// Prepare fail with usikit.ErrIllegalOperation.
type Handler struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	writer *bufio.Writer

	mu      sync.Mutex
	phase   phase
	scanner *bufio.Scanner // output stream; nil once handed to the listener

	reapOnce sync.Once
}

// Spawn launches the engine executable with piped standard input and
// output and returns a Handler in the pre-handshake phase.
func Spawn(path, workingDir string, args []string, opts ...Option) (*Handler, error) {
	o := resolveOptions(opts...)

	cmd := exec.Command(path, args...)
	cmd.Dir = workingDir

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("engine: stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("engine: stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("engine: spawn %s: %w", path, err)
	}

	return &Handler{
		cmd:     cmd,
		stdin:   stdin,
		writer:  bufio.NewWriter(stdin),
		scanner: newLineScanner(stdout, o.ScannerBuffer),
	}, nil
}

func newLineScanner(r io.Reader, maxLine int) *bufio.Scanner {
	sc := bufio.NewScanner(r)
	initCap := min(4096, maxLine)
	sc.Buffer(make([]byte, 0, initCap), maxLine)
	return sc
}

// SendCommandBeforeHandshake writes a command while the session is still
// in the pre-handshake phase. Some engines need dialect configuration
// before the formal "usi" exchange (Fairy-Stockfish's Protocol and
// UCI_Variant options). Returns usikit.ErrIllegalOperation once the
// handshake has started; the phase never resets.
func (h *Handler) SendCommandBeforeHandshake(cmd usikit.GuiCommand) error {
	h.mu.Lock()
	ok := h.phase == phasePreHandshake
	h.mu.Unlock()
	if !ok {
		return usikit.ErrIllegalOperation
	}
	return h.send(cmd)
}

// GetInfo performs the handshake: it sends "usi" and decodes output
// lines until "usiok", collecting the engine's declared name and
// options. Calling GetInfo irreversibly ends the pre-handshake phase,
// even when the handshake itself fails.
//
// Lines that do not parse as USI commands are skipped — non-conformant
// engines emit foreign-dialect noise during startup. Any other decode
// failure (stream closed, read error) aborts. Returns
// usikit.ErrIllegalOperation if the output stream has already been
// handed to a listener.
func (h *Handler) GetInfo() (*Info, error) {
	sc, err := h.acquireScanner()
	if err != nil {
		return nil, err
	}

	info := &Info{options: make(map[string]string)}
	if err := h.send(usikit.Usi()); err != nil {
		return nil, err
	}
	for {
		cmd, err := nextCommand(sc)
		if errors.Is(err, usikit.ErrIllegalSyntax) {
			continue
		}
		if err != nil {
			return nil, err
		}
		switch cmd.Type {
		case usikit.EngineID:
			if cmd.ID.Attr == usikit.IDName {
				info.name = cmd.ID.Value
			}
		case usikit.EngineOptionDecl:
			info.options[cmd.Option.Name] = cmd.Option.Default
		case usikit.EngineUsiOk:
			return info, nil
		}
	}
}

// Prepare sends "isready" and blocks until the engine acknowledges with
// "readyok", discarding everything else. Same syntax tolerance and same
// hand-off precondition as GetInfo.
func (h *Handler) Prepare() error {
	sc, err := h.acquireScanner()
	if err != nil {
		return err
	}

	if err := h.send(usikit.IsReady()); err != nil {
		return err
	}
	for {
		cmd, err := nextCommand(sc)
		if errors.Is(err, usikit.ErrIllegalSyntax) {
			continue
		}
		if err != nil {
			return err
		}
		if cmd.Type == usikit.EngineReadyOk {
			return nil
		}
	}
}

// acquireScanner returns the output scanner for a blocking exchange and
// marks the handshake as started. Fails once the stream has been handed
// to a listener.
func (h *Handler) acquireScanner() (*bufio.Scanner, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.scanner == nil {
		return nil, usikit.ErrIllegalOperation
	}
	if h.phase == phasePreHandshake {
		h.phase = phaseHandshakeStarted
	}
	return h.scanner, nil
}

// SendCommand encodes and writes one command. No response is awaited.
func (h *Handler) SendCommand(cmd usikit.GuiCommand) error {
	return h.send(cmd)
}

func (h *Handler) send(cmd usikit.GuiCommand) error {
	line, err := cmd.Encode()
	if err != nil {
		return err
	}
	if _, err := h.writer.WriteString(line + "\n"); err != nil {
		return fmt.Errorf("engine: write %q: %w", line, err)
	}
	if err := h.writer.Flush(); err != nil {
		return fmt.Errorf("engine: write %q: %w", line, err)
	}
	return nil
}

// Kill sends "quit" and then forcibly terminates the process. The write
// comes first so a conforming engine can exit cleanly — which means a
// failed write short-circuits and the process is guaranteed dead only
// when Kill returns nil. Close is the unconditional variant.
func (h *Handler) Kill() error {
	if err := h.send(usikit.Quit()); err != nil {
		return err
	}
	return h.terminate()
}

// Close tears down the session. Unlike Kill, the "quit" write is
// best-effort and the process is terminated regardless of its outcome,
// so a session cannot leak its child process. Safe to call more than
// once.
func (h *Handler) Close() error {
	_ = h.send(usikit.Quit())
	_ = h.stdin.Close()
	return h.terminate()
}

func (h *Handler) terminate() error {
	err := h.cmd.Process.Kill()
	if err != nil && !errors.Is(err, os.ErrProcessDone) {
		return fmt.Errorf("engine: kill: %w", err)
	}
	h.mu.Lock()
	listening := h.phase == phaseListening
	h.mu.Unlock()
	// The listener goroutine reaps after its final read; reaping here
	// would close the output pipe under it.
	if !listening {
		h.reapOnce.Do(func() { _ = h.cmd.Wait() })
	}
	return nil
}

// Listen takes exclusive ownership of the output stream and starts a
// detached goroutine that decodes each line and invokes hook. The
// hand-off happens at most once: a second Listen, or GetInfo/Prepare
// afterwards, fails with usikit.ErrIllegalOperation.
//
// Listen returns immediately after the hand-off. The returned channel
// carries the loop's single final outcome: a usikit.HookError when the
// hook failed, the decode failure otherwise. Syntax errors never
// terminate the loop. There is no cooperative cancellation — the loop
// ends when the process closes its output stream (see Kill/Close).
func (h *Handler) Listen(hook Hook) (<-chan error, error) {
	h.mu.Lock()
	if h.scanner == nil {
		h.mu.Unlock()
		return nil, usikit.ErrIllegalOperation
	}
	sc := h.scanner
	h.scanner = nil
	h.phase = phaseListening
	h.mu.Unlock()

	errc := make(chan error, 1)
	go func() {
		errc <- h.listenLoop(sc, hook)
	}()
	return errc, nil
}

func (h *Handler) listenLoop(sc *bufio.Scanner, hook Hook) error {
	// The listener owns the output stream, so it also reaps the process
	// once the stream ends. cmd is nil only in stream-level tests.
	defer h.reapOnce.Do(func() {
		if h.cmd != nil {
			_ = h.cmd.Wait()
		}
	})

	for {
		cmd, err := nextCommand(sc)
		if errors.Is(err, usikit.ErrIllegalSyntax) {
			continue
		}
		if err != nil {
			return err
		}
		if err := hook(cmd); err != nil {
			return &usikit.HookError{Err: err}
		}
	}
}

func nextCommand(sc *bufio.Scanner) (usikit.EngineCommand, error) {
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return usikit.EngineCommand{}, fmt.Errorf("engine: read: %w", err)
		}
		return usikit.EngineCommand{}, fmt.Errorf("engine: output stream closed: %w", io.EOF)
	}
	return usikit.ParseEngineCommand(sc.Text())
}
