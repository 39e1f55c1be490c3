package engine

import "time"

// Default configuration values.
const (
	defaultScannerBuffer = 1 << 20 // 1 MB
	defaultCommandBuffer = 64
	defaultMoveBuffer    = 64
	defaultNameTimeout   = 10 * time.Second
)

// Options holds resolved construction-time configuration for a Handler
// or a ThreadedEngine.
type Options struct {
	// ScannerBuffer is the maximum line size in bytes for the engine
	// output scanner.
	ScannerBuffer int

	// CommandBuffer is the channel buffer size for commands queued to the
	// control goroutine (ThreadedEngine only).
	CommandBuffer int

	// MoveBuffer is the channel buffer size for move results
	// (ThreadedEngine only).
	MoveBuffer int

	// NameTimeout bounds how long NewThreadedEngine waits for the
	// handshake to report the engine name.
	NameTimeout time.Duration
}

// Option configures a Handler or a ThreadedEngine at construction time.
type Option func(*Options)

// WithScannerBuffer sets the maximum line size in bytes for the engine
// output scanner. Values <= 0 are ignored.
func WithScannerBuffer(size int) Option {
	return func(o *Options) {
		if size > 0 {
			o.ScannerBuffer = size
		}
	}
}

// WithCommandBuffer sets the command channel buffer size.
// Values <= 0 are ignored.
func WithCommandBuffer(size int) Option {
	return func(o *Options) {
		if size > 0 {
			o.CommandBuffer = size
		}
	}
}

// WithMoveBuffer sets the move result channel buffer size.
// Values <= 0 are ignored.
func WithMoveBuffer(size int) Option {
	return func(o *Options) {
		if size > 0 {
			o.MoveBuffer = size
		}
	}
}

// WithNameTimeout sets how long NewThreadedEngine waits for the engine
// name before falling back to UnknownEngineName. Values <= 0 are ignored.
func WithNameTimeout(d time.Duration) Option {
	return func(o *Options) {
		if d > 0 {
			o.NameTimeout = d
		}
	}
}

func resolveOptions(opts ...Option) Options {
	o := Options{
		ScannerBuffer: defaultScannerBuffer,
		CommandBuffer: defaultCommandBuffer,
		MoveBuffer:    defaultMoveBuffer,
		NameTimeout:   defaultNameTimeout,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}
