package realtime

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/comalice/dispatchx"
)

// DefaultTickRate is 60 Hz.
const DefaultTickRate = 16667 * time.Microsecond

var (
	ErrAlreadyStarted = errors.New("loop already started")
	ErrHandlerPanic   = errors.New("state handler panicked")
)

// Config configures a Loop.
type Config struct {
	TickRate     time.Duration // Fixed tick rate (default: DefaultTickRate)
	MaxTicks     uint64        // Stop after this many ticks; 0 runs until stopped
	StopWhenIdle bool          // Stop after a step returns false
}

// Option configures a Loop.
type Option[C any] func(*Loop[C])

// WithLogger sets the loop logger.
func WithLogger[C any](logger *slog.Logger) Option[C] {
	return func(l *Loop[C]) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithOnTick registers a callback run after every tick, outside the loop
// lock, with the tick number and the step result.
func WithOnTick[C any](fn func(tick uint64, busy bool)) Option[C] {
	return func(l *Loop[C]) {
		l.onTick = fn
	}
}

// Loop steps a dispatcher on a fixed tick.
type Loop[C any] struct {
	d      *dispatchx.Dispatcher[C]
	cfg    Config
	logger *slog.Logger
	onTick func(tick uint64, busy bool)

	mu      sync.Mutex // guards d and the fields below
	tickNum uint64
	err     error
	started bool
	cancel  context.CancelFunc

	stopped chan struct{}
}

// NewLoop creates a loop for d. The loop takes ownership: once started, d
// must only be reached through the loop.
func NewLoop[C any](d *dispatchx.Dispatcher[C], cfg Config, opts ...Option[C]) *Loop[C] {
	if cfg.TickRate <= 0 {
		cfg.TickRate = DefaultTickRate
	}
	l := &Loop[C]{
		d:       d,
		cfg:     cfg,
		logger:  slog.New(slog.DiscardHandler),
		stopped: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.logger = l.logger.With(slog.String("machine", d.ID()))
	return l
}

// Start launches the tick goroutine. A loop can be started once.
func (l *Loop[C]) Start(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.started {
		return ErrAlreadyStarted
	}
	l.started = true

	tickCtx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	go l.tickLoop(tickCtx)

	l.logger.Info("loop started", slog.Duration("tick_rate", l.cfg.TickRate))
	return nil
}

// Stop ends the loop and waits for the tick goroutine. It returns the error
// that ended the loop, if any, and is safe to call repeatedly.
func (l *Loop[C]) Stop() error {
	l.mu.Lock()
	started, cancel := l.started, l.cancel
	l.mu.Unlock()
	if !started {
		return nil
	}

	cancel()
	<-l.stopped
	return l.Err()
}

// Done is closed when the tick goroutine has exited.
func (l *Loop[C]) Done() <-chan struct{} {
	return l.stopped
}

// Err returns the error that ended the loop.
func (l *Loop[C]) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

// Ticks returns the number of completed ticks.
func (l *Loop[C]) Ticks() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.tickNum
}

// Current returns the id and name of the active state. Like every Loop
// method that takes the lock, it must not be called from a handler during a
// tick; handlers use the *Dispatcher they are passed.
func (l *Loop[C]) Current() (dispatchx.StateID, string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.d.CurrentID(), l.d.CurrentName()
}

// RequestTransition forwards to the dispatcher between two ticks. Handlers
// must call RequestTransition on their own *Dispatcher instead; calling the
// loop from inside a tick deadlocks.
func (l *Loop[C]) RequestTransition(id dispatchx.StateID) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.d.RequestTransition(id)
}

// Reset resets the dispatcher between two ticks. Not for use from handlers.
func (l *Loop[C]) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.d.Reset()
}

// Inspect runs fn with exclusive access to the dispatcher.
func (l *Loop[C]) Inspect(fn func(d *dispatchx.Dispatcher[C])) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fn(l.d)
}

// tickLoop is the main tick execution loop.
func (l *Loop[C]) tickLoop(ctx context.Context) {
	defer close(l.stopped)

	ticker := time.NewTicker(l.cfg.TickRate)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			l.logger.Info("loop stopped", slog.Uint64("ticks", l.Ticks()))
			return
		case <-ticker.C:
			busy, err := l.safeTick()
			if err != nil {
				l.logger.Error("loop aborted", slog.Any("error", err))
				return
			}
			if l.cfg.StopWhenIdle && !busy {
				l.logger.Info("loop idle", slog.Uint64("ticks", l.Ticks()))
				return
			}
			if l.cfg.MaxTicks > 0 && l.Ticks() >= l.cfg.MaxTicks {
				l.logger.Info("loop reached max ticks", slog.Uint64("ticks", l.cfg.MaxTicks))
				return
			}
		}
	}
}
