package dispatchx

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// StateID is the position of a state in its table.
type StateID int

// NullStateID is reported by CurrentID while no table state is active.
const NullStateID StateID = -1

// NullStateName is the name of the idle state.
const NullStateName = "NullState"

// Reason tells a handler why it is being invoked.
type Reason int

const (
	Enter Reason = iota
	Do
	Exit
)

func (r Reason) String() string {
	switch r {
	case Enter:
		return "enter"
	case Do:
		return "do"
	case Exit:
		return "exit"
	default:
		return fmt.Sprintf("reason(%d)", int(r))
	}
}

// Handler reacts to the lifecycle of one state. The value returned for Do
// is handed back by Step; its meaning belongs to the application.
type Handler[C any] interface {
	Handle(d *Dispatcher[C], reason Reason, ctx C) bool
}

// HandlerFunc adapts a plain function to Handler.
type HandlerFunc[C any] func(d *Dispatcher[C], reason Reason, ctx C) bool

func (f HandlerFunc[C]) Handle(d *Dispatcher[C], reason Reason, ctx C) bool {
	return f(d, reason, ctx)
}

// State describes one entry of a state table.
type State[C any] struct {
	Name    string
	Handler Handler[C]
}

// Transition is published after the dispatcher changed its current state.
type Transition struct {
	MachineID string    `json:"machineID" yaml:"machineID"`
	FromID    StateID   `json:"fromID" yaml:"fromID"`
	From      string    `json:"from" yaml:"from"`
	ToID      StateID   `json:"toID" yaml:"toID"`
	To        string    `json:"to" yaml:"to"`
	Seq       uint64    `json:"seq" yaml:"seq"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
}

// Publisher receives transition records. Errors are logged and otherwise
// ignored.
type Publisher interface {
	Publish(t Transition) error
}

// Dispatcher drives a table of states through enter/do/exit.
//
// A Dispatcher is not safe for concurrent use. Handlers run on the goroutine
// calling Step or Reset; use realtime.Loop to share one across goroutines.
type Dispatcher[C any] struct {
	id       string
	table    []State[C]
	handlers []Handler[C] // table handlers after middleware, same order
	null     Handler[C]
	ctx      C

	initial StateID
	current StateID
	next    StateID
	seq     uint64

	logger     *slog.Logger
	publishers []Publisher
	middleware []Middleware[C]
}

// New creates a dispatcher over table that will enter table[initial] on the
// first Step. The table is kept, not copied, and must not be modified while
// the dispatcher is in use.
func New[C any](initial StateID, table []State[C], ctx C, opts ...Option[C]) (*Dispatcher[C], error) {
	if len(table) == 0 {
		return nil, ErrEmptyTable
	}
	for i, s := range table {
		if s.Handler == nil {
			return nil, fmt.Errorf("state %d (%q): %w", i, s.Name, ErrNilHandler)
		}
	}
	if initial < 0 || int(initial) >= len(table) {
		return nil, newInvalidStateError(initial, len(table), ErrInvalidInitialState)
	}

	d := &Dispatcher[C]{
		id:      uuid.NewString(),
		table:   table,
		ctx:     ctx,
		initial: initial,
		current: NullStateID,
		next:    initial,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(d)
	}

	d.null = d.wrap(NullStateName, HandlerFunc[C](nullHandler[C]))
	d.handlers = make([]Handler[C], len(table))
	for i, s := range table {
		d.handlers[i] = d.wrap(s.Name, s.Handler)
	}
	d.logger = d.logger.With(slog.String("machine", d.id))

	return d, nil
}

// MustNew is like New but panics on error.
func MustNew[C any](initial StateID, table []State[C], ctx C, opts ...Option[C]) *Dispatcher[C] {
	d, err := New(initial, table, ctx, opts...)
	if err != nil {
		panic(fmt.Sprintf("failed to create dispatcher: %v", err))
	}
	return d
}

func nullHandler[C any](*Dispatcher[C], Reason, C) bool {
	return false
}

// Step runs one dispatch cycle. A pending transition exits the current
// state and enters the requested one before Do runs on the (new) current
// state. The result of Do is returned.
func (d *Dispatcher[C]) Step() bool {
	if d.next != d.current {
		from := d.current
		d.handler(from).Handle(d, Exit, d.ctx)

		// Re-read: Exit may have redirected the transition.
		to := d.next
		d.handler(to).Handle(d, Enter, d.ctx)
		d.current = to

		d.transitioned(from, to)
	}
	return d.handler(d.current).Handle(d, Do, d.ctx)
}

// RequestTransition makes table[id] the state entered on the next Step.
// Out of range ids are rejected and leave the pending state untouched.
func (d *Dispatcher[C]) RequestTransition(id StateID) error {
	if id < 0 || int(id) >= len(d.table) {
		err := newInvalidStateError(id, len(d.table), ErrInvalidTransition)
		d.logger.Warn("transition request rejected",
			slog.Int("state_id", int(id)),
			slog.String("current", d.CurrentName()),
		)
		return err
	}
	d.next = id
	return nil
}

// Reset exits the current state, NullState included, and returns the
// dispatcher to its post-construction state.
func (d *Dispatcher[C]) Reset() {
	from := d.current
	d.handler(from).Handle(d, Exit, d.ctx)
	d.current = NullStateID
	d.next = d.initial
	if from != NullStateID {
		d.transitioned(from, NullStateID)
	}
}

// CurrentID returns the id of the active state, or NullStateID when idle.
func (d *Dispatcher[C]) CurrentID() StateID {
	return d.current
}

// CurrentName returns the name of the active state.
func (d *Dispatcher[C]) CurrentName() string {
	return d.NameOf(d.current)
}

// Active reports whether a table state is current.
func (d *Dispatcher[C]) Active() bool {
	return d.current != NullStateID
}

// NextID returns the state that will be current after the next Step.
func (d *Dispatcher[C]) NextID() StateID {
	return d.next
}

func (d *Dispatcher[C]) InitialID() StateID {
	return d.initial
}

// Len returns the number of states in the table.
func (d *Dispatcher[C]) Len() int {
	return len(d.table)
}

// NameOf returns the name of state id, NullStateName for NullStateID and ""
// for ids outside the table.
func (d *Dispatcher[C]) NameOf(id StateID) string {
	if id == NullStateID {
		return NullStateName
	}
	if id < 0 || int(id) >= len(d.table) {
		return ""
	}
	return d.table[id].Name
}

// Context returns the value passed to every handler.
func (d *Dispatcher[C]) Context() C {
	return d.ctx
}

// ID returns the machine id used in logs and transition records.
func (d *Dispatcher[C]) ID() string {
	return d.id
}

func (d *Dispatcher[C]) handler(id StateID) Handler[C] {
	if id == NullStateID {
		return d.null
	}
	return d.handlers[id]
}

func (d *Dispatcher[C]) transitioned(from, to StateID) {
	d.seq++
	t := Transition{
		MachineID: d.id,
		FromID:    from,
		From:      d.NameOf(from),
		ToID:      to,
		To:        d.NameOf(to),
		Seq:       d.seq,
		Timestamp: time.Now(),
	}
	d.logger.Debug("state transition",
		slog.String("from", t.From),
		slog.String("to", t.To),
		slog.Uint64("seq", t.Seq),
	)
	for _, p := range d.publishers {
		if err := p.Publish(t); err != nil {
			d.logger.Warn("publish transition failed",
				slog.String("from", t.From),
				slog.String("to", t.To),
				slog.Any("error", err),
			)
		}
	}
}
