package dispatchx

import (
	"errors"
	"fmt"
)

// Table is a state table authored by name. It can be passed anywhere a
// []State[C] is expected.
type Table[C any] []State[C]

// Index returns the id of the first state called name.
func (t Table[C]) Index(name string) (StateID, bool) {
	for i, s := range t {
		if s.Name == name {
			return StateID(i), true
		}
	}
	return NullStateID, false
}

// Names returns the state names in id order.
func (t Table[C]) Names() []string {
	names := make([]string, len(t))
	for i, s := range t {
		names[i] = s.Name
	}
	return names
}

// TableBuilder provides a fluent API for constructing state tables using
// state names instead of hand-numbered ids.
type TableBuilder[C any] struct {
	nextID   StateID
	nameToID map[string]StateID
	idToName map[StateID]string // For reverse lookup
	states   map[StateID]*StateBuilder[C]
}

// StateBuilder configures a single state.
type StateBuilder[C any] struct {
	name    string
	handler Handler[C]
	enter   func(d *Dispatcher[C], ctx C)
	do      func(d *Dispatcher[C], ctx C) bool
	exit    func(d *Dispatcher[C], ctx C)
}

func NewTableBuilder[C any]() *TableBuilder[C] {
	return &TableBuilder[C]{
		nameToID: make(map[string]StateID),
		idToName: make(map[StateID]string),
		states:   make(map[StateID]*StateBuilder[C]),
	}
}

// State creates or retrieves a state by name. Ids follow first mention,
// whether by State or by ID.
func (b *TableBuilder[C]) State(name string) *StateBuilder[C] {
	id := b.assignID(name)
	sb := b.states[id]
	if sb == nil {
		sb = &StateBuilder[C]{name: name}
		b.states[id] = sb
	}
	return sb
}

// ID returns the id for name, reserving one if the state is not defined
// yet. Forward references are checked by Build.
func (b *TableBuilder[C]) ID(name string) StateID {
	return b.assignID(name)
}

// Lookup returns the id for an already mentioned name.
func (b *TableBuilder[C]) Lookup(name string) (StateID, bool) {
	id, ok := b.nameToID[name]
	return id, ok
}

// Build validates the table and returns it in id order.
func (b *TableBuilder[C]) Build() (Table[C], error) {
	if b.nextID == 0 {
		return nil, ErrEmptyTable
	}

	var errs []error
	table := make(Table[C], b.nextID)
	for id := StateID(0); id < b.nextID; id++ {
		name := b.idToName[id]
		sb, ok := b.states[id]
		if !ok {
			errs = append(errs, fmt.Errorf("state %q referenced but never defined", name))
			continue
		}
		h := sb.build()
		if h == nil {
			errs = append(errs, fmt.Errorf("state %q: %w", name, ErrNilHandler))
			continue
		}
		table[id] = State[C]{Name: name, Handler: h}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return table, nil
}

// assignID returns the existing id for a name or hands out the next one.
func (b *TableBuilder[C]) assignID(name string) StateID {
	if id, exists := b.nameToID[name]; exists {
		return id
	}

	id := b.nextID
	b.nextID++
	b.nameToID[name] = id
	b.idToName[id] = name
	return id
}

// Handler sets the state's handler. It takes precedence over Entry, Do and
// Exit.
func (sb *StateBuilder[C]) Handler(h Handler[C]) *StateBuilder[C] {
	sb.handler = h
	return sb
}

// HandlerFunc is Handler for plain functions.
func (sb *StateBuilder[C]) HandlerFunc(f func(d *Dispatcher[C], reason Reason, ctx C) bool) *StateBuilder[C] {
	if f == nil {
		sb.handler = nil
		return sb
	}
	return sb.Handler(HandlerFunc[C](f))
}

// Entry sets the action run when the state is entered.
func (sb *StateBuilder[C]) Entry(action func(d *Dispatcher[C], ctx C)) *StateBuilder[C] {
	sb.enter = action
	return sb
}

// Do sets the action run on every Step while the state is current.
func (sb *StateBuilder[C]) Do(action func(d *Dispatcher[C], ctx C) bool) *StateBuilder[C] {
	sb.do = action
	return sb
}

// Exit sets the action run when the state is left.
func (sb *StateBuilder[C]) Exit(action func(d *Dispatcher[C], ctx C)) *StateBuilder[C] {
	sb.exit = action
	return sb
}

func (sb *StateBuilder[C]) build() Handler[C] {
	if sb.handler != nil {
		return sb.handler
	}
	if sb.enter == nil && sb.do == nil && sb.exit == nil {
		return nil
	}
	enter, do, exit := sb.enter, sb.do, sb.exit
	return HandlerFunc[C](func(d *Dispatcher[C], reason Reason, ctx C) bool {
		switch reason {
		case Enter:
			if enter != nil {
				enter(d, ctx)
			}
		case Do:
			if do != nil {
				return do(d, ctx)
			}
		case Exit:
			if exit != nil {
				exit(d, ctx)
			}
		}
		return false
	})
}
