package realtime

import "fmt"

// Tick performs one step synchronously and returns its result.
func (l *Loop[C]) Tick() bool {
	busy, tick := l.step()
	if l.onTick != nil {
		l.onTick(tick, busy)
	}
	return busy
}

func (l *Loop[C]) step() (bool, uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	busy := l.d.Step()
	l.tickNum++
	return busy, l.tickNum
}

// safeTick turns a handler panic into ErrHandlerPanic.
func (l *Loop[C]) safeTick() (busy bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrHandlerPanic, r)
			l.mu.Lock()
			l.err = err
			l.mu.Unlock()
		}
	}()
	return l.Tick(), nil
}
