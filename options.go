package dispatchx

import "log/slog"

// Option configures a Dispatcher during construction.
type Option[C any] func(*Dispatcher[C])

// WithID sets the machine id. The default is a random UUID.
func WithID[C any](id string) Option[C] {
	return func(d *Dispatcher[C]) {
		if id != "" {
			d.id = id
		}
	}
}

// WithLogger sets the logger used for transitions and rejected requests.
func WithLogger[C any](logger *slog.Logger) Option[C] {
	return func(d *Dispatcher[C]) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithPublisher adds a transition publisher. May be given more than once.
func WithPublisher[C any](p Publisher) Option[C] {
	return func(d *Dispatcher[C]) {
		if p != nil {
			d.publishers = append(d.publishers, p)
		}
	}
}

// WithMiddleware wraps every handler, NullState included. The first
// middleware is the outermost.
func WithMiddleware[C any](mw ...Middleware[C]) Option[C] {
	return func(d *Dispatcher[C]) {
		for _, m := range mw {
			if m != nil {
				d.middleware = append(d.middleware, m)
			}
		}
	}
}
