package dispatchx

import (
	"context"
	"log/slog"
	"time"
)

// Middleware decorates the handler of the named state.
type Middleware[C any] func(name string, next Handler[C]) Handler[C]

func (d *Dispatcher[C]) wrap(name string, h Handler[C]) Handler[C] {
	for i := len(d.middleware) - 1; i >= 0; i-- {
		h = d.middleware[i](name, h)
	}
	return h
}

// LoggingMiddleware logs every handler invocation at the given level.
// A nil logger discards.
func LoggingMiddleware[C any](logger *slog.Logger, level slog.Level) Middleware[C] {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return func(name string, next Handler[C]) Handler[C] {
		return HandlerFunc[C](func(d *Dispatcher[C], reason Reason, ctx C) bool {
			if !logger.Enabled(context.Background(), level) {
				return next.Handle(d, reason, ctx)
			}
			start := time.Now()
			result := next.Handle(d, reason, ctx)
			logger.Log(context.Background(), level, "state handler",
				slog.String("machine", d.ID()),
				slog.String("state", name),
				slog.String("reason", reason.String()),
				slog.Bool("result", result),
				slog.Duration("took", time.Since(start)),
			)
			return result
		})
	}
}
