package realtime

import (
	"context"
	"log/slog"

	"github.com/comalice/dispatchx"
)

// RequestSource supplies transition requests from outside the loop, such as
// operator input or a supervising process.
type RequestSource interface {
	Requests() <-chan dispatchx.StateID
}

// ChannelSource is a RequestSource backed by a Go channel.
type ChannelSource struct {
	ch chan dispatchx.StateID
}

// NewChannelSource creates a ChannelSource buffering up to size requests.
func NewChannelSource(size int) *ChannelSource {
	return &ChannelSource{ch: make(chan dispatchx.StateID, size)}
}

func (s *ChannelSource) Requests() <-chan dispatchx.StateID {
	return s.ch
}

// Send queues a request. It reports false, dropping the request, when the
// buffer is full.
func (s *ChannelSource) Send(id dispatchx.StateID) bool {
	select {
	case s.ch <- id:
		return true
	default:
		return false
	}
}

// Close ends the source; Attach returns once pending requests are consumed.
func (s *ChannelSource) Close() {
	close(s.ch)
}

// Attach forwards requests from src to the loop until ctx is done, the
// source is closed or the loop stops. Rejected requests are logged and
// skipped. Requests arriving between two ticks overwrite each other, so only
// the last one takes effect.
func (l *Loop[C]) Attach(ctx context.Context, src RequestSource) {
	reqs := src.Requests()
	for {
		select {
		case <-ctx.Done():
			return
		case <-l.stopped:
			return
		case id, ok := <-reqs:
			if !ok {
				return
			}
			if err := l.RequestTransition(id); err != nil {
				l.logger.Warn("request from source rejected", slog.Int("state_id", int(id)), slog.Any("error", err))
			}
		}
	}
}
