// Package production provides integrations for running dispatchers in
// production: transition publishing, metrics and chart export.
package production

import (
	"sync/atomic"

	"github.com/comalice/dispatchx"
)

// ChannelPublisher forwards transitions to a Go channel.
// Non-blocking publish with drop on backpressure.
type ChannelPublisher struct {
	ch      chan<- dispatchx.Transition
	dropped atomic.Uint64
}

// NewChannelPublisher creates a ChannelPublisher with the given output channel.
func NewChannelPublisher(ch chan<- dispatchx.Transition) *ChannelPublisher {
	return &ChannelPublisher{ch: ch}
}

func (p *ChannelPublisher) Publish(t dispatchx.Transition) error {
	select {
	case p.ch <- t:
	default:
		p.dropped.Add(1)
	}
	return nil
}

// Dropped returns how many transitions were discarded on a full channel.
func (p *ChannelPublisher) Dropped() uint64 {
	return p.dropped.Load()
}

func (p *ChannelPublisher) Close() error {
	close(p.ch)
	return nil
}
