package chat

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Poller re-fetches a conversation on a fixed interval. The chat is
// fetch-on-demand by contract; polling is the only push substitute.
type Poller struct {
	conv     *Conversation
	interval time.Duration
	log      zerolog.Logger
}

// NewPoller wraps conv with an interval refresher.
func NewPoller(conv *Conversation, interval time.Duration, log zerolog.Logger) *Poller {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	return &Poller{conv: conv, interval: interval, log: log}
}

// Run polls until ctx is cancelled. A value is sent on the returned channel
// whenever a refresh changed the message set. Fetch failures are logged and
// the next tick retries; nothing is retried early.
func (p *Poller) Run(ctx context.Context) <-chan struct{} {
	updates := make(chan struct{}, 1)
	go func() {
		defer close(updates)
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()
		last := p.conv.currentVersion()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
			if err := p.conv.Refresh(ctx); err != nil {
				if ctx.Err() != nil {
					return
				}
				p.log.Warn().Err(err).Msg("chat poll failed")
				continue
			}
			if v := p.conv.currentVersion(); v != last {
				last = v
				select {
				case updates <- struct{}{}:
				default:
				}
			}
		}
	}()
	return updates
}
