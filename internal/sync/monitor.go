package sync

import (
	"context"
	"time"
)

// Prober checks remote reachability. The gateway client implements it;
// tests substitute fakes.
type Prober interface {
	Ping(ctx context.Context) error
}

// DefaultProbeInterval is how often connectivity is checked.
const DefaultProbeInterval = 30 * time.Second

// Monitor polls the prober and feeds connectivity transitions into the
// engine until the context is cancelled. It blocks; run it in its own
// goroutine.
func (e *Engine) Monitor(ctx context.Context, prober Prober, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultProbeInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			probeCtx, cancel := context.WithTimeout(ctx, interval)
			online := prober.Ping(probeCtx) == nil
			cancel()
			e.SetOnline(ctx, online)
		}
	}
}
