package monitor

import (
	"context"
	"time"
)

// DefaultInterval is the tick period spec §4.8 defaults to.
const DefaultInterval = 5 * time.Second

// Loop drives Collector on a fixed interval, feeding every tick's
// Report to Renderer until ctx is cancelled. Cancellation is honored
// at the next tick boundary, never mid-tick (spec §4.8/§5).
type Loop struct {
	Collector *Collector
	Renderer  Renderer
	Interval  time.Duration
}

// NewLoop builds a Loop with DefaultInterval if interval is zero.
func NewLoop(c *Collector, r Renderer, interval time.Duration) *Loop {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Loop{Collector: c, Renderer: r, Interval: interval}
}

// Run ticks until ctx is done and then returns nil, whatever ctx.Err()
// is; a Render error ends the loop early and is returned.
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.Interval)
	defer ticker.Stop()

	if err := l.tick(ctx); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := l.tick(ctx); err != nil {
				return err
			}
		}
	}
}

func (l *Loop) tick(ctx context.Context) error {
	report := l.Collector.Collect(ctx)
	return l.Renderer.Render(report)
}

// Collect performs exactly one sample-and-render pass and returns,
// implementing the one-shot collect() mode from spec §4.8.
func (l *Loop) Collect(ctx context.Context) error {
	return l.tick(ctx)
}
