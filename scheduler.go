package goSession

import (
	"context"
	"time"
)

// scheduler drives both periodic cadences off a single ticker: a guard
// recheck on every tick and a full validation every validateEvery ticks.
// Wake forces an immediate validation out of band and resets the cadence.
type scheduler struct {
	tick          time.Duration
	validateEvery int
	wake          chan struct{}

	onRecheck  func(ctx context.Context)
	onValidate func(ctx context.Context)
}

func newScheduler(recheck, validate time.Duration, onRecheck, onValidate func(ctx context.Context)) *scheduler {
	every := int(validate / recheck)
	if every < 1 {
		every = 1
	}
	return &scheduler{
		tick:          recheck,
		validateEvery: every,
		wake:          make(chan struct{}, 1),
		onRecheck:     onRecheck,
		onValidate:    onValidate,
	}
}

// Wake requests an immediate validation. Coalesces when one is already
// pending.
func (s *scheduler) Wake() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *scheduler) run(ctx context.Context) {
	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	ticks := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.wake:
			ticks = 0
			s.onValidate(ctx)
		case <-ticker.C:
			s.onRecheck(ctx)
			ticks++
			if ticks >= s.validateEvery {
				ticks = 0
				s.onValidate(ctx)
			}
		}
	}
}
