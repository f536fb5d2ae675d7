package game

import (
	"context"
	"time"
)

// Runner feeds an Engine wall-clock deltas. Its time reference is dropped
// while the engine is paused and whenever the engine's epoch moves, so a
// resume or reset never integrates the time spent away.
type Runner struct {
	engine    *Engine
	last      time.Time
	lastEpoch uint64
	primed    bool
}

func NewRunner(e *Engine) *Runner {
	return &Runner{engine: e}
}

// Step advances the engine by the time elapsed since the previous Step.
func (r *Runner) Step(now time.Time) []ArrivalOutcome {
	if !r.engine.IsRunning() {
		r.primed = false
		return nil
	}
	epoch := r.engine.Epoch()
	if !r.primed || epoch != r.lastEpoch {
		r.last = now
		r.lastEpoch = epoch
		r.primed = true
		return nil
	}
	dt := now.Sub(r.last).Seconds()
	r.last = now
	return r.engine.Tick(dt)
}

// Run steps the engine at Params.TickHz until ctx is done.
func (r *Runner) Run(ctx context.Context) {
	hz := r.engine.Params().TickHz
	ticker := time.NewTicker(time.Duration(float64(time.Second) / hz))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			r.Step(now)
		}
	}
}
