package middleware

import (
	"context"
	"time"
)

// Limits groups the per-route rate limit policies.
type Limits struct {
	Answers          *RateLimiter
	DistractorSubmit *RateLimiter
	SimulationSubmit *RateLimiter
	SimulationUpdate *RateLimiter
	DistractorCheck  *RateLimiter
	Reads            *RateLimiter
	Settings         *RateLimiter
	Auth             *RateLimiter
}

func NewLimits() *Limits {
	return &Limits{
		Answers:          NewRateLimiter("answers", 100),
		DistractorSubmit: NewRateLimiter("distractor_submit", 100),
		SimulationSubmit: NewRateLimiter("simulation_submit", 20),
		SimulationUpdate: NewRateLimiter("simulation_update", 60),
		DistractorCheck:  NewRateLimiter("distractor_check", 120),
		Reads:            NewRateLimiter("reads", 60),
		Settings:         NewRateLimiter("settings", 30),
		Auth:             NewRateLimiter("auth", 10),
	}
}

func (l *Limits) all() []*RateLimiter {
	return []*RateLimiter{l.Answers, l.DistractorSubmit, l.SimulationSubmit, l.SimulationUpdate,
		l.DistractorCheck, l.Reads, l.Settings, l.Auth}
}

// Janitor sweeps idle visitors every minute until ctx is done.
func (l *Limits) Janitor(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, rl := range l.all() {
				rl.Sweep(3 * time.Minute)
			}
		}
	}
}
