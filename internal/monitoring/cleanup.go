package monitoring

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/cashtrackr/cashtrackr-be/internal/services"
)

// staleAfter is how long an unconfirmed registration may sit before the
// sweep removes it.
const staleAfter = 30 * 24 * time.Hour

// Cleanup periodically removes accounts that registered but never
// confirmed their email.
type Cleanup struct {
	users    services.UserServiceProvider
	schedule cron.Schedule
	ticker   *time.Ticker
	done     chan bool
}

// NewCleanup creates the cleanup job from a standard cron expression.
func NewCleanup(users services.UserServiceProvider, spec string) (*Cleanup, error) {
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("invalid cleanup schedule %q: %w", spec, err)
	}
	return &Cleanup{
		users:    users,
		schedule: schedule,
		done:     make(chan bool),
	}, nil
}

// Run starts the ticking loop. It blocks until Stop is called.
func (c *Cleanup) Run() {
	log.Info().Msg("Starting stale-account cleanup job")
	c.ticker = time.NewTicker(1 * time.Minute)
	defer c.ticker.Stop()

	nextRun := c.schedule.Next(time.Now())

	for {
		select {
		case <-c.done:
			log.Info().Msg("Stopping stale-account cleanup job")
			return
		case <-c.ticker.C:
			now := time.Now()
			if now.After(nextRun) {
				c.sweep(now)
				nextRun = c.schedule.Next(now)
			}
		}
	}
}

// Stop halts the cleanup job.
func (c *Cleanup) Stop() {
	c.done <- true
}

func (c *Cleanup) sweep(now time.Time) {
	removed, err := c.users.DeleteUnconfirmedBefore(now.Add(-staleAfter))
	if err != nil {
		log.Error().Err(err).Msg("Stale-account sweep failed")
		return
	}
	if removed > 0 {
		log.Info().Int64("removed", removed).Msg("Removed stale unconfirmed accounts")
	}
}
