// Package scheduler runs the recurring billing trigger once per civil day.
package scheduler

import (
	"context"
	"time"

	"github.com/tandangji/rental/internal/logger"
)

// DailyJob is the unit of work the scheduler fires once per day. now is the
// wall-clock instant the run started. The return value reports how many
// records the run produced.
type DailyJob interface {
	RunDailyCharges(ctx context.Context, now time.Time) (int, error)
}

// Scheduler fires a DailyJob shortly after each civil midnight in a fixed
// zone, plus once immediately at startup to recover runs missed while the
// process was down.
type Scheduler struct {
	job DailyJob
	loc *time.Location
	log *logger.Logger

	cancel context.CancelFunc
	done   chan struct{}
}

// startupDelay keeps the first post-midnight run clear of clock skew around
// the day boundary.
const startupDelay = 30 * time.Second

// New creates a Scheduler. Call Start to begin the daily loop.
func New(job DailyJob, loc *time.Location, log *logger.Logger) *Scheduler {
	return &Scheduler{job: job, loc: loc, log: log}
}

// Start launches the scheduling loop in a goroutine. The first run happens
// immediately; subsequent runs happen just after each midnight.
func (s *Scheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})

	go s.loop(ctx)
}

// Stop cancels the loop and waits for it to exit.
func (s *Scheduler) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
}

func (s *Scheduler) loop(ctx context.Context) {
	defer close(s.done)

	s.run(ctx)

	for {
		wait := time.Until(s.nextRun(time.Now()))
		timer := time.NewTimer(wait)

		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			s.run(ctx)
		}
	}
}

func (s *Scheduler) run(ctx context.Context) {
	now := time.Now()
	created, err := s.job.RunDailyCharges(ctx, now)
	if err != nil {
		// A failed run is retried naturally by the next day's firing; the
		// billing-day insert is idempotent so nothing is double-charged.
		s.log.Error("Daily billing run failed", err, nil)
		return
	}

	s.log.Info("Daily billing run completed", map[string]interface{}{
		"bills_created": created,
	})
}

// nextRun returns the next firing instant: startupDelay past the upcoming
// civil midnight in the scheduler's zone.
func (s *Scheduler) nextRun(now time.Time) time.Time {
	local := now.In(s.loc)
	year, month, day := local.Date()
	midnight := time.Date(year, month, day+1, 0, 0, 0, 0, s.loc)
	return midnight.Add(startupDelay)
}
