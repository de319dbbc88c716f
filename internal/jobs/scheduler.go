package jobs

import (
	"context"
	"time"

	"github.com/yungbote/fincompass-backend/internal/logger"
	"github.com/yungbote/fincompass-backend/internal/services"
	"github.com/yungbote/fincompass-backend/internal/types"
	"github.com/yungbote/fincompass-backend/internal/utils"
)

// Scheduler is the in-process fallback trigger for the daily outlook batch,
// used when no Temporal cluster is configured. It fires once per UTC day at
// the configured hour. Because the batch skips users that already have an
// outlook for the date, overlapping triggers (or a restart mid-day) are safe.
type Scheduler struct {
	log   *logger.Logger
	batch services.BatchService
	hour  int

	now func() time.Time
}

func NewScheduler(baseLog *logger.Logger, batch services.BatchService) *Scheduler {
	hour := utils.GetEnvAsInt("OUTLOOK_BATCH_HOUR_UTC", 0, baseLog)
	if hour < 0 || hour > 23 {
		hour = 0
	}
	return &Scheduler{
		log:   baseLog.With("component", "OutlookScheduler"),
		batch: batch,
		hour:  hour,
		now:   time.Now,
	}
}

func (s *Scheduler) Start(ctx context.Context) {
	go func() {
		s.log.Info("In-process outlook scheduler started", "hour_utc", s.hour)
		for {
			next := s.nextRun(s.now().UTC())
			timer := time.NewTimer(next.Sub(s.now().UTC()))
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}
			s.runOnce(ctx, next)
		}
	}()
}

func (s *Scheduler) runOnce(ctx context.Context, at time.Time) {
	runCtx, cancel := context.WithTimeout(ctx, 2*time.Hour)
	defer cancel()

	summary, err := s.batch.RunDaily(runCtx, types.DateOnly(at), false)
	if err != nil {
		s.log.Error("Scheduled outlook batch failed", "date", types.DateKey(at), "error", err)
		return
	}
	s.log.Info("Scheduled outlook batch finished",
		"date", summary.Date,
		"succeeded", summary.Succeeded,
		"failed", summary.Failed,
	)
}

func (s *Scheduler) nextRun(now time.Time) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), s.hour, 0, 0, 0, time.UTC)
	if !next.After(now) {
		next = next.Add(24 * time.Hour)
	}
	return next
}
