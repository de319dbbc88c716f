package outlookbatch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.temporal.io/sdk/activity"

	"github.com/yungbote/fincompass-backend/internal/logger"
	"github.com/yungbote/fincompass-backend/internal/services"
)

type Activities struct {
	Log   *logger.Logger
	Batch services.BatchService
}

func (a *Activities) Run(ctx context.Context, in RunInput) (RunResult, error) {
	var res RunResult
	if a == nil || a.Batch == nil {
		return res, fmt.Errorf("outlookbatch: activity not configured")
	}

	date := time.Now().UTC()
	if raw := strings.TrimSpace(in.Date); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return res, fmt.Errorf("outlookbatch: invalid date %q: %w", raw, err)
		}
		date = parsed
	}

	stopHB := a.startHeartbeat(ctx)
	defer stopHB()

	summary, err := a.Batch.RunDaily(ctx, date, in.Force)
	if err != nil {
		return res, err
	}

	res.Date = summary.Date
	res.Succeeded = summary.Succeeded
	res.Failed = summary.Failed
	for _, id := range summary.FailedUserIDs {
		res.FailedUserIDs = append(res.FailedUserIDs, id.String())
	}
	if a.Log != nil {
		a.Log.Info("Outlook batch activity finished", "date", res.Date, "succeeded", res.Succeeded, "failed", res.Failed)
	}
	return res, nil
}

func (a *Activities) startHeartbeat(ctx context.Context) func() {
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(20 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				activity.RecordHeartbeat(ctx)
			}
		}
	}()
	return func() { close(done) }
}
