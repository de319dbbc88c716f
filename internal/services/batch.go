package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yungbote/fincompass-backend/internal/logger"
	"github.com/yungbote/fincompass-backend/internal/repos"
	"github.com/yungbote/fincompass-backend/internal/types"
)

// BatchSummary reports one batch run.
type BatchSummary struct {
	Date          string      `json:"date"`
	Succeeded     int         `json:"succeeded"`
	Failed        int         `json:"failed"`
	FailedUserIDs []uuid.UUID `json:"failed_user_ids"`
}

// BatchService regenerates outlooks for the active-user population once per
// day. Per-user failures are isolated and collected; a run never aborts
// because one user failed.
type BatchService interface {
	RunDaily(ctx context.Context, date time.Time, force bool) (*BatchSummary, error)
}

type batchService struct {
	db          *gorm.DB
	log         *logger.Logger
	userService UserService
	outlooks    OutlookService
	outlookRepo repos.DailyOutlookRepo
	events      EventService
	concurrency int
	maxAttempts int
}

func NewBatchService(
	db *gorm.DB,
	baseLog *logger.Logger,
	userService UserService,
	outlooks OutlookService,
	outlookRepo repos.DailyOutlookRepo,
	events EventService,
	concurrency int,
) BatchService {
	if concurrency < 1 {
		concurrency = 4
	}
	return &batchService{
		db:          db,
		log:         baseLog.With("service", "BatchService"),
		userService: userService,
		outlooks:    outlooks,
		outlookRepo: outlookRepo,
		events:      events,
		concurrency: concurrency,
		maxAttempts: 3,
	}
}

func (bs *batchService) RunDaily(ctx context.Context, date time.Time, force bool) (*BatchSummary, error) {
	date = types.DateOnly(date)
	runLog := bs.log.With("date", types.DateKey(date), "force", force)
	runLog.Info("Starting daily outlook batch")

	userIDs, err := bs.userService.ListActiveUserIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active users: %w", classifyPersistenceError(err))
	}

	// Re-running for a date skips users that already have a record, checked
	// against the persisted outlooks rather than a separate lock so a
	// concurrent run for the same date converges on the same skip set.
	done := map[uuid.UUID]bool{}
	if !force {
		existing, listErr := bs.outlookRepo.ListUserIDsWithDate(ctx, nil, date)
		if listErr != nil {
			return nil, fmt.Errorf("list existing outlooks: %w", classifyPersistenceError(listErr))
		}
		for _, id := range existing {
			done[id] = true
		}
	}

	summary := &BatchSummary{
		Date:          types.DateKey(date),
		FailedUserIDs: []uuid.UUID{},
	}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(bs.concurrency)

	for _, userID := range userIDs {
		if done[userID] {
			continue
		}
		// cooperative checkpoint between users
		if err := ctx.Err(); err != nil {
			runLog.Warn("Batch run canceled between users", "error", err)
			break
		}
		userID := userID
		g.Go(func() error {
			err := bs.runUser(gctx, userID, date, force)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				summary.Failed++
				summary.FailedUserIDs = append(summary.FailedUserIDs, userID)
				return nil
			}
			summary.Succeeded++
			return nil
		})
	}
	_ = g.Wait()

	runLog.Info("Daily outlook batch finished",
		"succeeded", summary.Succeeded,
		"failed", summary.Failed,
	)
	return summary, nil
}

// runUser wraps one user's pipeline in its own error boundary: panics and
// errors are logged, emitted as batch_user_failed, and never propagate.
func (bs *batchService) runUser(ctx context.Context, userID uuid.UUID, date time.Time, force bool) (runErr error) {
	defer func() {
		if r := recover(); r != nil {
			bs.log.Error("Batch user pipeline panic", "user_id", userID, "panic", r)
			runErr = fmt.Errorf("panic: %v", r)
		}
		if runErr != nil {
			bs.events.Emit(ctx, userID, types.EventBatchUserFailed, map[string]any{
				"date":  types.DateKey(date),
				"error": runErr.Error(),
			})
		}
	}()

	for attempt := 1; attempt <= bs.maxAttempts; attempt++ {
		_, _, err := bs.outlooks.GenerateForUser(ctx, userID, date, force)
		if err == nil {
			return nil
		}
		if errors.Is(err, ErrConflict) {
			// a concurrent run already wrote this user's outlook
			return nil
		}
		if errors.Is(err, ErrOutlookNotReady) {
			bs.log.Warn("Skipping user without computable outlook", "user_id", userID, "error", err)
			return nil
		}
		if !errors.Is(err, ErrRetryable) || attempt == bs.maxAttempts {
			bs.log.Error("Batch user pipeline failed",
				"user_id", userID,
				"attempt", attempt,
				"error_kind", errorKind(err),
				"error", err,
			)
			return err
		}
		bs.log.Warn("Retrying user after transient persistence failure", "user_id", userID, "attempt", attempt, "error", err)
	}
	return nil
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, ErrRetryable):
		return "persistence_unavailable"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrMissingProfileData):
		return "missing_profile_data"
	case errors.Is(err, ErrOutlookNotReady):
		return "not_ready"
	default:
		return "internal"
	}
}
