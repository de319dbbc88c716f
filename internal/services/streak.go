package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/fincompass-backend/internal/logger"
	"github.com/yungbote/fincompass-backend/internal/repos"
	"github.com/yungbote/fincompass-backend/internal/types"
)

// milestoneThresholds is the canonical milestone set.
var milestoneThresholds = map[int]bool{
	3:   true,
	7:   true,
	14:  true,
	30:  true,
	60:  true,
	100: true,
}

// StreakService computes consecutive-day engagement counts from the
// persisted outlook history and detects milestones.
type StreakService interface {
	// CalculateStreak measures the contiguous run ending at the most recent
	// recorded date at or before asOf.
	CalculateStreak(ctx context.Context, userID uuid.UUID, asOf time.Time) (int, error)
	// StreakForDate measures the contiguous run ending exactly at the day
	// before date: the count a new outlook for date carries. A gap
	// immediately before date yields zero.
	StreakForDate(ctx context.Context, userID uuid.UUID, date time.Time) (int, error)
	IsMilestone(count int) bool
}

type streakService struct {
	log  *logger.Logger
	repo repos.DailyOutlookRepo
}

func NewStreakService(baseLog *logger.Logger, repo repos.DailyOutlookRepo) StreakService {
	return &streakService{
		log:  baseLog.With("service", "StreakService"),
		repo: repo,
	}
}

func (ss *streakService) CalculateStreak(ctx context.Context, userID uuid.UUID, asOf time.Time) (int, error) {
	return ss.walk(ctx, userID, types.DateOnly(asOf), false)
}

func (ss *streakService) StreakForDate(ctx context.Context, userID uuid.UUID, date time.Time) (int, error) {
	prev := types.DateOnly(date).AddDate(0, 0, -1)
	return ss.walk(ctx, userID, prev, true)
}

func (ss *streakService) IsMilestone(count int) bool {
	return milestoneThresholds[count]
}

// walk counts backward day-by-day over recorded outlook dates. When anchored
// the run must start exactly at asOf; otherwise it starts at the most recent
// recorded date at or before asOf.
func (ss *streakService) walk(ctx context.Context, userID uuid.UUID, asOf time.Time, anchored bool) (int, error) {
	const pageSize = 200

	count := 0
	expected := time.Time{}
	cursor := asOf
	for {
		dates, err := ss.repo.GetDatesByUser(ctx, nil, userID, cursor, pageSize)
		if err != nil {
			return 0, err
		}
		if len(dates) == 0 {
			return count, nil
		}
		for _, raw := range dates {
			d := types.DateOnly(raw)
			if expected.IsZero() {
				if anchored && !d.Equal(asOf) {
					return 0, nil
				}
				count = 1
				expected = d.AddDate(0, 0, -1)
				continue
			}
			if d.After(expected) {
				// duplicate date row, skip
				continue
			}
			if !d.Equal(expected) {
				return count, nil
			}
			count++
			expected = expected.AddDate(0, 0, -1)
		}
		if len(dates) < pageSize {
			return count, nil
		}
		cursor = expected
	}
}
