package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/fincompass-backend/internal/cache"
	"github.com/yungbote/fincompass-backend/internal/logger"
	"github.com/yungbote/fincompass-backend/internal/repos"
	"github.com/yungbote/fincompass-backend/internal/types"
)

// StreakInfo is the shape behind GET /outlook/streak.
type StreakInfo struct {
	CurrentStreak int  `json:"current_streak"`
	NextMilestone int  `json:"next_milestone"`
	IsMilestone   bool `json:"is_milestone"`
}

// OutlookService runs the daily-outlook pipeline for a single user and
// serves the transport-facing operations over the result.
type OutlookService interface {
	GetToday(ctx context.Context, userID uuid.UUID) (*types.DailyOutlookPayload, error)
	GenerateForUser(ctx context.Context, userID uuid.UUID, date time.Time, force bool) (*types.DailyOutlook, bool, error)
	CompleteAction(ctx context.Context, userID uuid.UUID, actionID string, completed bool) (*types.DailyOutlookPayload, error)
	Rate(ctx context.Context, userID uuid.UUID, value int) error
	StreakInfo(ctx context.Context, userID uuid.UUID) (*StreakInfo, error)
	History(ctx context.Context, userID uuid.UUID, days int) ([]*types.DailyOutlookPayload, error)
}

type outlookService struct {
	db           *gorm.DB
	log          *logger.Logger
	outlookRepo  repos.DailyOutlookRepo
	userService  UserService
	weighting    WeightingService
	content      ContentService
	streaks      StreakService
	tierGate     TierGateService
	events       EventService
	outlookCache *cache.OutlookCache

	// now is swappable in tests
	now func() time.Time
}

func NewOutlookService(
	db *gorm.DB,
	baseLog *logger.Logger,
	outlookRepo repos.DailyOutlookRepo,
	userService UserService,
	weighting WeightingService,
	content ContentService,
	streaks StreakService,
	tierGate TierGateService,
	events EventService,
	outlookCache *cache.OutlookCache,
) OutlookService {
	return &outlookService{
		db:           db,
		log:          baseLog.With("service", "OutlookService"),
		outlookRepo:  outlookRepo,
		userService:  userService,
		weighting:    weighting,
		content:      content,
		streaks:      streaks,
		tierGate:     tierGate,
		events:       events,
		outlookCache: outlookCache,
		now:          time.Now,
	}
}

func (s *outlookService) GetToday(ctx context.Context, userID uuid.UUID) (*types.DailyOutlookPayload, error) {
	today := types.DateOnly(s.now())

	payload, hit, err := s.outlookCache.GetOrCompute(ctx, userID, today, func(ctx context.Context) (*types.DailyOutlookPayload, error) {
		outlook, _, genErr := s.GenerateForUser(ctx, userID, today, false)
		if genErr != nil {
			return nil, genErr
		}
		return s.payloadFor(ctx, outlook)
	})
	if err != nil {
		return nil, err
	}
	if !hit {
		s.events.Emit(ctx, userID, types.EventCacheMiss, map[string]any{"date": types.DateKey(today)})
	}
	return payload, nil
}

// GenerateForUser runs the full pipeline for one user and date. The second
// return reports whether a new record was created; an existing record is
// returned as-is unless force is set.
func (s *outlookService) GenerateForUser(ctx context.Context, userID uuid.UUID, date time.Time, force bool) (*types.DailyOutlook, bool, error) {
	date = types.DateOnly(date)

	existing, err := s.outlookRepo.GetByUserAndDate(ctx, nil, userID, date)
	if err != nil {
		return nil, false, classifyPersistenceError(err)
	}
	if existing != nil && !force {
		return existing, false, nil
	}

	profile, err := s.userService.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrMissingProfileData) {
			return nil, false, fmt.Errorf("user %s: %w", userID, ErrOutlookNotReady)
		}
		return nil, false, err
	}
	if !profile.Active {
		return nil, false, fmt.Errorf("user %s inactive: %w", userID, ErrOutlookNotReady)
	}

	rel, err := s.userService.GetRelationshipStatus(ctx, userID)
	if err != nil {
		return nil, false, fmt.Errorf("get relationship status: %w", err)
	}

	if existing != nil && force {
		if err := s.outlookRepo.DeleteByUserAndDate(ctx, nil, userID, date); err != nil {
			return nil, false, classifyPersistenceError(err)
		}
	}

	weights := s.weighting.ComputeWeights(profile, rel)

	streak, err := s.streaks.StreakForDate(ctx, userID, date)
	if err != nil {
		return nil, false, classifyPersistenceError(err)
	}
	milestone := s.streaks.IsMilestone(streak)

	generated := s.content.Generate(ctx, ContentInput{
		Profile:     profile,
		Rel:         rel,
		Weights:     weights,
		StreakCount: streak,
		Date:        types.DateKey(date),
	})

	outlook := &types.DailyOutlook{
		ID:               uuid.New(),
		UserID:           userID,
		OutlookDate:      date,
		Encouragement:    generated.Encouragement,
		StreakCount:      streak,
		MilestoneReached: milestone,
	}
	outlook.SetWeights(weights)
	if err := outlook.SetInsight(generated.Insight); err != nil {
		return nil, false, fmt.Errorf("encode insight: %w", err)
	}
	if err := outlook.SetActions(generated.Actions); err != nil {
		return nil, false, fmt.Errorf("encode actions: %w", err)
	}

	if _, err := s.outlookRepo.Create(ctx, nil, []*types.DailyOutlook{outlook}); err != nil {
		classified := classifyPersistenceError(err)
		if errors.Is(classified, ErrConflict) {
			// another run created this (user, date) first; reuse its row
			winner, getErr := s.outlookRepo.GetByUserAndDate(ctx, nil, userID, date)
			if getErr == nil && winner != nil {
				return winner, false, nil
			}
		}
		return nil, false, classified
	}

	// Milestone events fire once per threshold: only a freshly created
	// outlook whose predecessor did not carry the flag emits one.
	if milestone && (existing == nil || !existing.MilestoneReached) {
		s.events.Emit(ctx, userID, types.EventMilestoneReached, map[string]any{
			"date":   types.DateKey(date),
			"streak": streak,
		})
	}
	return outlook, true, nil
}

func (s *outlookService) CompleteAction(ctx context.Context, userID uuid.UUID, actionID string, completed bool) (*types.DailyOutlookPayload, error) {
	today := types.DateOnly(s.now())

	outlook, err := s.outlookRepo.GetByUserAndDate(ctx, nil, userID, today)
	if err != nil {
		return nil, classifyPersistenceError(err)
	}
	if outlook == nil {
		return nil, ErrOutlookNotReady
	}

	actions, err := outlook.Actions()
	if err != nil {
		return nil, fmt.Errorf("decode actions: %w", err)
	}
	found := false
	for i := range actions {
		if actions[i].ID == actionID {
			actions[i].Completed = completed
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("action %q not on today's outlook", actionID)
	}
	if err := outlook.SetActions(actions); err != nil {
		return nil, fmt.Errorf("encode actions: %w", err)
	}
	if err := s.outlookRepo.Save(ctx, nil, outlook); err != nil {
		return nil, classifyPersistenceError(err)
	}
	if err := s.outlookCache.Invalidate(ctx, userID, today); err != nil {
		s.log.Warn("cache invalidation failed after action toggle", "user_id", userID, "error", err)
	}
	return s.payloadFor(ctx, outlook)
}

func (s *outlookService) Rate(ctx context.Context, userID uuid.UUID, value int) error {
	if value < 1 || value > 5 {
		return fmt.Errorf("rating %d: %w", value, ErrInvalidScoreRange)
	}
	today := types.DateOnly(s.now())

	outlook, err := s.outlookRepo.GetByUserAndDate(ctx, nil, userID, today)
	if err != nil {
		return classifyPersistenceError(err)
	}
	if outlook == nil {
		return ErrOutlookNotReady
	}
	outlook.Rating = &value
	if err := s.outlookRepo.Save(ctx, nil, outlook); err != nil {
		return classifyPersistenceError(err)
	}
	return nil
}

func (s *outlookService) StreakInfo(ctx context.Context, userID uuid.UUID) (*StreakInfo, error) {
	current, err := s.streaks.CalculateStreak(ctx, userID, s.now())
	if err != nil {
		return nil, classifyPersistenceError(err)
	}
	next := 0
	for _, threshold := range []int{3, 7, 14, 30, 60, 100} {
		if threshold > current {
			next = threshold
			break
		}
	}
	return &StreakInfo{
		CurrentStreak: current,
		NextMilestone: next,
		IsMilestone:   s.streaks.IsMilestone(current),
	}, nil
}

// History returns recent payloads, newest first. It is a mid-tier feature;
// entry users get ErrTierRequired, which the transport layer renders as an
// upgrade prompt.
func (s *outlookService) History(ctx context.Context, userID uuid.UUID, days int) ([]*types.DailyOutlookPayload, error) {
	profile, err := s.userService.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !s.tierGate.HasAccess(profile.Tier, types.TierMid) {
		return nil, ErrTierRequired
	}
	if days <= 0 || days > 90 {
		days = 30
	}

	outlooks, err := s.outlookRepo.GetRecentByUser(ctx, nil, userID, days)
	if err != nil {
		return nil, classifyPersistenceError(err)
	}
	payloads := make([]*types.DailyOutlookPayload, 0, len(outlooks))
	for _, o := range outlooks {
		p, pErr := s.payloadForProfile(o, profile)
		if pErr != nil {
			return nil, pErr
		}
		payloads = append(payloads, p)
	}
	return payloads, nil
}

func (s *outlookService) payloadFor(ctx context.Context, outlook *types.DailyOutlook) (*types.DailyOutlookPayload, error) {
	profile, err := s.userService.GetProfile(ctx, outlook.UserID)
	if err != nil {
		return nil, err
	}
	return s.payloadForProfile(outlook, profile)
}

func (s *outlookService) payloadForProfile(outlook *types.DailyOutlook, profile *types.User) (*types.DailyOutlookPayload, error) {
	insight, err := outlook.Insight()
	if err != nil {
		return nil, fmt.Errorf("decode insight: %w", err)
	}
	actions, err := outlook.Actions()
	if err != nil {
		return nil, fmt.Errorf("decode actions: %w", err)
	}
	return &types.DailyOutlookPayload{
		Date:                 types.DateKey(outlook.OutlookDate),
		Weights:              outlook.Weights(),
		PrimaryInsight:       insight,
		QuickActions:         actions,
		EncouragementMessage: outlook.Encouragement,
		StreakCount:          outlook.StreakCount,
		MilestoneReached:     outlook.MilestoneReached,
		UserTier:             s.tierGate.ResolveTier(profile.Tier),
	}, nil
}
