package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/fincompass-backend/internal/cache"
	"github.com/yungbote/fincompass-backend/internal/logger"
	"github.com/yungbote/fincompass-backend/internal/repos"
	"github.com/yungbote/fincompass-backend/internal/types"
)

// RelationshipService maintains the single active relationship record per
// user. Updates are validated against the 1-10 score bounds and invalidate
// the day's cached outlook.
type RelationshipService interface {
	Get(ctx context.Context, userID uuid.UUID) (*types.RelationshipStatusRecord, error)
	Update(ctx context.Context, userID uuid.UUID, status string, satisfaction, financialImpact int) (*types.RelationshipStatusRecord, error)
}

type relationshipService struct {
	db           *gorm.DB
	log          *logger.Logger
	relRepo      repos.RelationshipStatusRepo
	outlookCache *cache.OutlookCache
}

func NewRelationshipService(db *gorm.DB, baseLog *logger.Logger, relRepo repos.RelationshipStatusRepo, outlookCache *cache.OutlookCache) RelationshipService {
	return &relationshipService{
		db:           db,
		log:          baseLog.With("service", "RelationshipService"),
		relRepo:      relRepo,
		outlookCache: outlookCache,
	}
}

func (rs *relationshipService) Get(ctx context.Context, userID uuid.UUID) (*types.RelationshipStatusRecord, error) {
	return rs.relRepo.GetByUserID(ctx, nil, userID)
}

func (rs *relationshipService) Update(ctx context.Context, userID uuid.UUID, status string, satisfaction, financialImpact int) (*types.RelationshipStatusRecord, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("user id required")
	}
	if satisfaction < 1 || satisfaction > 10 {
		return nil, fmt.Errorf("satisfaction_score %d: %w", satisfaction, ErrInvalidScoreRange)
	}
	if financialImpact < 1 || financialImpact > 10 {
		return nil, fmt.Errorf("financial_impact_score %d: %w", financialImpact, ErrInvalidScoreRange)
	}
	parsed, known := types.ParseRelationshipStatus(status)
	if !known {
		rs.log.Warn("unrecognized relationship status on update, storing as other", "user_id", userID, "status", status)
	}

	record := &types.RelationshipStatusRecord{
		UserID:               userID,
		Status:               string(parsed),
		SatisfactionScore:    satisfaction,
		FinancialImpactScore: financialImpact,
	}
	saved, err := rs.relRepo.Upsert(ctx, nil, record)
	if err != nil {
		return nil, fmt.Errorf("upsert relationship status: %w", err)
	}

	if rs.outlookCache != nil {
		if err := rs.outlookCache.Invalidate(ctx, userID, time.Now()); err != nil {
			rs.log.Warn("outlook cache invalidation failed after relationship change", "user_id", userID, "error", err)
		}
	}
	return saved, nil
}
