package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/fincompass-backend/internal/logger"
	"github.com/yungbote/fincompass-backend/internal/types"
)

type RelationshipStatusRepo interface {
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.RelationshipStatusRecord, error)
	Upsert(ctx context.Context, tx *gorm.DB, record *types.RelationshipStatusRecord) (*types.RelationshipStatusRecord, error)
}

type relationshipStatusRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRelationshipStatusRepo(db *gorm.DB, baseLog *logger.Logger) RelationshipStatusRepo {
	repoLog := baseLog.With("repo", "RelationshipStatusRepo")
	return &relationshipStatusRepo{db: db, log: repoLog}
}

// GetByUserID returns nil without error when the user has no record.
func (rr *relationshipStatusRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.RelationshipStatusRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	if userID == uuid.Nil {
		return nil, nil
	}

	var result types.RelationshipStatusRecord
	err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&result).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (rr *relationshipStatusRepo) Upsert(ctx context.Context, tx *gorm.DB, record *types.RelationshipStatusRecord) (*types.RelationshipStatusRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	if record == nil {
		return nil, nil
	}
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}

	if err := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"status", "satisfaction_score", "financial_impact_score", "updated_at"}),
		}).
		Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}
