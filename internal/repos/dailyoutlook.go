package repos

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/fincompass-backend/internal/logger"
	"github.com/yungbote/fincompass-backend/internal/types"
)

type DailyOutlookRepo interface {
	Create(ctx context.Context, tx *gorm.DB, outlooks []*types.DailyOutlook) ([]*types.DailyOutlook, error)
	GetByUserAndDate(ctx context.Context, tx *gorm.DB, userID uuid.UUID, date time.Time) (*types.DailyOutlook, error)
	GetRecentByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.DailyOutlook, error)
	GetDatesByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, onOrBefore time.Time, limit int) ([]time.Time, error)
	ListUserIDsWithDate(ctx context.Context, tx *gorm.DB, date time.Time) ([]uuid.UUID, error)
	Save(ctx context.Context, tx *gorm.DB, outlook *types.DailyOutlook) error
	DeleteByUserAndDate(ctx context.Context, tx *gorm.DB, userID uuid.UUID, date time.Time) error
}

type dailyOutlookRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDailyOutlookRepo(db *gorm.DB, baseLog *logger.Logger) DailyOutlookRepo {
	repoLog := baseLog.With("repo", "DailyOutlookRepo")
	return &dailyOutlookRepo{db: db, log: repoLog}
}

func (dr *dailyOutlookRepo) Create(ctx context.Context, tx *gorm.DB, outlooks []*types.DailyOutlook) ([]*types.DailyOutlook, error) {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}

	if len(outlooks) == 0 {
		return []*types.DailyOutlook{}, nil
	}
	for _, o := range outlooks {
		o.OutlookDate = types.DateOnly(o.OutlookDate)
	}

	if err := transaction.WithContext(ctx).Create(&outlooks).Error; err != nil {
		return nil, err
	}
	return outlooks, nil
}

// GetByUserAndDate returns nil without error when no outlook exists for the
// date.
func (dr *dailyOutlookRepo) GetByUserAndDate(ctx context.Context, tx *gorm.DB, userID uuid.UUID, date time.Time) (*types.DailyOutlook, error) {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}

	if userID == uuid.Nil {
		return nil, nil
	}

	var result types.DailyOutlook
	err := transaction.WithContext(ctx).
		Where("user_id = ? AND outlook_date = ?", userID, types.DateOnly(date)).
		First(&result).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (dr *dailyOutlookRepo) GetRecentByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.DailyOutlook, error) {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}

	var results []*types.DailyOutlook
	if userID == uuid.Nil {
		return results, nil
	}
	if limit <= 0 {
		limit = 30
	}

	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("outlook_date DESC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// GetDatesByUser returns outlook dates on or before the given date, newest
// first. The streak walk consumes these.
func (dr *dailyOutlookRepo) GetDatesByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, onOrBefore time.Time, limit int) ([]time.Time, error) {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}

	var dates []time.Time
	if userID == uuid.Nil {
		return dates, nil
	}
	if limit <= 0 {
		limit = 400
	}

	if err := transaction.WithContext(ctx).
		Model(&types.DailyOutlook{}).
		Where("user_id = ? AND outlook_date <= ?", userID, types.DateOnly(onOrBefore)).
		Order("outlook_date DESC").
		Limit(limit).
		Pluck("outlook_date", &dates).Error; err != nil {
		return nil, err
	}
	return dates, nil
}

func (dr *dailyOutlookRepo) ListUserIDsWithDate(ctx context.Context, tx *gorm.DB, date time.Time) ([]uuid.UUID, error) {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}

	var ids []uuid.UUID
	if err := transaction.WithContext(ctx).
		Model(&types.DailyOutlook{}).
		Where("outlook_date = ?", types.DateOnly(date)).
		Pluck("user_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (dr *dailyOutlookRepo) Save(ctx context.Context, tx *gorm.DB, outlook *types.DailyOutlook) error {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}

	if outlook == nil {
		return nil
	}
	return transaction.WithContext(ctx).Save(outlook).Error
}

func (dr *dailyOutlookRepo) DeleteByUserAndDate(ctx context.Context, tx *gorm.DB, userID uuid.UUID, date time.Time) error {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}

	if userID == uuid.Nil {
		return nil
	}
	return transaction.WithContext(ctx).
		Unscoped().
		Where("user_id = ? AND outlook_date = ?", userID, types.DateOnly(date)).
		Delete(&types.DailyOutlook{}).Error
}
