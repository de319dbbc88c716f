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
	"github.com/yungbote/fincompass-backend/internal/requestdata"
	"github.com/yungbote/fincompass-backend/internal/types"
)

// UserService is the engine's profile reader: it fetches the attributes
// weighting depends on. Tier changes route through it so the day's cached
// outlook gets invalidated.
type UserService interface {
	GetMe(ctx context.Context, tx *gorm.DB) (*types.User, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*types.User, error)
	GetRelationshipStatus(ctx context.Context, userID uuid.UUID) (*types.RelationshipStatusRecord, error)
	ListActiveUserIDs(ctx context.Context) ([]uuid.UUID, error)
	UpdateTier(ctx context.Context, userID uuid.UUID, tier string) error
}

type userService struct {
	db           *gorm.DB
	log          *logger.Logger
	userRepo     repos.UserRepo
	relRepo      repos.RelationshipStatusRepo
	outlookCache *cache.OutlookCache
}

func NewUserService(db *gorm.DB, baseLog *logger.Logger, userRepo repos.UserRepo, relRepo repos.RelationshipStatusRepo, outlookCache *cache.OutlookCache) UserService {
	return &userService{
		db:           db,
		log:          baseLog.With("service", "UserService"),
		userRepo:     userRepo,
		relRepo:      relRepo,
		outlookCache: outlookCache,
	}
}

func (us *userService) GetMe(ctx context.Context, tx *gorm.DB) (*types.User, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, fmt.Errorf("not authenticated")
	}
	return us.GetProfile(ctx, rd.UserID)
}

func (us *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	users, err := us.userRepo.GetByIDs(ctx, nil, []uuid.UUID{userID})
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("user %s: %w", userID, ErrMissingProfileData)
	}
	return users[0], nil
}

func (us *userService) GetRelationshipStatus(ctx context.Context, userID uuid.UUID) (*types.RelationshipStatusRecord, error) {
	return us.relRepo.GetByUserID(ctx, nil, userID)
}

func (us *userService) ListActiveUserIDs(ctx context.Context) ([]uuid.UUID, error) {
	return us.userRepo.ListActiveIDs(ctx, nil)
}

func (us *userService) UpdateTier(ctx context.Context, userID uuid.UUID, tier string) error {
	parsed, known := types.ParseTier(tier)
	if !known {
		return fmt.Errorf("tier %q: %w", tier, ErrTierUnrecognized)
	}
	if err := us.userRepo.UpdateTier(ctx, nil, userID, string(parsed)); err != nil {
		return fmt.Errorf("update tier: %w", err)
	}
	if us.outlookCache != nil {
		if err := us.outlookCache.Invalidate(ctx, userID, time.Now()); err != nil {
			us.log.Warn("outlook cache invalidation failed after tier change", "user_id", userID, "error", err)
		}
	}
	return nil
}
