package services

import (
	"github.com/yungbote/fincompass-backend/internal/logger"
	"github.com/yungbote/fincompass-backend/internal/types"
)

// TierGateService decides whether a feature gated at a required tier is
// visible to a user. Unrecognized tier values fail closed to entry.
type TierGateService interface {
	HasAccess(userTier string, required types.Tier) bool
	ResolveTier(raw string) types.Tier
}

type tierGateService struct {
	log *logger.Logger
}

func NewTierGateService(baseLog *logger.Logger) TierGateService {
	return &tierGateService{log: baseLog.With("service", "TierGateService")}
}

func (tg *tierGateService) HasAccess(userTier string, required types.Tier) bool {
	return tg.ResolveTier(userTier).AtLeast(required)
}

func (tg *tierGateService) ResolveTier(raw string) types.Tier {
	tier, known := types.ParseTier(raw)
	if !known {
		tg.log.Warn("unrecognized tier value, failing closed to entry", "tier", raw)
	}
	return tier
}
