package services

import (
	"math"

	"github.com/yungbote/fincompass-backend/internal/logger"
	"github.com/yungbote/fincompass-backend/internal/types"
)

// Baseline domain weights before per-user adjustment.
const (
	baselineFinancial    = 0.30
	baselineWellness     = 0.25
	baselineRelationship = 0.20
	baselineCareer       = 0.25

	// minWeight is the floor every domain keeps after adjustment.
	minWeight = 0.05
)

// WeightingService derives the four domain weights for a user from profile
// signals. ComputeWeights is a pure function of its inputs: the same
// profile and relationship record always produce the same weights.
type WeightingService interface {
	ComputeWeights(profile *types.User, rel *types.RelationshipStatusRecord) types.Weights
}

type weightingService struct {
	log *logger.Logger
}

func NewWeightingService(baseLog *logger.Logger) WeightingService {
	return &weightingService{log: baseLog.With("service", "WeightingService")}
}

func (ws *weightingService) ComputeWeights(profile *types.User, rel *types.RelationshipStatusRecord) types.Weights {
	w := types.Weights{
		Financial:    baselineFinancial,
		Wellness:     baselineWellness,
		Relationship: baselineRelationship,
		Career:       baselineCareer,
	}
	if profile == nil {
		ws.log.Warn("missing-data: no profile, using baseline weights")
		return normalizeWithFloor(w)
	}

	// Relationship adjustments only apply when a record exists; a user
	// without one keeps the baseline relationship weight.
	if rel == nil {
		ws.log.Debug("missing-data: no relationship status record, baseline relationship weight kept", "user_id", profile.ID)
	} else {
		status, known := types.ParseRelationshipStatus(rel.Status)
		if !known {
			ws.log.Warn("unrecognized relationship status, treating as other", "user_id", profile.ID, "status", rel.Status)
		}
		switch status {
		case types.RelationshipSingleCareerFocused:
			w.Career += 0.10
			w.Relationship -= 0.05
			w.Wellness -= 0.05
		case types.RelationshipMarried, types.RelationshipCommitted:
			w.Wellness += 0.05
			w.Relationship += 0.05
			w.Career -= 0.10
		}
	}

	if profile.FinancialStress {
		shiftProportionally(&w, types.DomainFinancial, 0.15)
	}

	tier, known := types.ParseTier(profile.Tier)
	if !known {
		ws.log.Warn("unrecognized tier, treating as entry", "user_id", profile.ID, "tier", profile.Tier)
	}
	if tier == types.TierProfessional {
		w.Career += 0.05
	}

	return normalizeWithFloor(w)
}

// shiftProportionally moves amount onto target, drawn from the other three
// domains in proportion to their current weights.
func shiftProportionally(w *types.Weights, target types.Domain, amount float64) {
	var otherSum float64
	for _, d := range types.AllDomains {
		if d != target {
			otherSum += w.Get(d)
		}
	}
	if otherSum <= 0 {
		return
	}
	for _, d := range types.AllDomains {
		if d == target {
			w.Set(d, w.Get(d)+amount)
			continue
		}
		w.Set(d, w.Get(d)-amount*w.Get(d)/otherSum)
	}
}

// normalizeWithFloor clamps every weight to minWeight and rescales the rest
// so the four sum to exactly 1.0. Floored domains stay at the floor; the
// remainder is shared by the others in proportion.
func normalizeWithFloor(w types.Weights) types.Weights {
	floored := map[types.Domain]bool{}
	for _, d := range types.AllDomains {
		if w.Get(d) < minWeight {
			w.Set(d, minWeight)
			floored[d] = true
		}
	}

	for i := 0; i < len(types.AllDomains); i++ {
		var freeSum float64
		free := 0
		for _, d := range types.AllDomains {
			if !floored[d] {
				freeSum += w.Get(d)
				free++
			}
		}
		if free == 0 {
			break
		}
		remaining := 1.0 - minWeight*float64(len(types.AllDomains)-free)
		if freeSum <= 0 {
			share := remaining / float64(free)
			for _, d := range types.AllDomains {
				if !floored[d] {
					w.Set(d, share)
				}
			}
			break
		}
		scale := remaining / freeSum
		clamped := false
		for _, d := range types.AllDomains {
			if floored[d] {
				continue
			}
			v := w.Get(d) * scale
			if v < minWeight {
				w.Set(d, minWeight)
				floored[d] = true
				clamped = true
				continue
			}
			w.Set(d, v)
		}
		if !clamped {
			break
		}
	}

	// Absorb float drift into the top domain so the sum is exact.
	if drift := 1.0 - w.Sum(); math.Abs(drift) > 0 {
		top := w.Top()
		w.Set(top, w.Get(top)+drift)
	}
	return w
}
