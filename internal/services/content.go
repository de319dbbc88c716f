package services

import (
	"context"
	"sort"

	"github.com/yungbote/fincompass-backend/internal/logger"
	"github.com/yungbote/fincompass-backend/internal/types"
)

// actionRule is one row of the static domain -> candidate-action table.
// Adding content is a data change here, not a code change.
type actionRule struct {
	ID           string
	Title        string
	Priority     int
	RequiredTier types.Tier
}

var actionRules = map[types.Domain][]actionRule{
	types.DomainFinancial: {
		{ID: "fin_review_spending", Title: "Review yesterday's spending", Priority: 1, RequiredTier: types.TierEntry},
		{ID: "fin_check_budget", Title: "Check this week's budget envelope", Priority: 2, RequiredTier: types.TierEntry},
		{ID: "fin_move_to_savings", Title: "Move spare change to savings", Priority: 3, RequiredTier: types.TierEntry},
		{ID: "fin_rebalance_plan", Title: "Rebalance your long-term plan", Priority: 2, RequiredTier: types.TierProfessional},
	},
	types.DomainWellness: {
		{ID: "well_short_walk", Title: "Take a ten-minute walk", Priority: 1, RequiredTier: types.TierEntry},
		{ID: "well_sleep_check", Title: "Set a wind-down alarm for tonight", Priority: 2, RequiredTier: types.TierEntry},
		{ID: "well_spending_break", Title: "Take a no-spend break today", Priority: 3, RequiredTier: types.TierEntry},
	},
	types.DomainRelationship: {
		{ID: "rel_money_checkin", Title: "Have a five-minute money check-in", Priority: 1, RequiredTier: types.TierEntry},
		{ID: "rel_plan_free_date", Title: "Plan a free date for this week", Priority: 2, RequiredTier: types.TierEntry},
		{ID: "rel_shared_goal", Title: "Review a shared savings goal", Priority: 2, RequiredTier: types.TierMid},
	},
	types.DomainCareer: {
		{ID: "car_update_skill", Title: "Spend 15 minutes on a skill", Priority: 1, RequiredTier: types.TierEntry},
		{ID: "car_network_ping", Title: "Reach out to one contact", Priority: 2, RequiredTier: types.TierEntry},
		{ID: "car_comp_review", Title: "Benchmark your compensation", Priority: 1, RequiredTier: types.TierProfessional},
		{ID: "car_advancement_plan", Title: "Advance your promotion plan", Priority: 2, RequiredTier: types.TierProfessional},
	},
}

// insightRule holds the insight copy per domain, with an optional
// professional-tier variant.
type insightRule struct {
	Title    string
	Body     string
	ProTitle string
	ProBody  string
}

var insightRules = map[types.Domain]insightRule{
	types.DomainFinancial: {
		Title:    "Money needs your attention today",
		Body:     "Your financial signals are carrying the most weight right now. A small check-in on spending today keeps stress from compounding.",
		ProTitle: "Your plan deserves a professional pass",
		ProBody:  "Financial weight is leading your outlook. With your plan features unlocked, today is a good day to review allocations, not just spending.",
	},
	types.DomainWellness: {
		Title: "Protect your energy first",
		Body:  "Wellness leads your balance today. Money decisions land better when you are rested, so keep today's commitments light.",
	},
	types.DomainRelationship: {
		Title: "Invest in your people today",
		Body:  "Relationship signals are leading your outlook. Shared money conversations go furthest when they happen before problems do.",
	},
	types.DomainCareer: {
		Title:    "Momentum at work pays twice",
		Body:     "Career carries the most weight in today's balance. A small professional step today compounds into financial room later.",
		ProTitle: "Leverage your advanced planning focus",
		ProBody:  "Career is leading your outlook and your tier unlocks advanced planning. Line up one move that raises your long-term earning curve.",
	},
}

// encouragementPools is keyed by streak bucket: 0, 1-6, 7-13, 14-29, 30+.
var encouragementPools = [][]string{
	{
		"Today is a fresh start. One small step is enough.",
		"Every balanced day begins with showing up. Welcome back.",
	},
	{
		"You're building a rhythm. Keep the streak alive.",
		"A few days in a row already. Small steps, real momentum.",
	},
	{
		"A full week of check-ins. Your consistency is paying off.",
		"Seven-plus days strong. Habits are forming.",
	},
	{
		"Two weeks and counting. This is what discipline looks like.",
		"Your streak is becoming a lifestyle. Keep going.",
	},
	{
		"A month or more of daily balance. Remarkable consistency.",
		"Thirty-plus days. You've made reflection a habit most people never build.",
	},
}

// ContentInput carries everything content generation depends on. Generation
// is deterministic over this input.
type ContentInput struct {
	Profile     *types.User
	Rel         *types.RelationshipStatusRecord
	Weights     types.Weights
	StreakCount int
	Date        string
}

type GeneratedContent struct {
	Insight       types.PrimaryInsight
	Actions       []types.QuickAction
	Encouragement string
}

// ContentService assembles the insight, quick actions, and encouragement for
// an outlook. Its only side effect is a content_generated event.
type ContentService interface {
	Generate(ctx context.Context, in ContentInput) GeneratedContent
}

type contentService struct {
	log      *logger.Logger
	tierGate TierGateService
	events   EventService
}

func NewContentService(baseLog *logger.Logger, tierGate TierGateService, events EventService) ContentService {
	return &contentService{
		log:      baseLog.With("service", "ContentService"),
		tierGate: tierGate,
		events:   events,
	}
}

func (cs *contentService) Generate(ctx context.Context, in ContentInput) GeneratedContent {
	userTier := ""
	if in.Profile != nil {
		userTier = in.Profile.Tier
	}
	tier := cs.tierGate.ResolveTier(userTier)

	top := in.Weights.TopTwo()
	out := GeneratedContent{
		Insight:       cs.insightFor(top[0], tier),
		Actions:       cs.actionsFor(top, tier),
		Encouragement: encouragementFor(in.StreakCount),
	}

	if cs.events != nil && in.Profile != nil {
		cs.events.Emit(ctx, in.Profile.ID, types.EventContentGenerated, map[string]any{
			"date":         in.Date,
			"top_domain":   string(top[0]),
			"action_count": len(out.Actions),
		})
	}
	return out
}

func (cs *contentService) insightFor(d types.Domain, tier types.Tier) types.PrimaryInsight {
	rule := insightRules[d]
	title, body := rule.Title, rule.Body
	if rule.ProTitle != "" && tier.AtLeast(types.TierProfessional) {
		title, body = rule.ProTitle, rule.ProBody
	}
	return types.PrimaryInsight{Title: title, Body: body, Category: d}
}

// actionsFor selects up to two actions from each of the top two domains.
// Gated-out candidates are omitted entirely; a domain with no visible
// candidates is skipped, so the list may hold fewer than two entries.
func (cs *contentService) actionsFor(top [2]types.Domain, tier types.Tier) []types.QuickAction {
	const perDomain = 2

	var actions []types.QuickAction
	for _, d := range top {
		candidates := make([]actionRule, 0, len(actionRules[d]))
		for _, rule := range actionRules[d] {
			if !tier.AtLeast(rule.RequiredTier) {
				continue
			}
			candidates = append(candidates, rule)
		}
		if len(candidates) == 0 {
			cs.log.Debug("no action candidates for domain, skipping", "domain", d)
			continue
		}
		sort.SliceStable(candidates, func(i, j int) bool {
			if candidates[i].Priority != candidates[j].Priority {
				return candidates[i].Priority < candidates[j].Priority
			}
			return candidates[i].Title < candidates[j].Title
		})
		for i, rule := range candidates {
			if i == perDomain {
				break
			}
			actions = append(actions, types.QuickAction{
				ID:       rule.ID,
				Title:    rule.Title,
				Category: d,
				Priority: rule.Priority,
			})
		}
	}
	return actions
}

// encouragementFor picks deterministically within the streak bucket's pool.
func encouragementFor(streak int) string {
	if streak < 0 {
		streak = 0
	}
	var pool []string
	switch {
	case streak == 0:
		pool = encouragementPools[0]
	case streak < 7:
		pool = encouragementPools[1]
	case streak < 14:
		pool = encouragementPools[2]
	case streak < 30:
		pool = encouragementPools[3]
	default:
		pool = encouragementPools[4]
	}
	return pool[streak%len(pool)]
}
