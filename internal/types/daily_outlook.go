package types

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PrimaryInsight is the single headline insight on an outlook.
type PrimaryInsight struct {
	Title    string `json:"title"`
	Body     string `json:"body"`
	Category Domain `json:"category"`
}

// QuickAction is one recommended action on an outlook. Priority orders
// actions within a domain (lower first).
type QuickAction struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Category  Domain `json:"category"`
	Priority  int    `json:"priority"`
	Completed bool   `json:"completed"`
}

// DailyOutlook is the engine's primary output record: one row per user per
// calendar date, enforced by the composite unique index.
type DailyOutlook struct {
	gorm.Model
	ID                 uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID             uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_outlook_user_date;column:user_id" json:"user_id"`
	User               *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	OutlookDate        time.Time      `gorm:"type:date;not null;uniqueIndex:idx_outlook_user_date;column:outlook_date" json:"outlook_date"`
	FinancialWeight    float64        `gorm:"not null;column:financial_weight" json:"financial_weight"`
	WellnessWeight     float64        `gorm:"not null;column:wellness_weight" json:"wellness_weight"`
	RelationshipWeight float64        `gorm:"not null;column:relationship_weight" json:"relationship_weight"`
	CareerWeight       float64        `gorm:"not null;column:career_weight" json:"career_weight"`
	PrimaryInsight     datatypes.JSON `gorm:"type:jsonb;column:primary_insight" json:"primary_insight"`
	QuickActions       datatypes.JSON `gorm:"type:jsonb;column:quick_actions" json:"quick_actions"`
	Encouragement      string         `gorm:"not null;column:encouragement" json:"encouragement"`
	StreakCount        int            `gorm:"not null;default:0;column:streak_count" json:"streak_count"`
	MilestoneReached   bool           `gorm:"not null;default:false;column:milestone_reached" json:"milestone_reached"`
	Rating             *int           `gorm:"column:rating" json:"rating,omitempty"`
	CreatedAt          time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt          time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (DailyOutlook) TableName() string {
	return "daily_outlook"
}

func (o *DailyOutlook) Weights() Weights {
	return Weights{
		Financial:    o.FinancialWeight,
		Wellness:     o.WellnessWeight,
		Relationship: o.RelationshipWeight,
		Career:       o.CareerWeight,
	}
}

func (o *DailyOutlook) SetWeights(w Weights) {
	o.FinancialWeight = w.Financial
	o.WellnessWeight = w.Wellness
	o.RelationshipWeight = w.Relationship
	o.CareerWeight = w.Career
}

func (o *DailyOutlook) Insight() (PrimaryInsight, error) {
	var pi PrimaryInsight
	if len(o.PrimaryInsight) == 0 {
		return pi, nil
	}
	err := json.Unmarshal(o.PrimaryInsight, &pi)
	return pi, err
}

func (o *DailyOutlook) SetInsight(pi PrimaryInsight) error {
	raw, err := json.Marshal(pi)
	if err != nil {
		return err
	}
	o.PrimaryInsight = datatypes.JSON(raw)
	return nil
}

func (o *DailyOutlook) Actions() ([]QuickAction, error) {
	var actions []QuickAction
	if len(o.QuickActions) == 0 {
		return actions, nil
	}
	err := json.Unmarshal(o.QuickActions, &actions)
	return actions, err
}

func (o *DailyOutlook) SetActions(actions []QuickAction) error {
	raw, err := json.Marshal(actions)
	if err != nil {
		return err
	}
	o.QuickActions = datatypes.JSON(raw)
	return nil
}

// DailyOutlookPayload is the shape exposed to the transport layer and cached
// by the outlook cache.
type DailyOutlookPayload struct {
	Date                 string         `json:"date"`
	Weights              Weights        `json:"weights"`
	PrimaryInsight       PrimaryInsight `json:"primary_insight"`
	QuickActions         []QuickAction  `json:"quick_actions"`
	EncouragementMessage string         `json:"encouragement_message"`
	StreakCount          int            `json:"streak_count"`
	MilestoneReached     bool           `json:"milestone_reached"`
	UserTier             Tier           `json:"user_tier"`
}

// DateOnly truncates t to its calendar date in UTC.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DateKey formats a date the way cache keys and payloads carry it.
func DateKey(t time.Time) string {
	return DateOnly(t).Format("2006-01-02")
}
