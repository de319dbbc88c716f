package types

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RelationshipStatus is the status enum carried on a user's relationship
// record.
type RelationshipStatus string

const (
	RelationshipSingleCareerFocused RelationshipStatus = "single_career_focused"
	RelationshipDating              RelationshipStatus = "dating"
	RelationshipCommitted           RelationshipStatus = "committed"
	RelationshipMarried             RelationshipStatus = "married"
	RelationshipOther               RelationshipStatus = "other"
)

var relationshipStatuses = map[RelationshipStatus]struct{}{
	RelationshipSingleCareerFocused: {},
	RelationshipDating:              {},
	RelationshipCommitted:           {},
	RelationshipMarried:             {},
	RelationshipOther:               {},
}

// ParseRelationshipStatus normalizes a stored status value. Unrecognized
// values map to RelationshipOther; ok reports whether the input was
// recognized.
func ParseRelationshipStatus(s string) (RelationshipStatus, bool) {
	rs := RelationshipStatus(strings.ToLower(strings.TrimSpace(s)))
	if _, known := relationshipStatuses[rs]; known {
		return rs, true
	}
	return RelationshipOther, false
}

// RelationshipStatusRecord is the single active relationship record per
// user. Satisfaction and financial-impact scores are bounded 1-10.
type RelationshipStatusRecord struct {
	gorm.Model
	ID                   uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID               uuid.UUID `gorm:"type:uuid;uniqueIndex;not null;column:user_id" json:"user_id"`
	User                 *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	Status               string    `gorm:"not null;column:status" json:"status"`
	SatisfactionScore    int       `gorm:"not null;column:satisfaction_score" json:"satisfaction_score"`
	FinancialImpactScore int       `gorm:"not null;column:financial_impact_score" json:"financial_impact_score"`
	CreatedAt            time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt            time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (RelationshipStatusRecord) TableName() string {
	return "relationship_status_record"
}
