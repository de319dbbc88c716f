package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	ID              uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Email           string    `gorm:"uniqueIndex;not null;column:email" json:"email"`
	Password        string    `gorm:"not null;column:password" json:"-"`
	FirstName       string    `gorm:"not null;column:first_name" json:"first_name"`
	LastName        string    `gorm:"not null;column:last_name" json:"last_name"`
	Tier            string    `gorm:"not null;default:'entry';column:tier" json:"tier"`
	FinancialStress bool      `gorm:"not null;default:false;column:financial_stress" json:"financial_stress"`
	StressScore     int       `gorm:"not null;default:0;column:stress_score" json:"stress_score"`
	Active          bool      `gorm:"not null;default:true;column:active" json:"active"`
	CreatedAt       time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt       time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (User) TableName() string {
	return "user"
}
