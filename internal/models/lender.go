package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Lender is operator-authored reference data. Lenders are deactivated, never deleted.
type Lender struct {
	LenderID     uuid.UUID      `gorm:"column:lender_id;type:uuid;primaryKey" json:"lender_id"`
	Name         string         `gorm:"column:name;not null" json:"name"`
	Active       bool           `gorm:"column:active" json:"active"`
	ProfileScore float64        `gorm:"column:profile_score;type:decimal(5,2);default:0" json:"profile_score"`
	Notes        string         `gorm:"column:notes" json:"notes"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Lender) TableName() string {
	return "Lenders"
}

// LenderState marks a state the lender is explicitly known to operate in.
// A lender with zero rows covers every state (nationwide); rows restrict
// coverage to exactly the listed states.
type LenderState struct {
	LenderID  uuid.UUID `gorm:"column:lender_id;type:uuid;primaryKey" json:"lender_id"`
	StateCode string    `gorm:"column:state_code;type:varchar(2);primaryKey" json:"state_code"`
	CreatedAt time.Time `json:"createdAt"`
}

func (LenderState) TableName() string {
	return "LenderStates"
}
