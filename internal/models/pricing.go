package models

import (
	"time"

	"github.com/google/uuid"
)

// PricingMatrixRow is one cell of a program version's banded pricing matrix.
// Bands are string-encoded half-open ranges ("65-70", "1.25-1.35"); a
// trailing "+" ("1.35+") means unbounded above.
type PricingMatrixRow struct {
	RowID          uuid.UUID `gorm:"column:row_id;type:uuid;primaryKey" json:"row_id"`
	ProgramID      uuid.UUID `gorm:"column:program_id;type:uuid;not null;index:idx_pricing_program" json:"program_id"`
	ProgramVersion int       `gorm:"column:program_version;not null;index:idx_pricing_program" json:"program_version"`
	LTVBand        string    `gorm:"column:ltv_band;type:varchar(20);not null" json:"ltv_band"`
	DSCRBand       string    `gorm:"column:dscr_band;type:varchar(20);not null" json:"dscr_band"`
	RateSpread     float64   `gorm:"column:rate_spread;type:decimal(6,4);not null" json:"rate_spread"`
	FeePoints      float64   `gorm:"column:fee_points;type:decimal(6,4);default:0" json:"fee_points"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (PricingMatrixRow) TableName() string {
	return "PricingMatrixRows"
}
