package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product types offered by lenders.
const (
	ProductDSCR       = "DSCR"
	ProductBridge     = "Bridge"
	ProductFixAndFlip = "Fix-and-Flip"
	ProductPortfolio  = "Portfolio"
	ProductAssetBased = "Asset-Based"
)

// Program is a versioned loan product. Identity is (program_id, program_version);
// revising a program inserts a new version row so historical offers keep
// resolving against the exact version they referenced.
type Program struct {
	ProgramID      uuid.UUID      `gorm:"column:program_id;type:uuid;primaryKey" json:"program_id"`
	ProgramVersion int            `gorm:"column:program_version;primaryKey;default:1" json:"program_version"`
	LenderID       uuid.UUID      `gorm:"column:lender_id;type:uuid;not null;index" json:"lender_id"`
	Name           string         `gorm:"column:name;not null" json:"name"`
	ProductType    string         `gorm:"column:product_type;type:varchar(20);not null" json:"product_type"`
	Active         bool           `gorm:"column:active" json:"active"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Program) TableName() string {
	return "Programs"
}

// ProgramMetro narrows one program version to a fixed set of metro areas.
// When any rows exist for a program and the scenario carries a metro, the
// override set wins and lender state coverage is ignored for that program.
type ProgramMetro struct {
	ProgramID      uuid.UUID `gorm:"column:program_id;type:uuid;primaryKey" json:"program_id"`
	ProgramVersion int       `gorm:"column:program_version;primaryKey" json:"program_version"`
	MetroCode      string    `gorm:"column:metro_code;type:varchar(40);primaryKey" json:"metro_code"`
	CreatedAt      time.Time `json:"createdAt"`
}

func (ProgramMetro) TableName() string {
	return "ProgramMetros"
}
