package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CriterionDataType tags how a criterion's bounds are interpreted.
type CriterionDataType string

const (
	CriterionDecimal CriterionDataType = "decimal"
	CriterionInteger CriterionDataType = "integer"
	CriterionEnum    CriterionDataType = "enum"
	CriterionBool    CriterionDataType = "bool"
)

// ProgramCriterion is one named constraint on a program version.
// Hard bounds must hold; soft bounds only degrade confidence. A criterion
// with no bounds at all (e.g. "no FICO requirement") is vacuously satisfied.
type ProgramCriterion struct {
	CriterionID    uuid.UUID                   `gorm:"column:criterion_id;type:uuid;primaryKey" json:"criterion_id"`
	ProgramID      uuid.UUID                   `gorm:"column:program_id;type:uuid;not null;index:idx_criteria_program" json:"program_id"`
	ProgramVersion int                         `gorm:"column:program_version;not null;index:idx_criteria_program" json:"program_version"`
	Name           string                      `gorm:"column:name;not null" json:"name"`
	DataType       CriterionDataType           `gorm:"column:data_type;type:varchar(10);not null" json:"data_type"`
	HardMin        *float64                    `gorm:"column:hard_min;type:decimal(18,4)" json:"hard_min"`
	HardMax        *float64                    `gorm:"column:hard_max;type:decimal(18,4)" json:"hard_max"`
	SoftMin        *float64                    `gorm:"column:soft_min;type:decimal(18,4)" json:"soft_min"`
	SoftMax        *float64                    `gorm:"column:soft_max;type:decimal(18,4)" json:"soft_max"`
	BoolConstraint *bool                       `gorm:"column:bool_constraint" json:"bool_constraint"`
	EnumValues     datatypes.JSONSlice[string] `gorm:"column:enum_values" json:"enum_values"`
	Required       bool                        `gorm:"column:required_flag;default:false" json:"required_flag"`
	Active         bool                        `gorm:"column:active" json:"active"`
	CreatedAt      time.Time                   `json:"createdAt"`
	UpdatedAt      time.Time                   `json:"updatedAt"`
	DeletedAt      gorm.DeletedAt              `gorm:"index" json:"-"`
}

func (ProgramCriterion) TableName() string {
	return "ProgramCriteria"
}
