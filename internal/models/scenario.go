package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Well-known scenario attribute names. Criteria reference scenario values by
// name, so custom attributes beyond these are allowed.
const (
	AttrLoanAmount   = "loan_amount"
	AttrFico         = "fico"
	AttrLTV          = "ltv"
	AttrDSCR         = "dscr"
	AttrPropertyType = "property_type"
	AttrState        = "state"
	AttrMetro        = "metro"
)

// Scenario is a borrower's loan scenario: a free-form named attribute map
// queried against program criteria. Scenarios are inputs to matching and are
// never mutated by it.
type Scenario struct {
	ScenarioID uuid.UUID         `gorm:"column:scenario_id;type:uuid;primaryKey" json:"scenario_id"`
	BrokerRef  string            `gorm:"column:broker_ref" json:"broker_ref"`
	Attributes datatypes.JSONMap `gorm:"column:attributes" json:"attributes"`
	CreatedAt  time.Time         `json:"createdAt"`
	UpdatedAt  time.Time         `json:"updatedAt"`
	DeletedAt  gorm.DeletedAt    `gorm:"index" json:"-"`
}

func (Scenario) TableName() string {
	return "Scenarios"
}

// State returns the scenario's state code, empty when absent.
func (s *Scenario) State() string {
	v, _ := s.Attributes[AttrState].(string)
	return v
}

// Metro returns the scenario's metro code, empty when absent.
func (s *Scenario) Metro() string {
	v, _ := s.Attributes[AttrMetro].(string)
	return v
}
