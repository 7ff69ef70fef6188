package programs

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"lenderlink-backend/internal/models"
	"lenderlink-backend/internal/pricing"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Invalidator is notified after operator edits so cached reference data goes
// stale.
type Invalidator interface {
	Invalidate(ctx context.Context)
}

type Service struct {
	DB    *gorm.DB
	Cache Invalidator
}

func (s *Service) invalidate(ctx context.Context) {
	if s.Cache != nil {
		s.Cache.Invalidate(ctx)
	}
}

var productTypes = map[string]struct{}{
	models.ProductDSCR:       {},
	models.ProductBridge:     {},
	models.ProductFixAndFlip: {},
	models.ProductPortfolio:  {},
	models.ProductAssetBased: {},
}

type CreateProgramInput struct {
	LenderID    uuid.UUID
	Name        string
	ProductType string
}

// CreateProgram creates version 1 of a new program for an existing lender.
func (s *Service) CreateProgram(ctx context.Context, in CreateProgramInput) (*models.Program, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, errors.New("name is required")
	}
	if _, ok := productTypes[in.ProductType]; !ok {
		return nil, fmt.Errorf("Invalid product type %q", in.ProductType)
	}
	var lender models.Lender
	if err := s.DB.WithContext(ctx).Where("lender_id = ?", in.LenderID).First(&lender).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.New("Lender not found")
		}
		return nil, err
	}

	program := &models.Program{
		ProgramID:      uuid.New(),
		ProgramVersion: 1,
		LenderID:       in.LenderID,
		Name:           strings.TrimSpace(in.Name),
		ProductType:    in.ProductType,
		Active:         true,
	}
	if err := s.DB.WithContext(ctx).Create(program).Error; err != nil {
		return nil, fmt.Errorf("Failed to create program: %v", err)
	}
	s.invalidate(ctx)
	return program, nil
}

// ReviseProgram inserts the next version of a program, cloning the latest
// version's criteria, pricing rows, and metro overrides. Old versions stay,
// deactivated, so historical offers keep resolving against them.
func (s *Service) ReviseProgram(ctx context.Context, programID uuid.UUID) (*models.Program, error) {
	var latest models.Program
	if err := s.DB.WithContext(ctx).Where("program_id = ?", programID).Order("program_version DESC").First(&latest).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.New("Program not found")
		}
		return nil, err
	}

	next := latest
	next.ProgramVersion = latest.ProgramVersion + 1
	next.Active = true

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&next).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Program{}).
			Where("program_id = ? AND program_version = ?", latest.ProgramID, latest.ProgramVersion).
			Update("active", false).Error; err != nil {
			return err
		}

		var criteria []models.ProgramCriterion
		if err := tx.Where("program_id = ? AND program_version = ?", programID, latest.ProgramVersion).Find(&criteria).Error; err != nil {
			return err
		}
		for i := range criteria {
			criteria[i].CriterionID = uuid.New()
			criteria[i].ProgramVersion = next.ProgramVersion
		}
		if len(criteria) > 0 {
			if err := tx.Create(&criteria).Error; err != nil {
				return err
			}
		}

		var rows []models.PricingMatrixRow
		if err := tx.Where("program_id = ? AND program_version = ?", programID, latest.ProgramVersion).Find(&rows).Error; err != nil {
			return err
		}
		for i := range rows {
			rows[i].RowID = uuid.New()
			rows[i].ProgramVersion = next.ProgramVersion
		}
		if len(rows) > 0 {
			if err := tx.Create(&rows).Error; err != nil {
				return err
			}
		}

		var metros []models.ProgramMetro
		if err := tx.Where("program_id = ? AND program_version = ?", programID, latest.ProgramVersion).Find(&metros).Error; err != nil {
			return err
		}
		for i := range metros {
			metros[i].ProgramVersion = next.ProgramVersion
		}
		if len(metros) > 0 {
			if err := tx.Create(&metros).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("Failed to revise program: %v", err)
	}
	s.invalidate(ctx)
	return &next, nil
}

type AddCriterionInput struct {
	ProgramID      uuid.UUID
	ProgramVersion int
	Name           string
	DataType       models.CriterionDataType
	HardMin        *float64
	HardMax        *float64
	SoftMin        *float64
	SoftMax        *float64
	BoolConstraint *bool
	EnumValues     []string
	Required       bool
}

// AddCriterion attaches a constraint to a program version after validating
// the authoring invariants: hard_min <= hard_max, soft bounds inside hard
// bounds, enum criteria carry values, numeric bounds only on numeric types.
func (s *Service) AddCriterion(ctx context.Context, in AddCriterionInput) (*models.ProgramCriterion, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, errors.New("name is required")
	}
	if err := validateCriterion(in); err != nil {
		return nil, err
	}

	var program models.Program
	if err := s.DB.WithContext(ctx).Where("program_id = ? AND program_version = ?", in.ProgramID, in.ProgramVersion).First(&program).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.New("Program not found")
		}
		return nil, err
	}

	criterion := &models.ProgramCriterion{
		CriterionID:    uuid.New(),
		ProgramID:      in.ProgramID,
		ProgramVersion: in.ProgramVersion,
		Name:           strings.TrimSpace(in.Name),
		DataType:       in.DataType,
		HardMin:        in.HardMin,
		HardMax:        in.HardMax,
		SoftMin:        in.SoftMin,
		SoftMax:        in.SoftMax,
		BoolConstraint: in.BoolConstraint,
		EnumValues:     datatypes.NewJSONSlice(in.EnumValues),
		Required:       in.Required,
		Active:         true,
	}
	if err := s.DB.WithContext(ctx).Create(criterion).Error; err != nil {
		return nil, fmt.Errorf("Failed to create criterion: %v", err)
	}
	s.invalidate(ctx)
	return criterion, nil
}

func validateCriterion(in AddCriterionInput) error {
	switch in.DataType {
	case models.CriterionDecimal, models.CriterionInteger:
		if len(in.EnumValues) > 0 || in.BoolConstraint != nil {
			return errors.New("numeric criteria cannot carry enum values or a bool constraint")
		}
		if in.HardMin != nil && in.HardMax != nil && *in.HardMin > *in.HardMax {
			return errors.New("hard_min must not exceed hard_max")
		}
		if in.SoftMin != nil && in.HardMin != nil && *in.SoftMin < *in.HardMin {
			return errors.New("soft_min must lie within the hard bounds")
		}
		if in.SoftMax != nil && in.HardMax != nil && *in.SoftMax > *in.HardMax {
			return errors.New("soft_max must lie within the hard bounds")
		}
	case models.CriterionEnum:
		if len(in.EnumValues) == 0 {
			return errors.New("enum criteria require enum_values")
		}
		if in.HardMin != nil || in.HardMax != nil || in.SoftMin != nil || in.SoftMax != nil {
			return errors.New("enum criteria cannot carry numeric bounds")
		}
	case models.CriterionBool:
		if in.HardMin != nil || in.HardMax != nil || in.SoftMin != nil || in.SoftMax != nil || len(in.EnumValues) > 0 {
			return errors.New("bool criteria only carry a bool constraint")
		}
	default:
		return fmt.Errorf("Invalid data type %q", in.DataType)
	}
	return nil
}

type AddPricingRowInput struct {
	ProgramID      uuid.UUID
	ProgramVersion int
	LTVBand        string
	DSCRBand       string
	RateSpread     float64
	FeePoints      float64
}

// AddPricingRow attaches a pricing matrix cell; both bands must parse.
func (s *Service) AddPricingRow(ctx context.Context, in AddPricingRowInput) (*models.PricingMatrixRow, error) {
	if _, err := pricing.ParseBand(in.LTVBand); err != nil {
		return nil, fmt.Errorf("Invalid LTV band: %v", err)
	}
	if _, err := pricing.ParseBand(in.DSCRBand); err != nil {
		return nil, fmt.Errorf("Invalid DSCR band: %v", err)
	}

	var program models.Program
	if err := s.DB.WithContext(ctx).Where("program_id = ? AND program_version = ?", in.ProgramID, in.ProgramVersion).First(&program).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.New("Program not found")
		}
		return nil, err
	}

	row := &models.PricingMatrixRow{
		RowID:          uuid.New(),
		ProgramID:      in.ProgramID,
		ProgramVersion: in.ProgramVersion,
		LTVBand:        strings.TrimSpace(in.LTVBand),
		DSCRBand:       strings.TrimSpace(in.DSCRBand),
		RateSpread:     in.RateSpread,
		FeePoints:      in.FeePoints,
	}
	if err := s.DB.WithContext(ctx).Create(row).Error; err != nil {
		return nil, fmt.Errorf("Failed to create pricing row: %v", err)
	}
	s.invalidate(ctx)
	return row, nil
}

// SetMetroOverrides replaces the program version's metro override rows. An
// empty list removes the override so lender state coverage applies again.
func (s *Service) SetMetroOverrides(ctx context.Context, programID uuid.UUID, version int, metroCodes []string) ([]models.ProgramMetro, error) {
	var program models.Program
	if err := s.DB.WithContext(ctx).Where("program_id = ? AND program_version = ?", programID, version).First(&program).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.New("Program not found")
		}
		return nil, err
	}

	seen := map[string]struct{}{}
	rows := make([]models.ProgramMetro, 0, len(metroCodes))
	for _, code := range metroCodes {
		code = strings.TrimSpace(code)
		if code == "" {
			return nil, errors.New("metro codes must not be empty")
		}
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}
		rows = append(rows, models.ProgramMetro{ProgramID: programID, ProgramVersion: version, MetroCode: code})
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("program_id = ? AND program_version = ?", programID, version).Delete(&models.ProgramMetro{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return rows, nil
}

// DeactivateProgram takes every version of the program out of matching.
func (s *Service) DeactivateProgram(ctx context.Context, programID uuid.UUID) error {
	res := s.DB.WithContext(ctx).Model(&models.Program{}).Where("program_id = ?", programID).Update("active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errors.New("Program not found")
	}
	s.invalidate(ctx)
	return nil
}
