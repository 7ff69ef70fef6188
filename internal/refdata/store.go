package refdata

import (
	"context"
	"errors"
	"fmt"

	"lenderlink-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrUnavailable means the reference-data store cannot be reached. Unlike a
// scenario that matches nothing, this is surfaced to the caller as a service
// error.
var ErrUnavailable = errors.New("reference data unavailable")

// Store is the reference-data contract consumed by matching. Lookups against
// a program are always by (program_id, version); criteria and pricing must
// resolve against the exact version, never "latest".
type Store interface {
	ListActiveLenders(ctx context.Context) ([]models.Lender, error)
	ListActivePrograms(ctx context.Context, lenderID uuid.UUID) ([]models.Program, error)
	ListCriteria(ctx context.Context, programID uuid.UUID, version int) ([]models.ProgramCriterion, error)
	ListLenderStates(ctx context.Context, lenderID uuid.UUID) ([]models.LenderState, error)
	ListProgramMetros(ctx context.Context, programID uuid.UUID, version int) ([]models.ProgramMetro, error)
	ListPricingRows(ctx context.Context, programID uuid.UUID, version int) ([]models.PricingMatrixRow, error)
}

// GormStore reads reference data straight from the database.
type GormStore struct {
	DB *gorm.DB
}

func (s *GormStore) ListActiveLenders(ctx context.Context) ([]models.Lender, error) {
	var lenders []models.Lender
	if err := s.DB.WithContext(ctx).Where("active = ?", true).Order("name ASC").Find(&lenders).Error; err != nil {
		return nil, fmt.Errorf("%w: lenders: %v", ErrUnavailable, err)
	}
	return lenders, nil
}

func (s *GormStore) ListActivePrograms(ctx context.Context, lenderID uuid.UUID) ([]models.Program, error) {
	var programs []models.Program
	if err := s.DB.WithContext(ctx).Where("lender_id = ? AND active = ?", lenderID, true).Order("name ASC").Find(&programs).Error; err != nil {
		return nil, fmt.Errorf("%w: programs: %v", ErrUnavailable, err)
	}
	return programs, nil
}

func (s *GormStore) ListCriteria(ctx context.Context, programID uuid.UUID, version int) ([]models.ProgramCriterion, error) {
	var criteria []models.ProgramCriterion
	if err := s.DB.WithContext(ctx).Where("program_id = ? AND program_version = ?", programID, version).Order("name ASC").Find(&criteria).Error; err != nil {
		return nil, fmt.Errorf("%w: criteria: %v", ErrUnavailable, err)
	}
	return criteria, nil
}

func (s *GormStore) ListLenderStates(ctx context.Context, lenderID uuid.UUID) ([]models.LenderState, error) {
	var states []models.LenderState
	if err := s.DB.WithContext(ctx).Where("lender_id = ?", lenderID).Find(&states).Error; err != nil {
		return nil, fmt.Errorf("%w: lender states: %v", ErrUnavailable, err)
	}
	return states, nil
}

func (s *GormStore) ListProgramMetros(ctx context.Context, programID uuid.UUID, version int) ([]models.ProgramMetro, error) {
	var metros []models.ProgramMetro
	if err := s.DB.WithContext(ctx).Where("program_id = ? AND program_version = ?", programID, version).Find(&metros).Error; err != nil {
		return nil, fmt.Errorf("%w: program metros: %v", ErrUnavailable, err)
	}
	return metros, nil
}

func (s *GormStore) ListPricingRows(ctx context.Context, programID uuid.UUID, version int) ([]models.PricingMatrixRow, error) {
	var rows []models.PricingMatrixRow
	if err := s.DB.WithContext(ctx).Where("program_id = ? AND program_version = ?", programID, version).Order("ltv_band ASC, dscr_band ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: pricing rows: %v", ErrUnavailable, err)
	}
	return rows, nil
}
