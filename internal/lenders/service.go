package lenders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"lenderlink-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Invalidator is notified after operator edits so cached reference data goes
// stale. Optional; nil means no cache is in front of the store.
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

type CreateLenderInput struct {
	Name         string
	ProfileScore float64
	Notes        string
}

func (s *Service) CreateLender(ctx context.Context, in CreateLenderInput) (*models.Lender, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, errors.New("name is required")
	}
	lender := &models.Lender{
		LenderID:     uuid.New(),
		Name:         strings.TrimSpace(in.Name),
		Active:       true,
		ProfileScore: in.ProfileScore,
		Notes:        in.Notes,
	}
	if err := s.DB.WithContext(ctx).Create(lender).Error; err != nil {
		return nil, fmt.Errorf("Failed to create lender: %v", err)
	}
	s.invalidate(ctx)
	return lender, nil
}

func (s *Service) ListLenders(ctx context.Context) ([]models.Lender, error) {
	var lenders []models.Lender
	if err := s.DB.WithContext(ctx).Order("name ASC").Find(&lenders).Error; err != nil {
		return nil, err
	}
	return lenders, nil
}

// LenderDetail is a lender with its programs and explicit state coverage.
type LenderDetail struct {
	models.Lender
	Programs []models.Program     `json:"programs"`
	States   []models.LenderState `json:"states"`
}

func (s *Service) GetLender(ctx context.Context, id uuid.UUID) (*LenderDetail, error) {
	var lender models.Lender
	if err := s.DB.WithContext(ctx).Where("lender_id = ?", id).First(&lender).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.New("Lender not found")
		}
		return nil, err
	}
	detail := &LenderDetail{Lender: lender}
	if err := s.DB.WithContext(ctx).Where("lender_id = ?", id).Order("name ASC, program_version DESC").Find(&detail.Programs).Error; err != nil {
		return nil, err
	}
	if err := s.DB.WithContext(ctx).Where("lender_id = ?", id).Order("state_code ASC").Find(&detail.States).Error; err != nil {
		return nil, err
	}
	return detail, nil
}

// DeactivateLender takes the lender out of matching. Lenders are never
// deleted; historical offers keep referencing them.
func (s *Service) DeactivateLender(ctx context.Context, id uuid.UUID) (*models.Lender, error) {
	var lender models.Lender
	if err := s.DB.WithContext(ctx).Where("lender_id = ?", id).First(&lender).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.New("Lender not found")
		}
		return nil, err
	}
	if err := s.DB.WithContext(ctx).Model(&lender).Update("active", false).Error; err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	lender.Active = false
	return &lender, nil
}

// SetStateCoverage replaces the lender's explicit state rows. An empty list
// removes all rows, which means nationwide coverage.
func (s *Service) SetStateCoverage(ctx context.Context, id uuid.UUID, stateCodes []string) ([]models.LenderState, error) {
	var lender models.Lender
	if err := s.DB.WithContext(ctx).Where("lender_id = ?", id).First(&lender).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.New("Lender not found")
		}
		return nil, err
	}

	seen := map[string]struct{}{}
	rows := make([]models.LenderState, 0, len(stateCodes))
	for _, code := range stateCodes {
		code = strings.ToUpper(strings.TrimSpace(code))
		if len(code) != 2 {
			return nil, fmt.Errorf("Invalid state code %q", code)
		}
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}
		rows = append(rows, models.LenderState{LenderID: id, StateCode: code})
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("lender_id = ?", id).Delete(&models.LenderState{}).Error; err != nil {
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
