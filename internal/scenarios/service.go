package scenarios

import (
	"context"
	"errors"
	"fmt"

	"lenderlink-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Service struct {
	DB *gorm.DB
}

type CreateScenarioInput struct {
	BrokerRef  string
	Attributes map[string]interface{}
}

// CreateScenario stores a borrower scenario. Attributes are free-form; the
// well-known ones (loan_amount, fico, ltv, dscr, property_type, state, metro)
// are what seeded criteria reference, but criteria can name anything.
func (s *Service) CreateScenario(ctx context.Context, in CreateScenarioInput) (*models.Scenario, error) {
	if len(in.Attributes) == 0 {
		return nil, errors.New("attributes are required")
	}
	scenario := &models.Scenario{
		ScenarioID: uuid.New(),
		BrokerRef:  in.BrokerRef,
		Attributes: datatypes.JSONMap(in.Attributes),
	}
	if err := s.DB.WithContext(ctx).Create(scenario).Error; err != nil {
		return nil, fmt.Errorf("Failed to create scenario: %v", err)
	}
	return scenario, nil
}

func (s *Service) GetScenario(ctx context.Context, id uuid.UUID) (*models.Scenario, error) {
	if id == uuid.Nil {
		return nil, errors.New("scenario_id is required")
	}
	var scenario models.Scenario
	if err := s.DB.WithContext(ctx).Where("scenario_id = ?", id).First(&scenario).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.New("Scenario not found")
		}
		return nil, err
	}
	return &scenario, nil
}
