package scenarios

import (
	"lenderlink-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Handlers bundles scenario handlers.
type Handlers struct {
	Service *Service
}

type createScenarioRequest struct {
	BrokerRef  string                 `json:"broker_ref"`
	Attributes map[string]interface{} `json:"attributes"`
}

// CreateScenario POST /api/v1/scenarios
func (h *Handlers) CreateScenario(c *fiber.Ctx) error {
	var req createScenarioRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}
	scenario, err := h.Service.CreateScenario(c.Context(), CreateScenarioInput{
		BrokerRef:  req.BrokerRef,
		Attributes: req.Attributes,
	})
	if err != nil {
		switch err.Error() {
		case "attributes are required":
			return response.Error(c, err.Error(), 400, nil)
		default:
			return response.Error(c, "Internal Server Error", 500, nil)
		}
	}
	return response.SuccessCreated(c, "Scenario created successfully", scenario, nil)
}

// GetScenario GET /api/v1/scenarios/:id
func (h *Handlers) GetScenario(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid scenario ID format (must be a valid UUID)", 400, nil)
	}
	scenario, err := h.Service.GetScenario(c.Context(), id)
	if err != nil {
		switch err.Error() {
		case "Scenario not found":
			return response.Error(c, err.Error(), 404, nil)
		default:
			return response.Error(c, "Internal Server Error", 500, nil)
		}
	}
	return response.Success(c, "Scenario fetched successfully", scenario, nil)
}
