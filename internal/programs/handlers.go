package programs

import (
	"strings"

	"lenderlink-backend/internal/models"
	"lenderlink-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Handlers bundles program admin handlers.
type Handlers struct {
	Service *Service
}

type createProgramRequest struct {
	LenderID    string `json:"lender_id"`
	Name        string `json:"name"`
	ProductType string `json:"product_type"`
}

// CreateProgram POST /api/v1/programs/create-program
func (h *Handlers) CreateProgram(c *fiber.Ctx) error {
	var req createProgramRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}
	lenderID, err := uuid.Parse(req.LenderID)
	if err != nil {
		return response.Error(c, "Invalid lender ID format (must be a valid UUID)", 400, nil)
	}
	program, err := h.Service.CreateProgram(c.Context(), CreateProgramInput{
		LenderID:    lenderID,
		Name:        req.Name,
		ProductType: req.ProductType,
	})
	if err != nil {
		switch {
		case err.Error() == "Lender not found":
			return response.Error(c, err.Error(), 404, nil)
		case err.Error() == "name is required" || strings.HasPrefix(err.Error(), "Invalid product type"):
			return response.Error(c, err.Error(), 400, nil)
		default:
			return response.Error(c, "Internal Server Error", 500, nil)
		}
	}
	return response.SuccessCreated(c, "Program created successfully", program, nil)
}

// ReviseProgram POST /api/v1/programs/revise-program/:id
func (h *Handlers) ReviseProgram(c *fiber.Ctx) error {
	programID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid program ID format (must be a valid UUID)", 400, nil)
	}
	program, err := h.Service.ReviseProgram(c.Context(), programID)
	if err != nil {
		switch err.Error() {
		case "Program not found":
			return response.Error(c, err.Error(), 404, nil)
		default:
			return response.Error(c, "Internal Server Error", 500, nil)
		}
	}
	return response.SuccessCreated(c, "Program revised successfully", program, nil)
}

type addCriterionRequest struct {
	ProgramID      string   `json:"program_id"`
	ProgramVersion int      `json:"program_version"`
	Name           string   `json:"name"`
	DataType       string   `json:"data_type"`
	HardMin        *float64 `json:"hard_min"`
	HardMax        *float64 `json:"hard_max"`
	SoftMin        *float64 `json:"soft_min"`
	SoftMax        *float64 `json:"soft_max"`
	BoolConstraint *bool    `json:"bool_constraint"`
	EnumValues     []string `json:"enum_values"`
	Required       bool     `json:"required_flag"`
}

// AddCriterion POST /api/v1/programs/add-criterion
func (h *Handlers) AddCriterion(c *fiber.Ctx) error {
	var req addCriterionRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}
	programID, err := uuid.Parse(req.ProgramID)
	if err != nil {
		return response.Error(c, "Invalid program ID format (must be a valid UUID)", 400, nil)
	}
	criterion, err := h.Service.AddCriterion(c.Context(), AddCriterionInput{
		ProgramID:      programID,
		ProgramVersion: req.ProgramVersion,
		Name:           req.Name,
		DataType:       models.CriterionDataType(req.DataType),
		HardMin:        req.HardMin,
		HardMax:        req.HardMax,
		SoftMin:        req.SoftMin,
		SoftMax:        req.SoftMax,
		BoolConstraint: req.BoolConstraint,
		EnumValues:     req.EnumValues,
		Required:       req.Required,
	})
	if err != nil {
		switch {
		case err.Error() == "Program not found":
			return response.Error(c, err.Error(), 404, nil)
		case strings.HasPrefix(err.Error(), "Failed to"):
			return response.Error(c, "Internal Server Error", 500, nil)
		default:
			return response.Error(c, err.Error(), 400, nil)
		}
	}
	return response.SuccessCreated(c, "Criterion created successfully", criterion, nil)
}

type addPricingRowRequest struct {
	ProgramID      string  `json:"program_id"`
	ProgramVersion int     `json:"program_version"`
	LTVBand        string  `json:"ltv_band"`
	DSCRBand       string  `json:"dscr_band"`
	RateSpread     float64 `json:"rate_spread"`
	FeePoints      float64 `json:"fee_points"`
}

// AddPricingRow POST /api/v1/programs/add-pricing-row
func (h *Handlers) AddPricingRow(c *fiber.Ctx) error {
	var req addPricingRowRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}
	programID, err := uuid.Parse(req.ProgramID)
	if err != nil {
		return response.Error(c, "Invalid program ID format (must be a valid UUID)", 400, nil)
	}
	row, err := h.Service.AddPricingRow(c.Context(), AddPricingRowInput{
		ProgramID:      programID,
		ProgramVersion: req.ProgramVersion,
		LTVBand:        req.LTVBand,
		DSCRBand:       req.DSCRBand,
		RateSpread:     req.RateSpread,
		FeePoints:      req.FeePoints,
	})
	if err != nil {
		switch {
		case err.Error() == "Program not found":
			return response.Error(c, err.Error(), 404, nil)
		case strings.HasPrefix(err.Error(), "Invalid"):
			return response.Error(c, err.Error(), 400, nil)
		default:
			return response.Error(c, "Internal Server Error", 500, nil)
		}
	}
	return response.SuccessCreated(c, "Pricing row created successfully", row, nil)
}

type setMetrosRequest struct {
	ProgramID      string   `json:"program_id"`
	ProgramVersion int      `json:"program_version"`
	MetroCodes     []string `json:"metro_codes"`
}

// SetMetroOverrides PUT /api/v1/programs/set-metros
func (h *Handlers) SetMetroOverrides(c *fiber.Ctx) error {
	var req setMetrosRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}
	programID, err := uuid.Parse(req.ProgramID)
	if err != nil {
		return response.Error(c, "Invalid program ID format (must be a valid UUID)", 400, nil)
	}
	rows, err := h.Service.SetMetroOverrides(c.Context(), programID, req.ProgramVersion, req.MetroCodes)
	if err != nil {
		switch err.Error() {
		case "Program not found":
			return response.Error(c, err.Error(), 404, nil)
		case "metro codes must not be empty":
			return response.Error(c, err.Error(), 400, nil)
		default:
			return response.Error(c, "Internal Server Error", 500, nil)
		}
	}
	return response.Success(c, "Metro overrides updated successfully", rows, nil)
}

// DeactivateProgram POST /api/v1/programs/deactivate-program/:id
func (h *Handlers) DeactivateProgram(c *fiber.Ctx) error {
	programID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid program ID format (must be a valid UUID)", 400, nil)
	}
	if err := h.Service.DeactivateProgram(c.Context(), programID); err != nil {
		switch err.Error() {
		case "Program not found":
			return response.Error(c, err.Error(), 404, nil)
		default:
			return response.Error(c, "Internal Server Error", 500, nil)
		}
	}
	return response.Success(c, "Program deactivated successfully", nil, nil)
}
