package lenders

import (
	"strings"

	"lenderlink-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Handlers bundles lender admin handlers.
type Handlers struct {
	Service *Service
}

type createLenderRequest struct {
	Name         string  `json:"name"`
	ProfileScore float64 `json:"profile_score"`
	Notes        string  `json:"notes"`
}

// CreateLender POST /api/v1/lenders/create-lender
func (h *Handlers) CreateLender(c *fiber.Ctx) error {
	var req createLenderRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}
	lender, err := h.Service.CreateLender(c.Context(), CreateLenderInput{
		Name:         req.Name,
		ProfileScore: req.ProfileScore,
		Notes:        req.Notes,
	})
	if err != nil {
		switch err.Error() {
		case "name is required":
			return response.Error(c, err.Error(), 400, nil)
		default:
			return response.Error(c, "Internal Server Error", 500, nil)
		}
	}
	return response.SuccessCreated(c, "Lender created successfully", lender, nil)
}

// ListLenders GET /api/v1/lenders/get-all-lenders
func (h *Handlers) ListLenders(c *fiber.Ctx) error {
	lenders, err := h.Service.ListLenders(c.Context())
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Lenders fetched successfully", lenders, nil)
}

// GetLender GET /api/v1/lenders/get-lender/:id
func (h *Handlers) GetLender(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid lender ID format (must be a valid UUID)", 400, nil)
	}
	detail, err := h.Service.GetLender(c.Context(), id)
	if err != nil {
		switch err.Error() {
		case "Lender not found":
			return response.Error(c, err.Error(), 404, nil)
		default:
			return response.Error(c, "Internal Server Error", 500, nil)
		}
	}
	return response.Success(c, "Lender fetched successfully", detail, nil)
}

// DeactivateLender POST /api/v1/lenders/deactivate-lender/:id
func (h *Handlers) DeactivateLender(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid lender ID format (must be a valid UUID)", 400, nil)
	}
	lender, err := h.Service.DeactivateLender(c.Context(), id)
	if err != nil {
		switch err.Error() {
		case "Lender not found":
			return response.Error(c, err.Error(), 404, nil)
		default:
			return response.Error(c, "Internal Server Error", 500, nil)
		}
	}
	return response.Success(c, "Lender deactivated successfully", lender, nil)
}

type setStatesRequest struct {
	StateCodes []string `json:"state_codes"`
}

// SetStateCoverage PUT /api/v1/lenders/set-states/:id
func (h *Handlers) SetStateCoverage(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid lender ID format (must be a valid UUID)", 400, nil)
	}
	var req setStatesRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}
	rows, err := h.Service.SetStateCoverage(c.Context(), id, req.StateCodes)
	if err != nil {
		switch {
		case err.Error() == "Lender not found":
			return response.Error(c, err.Error(), 404, nil)
		case strings.HasPrefix(err.Error(), "Invalid state code"):
			return response.Error(c, err.Error(), 400, nil)
		default:
			return response.Error(c, "Internal Server Error", 500, nil)
		}
	}
	return response.Success(c, "State coverage updated successfully", rows, nil)
}
