package handlers

import (
	"pullupboard/internal/api/middleware"
	"pullupboard/internal/models"
	"pullupboard/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// SubmissionHandler handles the member dashboard endpoints
type SubmissionHandler struct {
	service   *service.SubmissionService
	validator *validator.Validate
}

// NewSubmissionHandler creates a new submission handler
func NewSubmissionHandler(service *service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{
		service:   service,
		validator: validator.New(),
	}
}

// Submit handles POST /api/v1/me/submissions
// @Summary Submit a pull-up attempt
// @Accept json
// @Produce json
// @Param request body models.SubmissionRequest true "Submission"
// @Success 201 {object} models.Submission
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /api/v1/me/submissions [post]
func (h *SubmissionHandler) Submit(c *fiber.Ctx) error {
	var req models.SubmissionRequest

	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		return respondError(c, "Validation failed", err)
	}

	sub, err := h.service.Submit(c.UserContext(), middleware.Email(c), req)
	if err != nil {
		return respondError(c, "Submission not accepted", err)
	}

	return c.Status(fiber.StatusCreated).JSON(sub)
}

// GetDashboard handles GET /api/v1/me/submissions
// @Summary Member submissions with badges and eligibility
// @Produce json
// @Success 200 {object} models.MemberDashboard
// @Router /api/v1/me/submissions [get]
func (h *SubmissionHandler) GetDashboard(c *fiber.Ctx) error {
	dashboard, err := h.service.Dashboard(c.UserContext(), middleware.Email(c))
	if err != nil {
		return respondError(c, "Failed to load submissions", err)
	}

	return c.Status(fiber.StatusOK).JSON(dashboard)
}

// GetEligibility handles GET /api/v1/me/eligibility
// @Summary Whether the member may submit now
// @Produce json
// @Success 200 {object} models.Eligibility
// @Router /api/v1/me/eligibility [get]
func (h *SubmissionHandler) GetEligibility(c *fiber.Ctx) error {
	eligibility, err := h.service.Eligibility(c.UserContext(), middleware.Email(c))
	if err != nil {
		return respondError(c, "Failed to check eligibility", err)
	}

	return c.Status(fiber.StatusOK).JSON(eligibility)
}
