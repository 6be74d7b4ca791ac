package handlers

import (
	"strings"

	"pullupboard/internal/models"
	"pullupboard/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MetricsSource reports runtime counters for the admin dashboard
type MetricsSource interface {
	GetMetrics() map[string]interface{}
}

// AdminHandler handles the review workflow endpoints
type AdminHandler struct {
	reviews   *service.ReviewService
	validator *validator.Validate
	pool      MetricsSource
	snapshots MetricsSource
	viewers   func() int
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(reviews *service.ReviewService, pool, snapshots MetricsSource, viewers func() int) *AdminHandler {
	return &AdminHandler{
		reviews:   reviews,
		validator: validator.New(),
		pool:      pool,
		snapshots: snapshots,
		viewers:   viewers,
	}
}

// parseStatus accepts any casing of a review state; "" and "all" mean no filter
func parseStatus(raw string) (*models.Status, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "all") {
		return nil, true
	}
	status := models.Status(cases.Title(language.English).String(raw))
	if !status.Valid() {
		return nil, false
	}
	return &status, true
}

// ListSubmissions handles GET /api/v1/admin/submissions
// @Summary Review queue
// @Produce json
// @Param status query string false "pending, approved, rejected or all"
// @Success 200 {object} models.ReviewQueueResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /api/v1/admin/submissions [get]
func (h *AdminHandler) ListSubmissions(c *fiber.Ctx) error {
	status, ok := parseStatus(c.Query("status"))
	if !ok {
		return badRequest(c, "Invalid status", "Status must be pending, approved, rejected or all")
	}

	queue, err := h.reviews.Queue(c.UserContext(), status)
	if err != nil {
		return respondError(c, "Failed to list submissions", err)
	}

	return c.Status(fiber.StatusOK).JSON(queue)
}

// GetSubmission handles GET /api/v1/admin/submissions/:id
func (h *AdminHandler) GetSubmission(c *fiber.Ctx) error {
	sub, err := h.reviews.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, "Submission not found", err)
	}

	return c.Status(fiber.StatusOK).JSON(sub)
}

// Approve handles POST /api/v1/admin/submissions/:id/approve
// @Summary Approve a pending submission
// @Accept json
// @Produce json
// @Param request body models.ReviewRequest false "Confirmed count"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /api/v1/admin/submissions/{id}/approve [post]
func (h *AdminHandler) Approve(c *fiber.Ctx) error {
	var req models.ReviewRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body", err.Error())
		}
	}

	if err := h.validator.Struct(&req); err != nil {
		return respondError(c, "Validation failed", err)
	}

	id := c.Params("id")
	if err := h.reviews.Approve(c.UserContext(), id, req.ActualPullUpCount); err != nil {
		return respondError(c, "Failed to approve submission", err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Submission approved",
		"id":      id,
		"status":  models.StatusApproved,
	})
}

// Reject handles POST /api/v1/admin/submissions/:id/reject
func (h *AdminHandler) Reject(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.reviews.Reject(c.UserContext(), id); err != nil {
		return respondError(c, "Failed to reject submission", err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Submission rejected",
		"id":      id,
		"status":  models.StatusRejected,
	})
}

// Delete handles DELETE /api/v1/admin/submissions/:id
func (h *AdminHandler) Delete(c *fiber.Ctx) error {
	if err := h.reviews.Delete(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, "Failed to delete submission", err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// GetMetrics handles GET /api/v1/admin/metrics
func (h *AdminHandler) GetMetrics(c *fiber.Ctx) error {
	resp := fiber.Map{}
	if h.pool != nil {
		resp["worker_pool"] = h.pool.GetMetrics()
	}
	if h.snapshots != nil {
		resp["snapshot_job"] = h.snapshots.GetMetrics()
	}
	if h.viewers != nil {
		resp["websocket_clients"] = h.viewers()
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}
