package handlers

import (
	"net/url"
	"strconv"
	"strings"

	"pullupboard/internal/models"
	"pullupboard/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// LeaderboardHandler handles the public leaderboard endpoints
type LeaderboardHandler struct {
	service   *service.LeaderboardService
	validator *validator.Validate
}

// NewLeaderboardHandler creates a new leaderboard handler
func NewLeaderboardHandler(service *service.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{
		service:   service,
		validator: validator.New(),
	}
}

// GetLeaderboard handles GET /api/v1/leaderboard
// @Summary Get leaderboard
// @Description Ranked, tie-grouped leaderboard narrowed by optional filters
// @Produce json
// @Param club query string false "Club affiliation"
// @Param gender query string false "Male, Female or Other"
// @Param region query string false "Region"
// @Param age_group query string false "Age bracket, e.g. 25-29"
// @Param badge query string false "Badge id, e.g. operator"
// @Success 200 {object} models.LeaderboardResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/v1/leaderboard [get]
func (h *LeaderboardHandler) GetLeaderboard(c *fiber.Ctx) error {
	var filters models.LeaderboardFilters
	if err := c.QueryParser(&filters); err != nil {
		return badRequest(c, "Invalid query", err.Error())
	}

	if err := h.validator.Struct(&filters); err != nil {
		return respondError(c, "Invalid filter", err)
	}

	leaderboard, err := h.service.GetLeaderboard(c.UserContext(), filters)
	if err != nil {
		return respondError(c, "Failed to retrieve leaderboard", err)
	}

	return c.Status(fiber.StatusOK).JSON(leaderboard)
}

// GetPreview handles GET /api/v1/leaderboard/preview
// @Summary Top performers
// @Produce json
// @Param limit query int false "Number of entries" default(5)
// @Success 200 {object} models.PreviewResponse
// @Router /api/v1/leaderboard/preview [get]
func (h *LeaderboardHandler) GetPreview(c *fiber.Ctx) error {
	limit, err := strconv.Atoi(c.Query("limit", "5"))
	if err != nil {
		limit = 5
	}

	preview, err := h.service.GetPreview(c.UserContext(), limit)
	if err != nil {
		return respondError(c, "Failed to retrieve preview", err)
	}

	return c.Status(fiber.StatusOK).JSON(preview)
}

// SearchMember handles GET /api/v1/leaderboard/search/:email
// @Summary Find a member's rank
// @Produce json
// @Param email path string true "Member email"
// @Success 200 {object} models.SearchResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/v1/leaderboard/search/{email} [get]
func (h *LeaderboardHandler) SearchMember(c *fiber.Ctx) error {
	email, err := url.PathUnescape(c.Params("email"))
	email = strings.ToLower(strings.TrimSpace(email))
	if err != nil || email == "" {
		return badRequest(c, "Invalid email", "Email cannot be empty")
	}

	result, err := h.service.SearchMember(c.UserContext(), email)
	if err != nil {
		return respondError(c, "Member not found", err)
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

// GetBadges handles GET /api/v1/badges
func (h *LeaderboardHandler) GetBadges(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data": h.service.Badges(),
	})
}

// HealthCheck handles GET /api/v1/health
// @Summary Health check
// @Description Checks the health of the service and its dependencies
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} models.ErrorResponse
// @Router /api/v1/health [get]
func (h *LeaderboardHandler) HealthCheck(c *fiber.Ctx) error {
	if err := h.service.HealthCheck(c.UserContext()); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(models.ErrorResponse{
			Error:   "Health check failed",
			Message: err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":  "healthy",
		"message": "All systems operational",
	})
}
