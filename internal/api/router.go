// Package api wires the HTTP routes of the leaderboard server.
package api

import (
	"net/http"

	"pullupboard/internal/api/handlers"
	"pullupboard/internal/api/middleware"
	"pullupboard/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	fiberws "github.com/gofiber/websocket/v2"
)

// Routes bundles everything the router mounts
type Routes struct {
	Leaderboard *handlers.LeaderboardHandler
	Submissions *handlers.SubmissionHandler
	Admin       *handlers.AdminHandler
	Hub         *websocket.Hub

	JWTSecret   string
	AdminRole   string
	SubmitLimit *middleware.RateLimiter
	Metrics     *middleware.Metrics
	MetricsHTTP http.Handler
}

// Register mounts every route on app
func Register(app *fiber.App, r Routes) {
	if r.Metrics != nil {
		app.Use(r.Metrics.Handler())
	}
	if r.MetricsHTTP != nil {
		app.Get("/metrics", adaptor.HTTPHandler(r.MetricsHTTP))
	}

	api := app.Group("/api/v1")

	// Public leaderboard routes
	api.Get("/leaderboard", r.Leaderboard.GetLeaderboard)
	api.Get("/leaderboard/preview", r.Leaderboard.GetPreview)
	api.Get("/leaderboard/search/:email", r.Leaderboard.SearchMember)
	api.Get("/badges", r.Leaderboard.GetBadges)
	api.Get("/health", r.Leaderboard.HealthCheck)

	// Member routes
	me := api.Group("/me", middleware.RequireAuth(r.JWTSecret))
	me.Get("/submissions", r.Submissions.GetDashboard)
	me.Get("/eligibility", r.Submissions.GetEligibility)
	submit := []fiber.Handler{}
	if r.SubmitLimit != nil {
		submit = append(submit, r.SubmitLimit.Handler())
	}
	submit = append(submit, r.Submissions.Submit)
	me.Post("/submissions", submit...)

	// Reviewer routes
	admin := api.Group("/admin", middleware.RequireAuth(r.JWTSecret), middleware.RequireRole(r.AdminRole))
	admin.Get("/submissions", r.Admin.ListSubmissions)
	admin.Get("/submissions/:id", r.Admin.GetSubmission)
	admin.Post("/submissions/:id/approve", r.Admin.Approve)
	admin.Post("/submissions/:id/reject", r.Admin.Reject)
	admin.Delete("/submissions/:id", r.Admin.Delete)
	admin.Get("/metrics", r.Admin.GetMetrics)

	// WebSocket route with upgrade check
	if r.Hub != nil {
		app.Use("/ws", func(c *fiber.Ctx) error {
			if fiberws.IsWebSocketUpgrade(c) {
				return c.Next()
			}
			return fiber.ErrUpgradeRequired
		})
		app.Get("/ws", fiberws.New(func(c *fiberws.Conn) {
			websocket.ServeWS(r.Hub, c)
		}))
	}
}
