package server

import (
	"github.com/gofiber/fiber/v3/middleware/adaptor"

	"holmes/internal/actions"
	"holmes/internal/alert"
	"holmes/internal/handlers"
	"holmes/internal/handlers/api"
	"holmes/internal/metrics"
	"holmes/internal/middleware"
	"holmes/internal/render"
)

// Deps are the collaborators the HTTP routes delegate to.
type Deps struct {
	Dispatcher handlers.Dispatcher
	Checker    handlers.ConnectionChecker
	Registry   *actions.Registry
	Renderer   *render.Renderer
	Classifier *alert.Classifier
	Channels   []string
}

// RegisterRoutes registers all application routes.
func (s *Server) RegisterRoutes(d Deps) {
	// Initialize middleware
	slackAuth := middleware.NewSlackAuth(s.Cfg.SlackSigningSecret)

	// Initialize handlers
	slackHandler := handlers.NewSlackHandler(d.Dispatcher)
	probeHandler := handlers.NewProbeHandler(d.Checker)
	statusHandler := handlers.NewStatusHandler(d.Registry, d.Channels, d.Checker)
	actionsAPI := api.NewActionsHandler(d.Registry)
	templatesAPI := api.NewTemplatesHandler(d.Renderer)
	classifyAPI := api.NewClassifyHandler(d.Classifier)

	// Slack routes - every request must carry a valid signature
	slackGroup := s.App.Group("/slack", slackAuth.RequireSignature)
	slackGroup.Post("/events", slackHandler.Events)
	slackGroup.Post("/slash", slackHandler.Slash)
	slackGroup.Post("/interactive", slackHandler.Interactive)

	// Probes and metrics
	s.App.Get("/health", probeHandler.Health)
	s.App.Get("/healthz", probeHandler.Liveness)
	s.App.Get("/readyz", probeHandler.Readiness)
	s.App.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	// JSON API
	s.App.Get("/api/actions", actionsAPI.List)
	s.App.Get("/api/templates", templatesAPI.List)
	s.App.Get("/api/templates/:name", templatesAPI.Preview)
	s.App.Post("/api/classify", classifyAPI.Classify)

	// Status page
	s.App.Get("/", statusHandler.Index)
}
