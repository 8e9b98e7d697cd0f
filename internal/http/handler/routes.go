package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"furnicost/internal/service"
)

// RegisterRoutes attaches the API routes to app. /metrics and /swagger are
// mounted by the caller.
func RegisterRoutes(app *fiber.App, db *sql.DB, svc service.EstimateService) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	app.Post("/drawings/area", DetectArea(svc))
	app.Get("/materials", Materials(svc))

	est := app.Group("/estimates")
	est.Get("/", ListEstimates(svc))
	est.Post("/", CreateEstimate(svc))
	est.Get("/:id", GetEstimate(svc))
	est.Delete("/:id", DeleteEstimate(svc))
	est.Get("/:id/drawing", DownloadDrawing(svc))
	est.Get("/:id/drawing-url", DrawingURL(svc))
}
