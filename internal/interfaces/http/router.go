package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/inventario-ai-report/internal/domain/entity"
)

// Roles que pueden disparar envíos de correo.
var mailerRoles = []string{"admin", "bodeguero"}

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Reports       *ReportHandler
	ModuleChecker moduleChecker
	JWTSecret     string
	Log           zerolog.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	reports := api.Group("/reports",
		AuthMiddleware(deps.JWTSecret),
		RequireModule(entity.ModuleAnalytics, deps.ModuleChecker, deps.Log),
	)
	reports.Get("/inventory", deps.Reports.GetInventoryReport)
	reports.Get("/inventory/pdf", deps.Reports.GetInventoryReportPDF)
	reports.Get("/inventory/insights", deps.Reports.GetInventoryInsights)
	reports.Post("/inventory/email", RequireRole(mailerRoles...), deps.Reports.SendInventoryReport)
}
