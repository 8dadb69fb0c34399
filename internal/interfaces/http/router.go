package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Envios-api/internal/application/audit"
	"github.com/jhoicas/Envios-api/internal/application/auth"
	"github.com/jhoicas/Envios-api/internal/application/export"
	"github.com/jhoicas/Envios-api/internal/application/label"
	"github.com/jhoicas/Envios-api/internal/application/shipping"
	"github.com/jhoicas/Envios-api/internal/application/suppliers"
	"github.com/jhoicas/Envios-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Lifecycle  *shipping.LifecycleUseCase
	Query      *shipping.QueryUseCase
	SupplierUC *suppliers.SupplierUseCase
	AuditUC    *audit.QueryUseCase
	LabelUC    *label.UseCase
	SyncUC     *export.UseCase
	AuthUC     *auth.AuthUseCase
	JWTSecret  string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/refresh", authHandler.Refresh)
	authGroup.Post("/logout", authHandler.Logout)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Envíos: alta por escaneo, transiciones, listados y exportación.
	// Las rutas estáticas van antes que /:id para que Fiber no las capture.
	shipments := protected.Group("/shipments")
	shipmentHandler := NewShipmentHandler(deps.Lifecycle, deps.Query)
	labelHandler := NewLabelHandler(deps.LabelUC)
	shipments.Post("/", shipmentHandler.Send)
	shipments.Post("/resolve", shipmentHandler.Resolve)
	shipments.Post("/receive", shipmentHandler.Receive)
	shipments.Get("/export/csv", shipmentHandler.ExportCSV)
	shipments.Get("/", shipmentHandler.List)
	shipments.Get("/:id", shipmentHandler.GetByID)
	shipments.Get("/:id/label", labelHandler.Get)
	shipments.Patch("/:id/status", shipmentHandler.UpdateStatus)

	// Transportadoras (lectura para todos; mutaciones solo admin)
	suppliersGroup := protected.Group("/suppliers")
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliersGroup.Get("/", supplierHandler.List)
	suppliersGroup.Get("/:id", supplierHandler.GetByID)
	suppliersGroup.Post("/", RequireRole(entity.RoleAdmin), supplierHandler.Create)
	suppliersGroup.Put("/:id", RequireRole(entity.RoleAdmin), supplierHandler.Update)
	suppliersGroup.Delete("/:id", RequireRole(entity.RoleAdmin), supplierHandler.Deactivate)

	// Bitácora (solo lectura)
	auditHandler := NewAuditHandler(deps.AuditUC)
	protected.Get("/audit", auditHandler.List)

	// Tablero
	dashboardHandler := NewDashboardHandler(deps.Query)
	protected.Get("/dashboard", dashboardHandler.GetSummary)

	// Sincronización hacia el espejo (replace se restringe en el handler)
	syncHandler := NewSyncHandler(deps.SyncUC)
	protected.Post("/sync", syncHandler.Run)

	// Cuentas (solo admin)
	users := protected.Group("/users", RequireRole(entity.RoleAdmin))
	userHandler := NewUserHandler(deps.AuthUC)
	users.Get("/", userHandler.List)
	users.Put("/:username", userHandler.Upsert)
}
