package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	_ "github.com/jhoicas/Envios-api/docs"
	"github.com/jhoicas/Envios-api/internal/application/audit"
	"github.com/jhoicas/Envios-api/internal/application/auth"
	"github.com/jhoicas/Envios-api/internal/application/export"
	"github.com/jhoicas/Envios-api/internal/application/label"
	"github.com/jhoicas/Envios-api/internal/application/shipping"
	"github.com/jhoicas/Envios-api/internal/application/suppliers"
	"github.com/jhoicas/Envios-api/internal/domain/repository"
	infrapdf "github.com/jhoicas/Envios-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Envios-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Envios-api/internal/infrastructure/sheets"
	"github.com/jhoicas/Envios-api/internal/infrastructure/sqlite"
	"github.com/jhoicas/Envios-api/internal/infrastructure/telegram"
	httpRouter "github.com/jhoicas/Envios-api/internal/interfaces/http"
	"github.com/jhoicas/Envios-api/pkg/config"
	"github.com/jhoicas/Envios-api/pkg/logger"
)

// @title                       Envíos API
// @version                     1.0
// @description                 API interna de seguimiento de envíos de equipos por código QR.
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
// @description                 Escriba "Bearer" seguido del JWT.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	// Persistencia: SQLite embebido por defecto, PostgreSQL si se configura.
	var (
		shipmentRepo repository.ShipmentRepository
		supplierRepo repository.SupplierRepository
		auditRepo    repository.AuditRepository
		userRepo     repository.UserRepository
		tokenRepo    repository.TokenRepository
		txRunner     shipping.TxRunner
	)
	switch cfg.Store.Driver {
	case "postgres":
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if err := postgres.InitSchema(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("esquema de PostgreSQL")
		}
		shipmentRepo = postgres.NewShipmentRepository(pool)
		supplierRepo = postgres.NewSupplierRepository(pool)
		auditRepo = postgres.NewAuditRepository(pool)
		userRepo = postgres.NewUserRepository(pool)
		tokenRepo = postgres.NewTokenRepository(pool)
		txRunner = postgres.NewTxRunner(pool)
	default:
		db, err := sqlite.Open(cfg.Store.SQLitePath)
		if err != nil {
			log.Fatal().Err(err).Msg("abrir SQLite")
		}
		defer db.Close()
		if err := sqlite.InitSchema(db); err != nil {
			log.Fatal().Err(err).Msg("esquema de SQLite")
		}
		shipmentRepo = sqlite.NewShipmentRepository(db)
		supplierRepo = sqlite.NewSupplierRepository(db)
		auditRepo = sqlite.NewAuditRepository(db)
		userRepo = sqlite.NewUserRepository(db)
		tokenRepo = sqlite.NewTokenRepository(db)
		txRunner = sqlite.NewTxRunner(db)
	}

	// Espejo en Google Sheets: opcional; sin configurar, /api/sync responde 503.
	var mirror export.Mirror
	if cfg.Sheets.Enabled() {
		client, err := sheets.NewClient(cfg.Sheets)
		if err != nil {
			log.Fatal().Err(err).Msg("credenciales de Google Sheets")
		}
		mirror = client
		log.Info().Str("spreadsheet", cfg.Sheets.SpreadsheetID).Msg("espejo de Sheets habilitado")
	} else {
		log.Info().Msg("espejo de Sheets deshabilitado")
	}

	// Avisos por Telegram: el notificador se vuelve no-op sin token/chat.
	notifier := telegram.NewNotifier(cfg.Telegram)

	lifecycleUC := shipping.NewLifecycleUseCase(txRunner, supplierRepo, notifier)
	queryUC := shipping.NewQueryUseCase(shipmentRepo)
	supplierUC := suppliers.NewSupplierUseCase(supplierRepo)
	auditUC := audit.NewQueryUseCase(auditRepo)
	labelUC := label.NewUseCase(shipmentRepo, infrapdf.NewLabelGenerator())
	syncUC := export.NewUseCase(shipmentRepo, mirror)
	authUC := auth.NewAuthUseCase(userRepo, tokenRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Envíos API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Lifecycle:  lifecycleUC,
		Query:      queryUC,
		SupplierUC: supplierUC,
		AuditUC:    auditUC,
		LabelUC:    labelUC,
		SyncUC:     syncUC,
		AuthUC:     authUC,
		JWTSecret:  cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
