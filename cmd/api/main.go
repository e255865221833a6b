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
	"github.com/valyala/fasthttp/fasthttpadaptor"

	"github.com/jhoicas/inventario-ai-report/internal/application/report"
	"github.com/jhoicas/inventario-ai-report/internal/domain/repository"
	infraai "github.com/jhoicas/inventario-ai-report/internal/infrastructure/ai"
	"github.com/jhoicas/inventario-ai-report/internal/infrastructure/cache"
	"github.com/jhoicas/inventario-ai-report/internal/infrastructure/mail"
	"github.com/jhoicas/inventario-ai-report/internal/infrastructure/metrics"
	"github.com/jhoicas/inventario-ai-report/internal/infrastructure/postgres"
	"github.com/jhoicas/inventario-ai-report/internal/infrastructure/render"
	httpRouter "github.com/jhoicas/inventario-ai-report/internal/interfaces/http"
	"github.com/jhoicas/inventario-ai-report/pkg/config"
	"github.com/jhoicas/inventario-ai-report/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es obligatorio")
	}
	rules := report.Rules{
		MinStockMethod:      cfg.Report.MinStockMethod,
		ExcessMultiplier:    cfg.Report.ExcessMultiplier,
		DeadStockDays:       cfg.Report.DeadStockDays,
		ReorderTargetFactor: cfg.Report.ReorderTargetFactor,
		ABCThresholdA:       cfg.Report.ABCThresholdA,
		ABCThresholdB:       cfg.Report.ABCThresholdB,
	}
	if err := rules.Validate(); err != nil {
		log.Fatal().Err(err).Msg("reglas del reporte")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	var companyRepo repository.CompanyRepository = postgres.NewCompanyRepository(pool)
	if cfg.Redis.URL != "" {
		rdb, err := cache.NewRedisClient(ctx, cfg.Redis.URL)
		if err != nil {
			// Sin Redis el servicio sigue funcionando contra PostgreSQL.
			log.Warn().Err(err).Msg("redis no disponible, caché de empresas deshabilitada")
		} else {
			defer rdb.Close()
			companyRepo = cache.NewCachedCompanyRepository(companyRepo, rdb, cfg.Redis.CompanyTTL, log.Component("company_cache"))
		}
	}

	recorder := metrics.NewRecorder()

	aggregator := report.NewAggregator(report.Sources{
		Products:  postgres.NewProductRepository(pool),
		Movements: postgres.NewStockMovementRepository(pool),
		Balances:  postgres.NewStockBalanceRepository(pool),
		Companies: companyRepo,
	}, rules, log.Component("aggregator"), recorder)

	// Entrega por correo y narrativa IA son opcionales: sin credenciales sus rutas responden 503.
	var sender httpRouter.ReportSender
	if cfg.Mail.Enabled() {
		htmlRenderer, err := render.NewHTMLRenderer()
		if err != nil {
			log.Fatal().Err(err).Msg("plantilla HTML del reporte")
		}
		mailer := mail.NewSendGridMailer(cfg.Mail.SendGridAPIKey, cfg.Mail.From, cfg.Mail.FromName,
			mail.DefaultBreakerSettings(), log.Component("sendgrid"))
		sender = report.NewReportMailer(aggregator, htmlRenderer, mailer, log.Component("report_mailer"), recorder)
	} else {
		log.Warn().Msg("SENDGRID_API_KEY o MAIL_FROM vacíos, envío de reportes deshabilitado")
	}

	var summarizer httpRouter.ReportSummarizer
	if cfg.AI.AnthropicAPIKey != "" {
		summarizer = report.NewInsightsUseCase(aggregator, infraai.NewAnthropicService(cfg.AI.AnthropicAPIKey, cfg.AI.AnthropicModel))
	}

	reportHandler := httpRouter.NewReportHandler(aggregator, render.NewPDFRenderer(), sender, summarizer, log.Component("http"))

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Inventario AI Report API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	metricsHandler := fasthttpadaptor.NewFastHTTPHandler(recorder.Handler())
	app.Get("/metrics", func(c *fiber.Ctx) error {
		metricsHandler(c.Context())
		return nil
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Reports:       reportHandler,
		ModuleChecker: companyRepo,
		JWTSecret:     cfg.JWT.Secret,
		Log:           log.Component("http"),
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
