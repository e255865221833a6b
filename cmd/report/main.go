// report genera el reporte de inventario de una empresa desde la línea de comandos,
// sin pasar por la API HTTP. Útil para revisar reglas y datos antes de un envío.
//
// Uso:
//
//	go run ./cmd/report -company <uuid> [-start 2024-01-01] [-end 2024-01-31] [-pdf salida.pdf]
//	go run ./cmd/report -company <uuid> -token [-role admin]
//
// Con -token imprime un JWT de desarrollo firmado con JWT_SECRET para probar la API.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/jhoicas/inventario-ai-report/internal/application/report"
	"github.com/jhoicas/inventario-ai-report/internal/infrastructure/postgres"
	"github.com/jhoicas/inventario-ai-report/internal/infrastructure/render"
	"github.com/jhoicas/inventario-ai-report/pkg/config"
	"github.com/jhoicas/inventario-ai-report/pkg/jwt"
	"github.com/jhoicas/inventario-ai-report/pkg/logger"
)

func main() {
	companyID := flag.String("company", "", "UUID de la empresa (obligatorio)")
	start := flag.String("start", "", "inicio del período YYYY-MM-DD (default: primer día del mes)")
	end := flag.String("end", "", "fin del período YYYY-MM-DD (default: hoy)")
	pdfPath := flag.String("pdf", "", "si se indica, escribe también el PDF en esta ruta")
	token := flag.Bool("token", false, "imprime un JWT de desarrollo para la empresa y termina")
	role := flag.String("role", "admin", "rol del JWT generado con -token")
	flag.Parse()

	if *companyID == "" {
		fmt.Fprintln(os.Stderr, "-company es obligatorio")
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}

	if *token {
		tok, err := jwt.Generate(cfg.JWT.Secret, cfg.JWT.Issuer,
			jwt.Identity{UserID: "cli", CompanyID: *companyID, Role: *role},
			time.Duration(cfg.JWT.Expiration)*time.Minute)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Generar token: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(tok)
		return
	}

	// Los logs van a stderr para no mezclarse con el JSON.
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "report-cli", Output: os.Stderr})

	rules := report.Rules{
		MinStockMethod:      cfg.Report.MinStockMethod,
		ExcessMultiplier:    cfg.Report.ExcessMultiplier,
		DeadStockDays:       cfg.Report.DeadStockDays,
		ReorderTargetFactor: cfg.Report.ReorderTargetFactor,
		ABCThresholdA:       cfg.Report.ABCThresholdA,
		ABCThresholdB:       cfg.Report.ABCThresholdB,
	}
	if err := rules.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Reglas del reporte: %v\n", err)
		os.Exit(1)
	}
	periodStart, periodEnd, err := report.ParsePeriod(*start, *end, time.Now())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Período: %v\n", err)
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Conexión a PostgreSQL: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	aggregator := report.NewAggregator(report.Sources{
		Products:  postgres.NewProductRepository(pool),
		Movements: postgres.NewStockMovementRepository(pool),
		Balances:  postgres.NewStockBalanceRepository(pool),
		Companies: postgres.NewCompanyRepository(pool),
	}, rules, log.Component("aggregator"), nil)

	payload, err := aggregator.BuildReportPayload(ctx, *companyID, periodStart, periodEnd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Generar reporte: %v\n", err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(payload); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir JSON: %v\n", err)
		os.Exit(1)
	}

	if *pdfPath != "" {
		doc, err := render.NewPDFRenderer().Render(payload)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Generar PDF: %v\n", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*pdfPath, doc, 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "Escribir PDF: %v\n", err)
			os.Exit(1)
		}
		log.Info().Str("path", *pdfPath).Msg("PDF generado")
	}
}
