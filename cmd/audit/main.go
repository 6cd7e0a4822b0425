// Command audit generates one audit report from the command line and prints
// it as Markdown, or writes HTML/PDF to a file.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/phuslu/log"

	coreaudit "fundamental_audit/pkg/core/audit"
	"fundamental_audit/pkg/core/config"
	"fundamental_audit/pkg/core/ratio"
	"fundamental_audit/pkg/core/score"
	"fundamental_audit/pkg/core/store"
	"fundamental_audit/pkg/core/validation"
	"fundamental_audit/pkg/models"
	"fundamental_audit/pkg/report"
)

func main() {
	configPath := flag.String("config", "", "optional config file (.yaml or .hjson)")
	ticker := flag.String("ticker", "", "ticker symbol")
	period := flag.String("period", "annual", "annual or quarterly")
	date := flag.String("date", "", "fiscal date (YYYY-MM-DD)")
	trendDates := flag.String("trend-dates", "", "comma-separated fiscal dates for the ROE trend")
	format := flag.String("format", "markdown", "markdown, html or pdf")
	out := flag.String("out", "", "output file (stdout when empty)")
	flag.Parse()

	if *ticker == "" || *date == "" {
		fmt.Fprintln(os.Stderr, "usage: audit -ticker AAPL -date 2024-09-28 [-period annual] [-format markdown]")
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	ctx := context.Background()
	if err := store.InitDB(ctx, cfg.DatabaseURL); err != nil {
		log.Fatal().Err(err).Msg("database init failed")
	}
	defer store.Close()

	st := store.NewPostgresStore(store.GetPool())
	ratios := ratio.NewEngine(st)
	scores := score.NewEngine(ratios)
	validator := validation.NewEngine(ratios)

	trail, err := coreaudit.OpenLog(cfg.AuditLogPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.AuditLogPath).Msg("audit trail open failed")
	}
	assembler := coreaudit.NewAssembler(scores, validator, trail)

	var dates []string
	for _, d := range strings.Split(*trendDates, ",") {
		if d = strings.TrimSpace(d); d != "" {
			dates = append(dates, d)
		}
	}

	rep, err := assembler.GenerateReport(ctx, strings.ToUpper(*ticker), models.PeriodType(*period), *date, dates)
	if err != nil {
		log.Fatal().Err(err).Msg("report generation failed")
	}

	var payload []byte
	switch *format {
	case "markdown":
		payload = []byte(report.RenderMarkdown(rep))
	case "html":
		html, err := report.RenderHTML(rep)
		if err != nil {
			log.Fatal().Err(err).Msg("html rendering failed")
		}
		payload = []byte(html)
	case "pdf":
		pdf, err := report.RenderPDF(rep)
		if err != nil {
			log.Fatal().Err(err).Msg("pdf rendering failed")
		}
		payload = pdf
	default:
		log.Fatal().Str("format", *format).Msg("unknown format")
	}

	if *out == "" {
		os.Stdout.Write(payload)
		return
	}
	if err := os.WriteFile(*out, payload, 0o644); err != nil {
		log.Fatal().Err(err).Str("path", *out).Msg("write failed")
	}
	log.Info().Str("path", *out).Msg("report written")
}
