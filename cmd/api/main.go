package main

import (
	"context"
	"flag"
	"net/http"
	"os"

	"github.com/phuslu/log"

	apiaudit "fundamental_audit/pkg/api/audit"
	coreaudit "fundamental_audit/pkg/core/audit"
	"fundamental_audit/pkg/core/config"
	"fundamental_audit/pkg/core/ratio"
	"fundamental_audit/pkg/core/score"
	"fundamental_audit/pkg/core/store"
	"fundamental_audit/pkg/core/technical"
	"fundamental_audit/pkg/core/validation"
	"fundamental_audit/pkg/core/valuation"
)

func main() {
	configPath := flag.String("config", "", "optional config file (.yaml or .hjson)")
	flag.Parse()

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
	tech := technical.NewEngine(st)
	valuations := valuation.NewEngine(st)

	trail, err := coreaudit.OpenLog(cfg.AuditLogPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.AuditLogPath).Msg("audit trail open failed")
	}
	assembler := coreaudit.NewAssembler(scores, validator, trail)

	mux := http.NewServeMux()
	handler := apiaudit.NewHandler(ratios, scores, validator, tech, valuations, assembler, apiaudit.DefaultsFromConfig(cfg.Scores))
	handler.Register(mux)

	log.Info().Str("addr", cfg.HTTPAddr).Msg("starting audit API")
	if err := http.ListenAndServe(cfg.HTTPAddr, mux); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}
