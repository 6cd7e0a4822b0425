// Package config loads runtime configuration from a YAML or HJSON file plus
// environment variables (a .env file is honored when present). Environment
// values override file values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	hjson "github.com/hjson/hjson-go/v4"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

// ScoreParams carries the overridable composite-score assumptions.
type ScoreParams struct {
	WACC         float64 `yaml:"wacc" json:"wacc"`
	TaxRate      float64 `yaml:"tax_rate" json:"tax_rate"`
	RiskFreeRate float64 `yaml:"risk_free_rate" json:"risk_free_rate"`
	HorizonYears float64 `yaml:"horizon_years" json:"horizon_years"`
}

// Config is the process configuration for the API server and audit CLI.
type Config struct {
	DatabaseURL  string      `yaml:"database_url" json:"database_url"`
	HTTPAddr     string      `yaml:"http_addr" json:"http_addr"`
	AuditLogPath string      `yaml:"audit_log_path" json:"audit_log_path"`
	Scores       ScoreParams `yaml:"scores" json:"scores"`
}

// Defaults used when neither file nor environment supplies a value.
const (
	DefaultHTTPAddr     = ":8080"
	DefaultAuditLogPath = "audit.log"
)

// Load reads the optional config file (format chosen by extension: .yaml,
// .yml or .hjson), then applies environment overrides. An empty path skips
// the file step entirely.
func Load(path string) (*Config, error) {
	godotenv.Load()

	cfg := &Config{
		HTTPAddr:     DefaultHTTPAddr,
		AuditLogPath: DefaultAuditLogPath,
	}

	if path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		cfg.HTTPAddr = v
	}
	if v := os.Getenv("AUDIT_LOG_PATH"); v != "" {
		cfg.AuditLogPath = v
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("config: parse %s: %w", path, err)
		}
	case ".hjson", ".json":
		if err := hjson.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("config: parse %s: %w", path, err)
		}
	default:
		return fmt.Errorf("config: unsupported extension on %s", path)
	}
	return nil
}
