package config

import (
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Load reads config.yml, applies environment overlays and validates the
// result. A missing config file is not an error; defaults plus environment
// are enough to run.
func Load() (AppConfig, error) {
	// .env is optional
	_ = godotenv.Load()

	var cfg AppConfig
	paths := []string{"config.yml", "./config/config.yml"}
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			continue
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return AppConfig{}, err
		}
		break
	}

	applyEnvOverlay(&cfg)
	applyDefaults(&cfg)

	v := validator.New()
	if err := v.Struct(cfg.Server); err != nil {
		return AppConfig{}, err
	}
	if err := v.Struct(cfg.Engine); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

func applyEnvOverlay(cfg *AppConfig) {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Store.DSN = v
	}
	if v := os.Getenv("NATS_URL"); v != "" {
		cfg.Alerts.NATSURL = v
	}
	if v := os.Getenv("METRICS_ADDR"); v != "" {
		cfg.Metrics.Addr = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil && port > 0 {
			cfg.Server.Port = port
		}
	}
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 18080
	}
	if cfg.Engine.OverloadThreshold == 0 {
		cfg.Engine.OverloadThreshold = 1.0
	}
	if cfg.Engine.IdleThreshold == 0 {
		cfg.Engine.IdleThreshold = 0.35
	}
	if cfg.Engine.ODAlertTopN == 0 {
		cfg.Engine.ODAlertTopN = 10
	}
	if cfg.Alerts.SubjectPrefix == "" {
		cfg.Alerts.SubjectPrefix = "railway.alerts"
	}
}
