package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Server.Port != 18080 {
		t.Errorf("default port = %d, want 18080", cfg.Server.Port)
	}
	if cfg.Engine.OverloadThreshold != 1.0 || cfg.Engine.IdleThreshold != 0.35 {
		t.Errorf("default thresholds = %v/%v", cfg.Engine.OverloadThreshold, cfg.Engine.IdleThreshold)
	}
	if cfg.Engine.ODAlertTopN != 10 {
		t.Errorf("default topN = %d, want 10", cfg.Engine.ODAlertTopN)
	}
	if cfg.Alerts.SubjectPrefix != "railway.alerts" {
		t.Errorf("default subject prefix = %s", cfg.Alerts.SubjectPrefix)
	}
}

func TestLoadReadsYAML(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	yml := []byte("server:\n  port: 9000\nengine:\n  overloadThreshold: 1.2\n  idleThreshold: 0.25\nstore:\n  dsn: postgres://db/railway\n")
	if err := os.WriteFile(filepath.Join(dir, "config.yml"), yml, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Engine.OverloadThreshold != 1.2 || cfg.Engine.IdleThreshold != 0.25 {
		t.Errorf("thresholds = %v/%v", cfg.Engine.OverloadThreshold, cfg.Engine.IdleThreshold)
	}
	if cfg.Store.DSN != "postgres://db/railway" {
		t.Errorf("dsn = %s", cfg.Store.DSN)
	}
}

func TestLoadEnvOverlay(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DATABASE_URL", "postgres://env/railway")
	t.Setenv("PORT", "7070")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Store.DSN != "postgres://env/railway" {
		t.Errorf("dsn = %s, want env override", cfg.Store.DSN)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("port = %d, want 7070", cfg.Server.Port)
	}
}
