package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "cfg.yaml")
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return p
}

func TestLoadFrom_Valid(t *testing.T) {
	p := writeConfig(t, `server:
  host: "127.0.0.1"
  port: ":9000"
convert:
  image_dpi: 150
workspace:
  base_dir: "/tmp/imgpdf"
  max_age: 5m
cache:
  enabled: true
  ttl: 2m
  redis_host: "localhost:6379"
  redis_result_db: 2
rate_limiter:
  interval: 1h
  user_limit: 20
  enable_user_limiter: true
`)
	cfg := LoadFrom(p)

	assert.Equal(t, ":9000", cfg.Server.Port)
	assert.Equal(t, 150, cfg.Convert.ImageDPI)
	assert.Equal(t, 72.0, cfg.Convert.RenderDPI)
	assert.Equal(t, "/tmp/imgpdf", cfg.Workspace.BaseDir)
	assert.Equal(t, 5*time.Minute, cfg.Workspace.MaxAge)
	assert.Equal(t, "@every 10m", cfg.Workspace.SweepSchedule)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, 2, cfg.Cache.ResultDB)
	assert.Equal(t, 20, cfg.RateLimiter.UserLimit)
	assert.Equal(t, time.Minute, cfg.Auth.TokenReloadInterval)
}

func TestDefault_MatchesConversionSettings(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 100, cfg.Convert.ImageDPI)
	assert.Equal(t, 72.0, cfg.Convert.RenderDPI)
	assert.NoError(t, Validate(cfg))
}

func TestLoadFrom_PanicsOnInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		yml  string
	}{
		{name: "bad port", yml: "server:\n  port: '8080'\n"},
		{name: "negative dpi", yml: "convert:\n  image_dpi: -1\n"},
		{name: "negative render dpi", yml: "convert:\n  render_dpi: -72\n"},
		{name: "negative max age", yml: "workspace:\n  max_age: -1m\n"},
		{name: "negative user limit", yml: "rate_limiter:\n  user_limit: -1\n"},
		{name: "negative reload interval", yml: "auth:\n  token_reload_interval: -1s\n"},
		{name: "not yaml", yml: "server: [\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := writeConfig(t, tc.yml)
			defer func() {
				if recover() == nil {
					t.Fatalf("expected panic")
				}
			}()
			_ = LoadFrom(p)
		})
	}
}

func TestLoadFrom_PanicsOnMissingFile(t *testing.T) {
	assert.Panics(t, func() {
		_ = LoadFrom(filepath.Join(t.TempDir(), "missing.yaml"))
	})
}

func TestLoad_UsesConfigPathEnv(t *testing.T) {
	p := writeConfig(t, "server:\n  port: ':7000'\n")
	t.Setenv("CONFIG_PATH", p)
	cfg := Load()
	if cfg.Server.Port != ":7000" {
		t.Fatalf("expected CONFIG_PATH to be used, got %q", cfg.Server.Port)
	}
}

func TestLoad_WorkspaceDirFromEnv(t *testing.T) {
	p := writeConfig(t, "workspace:\n  base_dir: '/from/file'\n")
	t.Setenv("CONFIG_PATH", p)
	t.Setenv("IMGPDF_WORKSPACE_DIR", "/from/env")
	cfg := Load()
	assert.Equal(t, "/from/env", cfg.Workspace.BaseDir)
}
