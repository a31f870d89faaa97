package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return dir
}

func TestLoadConfig_AppliesDefaults(t *testing.T) {
	dir := writeConfig(t, `
database:
  driver: sqlite
  path: ":memory:"
storage:
  type: minio
`)

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.AI.Timeout != 60*time.Second {
		t.Fatalf("unexpected ai timeout: %s", cfg.AI.Timeout)
	}
	if cfg.AI.TopicMaxTokens != 1500 || cfg.AI.RoadmapMaxTokens != 2000 {
		t.Fatalf("unexpected token budgets: %d / %d", cfg.AI.TopicMaxTokens, cfg.AI.RoadmapMaxTokens)
	}
	if cfg.AI.Model != "gpt-4" {
		t.Fatalf("unexpected model: %q", cfg.AI.Model)
	}
	if cfg.Server.Port != "8080" {
		t.Fatalf("unexpected port: %q", cfg.Server.Port)
	}
	if cfg.Database.MaxOpenConns != 25 || cfg.Database.MaxIdleConns != 10 || cfg.Database.ConnMaxLifetime != time.Hour {
		t.Fatalf("unexpected pool settings: %+v", cfg.Database)
	}
}

func TestLoadConfig_EnvOverridesAPIKey(t *testing.T) {
	dir := writeConfig(t, `
database:
  driver: sqlite
storage:
  type: minio
`)
	t.Setenv("AI_API_KEY", "sk-test")
	t.Setenv("AI_TIMEOUT", "45s")

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.AI.APIKey != "sk-test" {
		t.Fatalf("api key not read from env: %q", cfg.AI.APIKey)
	}
	if cfg.AI.Timeout != 45*time.Second {
		t.Fatalf("timeout not read from env: %s", cfg.AI.Timeout)
	}
}

func TestLoadConfig_ReleaseRequiresSecrets(t *testing.T) {
	dir := writeConfig(t, `
server:
  mode: release
database:
  driver: sqlite
jwt:
  secret: short
storage:
  type: minio
`)

	if _, err := LoadConfig(dir); err == nil {
		t.Fatalf("expected release mode to reject a short jwt secret")
	}
}

func TestLoadConfig_RejectsUnknownDriver(t *testing.T) {
	dir := writeConfig(t, `
database:
  driver: oracle
storage:
  type: minio
`)

	if _, err := LoadConfig(dir); err == nil {
		t.Fatalf("expected unknown driver to be rejected")
	}
}
