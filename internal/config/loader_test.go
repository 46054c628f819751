package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "remindd.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_AppliesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load(writeConfig(t, "version: \"1\"\n"))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Gateway.Bind != "127.0.0.1:8420" {
		t.Errorf("bind = %q", cfg.Gateway.Bind)
	}
	if cfg.Data.Path != "remindd.db" {
		t.Errorf("data path = %q", cfg.Data.Path)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("log level = %q", cfg.LogLevel)
	}
	if cfg.Gateway.ShutdownTimeout != 10*time.Second {
		t.Errorf("shutdown timeout = %v", cfg.Gateway.ShutdownTimeout)
	}
}

func TestLoad_FullConfig(t *testing.T) {
	t.Parallel()

	cfg, err := Load(writeConfig(t, `
version: "1"
gateway:
  bind: "0.0.0.0:9000"
  bearer_token: secret
data:
  path: /var/lib/remindd/reminders.db
log_level: debug
users:
  - id: "1"
    name: Alice Smith
    mention_name: alice
    room: general
maintenance:
  reconcile: "*/2 * * * *"
telemetry:
  endpoint: localhost:4318
  insecure: true
`))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Gateway.Bind != "0.0.0.0:9000" || cfg.Gateway.BearerToken != "secret" {
		t.Errorf("gateway = %+v", cfg.Gateway)
	}
	if len(cfg.Users) != 1 || cfg.Users[0].MentionName != "alice" {
		t.Errorf("users = %+v", cfg.Users)
	}
	if cfg.Maintenance.Reconcile != "*/2 * * * *" {
		t.Errorf("maintenance = %+v", cfg.Maintenance)
	}
	if cfg.Telemetry.Endpoint != "localhost:4318" || !cfg.Telemetry.Insecure {
		t.Errorf("telemetry = %+v", cfg.Telemetry)
	}
}

func TestLoad_ExpandsEnvVars(t *testing.T) {
	t.Setenv("REMINDD_TEST_TOKEN", "tok-123")

	cfg, err := Load(writeConfig(t, `
version: "1"
gateway:
  bearer_token: ${REMINDD_TEST_TOKEN}
data:
  path: ${REMINDD_TEST_DB:-fallback.db}
`))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Gateway.BearerToken != "tok-123" {
		t.Errorf("token = %q", cfg.Gateway.BearerToken)
	}
	if cfg.Data.Path != "fallback.db" {
		t.Errorf("path = %q, want the default", cfg.Data.Path)
	}
}

func TestLoad_UnresolvedVariable(t *testing.T) {
	t.Parallel()

	_, err := Load(writeConfig(t, "version: \"1\"\ngateway:\n  bearer_token: ${REMINDD_NO_SUCH_VAR}\n"))
	if err == nil || !strings.Contains(err.Error(), "REMINDD_NO_SUCH_VAR") {
		t.Errorf("err = %v, want unresolved variable error", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("loading an absent file should fail")
	}
}
