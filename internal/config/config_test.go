package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const validYAML = `
server:
  addr: "127.0.0.1:9090"
  secure_cookies: true
  session_lifetime: 12h
storage:
  backend: relational
  path: /var/lib/stacked/stacked.db
  user_id: alice
  seed_samples: false
backup:
  dir: /var/backups/stacked
  schedule: "0 3 * * *"
  keep: 7
notify:
  urls:
    - "ntfy://ntfy.sh/stacked"
log:
  level: debug
  format: json
`

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "stacked.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadValid(t *testing.T) {
	cfg, err := Load(writeTemp(t, validYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Addr != "127.0.0.1:9090" {
		t.Errorf("server.addr = %q, want %q", cfg.Server.Addr, "127.0.0.1:9090")
	}
	if !cfg.Server.SecureCookies {
		t.Error("server.secure_cookies = false, want true")
	}
	if cfg.Server.SessionLifetime != 12*time.Hour {
		t.Errorf("server.session_lifetime = %v, want 12h", cfg.Server.SessionLifetime)
	}
	if cfg.Storage.Backend != "relational" || cfg.Storage.UserID != "alice" {
		t.Errorf("storage = %+v", cfg.Storage)
	}
	if cfg.Storage.SeedSamples {
		t.Error("storage.seed_samples = true, want false")
	}
	if cfg.Backup.Keep != 7 || cfg.Backup.Schedule != "0 3 * * *" {
		t.Errorf("backup = %+v", cfg.Backup)
	}
	if len(cfg.Notify.URLs) != 1 {
		t.Errorf("notify.urls = %v", cfg.Notify.URLs)
	}
	if cfg.Log.Format != "json" {
		t.Errorf("log.format = %q, want json", cfg.Log.Format)
	}
}

func TestLoadDefaultsWhenMissing(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Addr != ":8080" || cfg.Storage.Backend != "local" || cfg.Storage.Path != "stacked.db" {
		t.Errorf("defaults = %+v", cfg)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("STACKED_ADDR", ":7000")
	t.Setenv("STACKED_STORAGE_BACKEND", "local")
	t.Setenv("STACKED_DB_PATH", "/tmp/other.db")
	t.Setenv("STACKED_BACKUP_KEEP", "3")
	t.Setenv("STACKED_BACKUP_SCHEDULE", "")
	t.Setenv("STACKED_NOTIFY_URLS", "ntfy://a, ,gotify://b/token")
	t.Setenv("STACKED_LOG_LEVEL", "warn")

	cfg, err := Load(writeTemp(t, validYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Addr != ":7000" {
		t.Errorf("server.addr = %q, want :7000", cfg.Server.Addr)
	}
	if cfg.Storage.Backend != "local" || cfg.Storage.Path != "/tmp/other.db" {
		t.Errorf("storage = %+v", cfg.Storage)
	}
	if cfg.Backup.Keep != 3 {
		t.Errorf("backup.keep = %d, want 3", cfg.Backup.Keep)
	}
	if cfg.Backup.Schedule != "" {
		t.Errorf("backup.schedule = %q, want empty", cfg.Backup.Schedule)
	}
	if len(cfg.Notify.URLs) != 2 || cfg.Notify.URLs[1] != "gotify://b/token" {
		t.Errorf("notify.urls = %v", cfg.Notify.URLs)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("log.level = %q, want warn", cfg.Log.Level)
	}
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"bad backend", "storage:\n  backend: supabase\n", "storage.backend"},
		{"empty path", "storage:\n  path: \"\"\n", "storage.path"},
		{"relational without user", "storage:\n  backend: relational\n  user_id: \"\"\n", "storage.user_id"},
		{"bad schedule", "backup:\n  schedule: \"every tuesday\"\n", "backup.schedule"},
		{"negative keep", "backup:\n  keep: -1\n", "backup.keep"},
		{"bad level", "log:\n  level: loud\n", "log.level"},
		{"bad format", "log:\n  format: xml\n", "log.format"},
		{"bad yaml", "server: [\n", "parsing config file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeTemp(t, tt.yaml))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	log := LogConfig{Level: "warn", Format: "json"}.NewLogger(&buf)
	log.Info("hidden")
	log.Warn("shown", "k", "v")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info message logged at warn level")
	}
	if !strings.Contains(out, `"msg":"shown"`) || !strings.Contains(out, `"k":"v"`) {
		t.Errorf("json output = %q", out)
	}
}
