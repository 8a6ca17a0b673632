package appconfig

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTP.Addr != ":27480" || cfg.Terminal.Theme != "matrix" {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoadRejectsUnsupportedConfigVersion(t *testing.T) {
	path := writeConfig(t, `
config_version: 2
`)
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "unsupported config_version") {
		t.Fatalf("expected config_version error, got %v", err)
	}
}

func TestLoadReadsValues(t *testing.T) {
	t.Setenv("MATRIX_STATE", "/srv/matrix")
	path := writeConfig(t, `
config_version: 1
state_dir: $MATRIX_STATE/state
http:
  addr: 127.0.0.1:8080
  base_path: /retro
content:
  base_url: https://example.com/site
  fetch_timeout_seconds: 4
terminal:
  theme: Phosphor_Amber
  history_max: 50
logging:
  disable_audit_trails: true
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.StateDir != "/srv/matrix/state" {
		t.Fatalf("expected env expansion, got %q", cfg.StateDir)
	}
	if cfg.HTTP.Addr != "127.0.0.1:8080" || cfg.HTTP.BasePath != "/retro" {
		t.Fatalf("unexpected http config %+v", cfg.HTTP)
	}
	if cfg.Content.BaseURL != "https://example.com/site" || cfg.Content.FetchTimeoutSeconds != 4 {
		t.Fatalf("unexpected content config %+v", cfg.Content)
	}
	if cfg.Terminal.Theme != "amber" || cfg.Terminal.HistoryMax != 50 {
		t.Fatalf("unexpected terminal config %+v", cfg.Terminal)
	}
	if !cfg.Logging.DisableAuditTrails {
		t.Fatalf("expected audit trails disabled")
	}
	if cfg.SSH.Addr != ":27422" {
		t.Fatalf("expected ssh default to survive, got %q", cfg.SSH.Addr)
	}
}

func TestLoadRejectsInvalidContentBaseURL(t *testing.T) {
	path := writeConfig(t, `
config_version: 1
content:
  base_url: example.com
`)
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "content.base_url") {
		t.Fatalf("expected base_url error, got %v", err)
	}
}

func TestLoadRejectsUnknownTheme(t *testing.T) {
	path := writeConfig(t, `
config_version: 1
terminal:
  theme: outrun
`)
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "terminal.theme") {
		t.Fatalf("expected theme error, got %v", err)
	}
}

func TestLoadRejectsURLBasePath(t *testing.T) {
	path := writeConfig(t, `
config_version: 1
http:
  base_path: https://example.com/x
`)
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "http.base_path") {
		t.Fatalf("expected base_path error, got %v", err)
	}
}

func TestExpandEnv(t *testing.T) {
	t.Setenv("FOO", "bar")
	value := expandEnv("$FOO/$UID/$GID/$MISSING")
	if !strings.HasPrefix(value, "bar/") {
		t.Fatalf("expected env expansion, got %q", value)
	}
	if strings.Contains(value, "$UID") || strings.Contains(value, "$GID") {
		t.Fatalf("expected UID/GID expansion, got %q", value)
	}
	if !strings.HasSuffix(value, "/$MISSING") {
		t.Fatalf("expected missing vars to remain, got %q", value)
	}
}

func TestWriteDefaultRespectsOverwrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	written, err := WriteDefault(path, false)
	if err != nil {
		t.Fatalf("write default: %v", err)
	}
	if written != path {
		t.Fatalf("expected path %q, got %q", path, written)
	}
	if _, err := Load(path); err != nil {
		t.Fatalf("written default should load: %v", err)
	}
	if _, err := WriteDefault(path, false); err == nil {
		t.Fatalf("expected error when config exists")
	}
	if _, err := WriteDefault(path, true); err != nil {
		t.Fatalf("expected overwrite to succeed: %v", err)
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(strings.TrimSpace(content)+"\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}
