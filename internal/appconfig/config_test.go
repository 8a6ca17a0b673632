package appconfig

import (
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg, err := DefaultConfig()
	if err != nil {
		t.Fatalf("default config: %v", err)
	}
	if cfg.ConfigVersion != CurrentConfigVersion {
		t.Fatalf("unexpected config version %d", cfg.ConfigVersion)
	}
	if cfg.Terminal.Theme != "matrix" || cfg.Terminal.HistoryMax != 1000 {
		t.Fatalf("unexpected terminal defaults %+v", cfg.Terminal)
	}
	if cfg.SSH.Addr != ":27422" {
		t.Fatalf("unexpected ssh addr %q", cfg.SSH.Addr)
	}
	if !strings.HasSuffix(cfg.IdentityDir(), "identity") || !strings.HasSuffix(cfg.ShellLogPath(), "shell.log") {
		t.Fatalf("unexpected state paths %q %q", cfg.IdentityDir(), cfg.ShellLogPath())
	}
}

func TestFetchTimeoutFallsBack(t *testing.T) {
	cfg := Config{}
	if got := cfg.FetchTimeout(); got != 10*time.Second {
		t.Fatalf("unexpected default timeout %v", got)
	}
	cfg.Content.FetchTimeoutSeconds = 3
	if got := cfg.FetchTimeout(); got != 3*time.Second {
		t.Fatalf("unexpected timeout %v", got)
	}
}
