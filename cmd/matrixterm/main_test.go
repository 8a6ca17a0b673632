package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pkt.systems/matrixterm/internal/appconfig"
)

func TestRootHasSubcommands(t *testing.T) {
	root := newRootCmd()
	for _, name := range []string{"serve", "shell", "config", "version"} {
		found := false
		for _, cmd := range root.Commands() {
			if cmd.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("expected root command to include %s", name)
		}
	}
}

func TestVersionCommand(t *testing.T) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(out.String(), "matrixterm") {
		t.Fatalf("unexpected version output %q", out.String())
	}
}

func TestConfigInitWritesLoadableConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	root := newRootCmd()
	root.SetArgs([]string{"config", "init", "-c", path})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("config init: %v", err)
	}
	cfg, err := appconfig.Load(path)
	if err != nil {
		t.Fatalf("load written config: %v", err)
	}
	if cfg.ConfigVersion != appconfig.CurrentConfigVersion {
		t.Fatalf("unexpected config version %d", cfg.ConfigVersion)
	}

	root = newRootCmd()
	root.SetArgs([]string{"config", "init", "-c", path})
	if err := root.ExecuteContext(context.Background()); err == nil {
		t.Fatalf("expected existing config to be kept without --force")
	}

	root = newRootCmd()
	root.SetArgs([]string{"config", "init", "-c", path, "--force"})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("config init --force: %v", err)
	}
}

func TestOpenShellLogCreatesParent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "shell.log")
	file, err := openShellLog(path)
	if err != nil {
		t.Fatalf("openShellLog: %v", err)
	}
	_ = file.Close()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat log: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("unexpected log mode %v", info.Mode().Perm())
	}
}

func TestIsTerminalRejectsRegularFile(t *testing.T) {
	file, err := os.CreateTemp(t.TempDir(), "not-a-tty")
	if err != nil {
		t.Fatalf("create temp: %v", err)
	}
	defer file.Close()
	if isTerminal(file) {
		t.Fatalf("regular file reported as terminal")
	}
	if isTerminal(nil) {
		t.Fatalf("nil file reported as terminal")
	}
}
