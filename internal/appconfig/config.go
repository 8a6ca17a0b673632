package appconfig

import (
	"os"
	"path/filepath"
	"time"

	"pkt.systems/matrixterm/schema"
)

// Config is the top-level application configuration.
type Config struct {
	ConfigVersion int            `mapstructure:"config_version" yaml:"config_version"`
	StateDir      string         `mapstructure:"state_dir" yaml:"state_dir"`
	HTTP          HTTPConfig     `mapstructure:"http" yaml:"http"`
	SSH           SSHConfig      `mapstructure:"ssh" yaml:"ssh"`
	Content       ContentConfig  `mapstructure:"content" yaml:"content"`
	Terminal      TerminalConfig `mapstructure:"terminal" yaml:"terminal"`
	Logging       LoggingConfig  `mapstructure:"logging" yaml:"logging"`
}

// CurrentConfigVersion marks the supported config version.
const CurrentConfigVersion = 1

// HTTPConfig configures the content server.
type HTTPConfig struct {
	Addr     string `mapstructure:"addr" yaml:"addr"`
	BasePath string `mapstructure:"base_path" yaml:"base_path"`
	DataDir  string `mapstructure:"data_dir" yaml:"data_dir"`
}

// SSHConfig configures the SSH server.
type SSHConfig struct {
	Addr        string `mapstructure:"addr" yaml:"addr"`
	HostKeyPath string `mapstructure:"host_key_path" yaml:"host_key_path"`
}

// ContentConfig selects where sessions load pages from.
type ContentConfig struct {
	// BaseURL is the site serving data/<page>.json. Empty uses
	// http.data_dir when set, otherwise the embedded pages.
	BaseURL             string `mapstructure:"base_url" yaml:"base_url"`
	FetchTimeoutSeconds int    `mapstructure:"fetch_timeout_seconds" yaml:"fetch_timeout_seconds"`
}

// TerminalConfig controls interpreter sessions.
type TerminalConfig struct {
	Theme      string `mapstructure:"theme" yaml:"theme"`
	HistoryMax int    `mapstructure:"history_max" yaml:"history_max"`
}

// LoggingConfig controls audit logging behavior.
type LoggingConfig struct {
	DisableAuditTrails bool `mapstructure:"disable_audit_trails" yaml:"disable_audit_trails"`
}

const (
	defaultFetchTimeoutSeconds = 10
	defaultHistoryMax          = 1000
)

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() (Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Config{}, err
	}
	return Config{
		ConfigVersion: CurrentConfigVersion,
		StateDir:      filepath.Join(home, ".matrixterm", "state"),
		HTTP: HTTPConfig{
			Addr:     ":27480",
			BasePath: "",
			DataDir:  "",
		},
		SSH: SSHConfig{
			Addr:        ":27422",
			HostKeyPath: filepath.Join(home, ".matrixterm", "ssh_host_key"),
		},
		Content: ContentConfig{
			BaseURL:             "",
			FetchTimeoutSeconds: defaultFetchTimeoutSeconds,
		},
		Terminal: TerminalConfig{
			Theme:      string(schema.DefaultTheme),
			HistoryMax: defaultHistoryMax,
		},
		Logging: LoggingConfig{
			DisableAuditTrails: false,
		},
	}, nil
}

// DefaultConfigPath returns the standard config path.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".matrixterm", "config.yaml"), nil
}

// FetchTimeout returns the page fetch timeout.
func (c Config) FetchTimeout() time.Duration {
	if c.Content.FetchTimeoutSeconds <= 0 {
		return defaultFetchTimeoutSeconds * time.Second
	}
	return time.Duration(c.Content.FetchTimeoutSeconds) * time.Second
}

// IdentityDir is where per-client identity snapshots are stored.
func (c Config) IdentityDir() string {
	return filepath.Join(c.StateDir, "identity")
}

// ShellLogPath is the log file used by the local shell.
func (c Config) ShellLogPath() string {
	return filepath.Join(c.StateDir, "shell.log")
}
