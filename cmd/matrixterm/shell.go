package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"pkt.systems/matrixterm"
	"pkt.systems/matrixterm/internal/appconfig"
	"pkt.systems/matrixterm/internal/format"
	"pkt.systems/matrixterm/internal/logx"
	"pkt.systems/matrixterm/internal/tui"
	"pkt.systems/matrixterm/schema"
	"pkt.systems/pslog"
)

var errNotTerminal = errors.New("shell requires an interactive terminal")

func newShellCmd() *cobra.Command {
	var cfgPath string
	var baseURL string
	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Run the retro terminal in the current TTY",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isTerminal(os.Stdin) || !isTerminal(os.Stdout) {
				return errNotTerminal
			}
			cfg, err := appconfig.Load(cfgPath)
			if err != nil {
				return err
			}
			logFile, err := openShellLog(cfg.ShellLogPath())
			if err != nil {
				return err
			}
			defer func() { _ = logFile.Close() }()
			logger := pslog.LoggerFromEnv(
				pslog.WithEnvWriter(logFile),
				pslog.WithEnvOptions(pslog.Options{Mode: pslog.ModeStructured, NoColor: true}),
			)
			ctx := pslog.ContextWithLogger(cmd.Context(), logger)

			factory, err := newSessionFactory(cfg, baseURL, logger)
			if err != nil {
				return err
			}
			session, loader, err := factory.NewSession(ctx, matrixterm.LocalClientID)
			if err != nil {
				return err
			}
			ctx = logx.ContextWithClientSessionLogger(ctx, logx.WithClientSession(ctx, matrixterm.LocalClientID, session.ID()), matrixterm.LocalClientID, session.ID())
			profile := format.ProfileForTerm(os.Getenv("TERM"), os.Getenv("COLORTERM"))
			return tui.Run(ctx, session, loader, tui.Options{
				Renderer:     format.NewRenderer(profile, format.ThemeFor(schema.ThemeName(cfg.Terminal.Theme))),
				FetchTimeout: cfg.FetchTimeout(),
			})
		},
	}
	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "path to config file")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "load pages from this site instead of content.base_url")
	return cmd
}

func isTerminal(f *os.File) bool {
	return f != nil && term.IsTerminal(int(f.Fd()))
}

// openShellLog appends to path. The TUI owns stdout and stderr while the
// shell runs.
func openShellLog(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("shell log dir: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("shell log: %w", err)
	}
	return file, nil
}
