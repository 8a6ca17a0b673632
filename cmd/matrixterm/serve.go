package main

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"pkt.systems/matrixterm"
	"pkt.systems/matrixterm/httpapi"
	"pkt.systems/matrixterm/internal/appconfig"
	"pkt.systems/matrixterm/sshserver"
	"pkt.systems/pslog"
)

//go:embed assets/banner.txt
var serveBanner string

func newServeCmd() *cobra.Command {
	var cfgPath string
	var disableAuditTrails bool
	var noBanner bool
	var noHTTP bool
	var noSSH bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the SSH terminal and the HTTP content server",
		RunE: func(cmd *cobra.Command, args []string) error {
			logMode := strings.ToLower(strings.TrimSpace(os.Getenv("LOG_MODE")))
			showBanner := !noBanner && logMode != "json" && logMode != "structured"
			if showBanner && serveBanner != "" {
				_, _ = fmt.Fprint(cmd.OutOrStdout(), serveBanner)
			}
			logger := pslog.Ctx(cmd.Context())
			cfg, err := appconfig.Load(cfgPath)
			if err != nil {
				return err
			}
			if disableAuditTrails {
				cfg.Logging.DisableAuditTrails = true
			}
			opts, err := serveOptions(noHTTP, noSSH)
			if err != nil {
				return err
			}

			var deps matrixterm.ServerDeps
			if !noSSH {
				factory, err := newSessionFactory(cfg, "", logger)
				if err != nil {
					return err
				}
				deps.Sessions = factory
			}
			server, err := matrixterm.New(toServerConfig(cfg), deps, opts...)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			go func() {
				<-ctx.Done()
				stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := server.Stop(stopCtx); err != nil {
					logger.Warn("server stop failed", "err", err)
				}
			}()
			if err := server.Start(ctx); err != nil {
				return err
			}
			return server.Wait()
		},
	}
	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "path to config file")
	cmd.Flags().BoolVar(&disableAuditTrails, "disable-audit-trails", false, "disable audit trail logging for commands")
	cmd.Flags().BoolVar(&noBanner, "no-banner", false, "disable startup banner")
	cmd.Flags().BoolVar(&noHTTP, "no-http", false, "do not start the HTTP content server")
	cmd.Flags().BoolVar(&noSSH, "no-ssh", false, "do not start the SSH terminal")
	return cmd
}

func serveOptions(noHTTP, noSSH bool) ([]matrixterm.ServerOption, error) {
	var opts []matrixterm.ServerOption
	if !noHTTP {
		opts = append(opts, matrixterm.WithHTTP())
	}
	if !noSSH {
		opts = append(opts, matrixterm.WithSSH())
	}
	if len(opts) == 0 {
		return nil, fmt.Errorf("--no-http and --no-ssh leave nothing to serve")
	}
	return opts, nil
}

func toServerConfig(cfg appconfig.Config) matrixterm.ServerConfig {
	return matrixterm.ServerConfig{
		HTTP: toHTTPConfig(cfg.HTTP),
		SSH:  toSSHConfig(cfg),
	}
}

func toHTTPConfig(cfg appconfig.HTTPConfig) httpapi.Config {
	return httpapi.Config{
		Addr:     cfg.Addr,
		BasePath: cfg.BasePath,
		DataDir:  cfg.DataDir,
	}
}

func toSSHConfig(cfg appconfig.Config) sshserver.Config {
	return sshserver.Config{
		Addr:         cfg.SSH.Addr,
		HostKeyPath:  cfg.SSH.HostKeyPath,
		Theme:        cfg.Terminal.Theme,
		FetchTimeout: cfg.FetchTimeout(),
	}
}
