package main

import (
	"fmt"
	"strings"

	"pkt.systems/matrixterm"
	"pkt.systems/matrixterm/internal/appconfig"
	"pkt.systems/matrixterm/internal/content"
	"pkt.systems/matrixterm/internal/persist"
	"pkt.systems/pslog"
)

// newSessionFactory wires the identity store and the content source
// described by cfg. A non-empty baseURL overrides content.base_url.
func newSessionFactory(cfg appconfig.Config, baseURL string, logger pslog.Logger) (*matrixterm.SessionFactory, error) {
	store, err := persist.NewStoreWithLogger(cfg.IdentityDir(), logger)
	if err != nil {
		return nil, fmt.Errorf("identity store: %w", err)
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = cfg.Content.BaseURL
	}
	source, err := content.NewSource(baseURL, cfg.HTTP.DataDir, nil)
	if err != nil {
		return nil, fmt.Errorf("content source: %w", err)
	}
	logger.Info("content source selected", "base_url", baseURL, "data_dir", cfg.HTTP.DataDir)
	return &matrixterm.SessionFactory{
		Identities:          store,
		Content:             source,
		HistoryMax:          cfg.Terminal.HistoryMax,
		DisableAuditLogging: cfg.Logging.DisableAuditTrails,
	}, nil
}
