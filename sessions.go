package matrixterm

import (
	"context"
	"errors"
	"fmt"

	"pkt.systems/matrixterm/core"
	"pkt.systems/matrixterm/internal/command"
	"pkt.systems/matrixterm/internal/content"
	"pkt.systems/matrixterm/internal/logx"
	"pkt.systems/matrixterm/internal/persist"
	"pkt.systems/matrixterm/schema"
)

// LocalClientID scopes the identity of the local shell.
const LocalClientID schema.ClientID = "local"

// SessionFactory wires an interpreter session to its identity scope and the
// shared content source.
type SessionFactory struct {
	Identities          *persist.Store
	Content             content.Fetcher
	HistoryMax          int
	DisableAuditLogging bool
}

// NewSession builds a session for clientID. The returned loader resolves
// the session's fetch effects.
func (f *SessionFactory) NewSession(ctx context.Context, clientID schema.ClientID) (*core.Session, core.PageLoader, error) {
	if f == nil || f.Identities == nil {
		return nil, nil, errors.New("identity store is required")
	}
	if f.Content == nil {
		return nil, nil, errors.New("content source is required")
	}
	scope, err := f.Identities.Scope(clientID)
	if err != nil {
		return nil, nil, fmt.Errorf("identity scope: %w", err)
	}
	sessionID := core.NewSessionID()
	ctx = logx.ContextWithClientSessionLogger(ctx, logx.WithClientSession(ctx, clientID, sessionID), clientID, sessionID)
	engine := command.NewEngine(ctx, scope, f.Content, command.Config{
		DisableAuditLogging: f.DisableAuditLogging,
	})
	session := core.NewSession(ctx, engine, core.SessionOptions{
		ID:         sessionID,
		HistoryMax: f.HistoryMax,
	})
	logx.Ctx(ctx).Debug("session created")
	return session, engine, nil
}
