package logx

import (
	"context"

	"pkt.systems/matrixterm/schema"
	"pkt.systems/pslog"
)

type contextKey int

const (
	clientKey contextKey = iota
	sessionKey
)

// Ctx returns the logger bound to the provided context.
func Ctx(ctx context.Context) pslog.Logger {
	return pslog.Ctx(ctx)
}

// WithClient annotates the logger with the client id if present.
func WithClient(ctx context.Context, clientID schema.ClientID) pslog.Logger {
	log := pslog.Ctx(ctx)
	if clientID != "" {
		if current, ok := ctx.Value(clientKey).(schema.ClientID); ok && current == clientID {
			return log
		}
		log = log.With("client", clientID)
	}
	return log
}

// WithClientSession annotates the logger with client and session identifiers.
func WithClientSession(ctx context.Context, clientID schema.ClientID, sessionID schema.SessionID) pslog.Logger {
	log := WithClient(ctx, clientID)
	if sessionID != "" {
		if current, ok := ctx.Value(sessionKey).(schema.SessionID); ok && current == sessionID {
			return log
		}
		log = log.With("session", sessionID)
	}
	return log
}

// WithPage annotates the logger with the page being loaded.
func WithPage(log pslog.Logger, page schema.PageName) pslog.Logger {
	if page != "" {
		log = log.With("page", page)
	}
	return log
}

// ContextWithClient stores the client marker on the context for log de-duplication.
func ContextWithClient(ctx context.Context, clientID schema.ClientID) context.Context {
	if ctx == nil || clientID == "" {
		return ctx
	}
	return context.WithValue(ctx, clientKey, clientID)
}

// ContextWithSession stores the session marker on the context for log de-duplication.
func ContextWithSession(ctx context.Context, sessionID schema.SessionID) context.Context {
	if ctx == nil || sessionID == "" {
		return ctx
	}
	return context.WithValue(ctx, sessionKey, sessionID)
}

// ContextWithClientSessionLogger attaches the logger and client/session markers to the context.
// The logger is expected to already carry the matching fields.
func ContextWithClientSessionLogger(ctx context.Context, log pslog.Logger, clientID schema.ClientID, sessionID schema.SessionID) context.Context {
	ctx = pslog.ContextWithLogger(ctx, log)
	return ContextWithSession(ContextWithClient(ctx, clientID), sessionID)
}

// CopyContextFields copies client/session markers from src to dst.
func CopyContextFields(dst context.Context, src context.Context) context.Context {
	if src == nil {
		return dst
	}
	if client, ok := src.Value(clientKey).(schema.ClientID); ok && client != "" {
		dst = ContextWithClient(dst, client)
	}
	if session, ok := src.Value(sessionKey).(schema.SessionID); ok && session != "" {
		dst = ContextWithSession(dst, session)
	}
	return dst
}
