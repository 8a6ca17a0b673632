package sshserver

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"net"
	"strings"
	"time"

	gliderssh "github.com/gliderlabs/ssh"
	"golang.org/x/crypto/ssh"

	"pkt.systems/matrixterm/core"
	"pkt.systems/matrixterm/internal/format"
	"pkt.systems/matrixterm/internal/logx"
	"pkt.systems/matrixterm/schema"
	"pkt.systems/pslog"
)

// SessionFactory builds the interpreter session for a connected client.
type SessionFactory interface {
	NewSession(ctx context.Context, clientID schema.ClientID) (*core.Session, core.PageLoader, error)
}

// Server exposes the interpreter over SSH. Any client may connect; an
// offered public key only scopes the persisted identity.
type Server struct {
	Addr         string
	HostKeyPath  string
	Listener     net.Listener
	Sessions     SessionFactory
	Theme        schema.ThemeName
	FetchTimeout time.Duration
	logger       pslog.Logger
}

type authContextKey string

const pubKeyFingerprint authContextKey = "pubkey-fingerprint"

// NewServer returns a server for cfg.
func NewServer(cfg Config, sessions SessionFactory) *Server {
	return &Server{
		Addr:         cfg.Addr,
		HostKeyPath:  cfg.HostKeyPath,
		Sessions:     sessions,
		Theme:        schema.ThemeName(cfg.Theme),
		FetchTimeout: cfg.FetchTimeout,
	}
}

// ListenAndServe starts the SSH server and shuts down on context cancellation.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s.logger == nil {
		s.logger = pslog.Ctx(ctx)
	}
	if s.Sessions == nil {
		return errors.New("session factory is required for SSH")
	}
	signer, err := EnsureHostKey(ctx, s.HostKeyPath)
	if err != nil {
		return err
	}

	server := &gliderssh.Server{
		Addr:                       s.Addr,
		Handler:                    s.handleSession,
		PublicKeyHandler:           s.handlePublicKey,
		KeyboardInteractiveHandler: s.handleKeyboardInteractive,
		PasswordHandler:            s.handlePassword,
	}
	server.AddHostKey(signer)

	errCh := make(chan error, 1)
	go func() {
		if s.Listener != nil {
			errCh <- server.Serve(s.Listener)
			return
		}
		errCh <- server.ListenAndServe()
	}()
	s.logger.Info("ssh listening", "addr", s.Addr)

	select {
	case <-ctx.Done():
		_ = server.Close()
		<-errCh
		return nil
	case err := <-errCh:
		if errors.Is(err, gliderssh.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) handlePublicKey(ctx gliderssh.Context, key gliderssh.PublicKey) bool {
	fingerprint := ssh.FingerprintSHA256(key)
	ctx.SetValue(pubKeyFingerprint, fingerprint)
	s.logger.Debug("ssh pubkey offered", "user", ctx.User(), "remote", remoteAddr(ctx), "fingerprint", fingerprint)
	return true
}

func (s *Server) handleKeyboardInteractive(ctx gliderssh.Context, _ ssh.KeyboardInteractiveChallenge) bool {
	s.logger.Debug("ssh keyboard-interactive accepted", "user", ctx.User(), "remote", remoteAddr(ctx))
	return true
}

func (s *Server) handlePassword(ctx gliderssh.Context, _ string) bool {
	s.logger.Debug("ssh password accepted", "user", ctx.User(), "remote", remoteAddr(ctx))
	return true
}

func remoteAddr(ctx gliderssh.Context) string {
	if ctx == nil || ctx.RemoteAddr() == nil {
		return ""
	}
	return ctx.RemoteAddr().String()
}

// ClientIDFor derives the identity scope for an SSH login. The same user
// with a different key, or without one, gets a different scope.
func ClientIDFor(user, fingerprint string) schema.ClientID {
	sum := sha256.Sum256([]byte(user + "\x00" + fingerprint))
	return schema.ClientID("ssh-" + hex.EncodeToString(sum[:])[:16])
}

func (s *Server) handleSession(sess gliderssh.Session) {
	log := s.logger
	if log == nil {
		log = pslog.Ctx(sess.Context())
	}
	fingerprint, _ := sess.Context().Value(pubKeyFingerprint).(string)
	clientID := ClientIDFor(sess.User(), fingerprint)
	log = log.With("client", clientID, "user", sess.User(), "remote", sess.RemoteAddr().String())
	if sshSession := sess.Context().SessionID(); sshSession != "" {
		log = log.With("ssh_session", sshSession)
	}

	pty, winCh, ok := sess.Pty()
	if !ok {
		log.Info("ssh session rejected", "reason", "pty required")
		_, _ = io.WriteString(sess, "pty required\n")
		_ = sess.Exit(1)
		return
	}

	ctx := logx.ContextWithClientSessionLogger(sess.Context(), log, clientID, "")
	session, loader, err := s.Sessions.NewSession(ctx, clientID)
	if err != nil {
		log.Error("ssh session setup failed", "err", err)
		_, _ = io.WriteString(sess, "session unavailable\n")
		_ = sess.Exit(1)
		return
	}
	log = log.With("session", session.ID())
	ctx = logx.ContextWithClientSessionLogger(ctx, log, clientID, session.ID())

	profile := format.ProfileForTerm(pty.Term, envValue(sess.Environ(), "COLORTERM"))
	renderer := format.NewRenderer(profile, format.ThemeFor(s.Theme))
	log.Info("ssh session opened", "term", pty.Term)
	ui := newTerminal(sess, session, loader, renderer, s.FetchTimeout)
	ui.SetSize(pty.Window.Width, pty.Window.Height)
	_ = ui.Run(ctx, winCh)
	log.Info("ssh session closed")
	_ = sess.Exit(0)
}

func envValue(environ []string, key string) string {
	prefix := key + "="
	for _, kv := range environ {
		if strings.HasPrefix(kv, prefix) {
			return strings.TrimPrefix(kv, prefix)
		}
	}
	return ""
}
