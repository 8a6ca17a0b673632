package matrixterm

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/goleak"

	"pkt.systems/matrixterm/core"
	"pkt.systems/matrixterm/httpapi"
	"pkt.systems/matrixterm/internal/content"
	"pkt.systems/matrixterm/internal/persist"
	"pkt.systems/matrixterm/schema"
)

func TestNewRequiresService(t *testing.T) {
	if _, err := New(ServerConfig{}, ServerDeps{}); err == nil {
		t.Fatalf("expected error without services")
	}
}

func TestNewSSHRequiresSessions(t *testing.T) {
	if _, err := New(ServerConfig{}, ServerDeps{}, WithSSH()); err == nil {
		t.Fatalf("expected error without session factory")
	}
}

func TestStopBeforeStart(t *testing.T) {
	server, err := New(ServerConfig{}, ServerDeps{}, WithHTTP())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := server.Stop(context.Background()); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if err := server.Wait(); err == nil {
		t.Fatalf("expected Wait to fail before Start")
	}
}

func TestServerHTTPStartStop(t *testing.T) {
	defer goleak.VerifyNone(t)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	server, err := New(ServerConfig{HTTP: httpapi.Config{Addr: listener.Addr().String()}}, ServerDeps{HTTPListener: listener}, WithHTTP())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := server.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := server.Start(context.Background()); err == nil {
		t.Fatalf("expected second Start to fail")
	}

	transport := &http.Transport{DisableKeepAlives: true}
	client := &http.Client{Transport: transport, Timeout: 5 * time.Second}
	resp, err := client.Get("http://" + listener.Addr().String() + "/healthz")
	if err != nil {
		t.Fatalf("get healthz: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	transport.CloseIdleConnections()
	if resp.StatusCode != http.StatusOK || string(body) != "ok\n" {
		t.Fatalf("unexpected healthz response %d %q", resp.StatusCode, body)
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Stop(stopCtx); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if err := server.Wait(); err != nil {
		t.Fatalf("Wait: %v", err)
	}
}

func TestServerWaitReportsListenFailure(t *testing.T) {
	defer goleak.VerifyNone(t)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer listener.Close()
	server, err := New(ServerConfig{HTTP: httpapi.Config{Addr: listener.Addr().String()}}, ServerDeps{}, WithHTTP())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := server.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := server.Wait(); err == nil {
		t.Fatalf("expected address in use error")
	}
}

func newTestFactory(t *testing.T, dir string) *SessionFactory {
	t.Helper()
	store, err := persist.NewStore(dir)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return &SessionFactory{
		Identities: store,
		Content:    content.NewCache(content.NewFSFetcher(nil)),
		HistoryMax: 10,
	}
}

func typeLine(session *core.Session, line string) core.Effect {
	for _, k := range core.Runes(line) {
		session.HandleKey(k)
	}
	return session.HandleKey(core.Key{Kind: core.KeyEnter})
}

func TestSessionFactoryPersistsNamePerClient(t *testing.T) {
	dir := t.TempDir()
	factory := newTestFactory(t, dir)

	first, _, err := factory.NewSession(context.Background(), "ssh-0123456789abcdef")
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	typeLine(first, "setname Trinity")
	if got := first.Prompt(); got != "Trinity@matrix:~$" {
		t.Fatalf("unexpected prompt %q", got)
	}
	if _, err := os.Stat(filepath.Join(dir, "ssh-0123456789abcdef.json")); err != nil {
		t.Fatalf("expected identity file: %v", err)
	}

	again, _, err := newTestFactory(t, dir).NewSession(context.Background(), "ssh-0123456789abcdef")
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	if got := again.Prompt(); got != "Trinity@matrix:~$" {
		t.Fatalf("expected persisted name, got %q", got)
	}
	if again.ID() == first.ID() {
		t.Fatalf("expected distinct session ids")
	}

	local, _, err := factory.NewSession(context.Background(), LocalClientID)
	if err != nil {
		t.Fatalf("NewSession local: %v", err)
	}
	if got := local.Prompt(); got != "user@matrix:~$" {
		t.Fatalf("expected default prompt for other client, got %q", got)
	}
}

func TestSessionFactoryLoaderResolvesPages(t *testing.T) {
	factory := newTestFactory(t, t.TempDir())
	session, loader, err := factory.NewSession(context.Background(), LocalClientID)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	effect := typeLine(session, "cat about")
	if effect.Fetch == nil {
		t.Fatalf("expected fetch effect")
	}
	if !session.Resolve(effect.Fetch.Run(context.Background(), loader)) {
		t.Fatalf("expected outcome to resolve placeholder")
	}
	entries := session.Entries()
	if got := entries[len(entries)-1].Result.Kind; got != schema.KindPage {
		t.Fatalf("expected page result, got %s", got)
	}
}

func TestSessionFactoryRejectsInvalidClient(t *testing.T) {
	factory := newTestFactory(t, t.TempDir())
	if _, _, err := factory.NewSession(context.Background(), "../escape"); !errors.Is(err, schema.ErrInvalidScope) {
		t.Fatalf("expected ErrInvalidScope, got %v", err)
	}
	var missing SessionFactory
	if _, _, err := missing.NewSession(context.Background(), LocalClientID); err == nil {
		t.Fatalf("expected error without identity store")
	}
}
