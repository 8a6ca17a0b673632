package integration_test

import (
	"bytes"
	"context"
	"io"
	"net"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/ssh"

	"pkt.systems/matrixterm"
	"pkt.systems/matrixterm/httpapi"
	"pkt.systems/matrixterm/internal/content"
	"pkt.systems/matrixterm/internal/persist"
	"pkt.systems/matrixterm/sshserver"
)

type stack struct {
	httpAddr string
	sshAddr  string
	stateDir string
}

type stackOptions struct {
	// contentBaseURL points sessions at a content server. Empty uses the
	// embedded pages.
	contentBaseURL string
	stateDir       string
}

func requireLong(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
}

func startStack(t *testing.T, opts stackOptions) *stack {
	t.Helper()
	stateDir := opts.stateDir
	if stateDir == "" {
		stateDir = t.TempDir()
	}
	store, err := persist.NewStore(filepath.Join(stateDir, "identity"))
	if err != nil {
		t.Fatalf("identity store: %v", err)
	}
	source, err := content.NewSource(opts.contentBaseURL, "", nil)
	if err != nil {
		t.Fatalf("content source: %v", err)
	}
	httpLn, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen http: %v", err)
	}
	sshLn, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen ssh: %v", err)
	}
	cfg := matrixterm.ServerConfig{
		HTTP: httpapi.Config{Addr: httpLn.Addr().String()},
		SSH: sshserver.Config{
			Addr:         sshLn.Addr().String(),
			HostKeyPath:  filepath.Join(stateDir, "ssh_host_key"),
			Theme:        "matrix",
			FetchTimeout: 5 * time.Second,
		},
	}
	deps := matrixterm.ServerDeps{
		Sessions:     &matrixterm.SessionFactory{Identities: store, Content: source, HistoryMax: 100},
		HTTPListener: httpLn,
		SSHListener:  sshLn,
	}
	server, err := matrixterm.New(cfg, deps, matrixterm.WithHTTP(), matrixterm.WithSSH())
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	if err := server.Start(context.Background()); err != nil {
		t.Fatalf("start server: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Stop(ctx); err != nil {
			t.Errorf("stop server: %v", err)
		}
	})
	return &stack{httpAddr: httpLn.Addr().String(), sshAddr: sshLn.Addr().String(), stateDir: stateDir}
}

func newTestSigner(t *testing.T) ssh.Signer {
	t.Helper()
	signer, err := sshserver.EnsureHostKey(context.Background(), filepath.Join(t.TempDir(), "client_key"))
	if err != nil {
		t.Fatalf("client key: %v", err)
	}
	return signer
}

func dialSSH(t *testing.T, addr, user string, signer ssh.Signer) *ssh.Client {
	t.Helper()
	auth := []ssh.AuthMethod{ssh.Password("")}
	if signer != nil {
		auth = []ssh.AuthMethod{ssh.PublicKeys(signer)}
	}
	client, err := ssh.Dial("tcp", addr, &ssh.ClientConfig{
		User:            user,
		Auth:            auth,
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         5 * time.Second,
	})
	if err != nil {
		t.Fatalf("dial ssh: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func startSSHSession(t *testing.T, client *ssh.Client) (io.WriteCloser, *lockedBuffer, *ssh.Session) {
	t.Helper()
	session, err := client.NewSession()
	if err != nil {
		t.Fatal(err)
	}
	if err := session.RequestPty("xterm", 40, 120, ssh.TerminalModes{}); err != nil {
		t.Fatal(err)
	}
	stdin, err := session.StdinPipe()
	if err != nil {
		t.Fatal(err)
	}
	stdout, err := session.StdoutPipe()
	if err != nil {
		t.Fatal(err)
	}
	if err := session.Shell(); err != nil {
		t.Fatal(err)
	}
	output := &lockedBuffer{}
	go func() {
		_, _ = io.Copy(output, stdout)
	}()
	return stdin, output, session
}

func waitForSessionClose(t *testing.T, session *ssh.Session) {
	t.Helper()
	done := make(chan error, 1)
	go func() {
		done <- session.Wait()
	}()
	select {
	case <-time.After(5 * time.Second):
		t.Fatalf("session did not close")
	case <-done:
	}
}

func expectOutput(t *testing.T, buffer *lockedBuffer, substr string, timeout time.Duration) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if strings.Contains(buffer.String(), substr) {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatalf("timeout waiting for %q in output: %s", substr, buffer.String())
}

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (l *lockedBuffer) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.buf.Write(p)
}

func (l *lockedBuffer) String() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.buf.String()
}
