package sshserver

import (
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	gliderssh "github.com/gliderlabs/ssh"
	"github.com/muesli/termenv"
	"go.uber.org/goleak"

	"pkt.systems/matrixterm/core"
	"pkt.systems/matrixterm/internal/command"
	"pkt.systems/matrixterm/internal/content"
	"pkt.systems/matrixterm/internal/format"
	"pkt.systems/matrixterm/schema"
)

type syncBuffer struct {
	mu sync.Mutex
	b  strings.Builder
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.String()
}

type pty struct {
	io.Reader
	io.Writer
}

type gatedLoader struct {
	release chan struct{}
	inner   core.PageLoader
}

func (g gatedLoader) LoadPage(ctx context.Context, page schema.PageName) schema.Result {
	select {
	case <-g.release:
	case <-ctx.Done():
	}
	return g.inner.LoadPage(ctx, page)
}

type harness struct {
	t      *testing.T
	input  *io.PipeWriter
	output *syncBuffer
	done   chan error
	cancel context.CancelFunc
}

func startTerminal(t *testing.T, loader func(*command.Engine) core.PageLoader) *harness {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	engine := command.NewEngine(ctx, nil, content.NewFSFetcher(nil), command.Config{})
	session := core.NewSession(ctx, engine, core.SessionOptions{})
	pr, pw := io.Pipe()
	out := &syncBuffer{}
	renderer := format.NewRenderer(termenv.Ascii, format.ThemeFor(schema.DefaultTheme))
	ui := newTerminal(pty{Reader: pr, Writer: out}, session, loader(engine), renderer, time.Second)
	ui.SetSize(80, 40)
	h := &harness{t: t, input: pw, output: out, done: make(chan error, 1), cancel: cancel}
	go func() {
		h.done <- ui.Run(ctx, make(chan gliderssh.Window))
	}()
	return h
}

func (h *harness) send(s string) {
	h.t.Helper()
	if _, err := io.WriteString(h.input, s); err != nil {
		h.t.Fatalf("write input: %v", err)
	}
}

func (h *harness) waitFor(text string) {
	h.t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if strings.Contains(h.output.String(), text) {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	h.t.Fatalf("timed out waiting for %q", text)
}

func (h *harness) waitDone() {
	h.t.Helper()
	select {
	case err := <-h.done:
		if err != nil {
			h.t.Fatalf("run: %v", err)
		}
	case <-time.After(2 * time.Second):
		h.t.Fatalf("terminal did not exit")
	}
	_ = h.input.Close()
	h.cancel()
}

func TestTerminalGreetsAndCloses(t *testing.T) {
	defer goleak.VerifyNone(t)
	h := startTerminal(t, func(e *command.Engine) core.PageLoader { return e })
	h.waitFor("Welcome to the Real World, user...")
	h.waitFor("user@matrix:~$")
	h.send("close\r")
	h.waitDone()
	if !strings.Contains(h.output.String(), "\x1b[?1049l") {
		t.Fatalf("expected alt screen to be restored")
	}
}

func TestTerminalCloseWithPendingInput(t *testing.T) {
	defer goleak.VerifyNone(t)
	h := startTerminal(t, func(e *command.Engine) core.PageLoader { return e })
	h.waitFor("user@matrix:~$")
	h.send("close\r" + strings.Repeat("x", 64))
	h.waitDone()
}

func TestTerminalLoadsPageAsynchronously(t *testing.T) {
	defer goleak.VerifyNone(t)
	release := make(chan struct{})
	h := startTerminal(t, func(e *command.Engine) core.PageLoader {
		return gatedLoader{release: release, inner: e}
	})
	h.waitFor("user@matrix:~$")
	h.send("cat about\r")
	h.waitFor("Loading...")
	h.send("ls\r")
	h.waitFor("page is still loading")
	close(release)
	h.waitFor("Systems engineer")
	h.send("\x03close\r")
	h.waitDone()
}

func TestTerminalExitsWhenInputEnds(t *testing.T) {
	defer goleak.VerifyNone(t)
	h := startTerminal(t, func(e *command.Engine) core.PageLoader { return e })
	h.waitFor("user@matrix:~$")
	_ = h.input.Close()
	h.waitDone()
}

func TestTerminalSetNameUpdatesPrompt(t *testing.T) {
	defer goleak.VerifyNone(t)
	h := startTerminal(t, func(e *command.Engine) core.PageLoader { return e })
	h.waitFor("user@matrix:~$")
	h.send("setname Neo\r")
	h.waitFor("Name set to: Neo")
	h.waitFor("Neo@matrix:~$")
	h.send("\x04")
	h.waitDone()
}
