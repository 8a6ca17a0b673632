package sshserver

import (
	"context"
	"io"
	"sync"
	"time"

	gliderssh "github.com/gliderlabs/ssh"

	"pkt.systems/matrixterm/core"
	"pkt.systems/matrixterm/internal/format"
	"pkt.systems/matrixterm/internal/logx"
	"pkt.systems/matrixterm/schema"
	"pkt.systems/pslog"
)

const (
	defaultFetchTimeout = 10 * time.Second
	titleText           = "terminal"
)

var spinnerFrames = []rune{'|', '/', '-', '\\'}

// terminal drives one core.Session over a raw pty stream.
type terminal struct {
	in       io.Reader
	screen   *screen
	session  *core.Session
	loader   core.PageLoader
	renderer *format.Renderer
	timeout  time.Duration

	ctx    context.Context
	width  int
	height int
	view   scrollView

	spinnerIdx int
	outcomes   chan core.FetchOutcome
	fetches    sync.WaitGroup
}

func newTerminal(rw io.ReadWriter, session *core.Session, loader core.PageLoader, renderer *format.Renderer, timeout time.Duration) *terminal {
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	return &terminal{
		in:       rw,
		screen:   newScreen(rw),
		session:  session,
		loader:   loader,
		renderer: renderer,
		timeout:  timeout,
		outcomes: make(chan core.FetchOutcome, 1),
	}
}

func (t *terminal) log() pslog.Logger {
	ctx := t.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	return logx.WithClientSession(ctx, "", t.session.ID())
}

func (t *terminal) SetSize(width, height int) {
	if width <= 0 {
		width = 80
	}
	if height <= 0 {
		height = 24
	}
	t.width = width
	t.height = height
}

// Run owns the session until the client disconnects, the session closes
// or ctx is cancelled. In-flight fetches are cancelled before it returns.
func (t *terminal) Run(ctx context.Context, winCh <-chan gliderssh.Window) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	t.ctx = ctx
	defer func() {
		cancel()
		t.fetches.Wait()
	}()
	if t.width == 0 {
		t.SetSize(0, 0)
	}

	t.screen.EnterAltScreen()
	defer t.screen.ExitAltScreen()

	t.session.Start()
	t.render()
	t.log().Info("terminal session start", "width", t.width, "height", t.height)

	keys := make(chan core.Key, 16)
	go readKeys(ctx, t.in, keys)

	spinnerTicker := time.NewTicker(250 * time.Millisecond)
	defer spinnerTicker.Stop()

	for {
		dirty := false
		select {
		case <-ctx.Done():
			return nil
		case k, ok := <-keys:
			if !ok {
				t.log().Info("terminal input closed")
				return nil
			}
			if t.handleKey(k) {
				return nil
			}
			dirty = true
		case win, ok := <-winCh:
			if !ok {
				winCh = nil
				break
			}
			t.SetSize(win.Width, win.Height)
			t.log().Debug("terminal resize", "width", t.width, "height", t.height)
			dirty = true
		case outcome := <-t.outcomes:
			t.session.Resolve(outcome)
			dirty = true
		case <-spinnerTicker.C:
			if t.session.Pending() {
				t.spinnerIdx = (t.spinnerIdx + 1) % len(spinnerFrames)
				dirty = true
			}
		}
		if dirty {
			t.render()
		}
	}
}

// handleKey applies k and reports whether the session is over.
func (t *terminal) handleKey(k core.Key) bool {
	switch k.Kind {
	case core.KeyPageUp:
		t.view.Scroll(t.viewHeight(), t.viewHeight())
		return false
	case core.KeyPageDown:
		t.view.Scroll(-t.viewHeight(), t.viewHeight())
		return false
	}
	effect := t.session.HandleKey(k)
	if k.Kind == core.KeyEnter {
		t.view.Reset()
	}
	if effect.Fetch != nil {
		t.startFetch(*effect.Fetch)
	}
	return effect.Close
}

func (t *terminal) startFetch(req core.FetchRequest) {
	log := t.log().With("page", req.Page, "entry", req.EntryID)
	log.Debug("page fetch start")
	t.fetches.Add(1)
	go func() {
		defer t.fetches.Done()
		ctx, cancel := context.WithTimeout(t.ctx, t.timeout)
		defer cancel()
		outcome := req.Run(ctx, t.loader)
		select {
		case t.outcomes <- outcome:
			log.Debug("page fetch done", "type", outcome.Result.Kind)
		case <-t.ctx.Done():
		}
	}()
}

func (t *terminal) results() []schema.Result {
	entries := t.session.Entries()
	out := make([]schema.Result, len(entries))
	for i, entry := range entries {
		out[i] = entry.Result
	}
	return out
}

func (t *terminal) footer() []string {
	in := format.InputLine{
		Prompt:  t.session.Prompt(),
		Buffer:  t.session.Buffer(),
		Cursor:  t.session.Cursor(),
		Hint:    t.session.Hint(),
		Focused: t.session.Focused(),
		Notice:  t.session.Notice(),
	}
	rows := []string{format.Truncate(t.renderer.RenderInput(in), t.width)}
	if idx := t.session.CandidateIndex(); idx >= 0 {
		candidates := t.session.Candidates()
		if idx < len(candidates) {
			rows = append(rows, format.Truncate(t.renderer.RenderSuggestion(candidates[idx]), t.width))
		}
	}
	return rows
}

func (t *terminal) viewHeight() int {
	view := t.height - 1 - len(t.footer())
	if view < 0 {
		return 0
	}
	return view
}

func (t *terminal) title() string {
	title := titleText
	if t.session.Pending() {
		title += " " + string(spinnerFrames[t.spinnerIdx])
	}
	if !t.view.AtBottom() {
		title += " [scrolled]"
	}
	return t.renderer.RenderTitle(" "+title, t.width)
}

func (t *terminal) render() {
	rows := t.renderer.RenderAll(t.results(), t.width)
	t.view.Sync(len(rows))
	footer := t.footer()
	height := t.height - 1 - len(footer)
	lines := make([]string, 0, t.height)
	lines = append(lines, t.title())
	lines = append(lines, t.view.Window(rows, height)...)
	lines = append(lines, footer...)
	if err := t.screen.Render(lines); err != nil {
		t.log().Warn("terminal render failed", "err", err)
	}
}
