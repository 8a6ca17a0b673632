// Package tui hosts an interpreter session on the local terminal with
// Bubble Tea.
package tui

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"pkt.systems/matrixterm/core"
	"pkt.systems/matrixterm/internal/format"
	"pkt.systems/matrixterm/schema"
	"pkt.systems/pslog"
)

const (
	defaultFetchTimeout = 10 * time.Second
	spinnerInterval     = 250 * time.Millisecond
	titleText           = "terminal"
)

var spinnerFrames = []rune{'|', '/', '-', '\\'}

// Options configures the local program.
type Options struct {
	Renderer     *format.Renderer
	FetchTimeout time.Duration
	// Input and Output default to the process stdin and stdout.
	Input  io.Reader
	Output io.Writer
}

type fetchDoneMsg struct {
	outcome core.FetchOutcome
}

type spinnerTickMsg struct{}

type model struct {
	ctx      context.Context
	session  *core.Session
	loader   core.PageLoader
	renderer *format.Renderer
	timeout  time.Duration

	viewport   viewport.Model
	width      int
	height     int
	spinnerIdx int
	ticking    bool
}

// Run starts the session and blocks until it closes or ctx is cancelled.
func Run(ctx context.Context, session *core.Session, loader core.PageLoader, opts Options) error {
	m := newModel(ctx, session, loader, opts)
	programOpts := []tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithReportFocus(),
		tea.WithContext(ctx),
	}
	if opts.Input != nil {
		programOpts = append(programOpts, tea.WithInput(opts.Input))
	}
	if opts.Output != nil {
		programOpts = append(programOpts, tea.WithOutput(opts.Output))
	}
	p := tea.NewProgram(m, programOpts...)
	pslog.Ctx(ctx).Info("shell session start", "session", session.ID())
	_, err := p.Run()
	pslog.Ctx(ctx).Info("shell session end", "session", session.ID())
	if err != nil && errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func newModel(ctx context.Context, session *core.Session, loader core.PageLoader, opts Options) *model {
	if ctx == nil {
		ctx = context.Background()
	}
	renderer := opts.Renderer
	if renderer == nil {
		renderer = format.NewRenderer(format.ProfileForTerm("", ""), format.ThemeFor(schema.DefaultTheme))
	}
	timeout := opts.FetchTimeout
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	session.Start()
	m := &model{
		ctx:      ctx,
		session:  session,
		loader:   loader,
		renderer: renderer,
		timeout:  timeout,
		viewport: viewport.New(80, 20),
		width:    80,
		height:   24,
	}
	m.refresh(true)
	return m
}

func (m *model) Init() tea.Cmd {
	return nil
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.refresh(false)
		return m, nil
	case tea.FocusMsg:
		m.session.HandleKey(core.Key{Kind: core.KeyFocusIn})
		return m, nil
	case tea.BlurMsg:
		m.session.HandleKey(core.Key{Kind: core.KeyFocusOut})
		return m, nil
	case fetchDoneMsg:
		m.session.Resolve(msg.outcome)
		m.refresh(false)
		return m, nil
	case spinnerTickMsg:
		if !m.session.Pending() {
			m.ticking = false
			return m, nil
		}
		m.spinnerIdx = (m.spinnerIdx + 1) % len(spinnerFrames)
		return m, spinnerTick()
	case tea.KeyMsg:
		return m, m.handleKeyMsg(msg)
	}
	return m, nil
}

func (m *model) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	var cmds []tea.Cmd
	for _, k := range keysFor(msg) {
		switch k.Kind {
		case core.KeyPageUp, core.KeyPageDown:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return cmd
		}
		effect := m.session.HandleKey(k)
		if effect.Close {
			return tea.Quit
		}
		if effect.Fetch != nil {
			cmds = append(cmds, m.fetch(*effect.Fetch))
			if !m.ticking {
				m.ticking = true
				cmds = append(cmds, spinnerTick())
			}
		}
		if k.Kind == core.KeyEnter {
			m.refresh(true)
		}
	}
	m.refresh(false)
	return tea.Batch(cmds...)
}

func (m *model) fetch(req core.FetchRequest) tea.Cmd {
	ctx, loader, timeout := m.ctx, m.loader, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		return fetchDoneMsg{outcome: req.Run(ctx, loader)}
	}
}

func spinnerTick() tea.Cmd {
	return tea.Tick(spinnerInterval, func(time.Time) tea.Msg {
		return spinnerTickMsg{}
	})
}

func (m *model) footer() []string {
	in := format.InputLine{
		Prompt:  m.session.Prompt(),
		Buffer:  m.session.Buffer(),
		Cursor:  m.session.Cursor(),
		Hint:    m.session.Hint(),
		Focused: m.session.Focused(),
		Notice:  m.session.Notice(),
	}
	rows := []string{format.Truncate(m.renderer.RenderInput(in), m.width)}
	if idx := m.session.CandidateIndex(); idx >= 0 {
		if candidates := m.session.Candidates(); idx < len(candidates) {
			rows = append(rows, format.Truncate(m.renderer.RenderSuggestion(candidates[idx]), m.width))
		}
	}
	return rows
}

// refresh re-renders scrollback into the viewport. The view follows new
// output when it was already at the bottom or when bottom is set.
func (m *model) refresh(bottom bool) {
	follow := bottom || m.viewport.AtBottom()
	entries := m.session.Entries()
	results := make([]schema.Result, len(entries))
	for i, entry := range entries {
		results[i] = entry.Result
	}
	m.viewport.Width = m.width
	height := m.height - 1 - len(m.footer())
	if height < 0 {
		height = 0
	}
	m.viewport.Height = height
	m.viewport.SetContent(strings.Join(m.renderer.RenderAll(results, m.width), "\n"))
	if follow {
		m.viewport.GotoBottom()
	}
}

func (m *model) title() string {
	title := titleText
	if m.session.Pending() {
		title += " " + string(spinnerFrames[m.spinnerIdx])
	}
	if !m.viewport.AtBottom() {
		title += " [scrolled]"
	}
	return m.renderer.RenderTitle(" "+title, m.width)
}

func (m *model) View() string {
	if m.session.Closed() {
		return ""
	}
	lines := []string{m.title(), m.viewport.View()}
	lines = append(lines, m.footer()...)
	return strings.Join(lines, "\n")
}
