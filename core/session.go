package core

import (
	"context"
	"strings"

	"pkt.systems/matrixterm/internal/command"
	"pkt.systems/matrixterm/internal/logx"
	"pkt.systems/matrixterm/schema"
	"pkt.systems/pslog"
)

// Interpreter is the command surface a session drives.
type Interpreter interface {
	Execute(ctx context.Context, name string, args []string) schema.Result
	Prompt() string
	Greeting() schema.Result
	Autocomplete(input string) []string
}

// SessionOptions configures a session.
type SessionOptions struct {
	ID         schema.SessionID
	HistoryMax int
}

const (
	loadingText   = "Loading..."
	pendingNotice = "page is still loading"
)

// Session holds the interactive state of one terminal. It is not safe for
// concurrent use; hosts drive it from a single goroutine.
type Session struct {
	ctx    context.Context
	interp Interpreter
	id     schema.SessionID

	editor     lineEditor
	history    *historyBuffer
	candidates []string
	candIndex  int
	scroll     scrollback
	pending    schema.EntryID
	started    bool
	focused    bool
	closed     bool
	notice     string
}

// NewSession constructs a session. ctx carries the logger and is passed
// to the interpreter on every command.
func NewSession(ctx context.Context, interp Interpreter, opts SessionOptions) *Session {
	if ctx == nil {
		ctx = context.Background()
	}
	id := opts.ID
	if id == "" {
		id = NewSessionID()
	}
	return &Session{
		ctx:       ctx,
		interp:    interp,
		id:        id,
		history:   newHistory(opts.HistoryMax),
		candIndex: -1,
		focused:   true,
	}
}

func (s *Session) log() pslog.Logger {
	return logx.WithClientSession(s.ctx, "", s.id)
}

// Start appends the greeting followed by the help output. Later calls are no-ops.
func (s *Session) Start() {
	if s.started {
		return
	}
	s.started = true
	s.scroll.Append(s.interp.Greeting())
	s.scroll.Append(s.interp.Execute(s.ctx, "help", nil))
	s.log().Debug("session started")
}

// HandleKey applies one key press.
func (s *Session) HandleKey(k Key) Effect {
	if s.closed {
		return Effect{Close: true}
	}
	switch k.Kind {
	case KeyEnter:
		return s.submit()
	case KeyTab:
		s.complete()
	case KeyUp:
		if line, ok := s.history.Older(); ok {
			s.editor.SetString(line)
			s.clearCompletion()
		}
	case KeyDown:
		if line, ok := s.history.Newer(); ok {
			s.editor.SetString(line)
			s.clearCompletion()
		}
	case KeyEscape:
		s.clearCompletion()
	case KeyRune:
		if k.Rune == '\n' || k.Rune == '\r' {
			return Effect{}
		}
		s.editor.InsertRune(k.Rune)
		s.edited()
	case KeyBackspace:
		s.editIf(s.editor.Backspace())
	case KeyDelete:
		s.editIf(s.editor.Delete())
	case KeyCtrlW:
		s.editIf(s.editor.DeleteWordBackward())
	case KeyCtrlU:
		s.editIf(s.editor.KillToStart())
	case KeyCtrlK:
		s.editIf(s.editor.KillToEnd())
	case KeyLeft:
		s.editor.MoveLeft()
	case KeyRight:
		s.editor.MoveRight()
	case KeyHome:
		s.editor.MoveStart()
	case KeyEnd:
		s.editor.MoveEnd()
	case KeyAltB:
		s.editor.MoveWordLeft()
	case KeyAltF:
		s.editor.MoveWordRight()
	case KeyCtrlC:
		s.editor.Clear()
		s.edited()
	case KeyFocusIn:
		s.focused = true
	case KeyFocusOut:
		s.focused = false
	case KeyCtrlD:
		if s.editor.Len() == 0 {
			s.closed = true
			s.log().Info("session closed", "reason", "eof")
			return Effect{Close: true}
		}
		s.editIf(s.editor.Delete())
	}
	return Effect{}
}

func (s *Session) submit() Effect {
	line := strings.TrimSpace(s.editor.String())
	if line == "" {
		return Effect{}
	}
	if s.pending != "" {
		s.notice = pendingNotice
		return Effect{}
	}
	s.notice = ""
	s.history.Append(line)
	defer func() {
		s.editor.Clear()
		s.clearCompletion()
	}()

	cmd, _ := command.Parse(line)
	res := s.interp.Execute(s.ctx, cmd.Name, cmd.Args)
	switch res.Kind {
	case schema.KindClear:
		s.scroll.Reset()
		return Effect{}
	case schema.KindClose:
		s.closed = true
		s.log().Info("session closed", "reason", "command")
		return Effect{Close: true}
	}

	s.scroll.Append(schema.Result{
		Kind:    schema.KindCommand,
		Content: []schema.Block{schema.Paragraph(s.interp.Prompt() + " " + line)},
	})
	if res.Kind != schema.KindLoading {
		s.scroll.Append(res)
		return Effect{}
	}
	id := s.scroll.Append(schema.Result{
		Kind:     schema.KindLoading,
		Content:  []schema.Block{schema.Paragraph(loadingText)},
		PageName: res.PageName,
	})
	s.pending = id
	return Effect{Fetch: &FetchRequest{EntryID: id, Page: res.PageName, Command: res.OriginatingCommand}}
}

// Resolve replaces the placeholder named by outcome. Outcomes whose
// placeholder is gone are dropped; it reports whether the outcome applied.
func (s *Session) Resolve(outcome FetchOutcome) bool {
	if outcome.EntryID == s.pending {
		s.pending = ""
		s.notice = ""
	}
	if !s.scroll.Replace(outcome.EntryID, outcome.Result) {
		s.log().Debug("fetch outcome dropped", "entry", outcome.EntryID)
		return false
	}
	return true
}

func (s *Session) complete() {
	if s.candIndex == -1 {
		candidates := s.interp.Autocomplete(s.editor.String())
		if len(candidates) == 0 {
			return
		}
		s.candidates = candidates
		s.candIndex = 0
	} else {
		s.candIndex = (s.candIndex + 1) % len(s.candidates)
	}
	s.editor.SetString(command.Complete(s.editor.String(), s.candidates[s.candIndex]))
}

func (s *Session) editIf(changed bool) {
	if changed {
		s.edited()
	}
}

func (s *Session) edited() {
	s.notice = ""
	s.candIndex = -1
	s.candidates = nil
	if strings.TrimSpace(s.editor.String()) != "" {
		s.candidates = s.interp.Autocomplete(s.editor.String())
	}
}

func (s *Session) clearCompletion() {
	s.candidates = nil
	s.candIndex = -1
}

// ID returns the session id.
func (s *Session) ID() schema.SessionID { return s.id }

// Buffer returns the current input line.
func (s *Session) Buffer() string { return s.editor.String() }

// Cursor returns the rune offset of the input cursor.
func (s *Session) Cursor() int { return s.editor.Cursor() }

// Prompt returns the current prompt string.
func (s *Session) Prompt() string { return s.interp.Prompt() }

// Entries returns a copy of the scrollback.
func (s *Session) Entries() []Entry { return s.scroll.Entries() }

// History returns a copy of the submitted lines.
func (s *Session) History() []string { return s.history.Entries() }

// HistoryCursor returns the browse position, -1 when not browsing.
func (s *Session) HistoryCursor() int { return s.history.Cursor() }

// Candidates returns the stored completion candidates.
func (s *Session) Candidates() []string { return append([]string(nil), s.candidates...) }

// CandidateIndex returns the active candidate, -1 when none is applied.
func (s *Session) CandidateIndex() int { return s.candIndex }

// Hint returns the text the first candidate would add to the buffer.
// It is empty while cycling or when the cursor is not at the end.
func (s *Session) Hint() string {
	if s.candIndex != -1 || len(s.candidates) == 0 || s.editor.Cursor() != s.editor.Len() {
		return ""
	}
	current := s.editor.String()
	completed := command.Complete(current, s.candidates[0])
	if !strings.HasPrefix(completed, current) {
		return ""
	}
	return completed[len(current):]
}

// Notice returns a transient status message.
func (s *Session) Notice() string { return s.notice }

// Pending reports whether a page fetch is in flight.
func (s *Session) Pending() bool { return s.pending != "" }

// Closed reports whether the session ended.
func (s *Session) Closed() bool { return s.closed }

// Focused reports whether the host has input focus.
func (s *Session) Focused() bool { return s.focused }

// SetFocused records host focus.
func (s *Session) SetFocused(focused bool) { s.focused = focused }
