package command

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"pkt.systems/matrixterm/internal/content"
	"pkt.systems/matrixterm/internal/logx"
	"pkt.systems/matrixterm/schema"
	"pkt.systems/pslog"
)

// IdentityStore persists small string values for one client.
type IdentityStore interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

// Config configures the command engine.
type Config struct {
	DisableAuditLogging bool
}

// Engine maps command invocations to results.
type Engine struct {
	store   IdentityStore
	fetcher content.Fetcher
	cfg     Config
	log     pslog.Logger

	mu       sync.Mutex
	userName string
	loaded   bool
}

// NewEngine constructs an engine. The logger on ctx is kept for lazy
// identity reads.
func NewEngine(ctx context.Context, store IdentityStore, fetcher content.Fetcher, cfg Config) *Engine {
	return &Engine{
		store:   store,
		fetcher: fetcher,
		cfg:     cfg,
		log:     pslog.Ctx(ctx),
	}
}

// UserName returns the persisted name, reading it on first use.
func (e *Engine) UserName() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.userNameLocked()
}

func (e *Engine) userNameLocked() string {
	if e.loaded {
		return e.userName
	}
	e.loaded = true
	e.userName = schema.DefaultUserName
	if e.store == nil {
		return e.userName
	}
	value, ok, err := e.store.Get(schema.IdentityKey)
	if err != nil {
		e.log.Warn("identity read failed", "err", err)
		return e.userName
	}
	if ok && strings.TrimSpace(value) != "" {
		e.userName = value
	}
	return e.userName
}

// Prompt returns "<name>@matrix:~$".
func (e *Engine) Prompt() string {
	return promptFor(e.UserName())
}

func promptFor(name string) string {
	return fmt.Sprintf("%s@%s:~$", name, schema.PromptHost)
}

// SetUserName trims candidate and persists it. It returns schema.ErrEmptyName
// for blank input. When persisting fails the name still applies for the
// rest of the session and the store error is returned.
func (e *Engine) SetUserName(candidate string) error {
	name := strings.TrimSpace(candidate)
	if name == "" {
		return schema.ErrEmptyName
	}
	e.mu.Lock()
	e.userName = name
	e.loaded = true
	e.mu.Unlock()
	if e.store == nil {
		return nil
	}
	if err := e.store.Set(schema.IdentityKey, name); err != nil {
		return fmt.Errorf("persist identity: %w", err)
	}
	return nil
}

// Greeting returns the welcome result shown when a session starts.
func (e *Engine) Greeting() schema.Result {
	return schema.Result{
		Kind: schema.KindGreeting,
		Content: []schema.Block{
			schema.Header(fmt.Sprintf("Welcome to the Real World, %s...", e.UserName())),
			schema.Paragraph(""),
		},
	}
}

// Execute runs a single command. It never fails; problems are reported
// as error results.
func (e *Engine) Execute(ctx context.Context, name string, args []string) schema.Result {
	cmd := strings.ToLower(strings.TrimSpace(name))
	log := logx.Ctx(ctx).With("command", cmd, "args", len(args))
	if !e.cfg.DisableAuditLogging {
		log.Debug("audit command", "command_type", "terminal", "line", strings.TrimSpace(strings.Join(append([]string{name}, args...), " ")))
	}
	switch cmd {
	case "help":
		return helpResult()
	case "setname":
		return e.handleSetName(log, args)
	case "ls":
		return listResult()
	case "cat", "cd":
		return handleOpen(cmd, args)
	case "rm":
		return result(schema.KindEasterEgg, "He's beginning to believe he can exit the Matrix!")
	case "clear":
		return schema.Result{Kind: schema.KindClear, Content: []schema.Block{}}
	case "close":
		return schema.Result{Kind: schema.KindClose, Content: []schema.Block{}}
	default:
		log.Debug("command not found")
		return unknownResult(name, Suggestions(cmd))
	}
}

func (e *Engine) handleSetName(log pslog.Logger, args []string) schema.Result {
	if len(args) == 0 {
		return result(schema.KindError, "Usage: setname <name>", "Example: setname Neo")
	}
	err := e.SetUserName(strings.Join(args, " "))
	if errors.Is(err, schema.ErrEmptyName) {
		return result(schema.KindError, "Invalid name. Please provide a non-empty name.")
	}
	if err != nil {
		log.Warn("identity write failed", "err", err)
		return result(schema.KindError, fmt.Sprintf("Could not save name: %v", err))
	}
	name := e.UserName()
	log.Info("identity updated")
	return result(schema.KindSuccess,
		fmt.Sprintf("Name set to: %s", name),
		fmt.Sprintf("Your prompt will now show: %s", promptFor(name)),
	)
}

func handleOpen(cmd string, args []string) schema.Result {
	if len(args) == 0 {
		return result(schema.KindError, fmt.Sprintf("Usage: %s <page>", cmd), lsHint)
	}
	page := strings.ToLower(args[0])
	if !schema.IsTerminalPage(page) {
		return result(schema.KindError, fmt.Sprintf("Page \"%s\" not found.", page), lsHint)
	}
	return schema.Result{
		Kind:               schema.KindLoading,
		Content:            []schema.Block{},
		PageName:           schema.PageName(page),
		OriginatingCommand: cmd,
	}
}

// LoadPage fetches page content. Fetch failures become error results.
func (e *Engine) LoadPage(ctx context.Context, page schema.PageName) schema.Result {
	log := logx.WithPage(logx.Ctx(ctx), page)
	if e.fetcher == nil {
		log.Warn("content page load failed", "err", "no content source")
		return loadFailed(page)
	}
	blocks, err := e.fetcher.Fetch(ctx, page)
	if err != nil {
		log.Warn("content page load failed", "err", err)
		return loadFailed(page)
	}
	log.Debug("content page loaded", "blocks", len(blocks))
	return schema.Result{Kind: schema.KindPage, Content: blocks}
}

func loadFailed(page schema.PageName) schema.Result {
	return result(schema.KindError, fmt.Sprintf("Failed to load page \"%s\".", string(page)), lsHint)
}

const lsHint = `Use "ls" to see available pages.`

func result(kind schema.Kind, paragraphs ...string) schema.Result {
	blocks := make([]schema.Block, 0, len(paragraphs))
	for _, text := range paragraphs {
		blocks = append(blocks, schema.Paragraph(text))
	}
	return schema.Result{Kind: kind, Content: blocks}
}

func helpResult() schema.Result {
	blocks := []schema.Block{schema.Header("Available Commands:")}
	for _, line := range helpLines {
		blocks = append(blocks, schema.Paragraph(line))
	}
	return schema.Result{Kind: schema.KindHelp, Content: blocks}
}

var helpLines = []string{
	"help     - Show this help message",
	"setname <name> - Set your name (persists across sessions)",
	"ls       - List all available pages",
	"cat <page> - Display content of a page",
	"cd <page>  - Navigate to a page (same as cat)",
	"rm       - Easter egg command",
	"clear    - Clear terminal output",
	"close    - Return to landing page",
}

func listResult() schema.Result {
	return schema.Result{
		Kind: schema.KindList,
		Content: []schema.Block{
			schema.Header("Available Pages:"),
			schema.List(schema.TerminalPageNames()...),
		},
	}
}

func unknownResult(name string, suggestions []string) schema.Result {
	lines := []string{fmt.Sprintf("Command \"%s\" not found.", name)}
	if len(suggestions) > 0 {
		lines = append(lines, "Did you mean:")
		for _, s := range suggestions {
			lines = append(lines, "  "+s)
		}
	} else {
		lines = append(lines, `Type "help" to see available commands.`)
	}
	return result(schema.KindError, lines...)
}

// Autocomplete returns completion candidates for input.
func (e *Engine) Autocomplete(input string) []string {
	return Autocomplete(input)
}
