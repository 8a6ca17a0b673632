package core

import (
	"context"

	"pkt.systems/matrixterm/schema"
)

// Effect is the work a host must perform after a key press.
type Effect struct {
	// Fetch is set when a page must be loaded. The host runs it off the
	// session goroutine and hands the outcome to Session.Resolve.
	Fetch *FetchRequest
	// Close is set when the session ended.
	Close bool
}

// FetchRequest asks the host to load a page for a placeholder entry.
type FetchRequest struct {
	EntryID schema.EntryID
	Page    schema.PageName
	Command string
}

// FetchOutcome is the settled result for a placeholder entry.
type FetchOutcome struct {
	EntryID schema.EntryID
	Result  schema.Result
}

// PageLoader turns a page name into a page or error result.
type PageLoader interface {
	LoadPage(ctx context.Context, page schema.PageName) schema.Result
}

// Run loads the page and tags the result with the placeholder id.
func (r FetchRequest) Run(ctx context.Context, loader PageLoader) FetchOutcome {
	return FetchOutcome{EntryID: r.EntryID, Result: loader.LoadPage(ctx, r.Page)}
}
