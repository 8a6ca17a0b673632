package content

import (
	"context"
	"net/http"
	"os"
	"strings"

	"pkt.systems/matrixterm/schema"
)

// Fetcher loads the blocks for a page.
type Fetcher interface {
	Fetch(ctx context.Context, page schema.PageName) ([]schema.Block, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, page schema.PageName) ([]schema.Block, error)

// Fetch calls f.
func (f FetcherFunc) Fetch(ctx context.Context, page schema.PageName) ([]schema.Block, error) {
	return f(ctx, page)
}

// PagePath returns the relative path of a page payload.
func PagePath(page schema.PageName) string {
	return "data/" + string(page) + ".json"
}

// NewSource returns the cached fetcher used by interpreter sessions.
// baseURL wins over dataDir, a site root holding data/<page>.json. With
// neither set the embedded pages are used.
func NewSource(baseURL, dataDir string, client *http.Client) (*Cache, error) {
	if strings.TrimSpace(baseURL) != "" {
		fetcher, err := NewHTTPFetcher(baseURL, client)
		if err != nil {
			return nil, err
		}
		return NewCache(fetcher), nil
	}
	if dir := strings.TrimSpace(dataDir); dir != "" {
		return NewCache(NewFSFetcher(os.DirFS(dir))), nil
	}
	return NewCache(NewFSFetcher(nil)), nil
}
