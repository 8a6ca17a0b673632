package content

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"pkt.systems/matrixterm/schema"
	"pkt.systems/pslog"
)

const maxPageBytes = 1 << 20

// HTTPFetcher loads page payloads from <base>/data/<page>.json.
type HTTPFetcher struct {
	base   *url.URL
	client *http.Client
}

// NewHTTPFetcher validates baseURL and returns a fetcher for it.
// A nil client selects a client with a 10 second timeout.
func NewHTTPFetcher(baseURL string, client *http.Client) (*HTTPFetcher, error) {
	trimmed := strings.TrimSpace(baseURL)
	if trimmed == "" {
		return nil, errors.New("content base url is required")
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse content base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("content base url must be http or https: %q", baseURL)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("content base url has no host: %q", baseURL)
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPFetcher{base: parsed, client: client}, nil
}

// URL returns the location of a page payload.
func (f *HTTPFetcher) URL(page schema.PageName) string {
	return f.base.JoinPath("data", string(page)+".json").String()
}

// Fetch implements Fetcher. Any non-2xx status is an error.
func (f *HTTPFetcher) Fetch(ctx context.Context, page schema.PageName) ([]schema.Block, error) {
	name, err := schema.NormalizePageName(string(page))
	if err != nil {
		return nil, err
	}
	target := f.URL(name)
	log := pslog.Ctx(ctx).With("page", name, "url", target)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch page %s: %w", name, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	log.Debug("content page response", "status", resp.StatusCode, "duration", time.Since(start))
	if resp.StatusCode == http.StatusNotFound {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxPageBytes))
		return nil, fmt.Errorf("%w: %s", schema.ErrPageNotFound, name)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxPageBytes))
		return nil, fmt.Errorf("fetch page %s: unexpected status %d", name, resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return nil, fmt.Errorf("read page %s: %w", name, err)
	}
	blocks, skipped, err := schema.DecodeBlocks(data)
	if err != nil {
		return nil, fmt.Errorf("decode page %s: %w", name, err)
	}
	if skipped > 0 {
		log.Debug("content page blocks skipped", "skipped", skipped)
	}
	return blocks, nil
}
