package content

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"pkt.systems/matrixterm/schema"
	"pkt.systems/pslog"
)

// FSFetcher reads page payloads from a filesystem.
type FSFetcher struct {
	fsys fs.FS
}

// NewFSFetcher returns a fetcher reading data/<page>.json from fsys.
// A nil fsys selects the embedded pages.
func NewFSFetcher(fsys fs.FS) *FSFetcher {
	if fsys == nil {
		fsys = EmbeddedPages()
	}
	return &FSFetcher{fsys: fsys}
}

// Fetch implements Fetcher.
func (f *FSFetcher) Fetch(ctx context.Context, page schema.PageName) ([]schema.Block, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	name, err := schema.NormalizePageName(string(page))
	if err != nil {
		return nil, err
	}
	data, err := fs.ReadFile(f.fsys, PagePath(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", schema.ErrPageNotFound, name)
		}
		return nil, fmt.Errorf("read page %s: %w", name, err)
	}
	blocks, skipped, err := schema.DecodeBlocks(data)
	if err != nil {
		return nil, fmt.Errorf("decode page %s: %w", name, err)
	}
	if skipped > 0 {
		pslog.Ctx(ctx).Debug("content page blocks skipped", "page", name, "skipped", skipped)
	}
	return blocks, nil
}
