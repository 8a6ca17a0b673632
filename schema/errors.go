package schema

import "errors"

var (
	// ErrInvalidPage indicates page content could not be decoded.
	ErrInvalidPage = errors.New("invalid page content")
	// ErrPageNotFound indicates the content source has no such page.
	ErrPageNotFound = errors.New("page not found")
	// ErrUnknownPage indicates a page name outside the known catalogs.
	ErrUnknownPage = errors.New("unknown page")
	// ErrEmptyName indicates a blank identity was supplied.
	ErrEmptyName = errors.New("empty name")
	// ErrInvalidScope indicates an unusable persistence scope.
	ErrInvalidScope = errors.New("invalid scope")
)
