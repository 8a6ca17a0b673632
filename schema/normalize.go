package schema

import (
	"strings"
)

// NormalizePageName case-folds and validates a page name.
// Allowed characters after folding: a-z, 0-9, '_', '-'.
func NormalizePageName(name string) (PageName, error) {
	trimmed := strings.ToLower(strings.TrimSpace(name))
	if trimmed == "" {
		return "", ErrUnknownPage
	}
	for _, r := range trimmed {
		if r >= 'a' && r <= 'z' {
			continue
		}
		if r >= '0' && r <= '9' {
			continue
		}
		if r == '_' || r == '-' {
			continue
		}
		return "", ErrUnknownPage
	}
	return PageName(trimmed), nil
}

// ValidateClientID ensures a client id matches [a-z0-9._-] with no normalization.
func ValidateClientID(clientID ClientID) error {
	raw := string(clientID)
	if raw == "" {
		return ErrInvalidScope
	}
	if strings.TrimSpace(raw) != raw {
		return ErrInvalidScope
	}
	if raw == "." || raw == ".." {
		return ErrInvalidScope
	}
	for _, r := range raw {
		if r >= 'a' && r <= 'z' {
			continue
		}
		if r >= '0' && r <= '9' {
			continue
		}
		if r == '.' || r == '_' || r == '-' {
			continue
		}
		return ErrInvalidScope
	}
	return nil
}
