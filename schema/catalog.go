package schema

import "strings"

// TerminalPages is the catalog the interpreter accepts for cat and cd.
var TerminalPages = []PageName{"about", "projects", "experience", "contact", "skills"}

// ModernPages is the catalog consumed by the card/scroll layout. It is a
// separate namespace from TerminalPages and is not consulted by the interpreter.
var ModernPages = []PageName{"about", "projects", "research", "resume", "contact", "linux"}

// TerminalPageNames returns a copy of the terminal catalog as strings.
func TerminalPageNames() []string {
	return pageStrings(TerminalPages)
}

// ModernPageNames returns a copy of the modern catalog as strings.
func ModernPageNames() []string {
	return pageStrings(ModernPages)
}

// IsTerminalPage reports whether name (case-folded) is in the terminal catalog.
func IsTerminalPage(name string) bool {
	folded := PageName(strings.ToLower(name))
	for _, page := range TerminalPages {
		if page == folded {
			return true
		}
	}
	return false
}

// IsKnownPage reports whether name belongs to either catalog.
func IsKnownPage(name string) bool {
	if IsTerminalPage(name) {
		return true
	}
	folded := PageName(strings.ToLower(name))
	for _, page := range ModernPages {
		if page == folded {
			return true
		}
	}
	return false
}

func pageStrings(pages []PageName) []string {
	out := make([]string, len(pages))
	for i, page := range pages {
		out[i] = string(page)
	}
	return out
}
