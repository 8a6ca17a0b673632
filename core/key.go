package core

// KeyKind classifies a decoded key press.
type KeyKind int

const (
	KeyRune KeyKind = iota
	KeyEnter
	KeyBackspace
	KeyDelete
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyUp
	KeyDown
	KeyTab
	KeyEscape
	KeyPageUp
	KeyPageDown
	KeyCtrlC
	KeyCtrlD
	KeyCtrlK
	KeyCtrlU
	KeyCtrlW
	KeyAltB
	KeyAltF
	KeyFocusIn
	KeyFocusOut
)

// Key is a single key press. Rune is set for KeyRune.
type Key struct {
	Kind KeyKind
	Rune rune
}

// Runes returns one KeyRune per rune in s.
func Runes(s string) []Key {
	keys := make([]Key, 0, len(s))
	for _, r := range s {
		keys = append(keys, Key{Kind: KeyRune, Rune: r})
	}
	return keys
}
