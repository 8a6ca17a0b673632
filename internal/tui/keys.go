package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"pkt.systems/matrixterm/core"
)

// keysFor maps a Bubble Tea key press to session keys. Pasted text arrives
// as a single message and yields one key per rune.
func keysFor(msg tea.KeyMsg) []core.Key {
	switch msg.Type {
	case tea.KeyRunes:
		if msg.Alt && len(msg.Runes) == 1 {
			switch msg.Runes[0] {
			case 'b', 'B':
				return []core.Key{{Kind: core.KeyAltB}}
			case 'f', 'F':
				return []core.Key{{Kind: core.KeyAltF}}
			}
		}
		return core.Runes(string(msg.Runes))
	case tea.KeySpace:
		return []core.Key{{Kind: core.KeyRune, Rune: ' '}}
	case tea.KeyEnter:
		return one(core.KeyEnter)
	case tea.KeyBackspace, tea.KeyCtrlH:
		return one(core.KeyBackspace)
	case tea.KeyDelete:
		return one(core.KeyDelete)
	case tea.KeyLeft:
		return one(core.KeyLeft)
	case tea.KeyRight:
		return one(core.KeyRight)
	case tea.KeyHome, tea.KeyCtrlA:
		return one(core.KeyHome)
	case tea.KeyEnd, tea.KeyCtrlE:
		return one(core.KeyEnd)
	case tea.KeyUp:
		return one(core.KeyUp)
	case tea.KeyDown:
		return one(core.KeyDown)
	case tea.KeyTab:
		return one(core.KeyTab)
	case tea.KeyEsc:
		return one(core.KeyEscape)
	case tea.KeyPgUp:
		return one(core.KeyPageUp)
	case tea.KeyPgDown:
		return one(core.KeyPageDown)
	case tea.KeyCtrlC:
		return one(core.KeyCtrlC)
	case tea.KeyCtrlD:
		return one(core.KeyCtrlD)
	case tea.KeyCtrlK:
		return one(core.KeyCtrlK)
	case tea.KeyCtrlU:
		return one(core.KeyCtrlU)
	case tea.KeyCtrlW:
		return one(core.KeyCtrlW)
	}
	return nil
}

func one(kind core.KeyKind) []core.Key {
	return []core.Key{{Kind: kind}}
}
