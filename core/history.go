package core

const defaultHistoryMax = 1000

// historyBuffer is the submitted-line log plus the browse cursor.
// cursor is -1 when not browsing.
type historyBuffer struct {
	entries []string
	max     int
	cursor  int
}

func newHistory(max int) *historyBuffer {
	if max <= 0 {
		max = defaultHistoryMax
	}
	return &historyBuffer{max: max, cursor: -1}
}

// Append records entry and leaves browse mode.
func (h *historyBuffer) Append(entry string) {
	h.entries = append(h.entries, entry)
	if len(h.entries) > h.max {
		h.entries = append([]string(nil), h.entries[len(h.entries)-h.max:]...)
	}
	h.cursor = -1
}

// Older moves toward the first entry. It reports false when there is no history.
func (h *historyBuffer) Older() (string, bool) {
	if len(h.entries) == 0 {
		return "", false
	}
	if h.cursor == -1 {
		h.cursor = len(h.entries) - 1
	} else if h.cursor > 0 {
		h.cursor--
	}
	return h.entries[h.cursor], true
}

// Newer moves toward the last entry. Running past it leaves browse mode
// and yields an empty line. It reports false when not browsing.
func (h *historyBuffer) Newer() (string, bool) {
	if h.cursor == -1 {
		return "", false
	}
	h.cursor++
	if h.cursor >= len(h.entries) {
		h.cursor = -1
		return "", true
	}
	return h.entries[h.cursor], true
}

func (h *historyBuffer) Cursor() int {
	return h.cursor
}

func (h *historyBuffer) Entries() []string {
	return append([]string(nil), h.entries...)
}
