package core

import "pkt.systems/matrixterm/schema"

// Entry is one scrollback item.
type Entry struct {
	ID     schema.EntryID
	Result schema.Result
}

type scrollback struct {
	entries []Entry
}

func (s *scrollback) Append(res schema.Result) schema.EntryID {
	id := newEntryID()
	s.entries = append(s.entries, Entry{ID: id, Result: res.Clone()})
	return id
}

// Replace swaps the entry with the given id in place. It reports false
// when the id is gone.
func (s *scrollback) Replace(id schema.EntryID, res schema.Result) bool {
	for i := range s.entries {
		if s.entries[i].ID == id {
			s.entries[i].Result = res.Clone()
			return true
		}
	}
	return false
}

func (s *scrollback) Reset() {
	s.entries = nil
}

func (s *scrollback) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	for i, entry := range s.entries {
		out[i] = Entry{ID: entry.ID, Result: entry.Result.Clone()}
	}
	return out
}

func (s *scrollback) Len() int {
	return len(s.entries)
}
