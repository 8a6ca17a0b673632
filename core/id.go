package core

import (
	"github.com/google/uuid"

	"pkt.systems/matrixterm/schema"
)

func newEntryID() schema.EntryID {
	return schema.EntryID(uuid.NewString())
}

// NewSessionID returns a random session identifier.
func NewSessionID() schema.SessionID {
	return schema.SessionID(uuid.NewString())
}
