package schema

// ClientID scopes persisted state to a single connecting client.
type ClientID string

// EntryID identifies a scrollback entry.
type EntryID string

// ThemeName identifies a terminal theme.
type ThemeName string

// PageName identifies a content page.
type PageName string

// IdentityKey is the persisted key holding the terminal user name.
const IdentityKey = "terminalUserName"

// DefaultUserName is shown when no identity has been persisted.
const DefaultUserName = "user"

// PromptHost is the host part of the prompt.
const PromptHost = "matrix"

// SessionID identifies a single interpreter session.
type SessionID string
