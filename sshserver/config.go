package sshserver

import "time"

// Config defines SSH server settings.
type Config struct {
	Addr         string
	HostKeyPath  string
	Theme        string
	FetchTimeout time.Duration
}
