package tui

import "github.com/mmcdole/holocron/internal/browse"

// Message types for the TUI

// StateMsg carries a state published by the controller
type StateMsg struct {
	State browse.State
}

// CacheCountMsg reports how many planets are stored offline
type CacheCountMsg struct {
	Count int
}

// StatusMsg sets a temporary status message
type StatusMsg struct {
	Message string
	IsError bool
}

// ClearStatusMsg clears the status bar message
type ClearStatusMsg struct{}

// commandDoneMsg is returned by controller commands that have nothing to report
type commandDoneMsg struct{}
