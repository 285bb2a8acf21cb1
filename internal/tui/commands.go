package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/holocron/internal/browse"
	"github.com/mmcdole/holocron/internal/domain"
)

// Command factories for async operations

// WaitForStateCmd blocks until the controller publishes a state.
// Returns nil once the channel is closed.
func WaitForStateCmd(states <-chan browse.State) tea.Cmd {
	if states == nil {
		return nil
	}
	return func() tea.Msg {
		s, ok := <-states
		if !ok {
			return nil
		}
		return StateMsg{State: s}
	}
}

// WatchCacheCmd reads the next snapshot from the cache feed
func WatchCacheCmd(feed <-chan []domain.Planet) tea.Cmd {
	if feed == nil {
		return nil
	}
	return func() tea.Msg {
		planets, ok := <-feed
		if !ok {
			return nil
		}
		return CacheCountMsg{Count: len(planets)}
	}
}

// RefreshCmd restarts from the first page. The status line is only set when
// a load actually started; a refresh during an outstanding load is dropped.
func RefreshCmd(b Browser) tea.Cmd {
	return func() tea.Msg {
		if !b.Refresh() {
			return commandDoneMsg{}
		}
		return StatusMsg{Message: "Refreshing..."}
	}
}

// RetryCmd re-requests the current page
func RetryCmd(b Browser) tea.Cmd {
	return func() tea.Msg {
		b.Retry()
		return commandDoneMsg{}
	}
}

// LoadNextPageCmd requests the following page
func LoadNextPageCmd(b Browser) tea.Cmd {
	return func() tea.Msg {
		b.LoadNextPage()
		return commandDoneMsg{}
	}
}

// ClearStatusCmd returns a command that clears status after a delay
func ClearStatusCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
