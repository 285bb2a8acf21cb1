// Package tui is the interactive planet browser.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/holocron/internal/browse"
	"github.com/mmcdole/holocron/internal/domain"
	"github.com/mmcdole/holocron/internal/tui/components"
	"github.com/mmcdole/holocron/internal/tui/styles"
)

// Screen is the view currently shown
type Screen int

const (
	ScreenList Screen = iota
	ScreenDetails
	ScreenHelp
)

// Vertical layout: single footer line
const ChromeHeight = 1

const statusTimeout = 3 * time.Second

// Browser is the part of the pagination controller the UI drives
type Browser interface {
	State() browse.State
	LoadNextPage()
	Refresh() bool
	Retry()
}

// Options configures optional model features
type Options struct {
	ShowHelp bool // key hints in the footer
	PageHint bool // "more available" footer hint
}

// Model is the main Bubble Tea model for the application
type Model struct {
	Screen Screen
	Ready  bool

	browser   Browser
	states    <-chan browse.State
	cacheFeed <-chan []domain.Planet
	opts      Options

	// Last rendered controller state
	State browse.State

	List    components.PlanetList
	Details components.Details
	Spinner spinner.Model
	Help    help.Model

	Width  int
	Height int

	CachedCount int
	StatusMsg   string
	StatusIsErr bool
}

// NewModel creates the application model. states delivers controller
// transitions; cacheFeed (optional) delivers offline store snapshots.
func NewModel(b Browser, states <-chan browse.State, cacheFeed <-chan []domain.Planet, opts Options) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.SpinnerStyle

	m := Model{
		Screen:    ScreenList,
		browser:   b,
		states:    states,
		cacheFeed: cacheFeed,
		opts:      opts,
		List:      components.NewPlanetList("Planets"),
		Spinner:   sp,
		Help:      help.New(),
	}
	m.applyState(b.State())
	return m
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		WaitForStateCmd(m.states),
		WatchCacheCmd(m.cacheFeed),
		m.Spinner.Tick,
	)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.updateLayout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case StateMsg:
		m.applyState(msg.State)
		return m, WaitForStateCmd(m.states)

	case CacheCountMsg:
		m.CachedCount = msg.Count
		return m, WatchCacheCmd(m.cacheFeed)

	case StatusMsg:
		m.StatusMsg = msg.Message
		m.StatusIsErr = msg.IsError
		return m, ClearStatusCmd(statusTimeout)

	case ClearStatusMsg:
		m.StatusMsg = ""
		m.StatusIsErr = false
		return m, nil

	case commandDoneMsg:
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// applyState folds a controller state into the view
func (m *Model) applyState(s browse.State) {
	if s == nil {
		return
	}
	m.State = s
	switch s := s.(type) {
	case browse.Loading:
		// keep whatever is on screen until data arrives
	case browse.LoadingMore:
		m.List.SetPlanets(s.Planets)
	case browse.Success:
		m.List.SetPlanets(s.Planets)
	case browse.Error:
		m.List.SetPlanets(nil)
	}
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Filter input swallows everything but ctrl+c
	if m.Screen == ScreenList && m.List.IsFilterTyping() {
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.List, cmd = m.List.Update(msg)
		return m, cmd
	}

	if key.Matches(msg, Keys.Quit) {
		return m, tea.Quit
	}

	switch m.Screen {
	case ScreenHelp:
		m.Screen = ScreenList
		return m, nil

	case ScreenDetails:
		if key.Matches(msg, Keys.Back) || key.Matches(msg, Keys.Enter) {
			m.Screen = ScreenList
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, Keys.Help):
		m.Screen = ScreenHelp
		return m, nil

	case key.Matches(msg, Keys.Refresh):
		m.List.ClearFilter()
		return m, RefreshCmd(m.browser)

	case key.Matches(msg, Keys.Retry):
		if _, failed := m.State.(browse.Error); failed {
			return m, RetryCmd(m.browser)
		}
		return m, nil

	case key.Matches(msg, Keys.LoadMore):
		if m.canLoadMore() {
			return m, LoadNextPageCmd(m.browser)
		}
		return m, nil

	case key.Matches(msg, Keys.Filter):
		if !m.List.IsFiltering() {
			m.List.ToggleFilter()
			m.updateLayout()
			return m, nil
		}

	case key.Matches(msg, Keys.Enter):
		if p, ok := m.List.Selected(); ok {
			m.Details = components.NewDetails(p)
			m.Screen = ScreenDetails
			m.updateLayout()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.List, cmd = m.List.Update(msg)
	m.updateLayout()

	// Reaching the bottom of the list pulls the next page
	if m.List.AtEnd() && m.canLoadMore() &&
		(key.Matches(msg, Keys.Down) || key.Matches(msg, Keys.End)) {
		return m, tea.Batch(cmd, LoadNextPageCmd(m.browser))
	}
	return m, cmd
}

// canLoadMore reports whether the settled state allows another page
func (m Model) canLoadMore() bool {
	s, ok := m.State.(browse.Success)
	return ok && s.CanLoadMore
}

func (m *Model) updateLayout() {
	if !m.Ready {
		return
	}
	bodyHeight := max(m.Height-ChromeHeight, 3)
	m.List.SetSize(m.Width, bodyHeight)
	m.Details.SetSize(m.Width, bodyHeight)
	m.Help.Width = m.Width
}

// View renders the UI
func (m Model) View() string {
	if !m.Ready {
		return "Initializing..."
	}

	var body string
	switch m.Screen {
	case ScreenHelp:
		body = m.renderHelp()
	case ScreenDetails:
		body = m.Details.View()
	default:
		body = m.renderBody()
	}

	return body + "\n" + m.renderFooter()
}
