package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/holocron/internal/domain"
	"github.com/mmcdole/holocron/internal/search"
	"github.com/mmcdole/holocron/internal/tui/styles"
)

// Layout constants for the planet list
const (
	// Border adds 1 char on each side
	BorderWidth  = 2
	BorderHeight = 2

	// Scroll indicators ("↑ more" and "↓ more") each take 1 line
	ScrollIndicatorLines = 2
)

// PlanetList is a scrollable, filterable list of planets
type PlanetList struct {
	planets []domain.Planet
	results []search.Result // nil unless a filter query is set

	title string

	cursor     int
	offset     int
	maxVisible int

	width  int
	height int

	filterActive bool
	filterInput  textinput.Model
	filterQuery  string
}

// NewPlanetList creates an empty list
func NewPlanetList(title string) PlanetList {
	ti := textinput.New()
	ti.Placeholder = "type to filter..."
	ti.Prompt = "/ "
	ti.PromptStyle = styles.FilterPromptStyle
	ti.TextStyle = styles.FilterStyle

	return PlanetList{
		title:       title,
		filterInput: ti,
	}
}

// SetPlanets replaces the list contents, keeping the cursor in range
func (l *PlanetList) SetPlanets(planets []domain.Planet) {
	l.planets = planets
	if l.filterQuery != "" {
		l.results = search.Filter(l.filterQuery, planets)
	}
	l.clampCursor()
}

// Planets returns the unfiltered list
func (l PlanetList) Planets() []domain.Planet { return l.planets }

// SetSize updates the component dimensions
func (l *PlanetList) SetSize(width, height int) {
	l.width = width
	l.height = height
	l.recalcMaxVisible()
	l.ensureVisible()
}

// Selected returns the planet under the cursor
func (l PlanetList) Selected() (domain.Planet, bool) {
	if l.ItemCount() == 0 {
		return domain.Planet{}, false
	}
	if l.results != nil {
		return l.results[l.cursor].Planet, true
	}
	return l.planets[l.cursor], true
}

// Cursor returns the selected row among visible items
func (l PlanetList) Cursor() int { return l.cursor }

// ItemCount returns the number of visible items
func (l PlanetList) ItemCount() int {
	if l.results != nil {
		return len(l.results)
	}
	return len(l.planets)
}

// AtEnd reports whether the cursor sits on the last unfiltered item
func (l PlanetList) AtEnd() bool {
	return l.results == nil && len(l.planets) > 0 && l.cursor == len(l.planets)-1
}

// ToggleFilter activates the filter input
func (l *PlanetList) ToggleFilter() {
	l.filterActive = true
	l.filterInput.Focus()
	l.recalcMaxVisible()
}

// IsFiltering returns true if filter mode is active
func (l PlanetList) IsFiltering() bool { return l.filterActive }

// IsFilterTyping returns true if filter is active AND input is focused
func (l PlanetList) IsFilterTyping() bool {
	return l.filterActive && l.filterInput.Focused()
}

// FilterQuery returns the applied filter text
func (l PlanetList) FilterQuery() string { return l.filterQuery }

// ClearFilter deactivates the filter and shows all items
func (l *PlanetList) ClearFilter() {
	l.filterActive = false
	l.filterQuery = ""
	l.results = nil
	l.filterInput.SetValue("")
	l.filterInput.Blur()
	l.recalcMaxVisible()
	l.clampCursor()
}

// Update handles navigation and filter keys
func (l PlanetList) Update(msg tea.Msg) (PlanetList, tea.Cmd) {
	if l.IsFilterTyping() {
		if msg, ok := msg.(tea.KeyMsg); ok {
			switch msg.String() {
			case "esc":
				l.ClearFilter()
				return l, nil
			case "enter":
				l.filterInput.Blur()
				return l, nil
			case "backspace":
				if l.filterInput.Value() == "" {
					l.ClearFilter()
					return l, nil
				}
			}
		}

		var cmd tea.Cmd
		l.filterInput, cmd = l.filterInput.Update(msg)
		l.applyFilter()
		return l, cmd
	}

	if l.filterActive {
		if msg, ok := msg.(tea.KeyMsg); ok {
			switch msg.String() {
			case "esc":
				l.ClearFilter()
				return l, nil
			case "/":
				l.filterInput.Focus()
				return l, nil
			}
		}
	}

	count := l.ItemCount()
	if count == 0 {
		return l, nil
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "j", "down":
			if l.cursor < count-1 {
				l.cursor++
			}
		case "k", "up":
			if l.cursor > 0 {
				l.cursor--
			}
		case "g", "home":
			l.cursor = 0
		case "G", "end":
			l.cursor = count - 1
		case "ctrl+d", "pgdown":
			l.cursor = min(l.cursor+max(l.maxVisible/2, 1), count-1)
		case "ctrl+u", "pgup":
			l.cursor = max(l.cursor-max(l.maxVisible/2, 1), 0)
		}
		l.ensureVisible()
	}

	return l, nil
}

// View renders the list inside a border
func (l PlanetList) View() string {
	style := styles.ActiveBorder
	frameW, frameH := style.GetFrameSize()

	return style.
		Width(max(l.width-frameW, 0)).
		Height(max(l.height-frameH, 0)).
		Render(l.renderContent())
}

func (l *PlanetList) applyFilter() {
	l.filterQuery = l.filterInput.Value()
	if l.filterQuery == "" {
		l.results = nil
	} else {
		l.results = search.Filter(l.filterQuery, l.planets)
		if l.results == nil {
			l.results = []search.Result{}
		}
	}
	l.cursor = 0
	l.offset = 0
}

func (l *PlanetList) clampCursor() {
	count := l.ItemCount()
	if l.cursor >= count {
		l.cursor = max(count-1, 0)
	}
	l.ensureVisible()
}

func (l *PlanetList) recalcMaxVisible() {
	interiorHeight := l.height - BorderHeight
	l.maxVisible = interiorHeight - ScrollIndicatorLines - 1 // title
	if l.filterActive {
		l.maxVisible--
	}
	if l.maxVisible < 1 {
		l.maxVisible = 1
	}
}

func (l *PlanetList) ensureVisible() {
	if l.maxVisible <= 0 {
		return
	}
	if l.cursor < l.offset {
		l.offset = l.cursor
	}
	if l.cursor >= l.offset+l.maxVisible {
		l.offset = l.cursor - l.maxVisible + 1
	}
}

func (l PlanetList) renderContent() string {
	itemWidth := max(l.width-BorderWidth, 10)

	title := l.title
	if l.results != nil {
		title = fmt.Sprintf("%s (%d/%d)", l.title, len(l.results), len(l.planets))
	}
	titleLine := styles.AccentStyle.Render(styles.Truncate(title, itemWidth))

	count := l.ItemCount()
	if count == 0 {
		empty := "No planets"
		if l.filterQuery != "" {
			empty = "No matches"
		}
		content := titleLine + "\n \n" + styles.DimStyle.Render(empty) + "\n "
		if l.filterActive {
			content += "\n" + l.filterInput.View()
		}
		return content
	}

	end := min(l.offset+l.maxVisible, count)
	lines := make([]string, 0, end-l.offset)
	for i := l.offset; i < end; i++ {
		lines = append(lines, l.renderItem(i, i == l.cursor, itemWidth))
	}

	header := " "
	if l.offset > 0 {
		header = styles.DimStyle.Render("↑ more")
	}
	footer := " "
	if end < count {
		footer = styles.DimStyle.Render("↓ more")
	}

	content := titleLine + "\n" + header + "\n" + strings.Join(lines, "\n") + "\n" + footer
	if l.filterActive {
		content += "\n" + l.filterInput.View()
	}
	return content
}

func (l PlanetList) renderItem(i int, selected bool, width int) string {
	var (
		p       domain.Planet
		matched []int
	)
	if l.results != nil {
		p, matched = l.results[i].Planet, l.results[i].MatchedIndexes
	} else {
		p = l.planets[i]
	}

	name := styles.Truncate(p.Name, width/2)
	desc := styles.Truncate(p.Description(), max(width-lipgloss.Width(name)-3, 0))

	row := styles.Highlight(name, matched, selected)
	descStyle := styles.DimStyle
	if selected {
		descStyle = styles.SelectedItemStyle
	}
	if desc != "" {
		row += descStyle.Render("  " + desc)
	}

	marker := "  "
	if selected {
		marker = styles.AccentStyle.Render("▸ ")
	}
	return marker + row
}
