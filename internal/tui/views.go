package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/holocron/internal/browse"
	"github.com/mmcdole/holocron/internal/tui/styles"
)

// renderBody draws the list screen for the current state
func (m Model) renderBody() string {
	height := max(m.Height-ChromeHeight, 3)

	switch s := m.State.(type) {
	case browse.Loading:
		return m.centered(m.Spinner.View()+" Loading planets...", height)
	case browse.Error:
		msg := styles.ErrorStyle.Render(wordWrap(s.Message, max(m.Width-4, 10)))
		hint := styles.DimStyle.Render("press R to retry, r to refresh")
		return m.centered(msg+"\n\n"+hint, height)
	case browse.LoadingMore, browse.Success:
		return m.List.View()
	default:
		return m.centered("", height)
	}
}

func (m Model) centered(content string, height int) string {
	return lipgloss.Place(m.Width, height, lipgloss.Center, lipgloss.Center, content)
}

// renderFooter draws the single status line
func (m Model) renderFooter() string {
	var parts []string

	switch s := m.State.(type) {
	case browse.Loading:
		parts = append(parts, m.Spinner.View()+" loading")
	case browse.LoadingMore:
		parts = append(parts,
			fmt.Sprintf("%d planets", len(s.Planets)),
			m.Spinner.View()+" loading more")
	case browse.Success:
		parts = append(parts, fmt.Sprintf("%d planets", len(s.Planets)))
		if m.opts.PageHint && s.CanLoadMore {
			parts = append(parts, styles.AccentStyle.Render("more available (n)"))
		}
	case browse.Error:
		parts = append(parts, styles.ErrorStyle.Render("error"))
	}

	parts = append(parts, styles.DimStyle.Render(fmt.Sprintf("cached %d", m.CachedCount)))

	if m.StatusMsg != "" {
		style := styles.SuccessStyle
		if m.StatusIsErr {
			style = styles.ErrorStyle
		}
		parts = append(parts, style.Render(m.StatusMsg))
	}

	line := strings.Join(parts, styles.DimStyle.Render(" · "))
	if m.opts.ShowHelp {
		hint := m.Help.ShortHelpView(footerBindings())
		gap := m.Width - lipgloss.Width(line) - lipgloss.Width(hint)
		if gap > 1 {
			line += strings.Repeat(" ", gap) + hint
		}
	}
	return line
}

func footerBindings() []key.Binding {
	return []key.Binding{Keys.Filter, Keys.Refresh, Keys.Help, Keys.Quit}
}

// renderHelp lists every binding
func (m Model) renderHelp() string {
	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render("Keys"))
	b.WriteString("\n\n")
	for _, kb := range helpBindings() {
		h := kb.Help()
		b.WriteString(styles.HelpKeyStyle.Render(styles.Pad(h.Key, 10)))
		b.WriteString(styles.HelpDescStyle.Render(h.Desc))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(styles.DimStyle.Render("press any key to return"))
	return styles.InactiveBorder.Padding(1, 2).Render(b.String())
}

// wordWrap wraps text to the specified width
func wordWrap(text string, width int) string {
	if width <= 0 {
		return text
	}

	var result strings.Builder
	lineLen := 0

	for i, word := range strings.Fields(text) {
		wordLen := len(word)

		if lineLen+wordLen+1 > width && lineLen > 0 {
			result.WriteString("\n")
			lineLen = 0
		}

		if i > 0 && lineLen > 0 {
			result.WriteString(" ")
			lineLen++
		}

		result.WriteString(word)
		lineLen += wordLen
	}

	return result.String()
}
