package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, "", Truncate("Tatooine", 0))
	assert.Equal(t, "Tatooine", Truncate("Tatooine", 8))
	assert.Equal(t, "Tato...", Truncate("Tatooine", 7))
	assert.Equal(t, "Ta", Truncate("Tatooine", 2))
}

func TestPad(t *testing.T) {
	assert.Equal(t, "Hoth  ", Pad("Hoth", 6))
	assert.Equal(t, "Tatooine", Pad("Tatooine", 4))
}

func TestHighlight_PreservesText(t *testing.T) {
	out := Highlight("Naboo", []int{0, 2}, false)
	assert.Equal(t, 5, lipgloss.Width(out))
	assert.Contains(t, Highlight("Naboo", nil, true), "Naboo")
}
