package components

import (
	"strings"

	"github.com/mmcdole/holocron/internal/domain"
	"github.com/mmcdole/holocron/internal/tui/styles"
)

// Details shows every field of one planet
type Details struct {
	planet domain.Planet
	width  int
	height int
}

// NewDetails creates a details view for p
func NewDetails(p domain.Planet) Details {
	return Details{planet: p}
}

// Planet returns the displayed planet
func (d Details) Planet() domain.Planet { return d.planet }

// SetSize updates the component dimensions
func (d *Details) SetSize(width, height int) {
	d.width = width
	d.height = height
}

// View renders the component
func (d Details) View() string {
	style := styles.InactiveBorder
	frameW, frameH := style.GetFrameSize()
	contentWidth := max(d.width-frameW-1, 10)

	p := d.planet
	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render(styles.Truncate(p.Name, contentWidth)))
	b.WriteString("\n\n")

	rows := []struct{ label, value string }{
		{"Climate", p.Climate},
		{"Gravity", p.Gravity},
		{"Terrain", p.Terrain},
		{"Population", p.Population},
		{"Diameter", p.Diameter},
	}
	for _, r := range rows {
		value := r.value
		if value == "" {
			value = "unknown"
		}
		b.WriteString(styles.SubtitleStyle.Render(styles.Pad(r.label, 12)))
		b.WriteString(styles.Truncate(value, contentWidth-12))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if img := p.HighResImageURL(); img != "" {
		b.WriteString(styles.SubtitleStyle.Render("Image"))
		b.WriteString("\n")
		b.WriteString(styles.LinkStyle.Render(styles.Truncate(img, contentWidth)))
		b.WriteString("\n")
	}
	b.WriteString(styles.DimStyle.Render(styles.Truncate(p.URL, contentWidth)))

	return style.
		Width(max(d.width-frameW, 0)).
		Height(max(d.height-frameH, 0)).
		Render(b.String())
}
