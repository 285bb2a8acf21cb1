package domain

import (
	"fmt"
	"strings"
)

// Planet is a catalog record as returned by the remote API and stored in the cache.
type Planet struct {
	URL        string `json:"url"`        // Canonical resource URL, the stable identifier
	Name       string `json:"name"`       // Display name
	Climate    string `json:"climate"`    // Comma separated climate list
	Gravity    string `json:"gravity"`    // e.g. "1 standard"
	Terrain    string `json:"terrain"`    // Comma separated terrain list
	Population string `json:"population"` // Raw population string ("unknown" allowed)
	Diameter   string `json:"diameter"`   // Diameter in km, raw string

	// ImageURL is assigned once when the planet is fetched from the network
	// and persisted with the cached copy.
	ImageURL string `json:"imageUrl"`
}

// GetID returns the deduplication key for the planet
func (p Planet) GetID() string { return p.URL }

// GetTitle returns the display title
func (p Planet) GetTitle() string { return p.Name }

// ImageID returns the picsum image id embedded in ImageURL, or "" if none
func (p Planet) ImageID() string {
	_, rest, ok := strings.Cut(p.ImageURL, "/id/")
	if !ok {
		return ""
	}
	id, _, _ := strings.Cut(rest, "/")
	return id
}

// HighResImageURL returns the 600x400 variant of the planet image used by the details view
func (p Planet) HighResImageURL() string {
	id := p.ImageID()
	if id == "" {
		return ""
	}
	return fmt.Sprintf("%s/id/%s/600/400", ImageHost, id)
}

// Description returns secondary info for list rendering
func (p Planet) Description() string {
	switch {
	case p.Climate != "" && p.Gravity != "":
		return p.Climate + " · " + p.Gravity
	case p.Climate != "":
		return p.Climate
	default:
		return p.Gravity
	}
}

// ImageHost is the base URL for derived planet images
const ImageHost = "https://picsum.photos"

// ThumbnailURL builds the 200x200 image URL for a picsum image id
func ThumbnailURL(imageID int) string {
	return fmt.Sprintf("%s/id/%d/200/200", ImageHost, imageID)
}

// Page is one network response batch
type Page struct {
	Planets []Planet
	Count   int    // Total records across all pages
	Next    string // Next page URL, empty on the last page
}

// HasNext reports whether the server advertised a further page
func (p *Page) HasNext() bool {
	return p != nil && p.Next != ""
}
