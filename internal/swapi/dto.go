package swapi

// PlanetList is the paginated envelope returned by GET /planets/
type PlanetList struct {
	Count    int      `json:"count"`
	Next     *string  `json:"next"`
	Previous *string  `json:"previous"`
	Results  []Planet `json:"results"`
}

// Planet is a single planet resource
type Planet struct {
	Name           string   `json:"name"`
	RotationPeriod string   `json:"rotation_period,omitempty"`
	OrbitalPeriod  string   `json:"orbital_period,omitempty"`
	Diameter       string   `json:"diameter,omitempty"`
	Climate        string   `json:"climate"`
	Gravity        string   `json:"gravity"`
	Terrain        string   `json:"terrain,omitempty"`
	SurfaceWater   string   `json:"surface_water,omitempty"`
	Population     string   `json:"population,omitempty"`
	Residents      []string `json:"residents,omitempty"`
	Films          []string `json:"films,omitempty"`
	Created        string   `json:"created,omitempty"`
	Edited         string   `json:"edited,omitempty"`
	URL            string   `json:"url"`
}
