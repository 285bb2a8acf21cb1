package swapi

import (
	"github.com/mmcdole/holocron/internal/domain"
)

// MapPage converts a SWAPI planet list to a domain page
func MapPage(list PlanetList) *domain.Page {
	page := &domain.Page{
		Planets: MapPlanets(list.Results),
		Count:   list.Count,
	}
	if list.Next != nil {
		page.Next = *list.Next
	}
	return page
}

// MapPlanets converts SWAPI planets to domain planets, skipping entries without a URL
func MapPlanets(results []Planet) []domain.Planet {
	planets := make([]domain.Planet, 0, len(results))
	for _, p := range results {
		if p.URL == "" {
			continue
		}
		planets = append(planets, mapPlanet(p))
	}
	return planets
}

func mapPlanet(p Planet) domain.Planet {
	return domain.Planet{
		URL:        p.URL,
		Name:       p.Name,
		Climate:    p.Climate,
		Gravity:    p.Gravity,
		Terrain:    p.Terrain,
		Population: p.Population,
		Diameter:   p.Diameter,
	}
}
