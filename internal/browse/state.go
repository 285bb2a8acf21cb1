package browse

import "github.com/mmcdole/holocron/internal/domain"

// State is what the list screen renders. The concrete types are Loading,
// LoadingMore, Success and Error; renderers switch over them exhaustively.
type State interface {
	Kind() string
	isState()
}

// Loading means no data is available yet
type Loading struct{}

// LoadingMore means a request is in flight while the previous list stays visible
type LoadingMore struct {
	Planets []domain.Planet
}

// Success is a settled list
type Success struct {
	Planets     []domain.Planet
	CanLoadMore bool
}

// Error means the list is empty and the last load failed.
// It does not imply a network problem: an empty offline cache also ends here.
type Error struct {
	Message string
}

func (Loading) Kind() string     { return "loading" }
func (LoadingMore) Kind() string { return "loading_more" }
func (Success) Kind() string     { return "success" }
func (Error) Kind() string       { return "error" }

func (Loading) isState()     {}
func (LoadingMore) isState() {}
func (Success) isState()     {}
func (Error) isState()       {}

// PlanetsOf returns the planets carried by s, or nil for Loading and Error
func PlanetsOf(s State) []domain.Planet {
	switch s := s.(type) {
	case LoadingMore:
		return s.Planets
	case Success:
		return s.Planets
	default:
		return nil
	}
}
