package browse

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/holocron/internal/catalog"
	"github.com/mmcdole/holocron/internal/domain"
	"github.com/mmcdole/holocron/internal/store"
)

// flappingChecker answers from a fixed script and counts how often it is asked
type flappingChecker struct {
	mu      sync.Mutex
	answers []bool
	calls   int
}

func (f *flappingChecker) IsReachable() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := min(f.calls, len(f.answers)-1)
	f.calls++
	return f.answers[i]
}

func (f *flappingChecker) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type countingClient struct {
	mu    sync.Mutex
	calls int
}

func (c *countingClient) FetchPage(_ context.Context, _ int) (*domain.Page, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	return &domain.Page{Planets: []domain.Planet{planet("Hoth")}}, nil
}

func (c *countingClient) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func TestController_OfflineStartNeverReachesNetwork(t *testing.T) {
	s, err := store.NewPlanetStore("", "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	cached := []domain.Planet{planet("Tatooine"), planet("Alderaan")}
	require.NoError(t, s.ReplaceAll(cached))

	client := &countingClient{}
	checker := &flappingChecker{answers: []bool{false, true}}
	repo := catalog.NewRepository(client, s, nil)

	rec := &recorder{}
	c := NewController(repo, checker, WithObserver(rec))
	t.Cleanup(c.Close)

	got := waitState(t, rec, isSuccess)
	assert.Equal(t, Success{Planets: cached, CanLoadMore: false}, got)

	// a second non-forced load stays on the cache even though the network is back
	c.LoadPlanets(false)
	waitState(t, rec, isSuccess)
	require.Eventually(t, func() bool { return !c.InFlight() }, waitFor, time.Millisecond)

	assert.Equal(t, 1, checker.Calls(), "connectivity decided once at startup")
	assert.Equal(t, 0, client.Calls(), "no network fetch while offline")

	all, err := s.All()
	require.NoError(t, err)
	assert.Equal(t, cached, all, "cache left untouched")
}
