package catalog

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/holocron/internal/domain"
	"github.com/mmcdole/holocron/internal/log"
	"github.com/mmcdole/holocron/internal/store"
)

var (
	tatooine = domain.Planet{Name: "Tatooine", Climate: "arid", Gravity: "1 standard", URL: "https://swapi.dev/api/planets/1/"}
	alderaan = domain.Planet{Name: "Alderaan", Climate: "temperate", Gravity: "1 standard", URL: "https://swapi.dev/api/planets/2/"}
	yavin    = domain.Planet{Name: "Yavin IV", Climate: "temperate, tropical", Gravity: "1 standard", URL: "https://swapi.dev/api/planets/3/"}
)

// fakeClient serves canned pages keyed by page number
type fakeClient struct {
	mu    sync.Mutex
	pages map[int]*domain.Page
	err   error
	panic any
	calls []int
}

func (c *fakeClient) FetchPage(ctx context.Context, page int) (*domain.Page, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, page)
	if c.panic != nil {
		panic(c.panic)
	}
	if c.err != nil {
		return nil, c.err
	}
	if p, ok := c.pages[page]; ok {
		return p, nil
	}
	return &domain.Page{Planets: []domain.Planet{}}, nil
}

func (c *fakeClient) Calls() []int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]int(nil), c.calls...)
}

// recordingStore wraps the memory store and records write operations
type recordingStore struct {
	*store.PlanetStore
	mu        sync.Mutex
	ops       []string
	insertErr error
	readErr   error
}

func newRecordingStore(t *testing.T) *recordingStore {
	t.Helper()
	s, err := store.NewPlanetStore("", "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return &recordingStore{PlanetStore: s}
}

func (s *recordingStore) record(op string) {
	s.mu.Lock()
	s.ops = append(s.ops, op)
	s.mu.Unlock()
}

func (s *recordingStore) Ops() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.ops...)
}

func (s *recordingStore) All() ([]domain.Planet, error) {
	if s.readErr != nil {
		return nil, s.readErr
	}
	return s.PlanetStore.All()
}

func (s *recordingStore) Clear() error {
	s.record("clear")
	return s.PlanetStore.Clear()
}

func (s *recordingStore) Insert(planets []domain.Planet) error {
	s.record("insert")
	if s.insertErr != nil {
		return s.insertErr
	}
	return s.PlanetStore.Insert(planets)
}

func collect(t *testing.T, ch <-chan domain.Outcome) []domain.Outcome {
	t.Helper()
	var out []domain.Outcome
	timeout := time.After(2 * time.Second)
	for {
		select {
		case o, ok := <-ch:
			if !ok {
				return out
			}
			out = append(out, o)
		case <-timeout:
			t.Fatalf("outcome channel not closed, got %d outcomes", len(out))
			return out
		}
	}
}

func newTestRepository(client domain.CatalogClient, s domain.CacheStore) *Repository {
	return NewRepository(client, s, log.NullLogger(), WithImagePicker(func() int { return 42 }))
}

func TestRequestPage_NetworkSuccess(t *testing.T) {
	client := &fakeClient{pages: map[int]*domain.Page{
		1: {Planets: []domain.Planet{tatooine, alderaan}, Count: 2},
	}}
	cache := newRecordingStore(t)
	repo := newTestRepository(client, cache)

	outcomes := collect(t, repo.RequestPage(context.Background(), 1, true))

	require.Len(t, outcomes, 2)
	assert.IsType(t, domain.Loading{}, outcomes[0])
	success, ok := outcomes[1].(domain.Success)
	require.True(t, ok, "expected Success, got %#v", outcomes[1])
	assert.False(t, success.FromCache)
	require.Len(t, success.Planets, 2)
	assert.Equal(t, "Tatooine", success.Planets[0].Name)
	assert.Equal(t, "https://picsum.photos/id/42/200/200", success.Planets[0].ImageURL)

	// First page clears then inserts
	assert.Equal(t, []string{"clear", "insert"}, cache.Ops())
	cached, err := cache.All()
	require.NoError(t, err)
	assert.Len(t, cached, 2)
	assert.Equal(t, success.Planets[0].ImageURL, cached[0].ImageURL)

	assert.False(t, repo.HasNextPage())
}

func TestRequestPage_AbsentPageIsFirstPage(t *testing.T) {
	client := &fakeClient{pages: map[int]*domain.Page{0: {Planets: []domain.Planet{tatooine}}}}
	cache := newRecordingStore(t)
	repo := newTestRepository(client, cache)

	collect(t, repo.RequestPage(context.Background(), 0, true))
	assert.Equal(t, []string{"clear", "insert"}, cache.Ops())
}

func TestRequestPage_LaterPageInsertsOnly(t *testing.T) {
	client := &fakeClient{pages: map[int]*domain.Page{
		1: {Planets: []domain.Planet{tatooine, alderaan}, Next: "https://swapi.dev/api/planets/?page=2"},
		2: {Planets: []domain.Planet{yavin}},
	}}
	cache := newRecordingStore(t)
	repo := newTestRepository(client, cache)

	collect(t, repo.RequestPage(context.Background(), 1, true))
	assert.True(t, repo.HasNextPage())

	collect(t, repo.RequestPage(context.Background(), 2, true))
	assert.Equal(t, []string{"clear", "insert", "insert"}, cache.Ops())
	assert.False(t, repo.HasNextPage())

	cached, err := repo.CachedPlanets()
	require.NoError(t, err)
	assert.Len(t, cached, 3)
	assert.Equal(t, []int{1, 2}, client.Calls())
}

func TestRequestPage_NetworkFailure(t *testing.T) {
	client := &fakeClient{err: errors.New("Network error")}
	cache := newRecordingStore(t)
	repo := newTestRepository(client, cache)

	outcomes := collect(t, repo.RequestPage(context.Background(), 1, true))

	require.Len(t, outcomes, 2)
	failure, ok := outcomes[1].(domain.Failure)
	require.True(t, ok)
	assert.Equal(t, "Network error", failure.Message)
	assert.Empty(t, cache.Ops(), "failed fetch must not touch the cache")
	assert.False(t, repo.HasNextPage())
}

func TestRequestPage_FailureKeepsPreviousCursor(t *testing.T) {
	client := &fakeClient{pages: map[int]*domain.Page{
		1: {Planets: []domain.Planet{tatooine}, Next: "https://swapi.dev/api/planets/?page=2"},
	}}
	repo := newTestRepository(client, newRecordingStore(t))

	collect(t, repo.RequestPage(context.Background(), 1, true))
	require.True(t, repo.HasNextPage())

	client.mu.Lock()
	client.err = errors.New("timeout")
	client.mu.Unlock()

	collect(t, repo.RequestPage(context.Background(), 2, true))
	assert.True(t, repo.HasNextPage())
}

func TestRequestPage_EmptyErrorMessageFallsBack(t *testing.T) {
	client := &fakeClient{err: errors.New("")}
	repo := newTestRepository(client, newRecordingStore(t))

	outcomes := collect(t, repo.RequestPage(context.Background(), 1, true))
	failure := outcomes[1].(domain.Failure)
	assert.Equal(t, "Request Failed", failure.Message)
}

func TestRequestPage_CacheWriteFailure(t *testing.T) {
	client := &fakeClient{pages: map[int]*domain.Page{
		1: {Planets: []domain.Planet{tatooine}, Next: "https://swapi.dev/api/planets/?page=2"},
	}}
	cache := newRecordingStore(t)
	cache.insertErr = domain.ErrCacheUnavailable
	repo := newTestRepository(client, cache)

	outcomes := collect(t, repo.RequestPage(context.Background(), 1, true))
	failure, ok := outcomes[1].(domain.Failure)
	require.True(t, ok)
	assert.ErrorIs(t, failure.Err, domain.ErrCacheUnavailable)
	assert.False(t, repo.HasNextPage(), "cursor only advances after the cache write")
}

func TestRequestPage_PanicBecomesFailure(t *testing.T) {
	client := &fakeClient{panic: "decoder exploded"}
	repo := newTestRepository(client, newRecordingStore(t))

	outcomes := collect(t, repo.RequestPage(context.Background(), 1, true))
	require.Len(t, outcomes, 2)
	failure, ok := outcomes[1].(domain.Failure)
	require.True(t, ok)
	assert.Equal(t, "decoder exploded", failure.Message)
}

func TestRequestCached_ServesCacheOnly(t *testing.T) {
	client := &fakeClient{}
	cache := newRecordingStore(t)
	require.NoError(t, cache.PlanetStore.Insert([]domain.Planet{tatooine, alderaan}))
	repo := newTestRepository(client, cache)

	outcomes := collect(t, repo.RequestCached(context.Background()))

	require.Len(t, outcomes, 2)
	assert.IsType(t, domain.Loading{}, outcomes[0])
	success, ok := outcomes[1].(domain.Success)
	require.True(t, ok)
	assert.True(t, success.FromCache)
	assert.Equal(t, []domain.Planet{tatooine, alderaan}, success.Planets)
	assert.Empty(t, client.Calls(), "offline load must not hit the network")
	assert.Empty(t, cache.Ops(), "offline load must not write the cache")
	assert.False(t, repo.HasNextPage(), "cache reads never set the next page flag")
}

func TestRequestCached_KeepsNextPageFlag(t *testing.T) {
	client := &fakeClient{pages: map[int]*domain.Page{
		1: {Planets: []domain.Planet{tatooine}, Next: "https://swapi.dev/api/planets/?page=2"},
	}}
	repo := newTestRepository(client, newRecordingStore(t))

	collect(t, repo.RequestPage(context.Background(), 1, true))
	collect(t, repo.RequestCached(context.Background()))
	assert.True(t, repo.HasNextPage())
}

func TestRequestCached_EmptyCacheIsSuccess(t *testing.T) {
	repo := newTestRepository(&fakeClient{}, newRecordingStore(t))

	outcomes := collect(t, repo.RequestCached(context.Background()))
	success, ok := outcomes[1].(domain.Success)
	require.True(t, ok)
	assert.Empty(t, success.Planets)
}

func TestRequestCached_ReadFailure(t *testing.T) {
	cache := newRecordingStore(t)
	cache.readErr = domain.ErrCacheUnavailable
	repo := newTestRepository(&fakeClient{}, cache)

	outcomes := collect(t, repo.RequestCached(context.Background()))
	failure, ok := outcomes[1].(domain.Failure)
	require.True(t, ok)
	assert.ErrorIs(t, failure.Err, domain.ErrCacheUnavailable)
}

func TestRequestCached_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	repo := newTestRepository(&fakeClient{}, newRecordingStore(t))

	outcomes := collect(t, repo.RequestCached(ctx))
	_, ok := outcomes[1].(domain.Failure)
	assert.True(t, ok)
}

func TestRequestPage_NotForcedStillUsesNetwork(t *testing.T) {
	client := &fakeClient{pages: map[int]*domain.Page{1: {Planets: []domain.Planet{tatooine}}}}
	repo := newTestRepository(client, newRecordingStore(t))

	outcomes := collect(t, repo.RequestPage(context.Background(), 1, false))
	success := outcomes[1].(domain.Success)
	assert.False(t, success.FromCache)
	assert.Equal(t, []int{1}, client.Calls())
}

func TestWithImageRange(t *testing.T) {
	client := &fakeClient{pages: map[int]*domain.Page{
		1: {Planets: []domain.Planet{tatooine, alderaan, yavin}},
	}}
	repo := NewRepository(client, newRecordingStore(t), nil, WithImageRange(2))

	outcomes := collect(t, repo.RequestPage(context.Background(), 1, true))
	for _, p := range outcomes[1].(domain.Success).Planets {
		assert.Equal(t, "1", p.ImageID())
	}
}
