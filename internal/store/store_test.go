package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/holocron/internal/domain"
)

func planet(n int, name string) domain.Planet {
	return domain.Planet{
		URL:  "https://swapi.dev/api/planets/" + string(rune('0'+n)) + "/",
		Name: name,
	}
}

func names(planets []domain.Planet) []string {
	out := make([]string, len(planets))
	for i, p := range planets {
		out[i] = p.Name
	}
	return out
}

// eachStore runs fn against a BoltDB-backed store and a memory-only store
func eachStore(t *testing.T, fn func(t *testing.T, s *PlanetStore)) {
	t.Run("bolt", func(t *testing.T) {
		s, err := NewPlanetStore(t.TempDir(), "https://swapi.dev/api")
		require.NoError(t, err)
		t.Cleanup(func() { _ = s.Close() })
		fn(t, s)
	})
	t.Run("memory", func(t *testing.T) {
		s, err := NewPlanetStore("", "")
		require.NoError(t, err)
		t.Cleanup(func() { _ = s.Close() })
		fn(t, s)
	})
}

func TestPlanetStore_EmptyByDefault(t *testing.T) {
	eachStore(t, func(t *testing.T, s *PlanetStore) {
		planets, err := s.All()
		require.NoError(t, err)
		assert.Empty(t, planets)
	})
}

func TestPlanetStore_InsertPreservesOrder(t *testing.T) {
	eachStore(t, func(t *testing.T, s *PlanetStore) {
		require.NoError(t, s.Insert([]domain.Planet{planet(2, "Alderaan"), planet(1, "Tatooine")}))
		require.NoError(t, s.Insert([]domain.Planet{planet(3, "Yavin IV")}))

		planets, err := s.All()
		require.NoError(t, err)
		assert.Equal(t, []string{"Alderaan", "Tatooine", "Yavin IV"}, names(planets))
	})
}

func TestPlanetStore_InsertUpsertKeepsPosition(t *testing.T) {
	eachStore(t, func(t *testing.T, s *PlanetStore) {
		require.NoError(t, s.Insert([]domain.Planet{planet(1, "Tatooine"), planet(2, "Alderaan")}))

		updated := planet(1, "Tatooine")
		updated.ImageURL = domain.ThumbnailURL(7)
		require.NoError(t, s.Insert([]domain.Planet{updated}))

		planets, err := s.All()
		require.NoError(t, err)
		require.Len(t, planets, 2)
		assert.Equal(t, "Tatooine", planets[0].Name)
		assert.Equal(t, domain.ThumbnailURL(7), planets[0].ImageURL)
	})
}

func TestPlanetStore_ReplaceAll(t *testing.T) {
	eachStore(t, func(t *testing.T, s *PlanetStore) {
		require.NoError(t, s.Insert([]domain.Planet{planet(1, "Tatooine"), planet(2, "Alderaan")}))
		require.NoError(t, s.ReplaceAll([]domain.Planet{planet(3, "Yavin IV")}))

		planets, err := s.All()
		require.NoError(t, err)
		assert.Equal(t, []string{"Yavin IV"}, names(planets))
	})
}

func TestPlanetStore_Clear(t *testing.T) {
	eachStore(t, func(t *testing.T, s *PlanetStore) {
		require.NoError(t, s.Insert([]domain.Planet{planet(1, "Tatooine")}))
		require.NoError(t, s.Clear())

		planets, err := s.All()
		require.NoError(t, err)
		assert.Empty(t, planets)

		// Sequence restarts cleanly after a clear
		require.NoError(t, s.Insert([]domain.Planet{planet(2, "Alderaan"), planet(1, "Tatooine")}))
		planets, err = s.All()
		require.NoError(t, err)
		assert.Equal(t, []string{"Alderaan", "Tatooine"}, names(planets))
	})
}

func TestPlanetStore_AllReturnsCopy(t *testing.T) {
	eachStore(t, func(t *testing.T, s *PlanetStore) {
		require.NoError(t, s.Insert([]domain.Planet{planet(1, "Tatooine")}))

		planets, err := s.All()
		require.NoError(t, err)
		planets[0].Name = "mutated"

		again, err := s.All()
		require.NoError(t, err)
		assert.Equal(t, "Tatooine", again[0].Name)
	})
}

func TestPlanetStore_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	s, err := NewPlanetStore(dir, "https://swapi.dev/api/")
	require.NoError(t, err)
	require.NoError(t, s.Insert([]domain.Planet{planet(1, "Tatooine"), planet(2, "Alderaan")}))
	require.NoError(t, s.Close())

	// Trailing slash and case do not change the cache directory
	reopened, err := NewPlanetStore(dir, "HTTPS://SWAPI.DEV/API")
	require.NoError(t, err)
	defer reopened.Close()

	planets, err := reopened.All()
	require.NoError(t, err)
	assert.Equal(t, []string{"Tatooine", "Alderaan"}, names(planets))
}

func TestPlanetStore_Observe(t *testing.T) {
	eachStore(t, func(t *testing.T, s *PlanetStore) {
		require.NoError(t, s.Insert([]domain.Planet{planet(1, "Tatooine")}))

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		ch := s.Observe(ctx)

		select {
		case snap := <-ch:
			assert.Equal(t, []string{"Tatooine"}, names(snap))
		case <-time.After(time.Second):
			t.Fatal("no initial snapshot")
		}

		require.NoError(t, s.Insert([]domain.Planet{planet(2, "Alderaan")}))
		select {
		case snap := <-ch:
			assert.Equal(t, []string{"Tatooine", "Alderaan"}, names(snap))
		case <-time.After(time.Second):
			t.Fatal("no snapshot after insert")
		}

		cancel()
		select {
		case _, ok := <-ch:
			assert.False(t, ok, "channel should close once ctx is done")
		case <-time.After(time.Second):
			t.Fatal("observer channel not closed")
		}
	})
}

func TestPlanetStore_ObserveAfterClose(t *testing.T) {
	s, err := NewPlanetStore("", "")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, ok := <-s.Observe(context.Background())
	assert.False(t, ok)
}

func TestHashServerURL(t *testing.T) {
	assert.Equal(t, hashServerURL("https://swapi.dev/api"), hashServerURL("https://SWAPI.dev/api/"))
	assert.NotEqual(t, hashServerURL("https://swapi.dev/api"), hashServerURL("https://swapi.tech/api"))
	assert.Len(t, hashServerURL("x"), 12)
}
