// Package catalog serves planet pages from the network, keeping the local
// cache written through, or from the cache alone for callers known to be offline.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync/atomic"

	"github.com/mmcdole/holocron/internal/domain"
)

const (
	// fallbackMessage is used when a failure carries no message of its own
	fallbackMessage = "Request Failed"

	defaultImageRange = 1000
)

// Repository orchestrates CatalogClient and CacheStore. It never checks
// connectivity itself; callers route offline loads through RequestCached.
//
// The first page clears the cache before inserting, in two separate writes.
// A concurrent reader can briefly observe an empty cache between them.
type Repository struct {
	client domain.CatalogClient
	store  domain.CacheStore
	logger *slog.Logger

	pickImage func() int

	hasNext atomic.Bool
}

// Option configures a Repository
type Option func(*Repository)

// WithImageRange draws derived image ids from [1, n)
func WithImageRange(n int) Option {
	return func(r *Repository) {
		if n < 2 {
			return
		}
		r.pickImage = func() int { return rand.IntN(n-1) + 1 }
	}
}

// WithImagePicker overrides the image id source (used by tests)
func WithImagePicker(fn func() int) Option {
	return func(r *Repository) {
		if fn != nil {
			r.pickImage = fn
		}
	}
}

// NewRepository creates a repository
func NewRepository(
	client domain.CatalogClient,
	store domain.CacheStore,
	logger *slog.Logger,
	opts ...Option,
) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Repository{
		client: client,
		store:  store,
		logger: logger,
	}
	WithImageRange(defaultImageRange)(r)
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RequestPage starts a one-shot network request for page (page <= 0 means the
// first page). The returned channel yields domain.Loading, then exactly one
// domain.Success or domain.Failure, and is then closed. It is buffered, so an
// abandoned request never blocks its producer.
//
// forceRefresh only marks a user-initiated load in the logs; both modes hit the
// network. Callers that already know they are offline use RequestCached.
func (r *Repository) RequestPage(ctx context.Context, page int, forceRefresh bool) <-chan domain.Outcome {
	return r.start(func() domain.Outcome {
		r.logger.Debug("requesting page", "page", page, "force", forceRefresh)
		return r.fromNetwork(ctx, page)
	})
}

// RequestCached is RequestPage for an offline caller: the same outcome
// sequence, served from CachedPlanets without touching the network.
// The Success carries FromCache and the next page flag is left alone.
func (r *Repository) RequestCached(ctx context.Context) <-chan domain.Outcome {
	return r.start(func() domain.Outcome {
		if err := ctx.Err(); err != nil {
			return failure(err)
		}
		return r.fromCache()
	})
}

// HasNextPage reports whether the last network success advertised another page.
// Cache reads never change it, so it is false until a network page succeeds.
func (r *Repository) HasNextPage() bool {
	return r.hasNext.Load()
}

// CachedPlanets reads the cache directly, for callers that already know they are offline
func (r *Repository) CachedPlanets() ([]domain.Planet, error) {
	return r.store.All()
}

func (r *Repository) start(resolve func() domain.Outcome) <-chan domain.Outcome {
	out := make(chan domain.Outcome, 2)
	go func() {
		defer close(out)
		out <- domain.Loading{}
		out <- r.guard(resolve)
	}()
	return out
}

// guard converts a panic inside a collaborator into a Failure
func (r *Repository) guard(resolve func() domain.Outcome) (outcome domain.Outcome) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("page request panicked", "panic", rec)
			outcome = failure(fmt.Errorf("%v", rec))
		}
	}()
	return resolve()
}

func (r *Repository) fromCache() domain.Outcome {
	planets, err := r.CachedPlanets()
	if err != nil {
		r.logger.Error("failed to read cache", "error", err)
		return failure(err)
	}
	r.logger.Debug("served planets from cache", "count", len(planets))
	return domain.Success{Planets: planets, FromCache: true}
}

func (r *Repository) fromNetwork(ctx context.Context, page int) domain.Outcome {
	result, err := r.client.FetchPage(ctx, page)
	if err != nil {
		r.logger.Error("failed to fetch page", "error", err, "page", page)
		return failure(err)
	}

	planets := make([]domain.Planet, len(result.Planets))
	for i, p := range result.Planets {
		p.ImageURL = domain.ThumbnailURL(r.pickImage())
		planets[i] = p
	}

	if page <= 1 {
		if err := r.store.Clear(); err != nil {
			r.logger.Error("failed to clear cache", "error", err)
			return failure(err)
		}
	}
	if err := r.store.Insert(planets); err != nil {
		r.logger.Error("failed to save planets", "error", err, "page", page)
		return failure(err)
	}

	r.hasNext.Store(result.HasNext())

	r.logger.Debug("fetched page", "page", page, "count", len(planets), "hasNext", result.HasNext())
	return domain.Success{Planets: planets}
}

func failure(err error) domain.Failure {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	if msg == "" {
		msg = fallbackMessage
	}
	return domain.Failure{Message: msg, Err: err}
}
