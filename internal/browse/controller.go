// Package browse owns the accumulated planet list and the state machine the
// list screen renders: initial load, refresh, next page and retry.
package browse

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/mmcdole/holocron/internal/domain"
)

const (
	firstPage = 1

	// offlineEmptyMessage is shown when an offline load finds nothing cached
	offlineEmptyMessage = "No cached planets available offline"
)

// Pager is the slice of the sync repository the controller depends on.
// RequestPage always goes to the network; RequestCached never does.
type Pager interface {
	RequestPage(ctx context.Context, page int, forceRefresh bool) <-chan domain.Outcome
	RequestCached(ctx context.Context) <-chan domain.Outcome
	HasNextPage() bool
}

// request identifies one outstanding page load
type request struct {
	seq    uint64
	page   int
	force  bool
	cached bool
}

// Controller is the pagination state machine.
//
// All fields below the loop marker are owned by the loop goroutine; commands
// and repository outcomes are both funneled into it, so state is never
// mutated concurrently. Readers see published States only.
type Controller struct {
	pager     Pager
	logger    *slog.Logger
	observers []StateObserver

	state atomic.Pointer[State]

	ops       chan func()
	ctx       context.Context
	cancel    context.CancelFunc
	done      chan struct{}
	closeOnce sync.Once

	// loop
	cursor    int // page of the most recent request
	loaded    int // highest page folded into planets
	inFlight  bool
	offline   bool // set by the startup check, cleared by the first network success
	seq       uint64
	reqCancel context.CancelFunc
	planets   []domain.Planet
	seen      map[string]struct{}
}

// Option configures a Controller
type Option func(*Controller)

// WithObserver registers an observer before the initial state is published
func WithObserver(o StateObserver) Option {
	return func(c *Controller) {
		if o != nil {
			c.observers = append(c.observers, o)
		}
	}
}

// WithLogger sets the logger (defaults to slog.Default)
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewController starts the controller and issues the initial load: a network
// load when probe reports the catalog reachable, a cache-only load otherwise.
// The probe is consulted exactly once. A nil probe is treated as online.
func NewController(pager Pager, probe domain.ConnectivityProbe, opts ...Option) *Controller {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		pager:  pager,
		logger: slog.Default(),
		ops:    make(chan func()),
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
		cursor: firstPage,
		seen:   make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}

	online := probe == nil || probe.IsReachable()
	c.offline = !online

	c.publish(Loading{})
	go c.run()

	c.logger.Info("initial load", "online", online)
	c.LoadPlanets(online)

	return c
}

// State returns the most recently published state
func (c *Controller) State() State {
	return *c.state.Load()
}

// LoadPlanets requests the current cursor page. It is a no-op while a load is in flight.
// A non-forced load reads the cache instead while the controller is offline.
func (c *Controller) LoadPlanets(forceRefresh bool) {
	c.exec(func() { c.loadPlanets(forceRefresh) })
}

// LoadNextPage requests the page after the last loaded one. It is a no-op
// while a load is in flight or when no further page is known.
func (c *Controller) LoadNextPage() {
	c.exec(func() {
		if c.inFlight || !c.pager.HasNextPage() {
			c.logger.Debug("next page ignored", "inFlight", c.inFlight, "cursor", c.cursor)
			return
		}
		c.cursor = c.loaded + 1
		c.loadPlanets(true)
	})
}

// Refresh resets the cursor to the first page and starts a network load.
// It reports whether a load was started: while another is in flight only the
// cursor is reset, and that request is still folded against its own page.
func (c *Controller) Refresh() bool {
	started := false
	c.exec(func() {
		c.cursor = firstPage
		started = c.loadPlanets(true)
	})
	return started
}

// Retry re-requests the current cursor page from the network
func (c *Controller) Retry() {
	c.exec(func() { c.loadPlanets(true) })
}

// Cursor returns the page of the most recent request
func (c *Controller) Cursor() int {
	var cursor int
	c.exec(func() { cursor = c.cursor })
	return cursor
}

// InFlight reports whether a page load is outstanding
func (c *Controller) InFlight() bool {
	var inFlight bool
	c.exec(func() { inFlight = c.inFlight })
	return inFlight
}

// Close cancels any outstanding request and stops the controller.
// No state is published after Close returns.
func (c *Controller) Close() {
	c.closeOnce.Do(func() {
		c.cancel()
		<-c.done
		c.logger.Debug("controller closed")
	})
}

func (c *Controller) run() {
	defer close(c.done)
	for {
		select {
		case <-c.ctx.Done():
			return
		case op := <-c.ops:
			if c.ctx.Err() != nil {
				return
			}
			op()
		}
	}
}

// exec runs fn on the loop and waits for it. It returns false once closed.
func (c *Controller) exec(fn func()) bool {
	finished := make(chan struct{})
	select {
	case c.ops <- func() { fn(); close(finished) }:
	case <-c.done:
		return false
	}
	select {
	case <-finished:
		return true
	case <-c.done:
		return false
	}
}

func (c *Controller) loadPlanets(forceRefresh bool) bool {
	if c.inFlight {
		c.logger.Debug("load ignored, already in flight", "cursor", c.cursor)
		return false
	}
	c.inFlight = true
	c.seq++
	req := request{
		seq:    c.seq,
		page:   c.cursor,
		force:  forceRefresh,
		cached: !forceRefresh && c.offline,
	}

	reqCtx, cancel := context.WithCancel(c.ctx)
	c.reqCancel = cancel

	var outcomes <-chan domain.Outcome
	if req.cached {
		c.logger.Debug("requesting cached planets")
		outcomes = c.pager.RequestCached(reqCtx)
	} else {
		c.logger.Debug("requesting page", "page", req.page, "force", forceRefresh)
		outcomes = c.pager.RequestPage(reqCtx, req.page, forceRefresh)
	}
	go c.forward(req, outcomes)
	return true
}

// forward feeds outcomes into the loop until the sequence ends or the controller closes
func (c *Controller) forward(req request, outcomes <-chan domain.Outcome) {
	for outcome := range outcomes {
		select {
		case c.ops <- func() { c.fold(req, outcome) }:
		case <-c.ctx.Done():
			return
		}
	}
}

func (c *Controller) fold(req request, outcome domain.Outcome) {
	if req.seq != c.seq {
		c.logger.Debug("dropping stale outcome", "page", req.page)
		return
	}

	switch o := outcome.(type) {
	case domain.Loading:
		if len(c.planets) == 0 {
			c.publish(Loading{})
		} else {
			c.publish(LoadingMore{Planets: c.snapshot()})
		}

	case domain.Success:
		c.finish()
		if req.page <= firstPage {
			c.planets = nil
			c.seen = make(map[string]struct{})
		}
		added := c.merge(o.Planets)
		c.loaded = max(req.page, firstPage)
		if !o.FromCache {
			c.offline = false
		}

		if o.FromCache && len(c.planets) == 0 {
			c.publish(Error{Message: offlineEmptyMessage})
			return
		}
		c.logger.Info("page loaded", "page", req.page, "added", added, "total", len(c.planets), "fromCache", o.FromCache)
		c.publish(Success{
			Planets:     c.snapshot(),
			CanLoadMore: req.force && c.pager.HasNextPage(),
		})

	case domain.Failure:
		c.finish()
		c.logger.Warn("page load failed", "page", req.page, "message", o.Message)
		if len(c.planets) == 0 {
			c.publish(Error{Message: o.Message})
			return
		}
		c.publish(Success{
			Planets:     c.snapshot(),
			CanLoadMore: c.pager.HasNextPage(),
		})
	}
}

func (c *Controller) finish() {
	c.inFlight = false
	if c.reqCancel != nil {
		c.reqCancel()
		c.reqCancel = nil
	}
}

// merge appends planets not seen before; a known id keeps its original position
func (c *Controller) merge(planets []domain.Planet) int {
	added := 0
	for _, p := range planets {
		id := p.GetID()
		if _, ok := c.seen[id]; ok {
			continue
		}
		c.seen[id] = struct{}{}
		c.planets = append(c.planets, p)
		added++
	}
	return added
}

func (c *Controller) snapshot() []domain.Planet {
	out := make([]domain.Planet, len(c.planets))
	copy(out, c.planets)
	return out
}

func (c *Controller) publish(s State) {
	if c.ctx.Err() != nil {
		return
	}
	if _, loading := s.(Loading); loading {
		if prev := c.state.Load(); prev != nil {
			if _, was := (*prev).(Loading); was {
				return
			}
		}
	}
	c.state.Store(&s)
	for _, o := range c.observers {
		o.OnState(s)
	}
}
