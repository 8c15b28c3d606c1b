package model

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/infitab/infitab/internal/logging"
	"github.com/infitab/infitab/internal/model1"
)

// FetchState tracks the fetch controller lifecycle.
type FetchState int

const (
	// FetchIdle waits for the sentinel to show up.
	FetchIdle FetchState = iota
	// FetchBusy has a page request in flight.
	FetchBusy
	// FetchFailed saw the latest page request fail.
	FetchFailed
)

func (s FetchState) String() string {
	switch s {
	case FetchIdle:
		return "idle"
	case FetchBusy:
		return "fetching"
	case FetchFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Pager is the part of the row cache the controller drives.
type Pager interface {
	FetchNextPage(context.Context) bool
	HasNextPage() bool
	InvalidateRows()
}

// FetchController decides when the next page is requested.
//
// The sentinel is the last rendered row. A fetch fires when the sentinel
// turns visible, the cache announced more pages and nothing is in flight.
// Appending a page moves the sentinel. Once the new rows are on screen the
// view calls ResetVisibility and reports the new sentinel from scratch.
type FetchController struct {
	pager   Pager
	ctx     context.Context
	state   FetchState
	visible bool
	logger  zerolog.Logger
	mx      sync.Mutex
}

// NewFetchController creates a controller over the given pager.
func NewFetchController(ctx context.Context, p Pager) *FetchController {
	return &FetchController{
		pager:  p,
		ctx:    ctx,
		logger: logging.NewLogger("controller"),
	}
}

// State returns the controller state.
func (c *FetchController) State() FetchState {
	c.mx.Lock()
	defer c.mx.Unlock()
	return c.state
}

// Start requests the first page.
func (c *FetchController) Start() bool {
	return c.fire("start")
}

// VisibilityChanged reports the sentinel visibility after a layout change.
// Only a hidden to visible transition may fire a fetch.
func (c *FetchController) VisibilityChanged(visible bool) bool {
	c.mx.Lock()
	was := c.visible
	c.visible = visible
	c.mx.Unlock()

	if !visible || was {
		return false
	}
	if !c.pager.HasNextPage() {
		return false
	}
	return c.fire("scroll")
}

// FetchResolved settles the in-flight request.
func (c *FetchController) FetchResolved(err error) {
	c.mx.Lock()
	defer c.mx.Unlock()

	if err != nil {
		c.state = FetchFailed
		return
	}
	c.state = FetchIdle
}

// ResetVisibility forgets the last reported visibility. The next visible
// report counts as an edge.
func (c *FetchController) ResetVisibility() {
	c.mx.Lock()
	defer c.mx.Unlock()

	c.visible = false
}

// InvalidateRequested resets the cache and requests page 1 again.
func (c *FetchController) InvalidateRequested() bool {
	c.pager.InvalidateRows()
	return c.fire("invalidate")
}

// Retry re-issues the request that failed last.
func (c *FetchController) Retry() bool {
	c.mx.Lock()
	failed := c.state == FetchFailed
	c.mx.Unlock()

	if !failed {
		return false
	}
	return c.fire("retry")
}

func (c *FetchController) fire(cause string) bool {
	c.mx.Lock()
	if c.state == FetchBusy {
		c.mx.Unlock()
		return false
	}
	prev := c.state
	c.state = FetchBusy
	c.mx.Unlock()

	if c.pager.FetchNextPage(c.ctx) {
		fetchTriggers.WithLabelValues(cause).Inc()
		c.logger.Debug().Str("cause", cause).Msg("next page requested")
		return true
	}

	c.mx.Lock()
	if c.state == FetchBusy {
		c.state = prev
	}
	c.mx.Unlock()

	return false
}

// CacheChanged implements CacheListener.
func (*FetchController) CacheChanged(CacheState) {}

// PageFetched implements CacheListener.
func (c *FetchController) PageFetched(model1.Page) {
	c.FetchResolved(nil)
}

// PageFailed implements CacheListener.
func (c *FetchController) PageFailed(_ int, err error) {
	c.FetchResolved(err)
}

// RowsInvalidated implements CacheListener.
func (c *FetchController) RowsInvalidated() {
	c.mx.Lock()
	defer c.mx.Unlock()

	c.state = FetchIdle
	c.visible = false
}
