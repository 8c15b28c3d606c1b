package model

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/infitab/infitab/internal/dao"
	"github.com/infitab/infitab/internal/logging"
	"github.com/infitab/infitab/internal/model1"
)

// RowCache holds the table header and the row pages fetched so far.
//
// Columns are fetched once and kept for the cache lifetime. Pages are
// fetched one at a time in increasing order and flattened into a single
// id-deduplicated view. Invalidation drops every page and bumps the cache
// generation; a response issued under an older generation is discarded.
type RowCache struct {
	columns   *dao.ColumnStore
	rows      dao.RowFetcher
	pages     model1.Pages
	flat      *model1.RowSet
	started   bool
	colsErr   error
	inFlight  int
	rowsErr   error
	gen       uint64
	listeners []CacheListener
	wg        sync.WaitGroup
	logger    zerolog.Logger
	mx        sync.RWMutex
}

// NewRowCache creates a cache over the given column store and row fetcher.
func NewRowCache(columns *dao.ColumnStore, rows dao.RowFetcher) *RowCache {
	return &RowCache{
		columns:   columns,
		rows:      rows,
		flat:      model1.NewRowSet(model1.PageSize),
		listeners: make([]CacheListener, 0, 2),
		logger:    logging.NewLogger("cache"),
	}
}

// AddListener registers a cache listener.
func (c *RowCache) AddListener(l CacheListener) {
	c.mx.Lock()
	defer c.mx.Unlock()
	c.listeners = append(c.listeners, l)
}

// RemoveListener unregisters a cache listener.
func (c *RowCache) RemoveListener(l CacheListener) {
	c.mx.Lock()
	defer c.mx.Unlock()

	for i, listener := range c.listeners {
		if listener == l {
			c.listeners = append(c.listeners[:i], c.listeners[i+1:]...)
			return
		}
	}
}

// Columns returns the cached header, fetching it on first use.
// A failure is recorded and returned; calling again fetches again.
func (c *RowCache) Columns(ctx context.Context) (model1.Columns, error) {
	c.mx.Lock()
	c.started = true
	if cc, ok := c.columns.Peek(); ok {
		c.mx.Unlock()
		return cc, nil
	}
	c.colsErr = nil
	state := c.stateLocked()
	c.mx.Unlock()
	c.fireChanged(state)

	cc, err := c.columns.Get(ctx)

	c.mx.Lock()
	if err != nil {
		c.colsErr = err
		c.logger.Warn().Err(err).Msg("columns fetch failed")
	} else {
		c.colsErr = nil
		c.logger.Debug().Int("columns", len(cc)).Msg("columns loaded")
	}
	state = c.stateLocked()
	c.mx.Unlock()
	c.fireChanged(state)

	return cc, err
}

// LoadColumns fetches the header in the background.
func (c *RowCache) LoadColumns(ctx context.Context) {
	c.mx.Lock()
	c.started = true
	c.mx.Unlock()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		_, _ = c.Columns(ctx)
	}()
}

// Rows returns the flattened ordered rows of every fetched page.
func (c *RowCache) Rows() model1.Rows {
	c.mx.RLock()
	defer c.mx.RUnlock()
	return c.flat.Rows()
}

// Pages returns the fetched pages in fetch order.
func (c *RowCache) Pages() model1.Pages {
	c.mx.RLock()
	defer c.mx.RUnlock()

	out := make(model1.Pages, len(c.pages))
	copy(out, c.pages)
	return out
}

// HasNextPage returns true when the latest page announced a successor.
func (c *RowCache) HasNextPage() bool {
	c.mx.RLock()
	defer c.mx.RUnlock()
	return len(c.pages) > 0 && c.pages.HasNext()
}

// IsFetching returns true while a page request is in flight.
func (c *RowCache) IsFetching() bool {
	c.mx.RLock()
	defer c.mx.RUnlock()
	return c.inFlight != 0
}

// IsLoadingFirstPage returns true until the first page lands or fails.
func (c *RowCache) IsLoadingFirstPage() bool {
	c.mx.RLock()
	defer c.mx.RUnlock()
	return len(c.pages) == 0 && c.rowsErr == nil
}

// IsFetchingNextPage returns true while a page past the first is in flight.
func (c *RowCache) IsFetchingNextPage() bool {
	c.mx.RLock()
	defer c.mx.RUnlock()
	return c.inFlight != 0 && len(c.pages) > 0
}

// State returns a snapshot of the cache.
func (c *RowCache) State() CacheState {
	c.mx.RLock()
	defer c.mx.RUnlock()
	return c.stateLocked()
}

// FetchNextPage requests the page following the latest one in the background.
// It is a no-op returning false when no columns fetch has started, a page is
// already in flight, or the latest page reported no successor.
// After a failure the same page number is requested again.
func (c *RowCache) FetchNextPage(ctx context.Context) bool {
	c.mx.Lock()
	if !c.started || c.inFlight != 0 || !c.pages.HasNext() {
		c.mx.Unlock()
		return false
	}
	page, gen := c.pages.NextNumber(), c.gen
	c.inFlight = page
	c.rowsErr = nil
	state := c.stateLocked()
	c.wg.Add(1)
	c.mx.Unlock()

	c.logger.Debug().Int("page", page).Uint64("generation", gen).Msg("fetching page")
	c.fireChanged(state)
	go c.fetch(ctx, gen, page)

	return true
}

func (c *RowCache) fetch(ctx context.Context, gen uint64, page int) {
	defer c.wg.Done()

	p, err := c.rows.FetchRows(ctx, page)

	c.mx.Lock()
	if gen != c.gen {
		c.mx.Unlock()
		staleResponses.Inc()
		c.logger.Debug().Int("page", page).Uint64("generation", gen).Msg("dropping stale page")
		return
	}
	c.inFlight = 0
	if err != nil {
		c.rowsErr = err
		state := c.stateLocked()
		c.mx.Unlock()

		pageFailures.Inc()
		c.logger.Warn().Err(err).Int("page", page).Msg("page fetch failed")
		c.firePageFailed(page, err)
		c.fireChanged(state)
		return
	}
	p.Number = page
	c.pages = append(c.pages, p)
	added := c.flat.AddAll(p.Rows)
	rowsCached.Set(float64(c.flat.Len()))
	state := c.stateLocked()
	c.mx.Unlock()

	pagesFetched.Inc()
	c.logger.Debug().
		Int("page", page).
		Int("rows", len(p.Rows)).
		Int("added", added).
		Bool("has_next", p.HasNext).
		Msg("page fetched")
	c.firePageFetched(p)
	c.fireChanged(state)
}

// InvalidateRows discards every page and any in-flight request.
// The header is kept. The next FetchNextPage requests page 1.
func (c *RowCache) InvalidateRows() {
	c.mx.Lock()
	c.gen++
	c.pages = nil
	c.flat.Clear()
	c.inFlight = 0
	c.rowsErr = nil
	gen := c.gen
	state := c.stateLocked()
	c.mx.Unlock()

	rowInvalidations.Inc()
	rowsCached.Set(0)
	c.logger.Info().Uint64("generation", gen).Msg("rows invalidated")
	c.fireInvalidated()
	c.fireChanged(state)
}

// Wait blocks until every background fetch returned.
func (c *RowCache) Wait() {
	c.wg.Wait()
}

func (c *RowCache) stateLocked() CacheState {
	cc, loaded := c.columns.Peek()
	return CacheState{
		Columns:          cc,
		Rows:             c.flat.Rows(),
		Total:            c.pages.Total(),
		PageCount:        len(c.pages),
		LoadingColumns:   !loaded && c.colsErr == nil,
		LoadingFirstPage: len(c.pages) == 0 && c.rowsErr == nil,
		FetchingNextPage: c.inFlight != 0 && len(c.pages) > 0,
		HasNextPage:      len(c.pages) > 0 && c.pages.HasNext(),
		ColumnsErr:       c.colsErr,
		RowsErr:          c.rowsErr,
		Generation:       c.gen,
	}
}

func (c *RowCache) snapshotListeners() []CacheListener {
	c.mx.RLock()
	defer c.mx.RUnlock()

	ll := make([]CacheListener, len(c.listeners))
	copy(ll, c.listeners)
	return ll
}

func (c *RowCache) fireChanged(s CacheState) {
	for _, l := range c.snapshotListeners() {
		l.CacheChanged(s)
	}
}

func (c *RowCache) firePageFetched(p model1.Page) {
	for _, l := range c.snapshotListeners() {
		l.PageFetched(p)
	}
}

func (c *RowCache) firePageFailed(page int, err error) {
	for _, l := range c.snapshotListeners() {
		l.PageFailed(page, err)
	}
}

func (c *RowCache) fireInvalidated() {
	for _, l := range c.snapshotListeners() {
		l.RowsInvalidated()
	}
}
