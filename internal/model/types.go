package model

import (
	"github.com/infitab/infitab/internal/model1"
)

// CacheListener represents a row cache listener.
type CacheListener interface {
	// CacheChanged notifies the cache state moved.
	CacheChanged(CacheState)

	// PageFetched notifies a page was appended.
	PageFetched(model1.Page)

	// PageFailed notifies a page fetch failed.
	PageFailed(page int, err error)

	// RowsInvalidated notifies all pages were discarded.
	RowsInvalidated()
}

// CacheState is a point in time snapshot of a row cache.
type CacheState struct {
	Columns          model1.Columns
	Rows             model1.Rows
	Total            int
	PageCount        int
	LoadingColumns   bool
	LoadingFirstPage bool
	FetchingNextPage bool
	HasNextPage      bool
	ColumnsErr       error
	RowsErr          error
	Generation       uint64
}

// Loading returns true while either the header or the first page is pending.
func (s CacheState) Loading() bool {
	return s.LoadingColumns || s.LoadingFirstPage
}

// Err returns the first recorded fetch error, if any.
func (s CacheState) Err() error {
	if s.ColumnsErr != nil {
		return s.ColumnsErr
	}
	return s.RowsErr
}

// FormListener represents an add row form listener.
type FormListener interface {
	// FormChanged notifies the form state moved.
	FormChanged(FormSnapshot)
}
