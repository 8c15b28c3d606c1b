package dao

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/infitab/infitab/internal/model1"
)

const columnsKey = "columns"

// ColumnStore fetches the column header once and keeps it for the session.
// Concurrent callers share a single in-flight request. Failures are not kept,
// so a later call fetches again.
type ColumnStore struct {
	fetcher ColumnFetcher
	group   singleflight.Group
	columns model1.Columns
	loaded  bool
	mx      sync.RWMutex
}

// NewColumnStore creates a store over the given fetcher.
func NewColumnStore(f ColumnFetcher) *ColumnStore {
	return &ColumnStore{fetcher: f}
}

// Get returns the cached columns, fetching them on first use.
func (s *ColumnStore) Get(ctx context.Context) (model1.Columns, error) {
	if cc, ok := s.Peek(); ok {
		return cc, nil
	}

	v, err, _ := s.group.Do(columnsKey, func() (interface{}, error) {
		if cc, ok := s.Peek(); ok {
			return cc, nil
		}
		cc, err := s.fetcher.FetchColumns(ctx)
		if err != nil {
			return nil, err
		}

		s.mx.Lock()
		s.columns, s.loaded = cc.Clone(), true
		s.mx.Unlock()

		return cc, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(model1.Columns).Clone(), nil
}

// Peek returns the cached columns without fetching.
func (s *ColumnStore) Peek() (model1.Columns, bool) {
	s.mx.RLock()
	defer s.mx.RUnlock()

	if !s.loaded {
		return nil, false
	}
	return s.columns.Clone(), true
}
