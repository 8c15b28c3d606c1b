package model

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/infitab/infitab/internal/dao"
	"github.com/infitab/infitab/internal/model1"
)

var errBoom = errors.New("boom")

type fakeBackend struct {
	total    int
	colsErr  error
	failOn   map[int]error
	gate     chan struct{}
	mx       sync.Mutex
	requests []int
	colCalls int
	created  []map[string]string
	rejectOn error
}

func newFakeBackend(total int) *fakeBackend {
	return &fakeBackend{total: total, failOn: make(map[int]error)}
}

func (f *fakeBackend) FetchColumns(context.Context) (model1.Columns, error) {
	f.mx.Lock()
	defer f.mx.Unlock()

	f.colCalls++
	if f.colsErr != nil {
		return nil, f.colsErr
	}
	return model1.Columns{
		{Key: "id", Label: "ID"},
		{Key: "name", Label: "Name"},
		{Key: "email", Label: "Email"},
		{Key: "age", Label: "Age"},
	}, nil
}

func (f *fakeBackend) FetchRows(_ context.Context, page int) (model1.Page, error) {
	f.mx.Lock()
	f.requests = append(f.requests, page)
	gate := f.gate
	err := f.failOn[page]
	f.mx.Unlock()

	if gate != nil {
		<-gate
	}
	if err != nil {
		return model1.Page{}, err
	}

	from := (page - 1) * model1.PageSize
	to := min(from+model1.PageSize, f.total)
	rows := make(model1.Rows, 0, model1.PageSize)
	for i := from + 1; i <= to; i++ {
		row := model1.NewRow(fmt.Sprintf("%d", i), 2)
		row.Values["name"] = fmt.Sprintf("user-%d", i)
		rows = append(rows, row)
	}

	return model1.Page{
		Rows:    rows,
		Number:  page,
		Total:   f.total,
		HasNext: to < f.total,
	}, nil
}

func (f *fakeBackend) CreateRow(_ context.Context, fields map[string]string) error {
	f.mx.Lock()
	defer f.mx.Unlock()

	if f.rejectOn != nil {
		return f.rejectOn
	}
	f.created = append(f.created, fields)
	return nil
}

func (f *fakeBackend) pages() []int {
	f.mx.Lock()
	defer f.mx.Unlock()

	out := make([]int, len(f.requests))
	copy(out, f.requests)
	return out
}

func (f *fakeBackend) fail(page int, err error) {
	f.mx.Lock()
	defer f.mx.Unlock()
	if err == nil {
		delete(f.failOn, page)
		return
	}
	f.failOn[page] = err
}

func newTestCache(f *fakeBackend) *RowCache {
	return NewRowCache(dao.NewColumnStore(f), f)
}

type recorder struct {
	mx          sync.Mutex
	states      []CacheState
	fetched     []int
	failed      []int
	invalidated int
}

func (r *recorder) CacheChanged(s CacheState) {
	r.mx.Lock()
	defer r.mx.Unlock()
	r.states = append(r.states, s)
}

func (r *recorder) PageFetched(p model1.Page) {
	r.mx.Lock()
	defer r.mx.Unlock()
	r.fetched = append(r.fetched, p.Number)
}

func (r *recorder) PageFailed(page int, _ error) {
	r.mx.Lock()
	defer r.mx.Unlock()
	r.failed = append(r.failed, page)
}

func (r *recorder) RowsInvalidated() {
	r.mx.Lock()
	defer r.mx.Unlock()
	r.invalidated++
}

func ids(rr model1.Rows) []string {
	out := make([]string, 0, len(rr))
	for _, r := range rr {
		out = append(out, r.ID)
	}
	return out
}
