package render

import (
	"github.com/infitab/infitab/internal/model"
	"github.com/infitab/infitab/internal/model1"
)

// State carries everything a table render pass depends on.
type State struct {
	Columns        model1.Columns
	ColumnsLoading bool
	ColumnsErr     error
	Rows           model1.Rows
	RowsLoading    bool
	RowsErr        error
	FetchingNext   bool

	// Skeleton overrides SkeletonRows when positive.
	Skeleton int
}

// NewState derives a render state from a cache snapshot.
func NewState(s model.CacheState) State {
	return State{
		Columns:        s.Columns,
		ColumnsLoading: s.LoadingColumns,
		ColumnsErr:     s.ColumnsErr,
		Rows:           s.Rows,
		RowsLoading:    s.LoadingFirstPage,
		RowsErr:        s.RowsErr,
		FetchingNext:   s.FetchingNextPage,
	}
}

// Table renders a state into a frame. Loading wins over errors.
func Table(s State) Frame {
	width := len(s.Columns)
	if width == 0 {
		width = GuessedColumns
	}

	if s.ColumnsLoading || s.RowsLoading {
		rows := s.Skeleton
		if rows <= 0 {
			rows = SkeletonRows
		}
		return Frame{
			Kind:    FrameSkeleton,
			Width:   width,
			Header:  skeletonCells(width),
			Trailer: rows,
		}
	}

	if s.ColumnsErr != nil || s.RowsErr != nil {
		return Frame{Kind: FrameError, Width: width, Message: ErrorMsg}
	}

	f := Frame{
		Kind:   FrameTable,
		Width:  width,
		Header: s.Columns.Labels(),
		Lines:  make([]Line, 0, len(s.Rows)),
	}
	for _, r := range s.Rows {
		f.Lines = append(f.Lines, Line{ID: r.ID, Cells: r.Fields(s.Columns)})
	}
	if s.FetchingNext {
		f.Trailer, f.Spinner = ScrollSkeletonRows, true
	}

	return f
}

func skeletonCells(n int) []string {
	cc := make([]string, n)
	for i := range cc {
		cc[i] = SkeletonCell
	}
	return cc
}
