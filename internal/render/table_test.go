package render

import (
	"errors"
	"strconv"
	"testing"

	"github.com/infitab/infitab/internal/model"
	"github.com/infitab/infitab/internal/model1"
)

var (
	testColumns = model1.Columns{
		{Key: "id", Label: "ID"},
		{Key: "name", Label: "Name"},
		{Key: "age", Label: "Age"},
	}
	errBoom = errors.New("boom")
)

func testRows(n int) model1.Rows {
	rr := make(model1.Rows, 0, n)
	for i := 1; i <= n; i++ {
		r := model1.NewRow(strconv.Itoa(i), 3)
		r.Values["id"] = r.ID
		r.Values["name"] = "user-" + r.ID
		rr = append(rr, r)
	}
	return rr
}

func TestTable(t *testing.T) {
	tests := []struct {
		name    string
		state   State
		kind    FrameKind
		width   int
		lines   int
		trailer int
		spinner bool
	}{
		{
			name:    "columns_loading",
			state:   State{ColumnsLoading: true, RowsLoading: true},
			kind:    FrameSkeleton,
			width:   GuessedColumns,
			trailer: SkeletonRows,
		},
		{
			name:    "rows_loading_known_columns",
			state:   State{Columns: testColumns, RowsLoading: true},
			kind:    FrameSkeleton,
			width:   3,
			trailer: SkeletonRows,
		},
		{
			name:    "custom_skeleton",
			state:   State{ColumnsLoading: true, Skeleton: 4},
			kind:    FrameSkeleton,
			width:   GuessedColumns,
			trailer: 4,
		},
		{
			name:    "loading_wins_over_error",
			state:   State{ColumnsErr: errBoom, RowsLoading: true},
			kind:    FrameSkeleton,
			width:   GuessedColumns,
			trailer: SkeletonRows,
		},
		{
			name:  "columns_error",
			state: State{ColumnsErr: errBoom, Rows: testRows(3)},
			kind:  FrameError,
			width: GuessedColumns,
		},
		{
			name:  "rows_error",
			state: State{Columns: testColumns, RowsErr: errBoom, Rows: testRows(3)},
			kind:  FrameError,
			width: 3,
		},
		{
			name:  "table",
			state: State{Columns: testColumns, Rows: testRows(5)},
			kind:  FrameTable,
			width: 3,
			lines: 5,
		},
		{
			name:    "fetching_next",
			state:   State{Columns: testColumns, Rows: testRows(5), FetchingNext: true},
			kind:    FrameTable,
			width:   3,
			lines:   5,
			trailer: ScrollSkeletonRows,
			spinner: true,
		},
		{
			name:  "empty",
			state: State{Columns: testColumns},
			kind:  FrameTable,
			width: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Table(tt.state)
			if f.Kind != tt.kind {
				t.Fatalf("Expected %s frame, got %s", tt.kind, f.Kind)
			}
			if f.Width != tt.width {
				t.Errorf("Expected width %d, got %d", tt.width, f.Width)
			}
			if len(f.Lines) != tt.lines {
				t.Errorf("Expected %d lines, got %d", tt.lines, len(f.Lines))
			}
			if f.Trailer != tt.trailer {
				t.Errorf("Expected trailer %d, got %d", tt.trailer, f.Trailer)
			}
			if f.Spinner != tt.spinner {
				t.Errorf("Expected spinner %t, got %t", tt.spinner, f.Spinner)
			}
			if tt.kind == FrameError && f.Message != ErrorMsg {
				t.Errorf("Expected %q, got %q", ErrorMsg, f.Message)
			}
		})
	}
}

func TestTable_Cells(t *testing.T) {
	f := Table(State{Columns: testColumns, Rows: testRows(2)})

	if got := f.Header; len(got) != 3 || got[0] != "ID" || got[2] != "Age" {
		t.Fatalf("Unexpected header %v", got)
	}
	l := f.Lines[1]
	if l.ID != "2" || l.Cells[0] != "2" || l.Cells[1] != "user-2" {
		t.Errorf("Unexpected line %+v", l)
	}
	if l.Cells[2] != model1.Blank {
		t.Errorf("Expected blank for a missing value, got %q", l.Cells[2])
	}
	if f.Sentinel() != 1 {
		t.Errorf("Expected sentinel on the last line, got %d", f.Sentinel())
	}
}

func TestTable_Pure(t *testing.T) {
	s := State{Columns: testColumns, Rows: testRows(3), FetchingNext: true}
	a, b := Table(s), Table(s)

	if len(a.Lines) != len(b.Lines) || a.Trailer != b.Trailer {
		t.Fatal("Expected identical frames for identical states")
	}
	a.Lines[0].Cells[1] = "changed"
	if s.Rows[0].Values["name"] != "user-1" {
		t.Error("Expected rendering not to alias row values")
	}
}

func TestNewState(t *testing.T) {
	cs := model.CacheState{
		Columns:          testColumns,
		Rows:             testRows(2),
		LoadingColumns:   false,
		LoadingFirstPage: false,
		FetchingNextPage: true,
		RowsErr:          nil,
	}

	f := Table(NewState(cs))
	if f.Kind != FrameTable || !f.Spinner || len(f.Lines) != 2 {
		t.Errorf("Unexpected frame %+v", f)
	}
}
