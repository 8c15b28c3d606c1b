package render

import (
	"bytes"
	"strings"
	"testing"
)

func TestWriteText(t *testing.T) {
	f := Table(State{Columns: testColumns, Rows: testRows(2)})

	var buf bytes.Buffer
	if err := WriteText(&buf, f); err != nil {
		t.Fatalf("WriteText failed: %v", err)
	}

	want := "ID  Name    Age\n" +
		"1   user-1\n" +
		"2   user-2\n"
	if got := buf.String(); got != want {
		t.Errorf("Unexpected output:\n%q\nwant:\n%q", got, want)
	}
}

func TestWriteText_Error(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteText(&buf, Table(State{RowsErr: errBoom})); err != nil {
		t.Fatalf("WriteText failed: %v", err)
	}
	if got := buf.String(); got != ErrorMsg+"\n" {
		t.Errorf("Expected error message, got %q", got)
	}
}

func TestWriteText_Trailer(t *testing.T) {
	f := Table(State{Columns: testColumns, Rows: testRows(1), FetchingNext: true})

	var buf bytes.Buffer
	if err := WriteText(&buf, f); err != nil {
		t.Fatalf("WriteText failed: %v", err)
	}
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 1+1+ScrollSkeletonRows+1 {
		t.Fatalf("Expected header, row, trailer and spinner, got %d lines", len(lines))
	}
	if !strings.Contains(lines[len(lines)-1], "Loading more rows") {
		t.Errorf("Expected spinner line, got %q", lines[len(lines)-1])
	}
}

func TestWriteText_WideRunes(t *testing.T) {
	rr := testRows(1)
	rr[0].Values["name"] = "日本"
	f := Table(State{Columns: testColumns, Rows: rr})

	var buf bytes.Buffer
	if err := WriteText(&buf, f); err != nil {
		t.Fatalf("WriteText failed: %v", err)
	}
	lines := strings.Split(buf.String(), "\n")
	if got := strings.Index(lines[0], "Age"); got != strings.Index(lines[0], "Name")+len("Name")+2 {
		t.Errorf("Expected name column sized by display width, got %q", lines[0])
	}
}

func TestTruncate(t *testing.T) {
	tests := map[string]struct {
		s     string
		width int
		want  string
	}{
		"fits":  {s: "abc", width: 3, want: "abc"},
		"cut":   {s: "abcdef", width: 4, want: "abc…"},
		"wide":  {s: "日本語", width: 5, want: "日本…"},
		"empty": {s: "", width: 2, want: ""},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if got := Truncate(tt.s, tt.width); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestSpinner(t *testing.T) {
	if Spinner(0) == Spinner(1) {
		t.Error("Expected spinner to animate")
	}
	if Spinner(len(spinnerFrames)) != Spinner(0) {
		t.Error("Expected spinner to cycle")
	}
}
