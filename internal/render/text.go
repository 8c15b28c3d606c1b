package render

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

const (
	colSep = "  "
	// MaxColWidth caps a text column; longer cells are truncated.
	MaxColWidth = 40
)

// WriteText prints a frame as an aligned plain text table.
func WriteText(w io.Writer, f Frame) error {
	bw := bufio.NewWriter(w)

	if f.Kind == FrameError {
		if _, err := fmt.Fprintln(bw, f.Message); err != nil {
			return err
		}
		return bw.Flush()
	}

	widths := colWidths(f)
	writeLine(bw, f.Header, widths)
	for _, l := range f.Lines {
		writeLine(bw, l.Cells, widths)
	}
	skel := skeletonCells(len(widths))
	for range f.Trailer {
		writeLine(bw, skel, widths)
	}
	if f.Spinner {
		fmt.Fprintln(bw, Spinner(0))
	}

	return bw.Flush()
}

func colWidths(f Frame) []int {
	n := max(f.Width, len(f.Header))
	ww := make([]int, n)
	measure := func(cells []string) {
		for i, c := range cells {
			if i < n {
				ww[i] = max(ww[i], min(runewidth.StringWidth(c), MaxColWidth))
			}
		}
	}
	measure(f.Header)
	for _, l := range f.Lines {
		measure(l.Cells)
	}
	if f.Trailer > 0 {
		measure(skeletonCells(n))
	}

	return ww
}

func writeLine(w *bufio.Writer, cells []string, widths []int) {
	var b strings.Builder
	for i, width := range widths {
		var c string
		if i < len(cells) {
			c = Truncate(cells[i], width)
		}
		if i == len(widths)-1 {
			b.WriteString(c)
			break
		}
		b.WriteString(runewidth.FillRight(c, width))
		b.WriteString(colSep)
	}
	fmt.Fprintln(w, strings.TrimRight(b.String(), " "))
}

// Truncate shortens a string to the given display width.
func Truncate(s string, width int) string {
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner returns the spinner line for an animation tick.
func Spinner(tick int) string {
	if tick < 0 {
		tick = -tick
	}
	return spinnerFrames[tick%len(spinnerFrames)] + " Loading more rows..."
}
