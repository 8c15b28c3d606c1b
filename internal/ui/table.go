// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of infitab

package ui

import (
	"fmt"
	"sync"

	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"

	"github.com/infitab/infitab/internal/render"
)

const (
	// TitleFmt formats the table title with the loaded and total row counts.
	TitleFmt = " <%s>[%d/%d] "

	titleName = "rows"
)

// SentinelFunc is called with the sentinel visibility after every draw.
type SentinelFunc func(visible bool)

// DataTable displays render frames in a tview table.
//
// Row 0 is the header. Body rows follow in frame order and the trailer
// (scroll skeleton and spinner) sits below them. Appending a page only
// writes the new rows: cells already on screen are kept.
type DataTable struct {
	*tview.Table

	actions    *KeyActions
	kind       render.FrameKind
	width      int
	lines      int
	trailer    int
	spinner    bool
	tick       int
	total      int
	title      string
	onSentinel SentinelFunc
	mx         sync.RWMutex
}

// NewDataTable returns a new table.
func NewDataTable() *DataTable {
	t := DataTable{
		Table:   tview.NewTable(),
		actions: NewKeyActions(),
		kind:    render.FrameSkeleton,
	}
	t.init()

	return &t
}

func (t *DataTable) init() {
	t.SetFixed(1, 0)
	t.SetBorder(true)
	t.SetBorderAttributes(tcell.AttrBold)
	t.SetBorderPadding(0, 0, 1, 1)
	t.SetSelectable(true, false)
	t.SetBackgroundColor(tcell.ColorDefault)
	t.SetBorderColor(tcell.ColorWhite)
	t.updateTitle()
	t.SetInputCapture(t.keyboard)
	t.bindKeys()
}

// Actions returns the table key actions.
func (t *DataTable) Actions() *KeyActions {
	return t.actions
}

// Hints returns menu hints for the table key bindings.
func (t *DataTable) Hints() MenuHints {
	return t.actions.Hints()
}

// SetSentinelFunc registers the sentinel visibility callback.
func (t *DataTable) SetSentinelFunc(fn SentinelFunc) {
	t.mx.Lock()
	defer t.mx.Unlock()
	t.onSentinel = fn
}

// SetTotal records the backend row count shown in the title.
func (t *DataTable) SetTotal(n int) {
	t.mx.Lock()
	t.total = n
	t.mx.Unlock()
	t.updateTitle()
}

// Lines returns the number of body rows on screen.
func (t *DataTable) Lines() int {
	t.mx.RLock()
	defer t.mx.RUnlock()
	return t.lines
}

// Kind returns the kind of the frame on screen.
func (t *DataTable) Kind() render.FrameKind {
	t.mx.RLock()
	defer t.mx.RUnlock()
	return t.kind
}

// Spinning returns true while the spinner row is shown.
func (t *DataTable) Spinning() bool {
	t.mx.RLock()
	defer t.mx.RUnlock()
	return t.spinner
}

// Apply updates the table to show a frame.
func (t *DataTable) Apply(f render.Frame) {
	t.mx.Lock()
	if f.Kind != render.FrameTable || t.kind != render.FrameTable || len(f.Lines) < t.lines || f.Width != t.width {
		t.rebuild(f)
	} else {
		t.dropTrailer()
		for i := t.lines; i < len(f.Lines); i++ {
			t.buildRow(i+1, f.Lines[i])
		}
		t.lines = len(f.Lines)
		t.addTrailer(f)
	}
	t.mx.Unlock()

	t.updateTitle()
}

// Reset clears the table and moves the selection back to the top.
func (t *DataTable) Reset() {
	t.mx.Lock()
	t.Clear()
	t.kind, t.lines, t.trailer, t.spinner, t.width = render.FrameSkeleton, 0, 0, false, 0
	t.mx.Unlock()

	t.ScrollToBeginning()
	t.Select(1, 0)
	t.updateTitle()
}

// Tick advances the spinner animation.
func (t *DataTable) Tick() {
	t.mx.Lock()
	defer t.mx.Unlock()

	if !t.spinner {
		return
	}
	t.tick++
	if c := t.GetCell(t.GetRowCount()-1, 0); c != nil {
		c.SetText(render.Spinner(t.tick))
	}
}

// SentinelVisible returns true when the last body row is within the viewport.
func (t *DataTable) SentinelVisible() bool {
	t.mx.RLock()
	kind, lines := t.kind, t.lines
	t.mx.RUnlock()

	if kind != render.FrameTable || lines == 0 {
		return false
	}
	_, _, _, height := t.GetInnerRect()
	rowOffset, _ := t.GetOffset()

	return RowVisible(lines, rowOffset, height, 1)
}

// RowVisible returns true when a table row is drawn given the row offset,
// the inner height and the number of fixed rows.
func RowVisible(row, rowOffset, height, fixed int) bool {
	if height <= 0 {
		return false
	}
	if row < fixed {
		return row < height
	}
	return row >= fixed+rowOffset && row < rowOffset+height
}

// Draw draws the table and reports the sentinel visibility.
func (t *DataTable) Draw(screen tcell.Screen) {
	t.Table.Draw(screen)

	t.mx.RLock()
	fn := t.onSentinel
	t.mx.RUnlock()
	if fn != nil {
		fn(t.SentinelVisible())
	}
}

func (t *DataTable) rebuild(f render.Frame) {
	t.Clear()
	t.kind, t.width, t.lines, t.trailer, t.spinner = f.Kind, f.Width, 0, 0, false

	if f.Kind == render.FrameError {
		t.showMessage(f.Message, tcell.ColorRed)
		return
	}

	t.buildHeader(f.Header, f.Kind == render.FrameSkeleton)
	for i, l := range f.Lines {
		t.buildRow(i+1, l)
	}
	t.lines = len(f.Lines)
	t.addTrailer(f)
}

func (t *DataTable) dropTrailer() {
	n := t.trailer
	if t.spinner {
		n++
	}
	for range n {
		t.RemoveRow(t.GetRowCount() - 1)
	}
	t.trailer, t.spinner = 0, false
}

func (t *DataTable) addTrailer(f render.Frame) {
	row := t.lines + 1
	for range f.Trailer {
		for col := range f.Width {
			t.SetCell(row, col, skeletonCell())
		}
		row++
	}
	t.trailer = f.Trailer

	if f.Spinner {
		cell := tview.NewTableCell(render.Spinner(t.tick))
		cell.SetTextColor(tcell.ColorDodgerBlue)
		cell.SetSelectable(false)
		t.SetCell(row, 0, cell)
		t.spinner = true
	}
}

func (t *DataTable) showMessage(msg string, color tcell.Color) {
	cell := tview.NewTableCell(msg)
	cell.SetTextColor(color)
	cell.SetAlign(tview.AlignCenter)
	cell.SetExpansion(1)
	cell.SetSelectable(false)
	t.SetCell(0, 0, cell)
}

func (t *DataTable) buildHeader(hh []string, skeleton bool) {
	for col, h := range hh {
		cell := tview.NewTableCell(h)
		cell.SetTextColor(tcell.ColorYellow)
		if skeleton {
			cell.SetTextColor(tcell.ColorGray)
		}
		cell.SetBackgroundColor(tcell.ColorDefault)
		cell.SetExpansion(1)
		cell.SetSelectable(false)
		cell.SetAttributes(tcell.AttrBold)
		t.SetCell(0, col, cell)
	}
}

func (t *DataTable) buildRow(row int, l render.Line) {
	for col, field := range l.Cells {
		cell := tview.NewTableCell(field)
		cell.SetTextColor(tcell.ColorWhite)
		cell.SetBackgroundColor(tcell.ColorDefault)
		cell.SetExpansion(1)
		if col == 0 {
			cell.SetReference(l.ID)
		}
		t.SetCell(row, col, cell)
	}
}

func skeletonCell() *tview.TableCell {
	cell := tview.NewTableCell(render.SkeletonCell)
	cell.SetTextColor(tcell.ColorGray)
	cell.SetExpansion(1)
	cell.SetSelectable(false)
	return cell
}

// RowID returns the id of the row at a table row index.
func (t *DataTable) RowID(row int) (string, bool) {
	c := t.GetCell(row, 0)
	if c == nil {
		return "", false
	}
	id, ok := c.GetReference().(string)
	return id, ok
}

func (t *DataTable) updateTitle() {
	t.mx.RLock()
	lines, total := t.lines, t.total
	t.mx.RUnlock()

	title := fmt.Sprintf(TitleFmt, titleName, lines, max(total, lines))
	t.mx.Lock()
	t.title = title
	t.mx.Unlock()
	t.SetTitle(title)
}

// Title returns the current table title.
func (t *DataTable) Title() string {
	t.mx.RLock()
	defer t.mx.RUnlock()
	return t.title
}

func (t *DataTable) bindKeys() {
	t.actions.Bulk(KeyMap{
		KeyJ:      NewKeyAction("Down", t.downCmd, false),
		KeyK:      NewKeyAction("Up", t.upCmd, false),
		KeyG:      NewKeyAction("Top", t.topCmd, false),
		KeyShiftG: NewKeyAction("Bottom", t.bottomCmd, false),
	})
}

func (t *DataTable) keyboard(evt *tcell.EventKey) *tcell.EventKey {
	switch evt.Key() {
	case tcell.KeyDown:
		return t.downCmd(evt)
	case tcell.KeyUp:
		return t.upCmd(evt)
	case tcell.KeyHome:
		return t.topCmd(evt)
	case tcell.KeyEnd:
		return t.bottomCmd(evt)
	}

	if a, ok := t.actions.Get(AsKey(evt)); ok && a.Action != nil {
		return a.Action(evt)
	}

	return evt
}

func (t *DataTable) downCmd(*tcell.EventKey) *tcell.EventKey {
	row, col := t.GetSelection()
	if row < t.Lines() {
		t.Select(row+1, col)
	}
	return nil
}

func (t *DataTable) upCmd(*tcell.EventKey) *tcell.EventKey {
	row, col := t.GetSelection()
	if row > 1 {
		t.Select(row-1, col)
	}
	return nil
}

func (t *DataTable) topCmd(*tcell.EventKey) *tcell.EventKey {
	if t.Lines() > 0 {
		t.Select(1, 0)
	}
	return nil
}

func (t *DataTable) bottomCmd(*tcell.EventKey) *tcell.EventKey {
	if n := t.Lines(); n > 0 {
		t.Select(n, 0)
	}
	return nil
}
