// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of infitab

package view

import (
	"context"

	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"

	"github.com/infitab/infitab/internal/ui"
)

const helpName = "help"

// HelpBind represents a single keybinding.
type HelpBind struct {
	Key  string
	Desc string
}

// Help displays the key bindings (k9s style).
type Help struct {
	*tview.Table
	actions *ui.KeyActions
	closeFn func()
}

// NewHelp creates a new help view.
func NewHelp() *Help {
	h := &Help{
		Table:   tview.NewTable(),
		actions: ui.NewKeyActions(),
	}
	h.build()
	return h
}

// SetCloseFn sets the callback when help is closed.
func (h *Help) SetCloseFn(fn func()) {
	h.closeFn = fn
}

// Name returns the component name.
func (*Help) Name() string { return helpName }

// Init is a no-op.
func (*Help) Init(context.Context) error { return nil }

// Start is a no-op.
func (*Help) Start() {}

// Stop is a no-op.
func (*Help) Stop() {}

// Hints returns the help key hints.
func (h *Help) Hints() ui.MenuHints { return h.actions.Hints() }

func (h *Help) build() {
	h.SetBorder(true)
	h.SetTitle(" Help ")
	h.SetTitleAlign(tview.AlignCenter)
	h.SetBorderColor(tcell.ColorYellow)
	h.SetBackgroundColor(tcell.ColorDefault)
	h.SetSelectable(false, false)
	h.actions.Add(tcell.KeyEsc, ui.NewKeyAction("Close", nil, true))

	h.populate(helpColumns(), []string{"GENERAL", "NAVIGATION", "TABLE"})

	h.SetInputCapture(func(evt *tcell.EventKey) *tcell.EventKey {
		switch ui.AsKey(evt) {
		case tcell.KeyEsc, tcell.KeyEnter, ui.KeyHelp, ui.KeyQ:
			if h.closeFn != nil {
				h.closeFn()
			}
			return nil
		}
		return evt
	})
}

func helpColumns() [][]HelpBind {
	return [][]HelpBind{
		{
			{"<?>", "Help"},
			{"<esc>", "Back"},
			{"<q>", "Quit"},
			{"<ctrl-c>", "Quit"},
		},
		{
			{"<j>", "Down"},
			{"<k>", "Up"},
			{"<g>", "Top"},
			{"<G>", "Bottom"},
		},
		{
			{"<a>", "Add row"},
			{"<ctrl-r>", "Reload/Retry"},
			{"<enter>", "Error details"},
		},
	}
}

// populate lays the bindings out in key/desc column pairs.
func (h *Help) populate(columns [][]HelpBind, headers []string) {
	maxRows := 0
	for _, col := range columns {
		maxRows = max(maxRows, len(col))
	}

	// key, desc, spacer
	const colWidth = 3
	for colIdx, col := range columns {
		baseCol := colIdx * colWidth

		h.SetCell(0, baseCol, tview.NewTableCell(headers[colIdx]).
			SetTextColor(tcell.ColorAqua).
			SetAttributes(tcell.AttrBold).
			SetSelectable(false))

		for rowIdx, bind := range col {
			row := rowIdx + 1
			h.SetCell(row, baseCol, tview.NewTableCell(bind.Key).
				SetTextColor(tcell.ColorYellow).
				SetSelectable(false))
			h.SetCell(row, baseCol+1, tview.NewTableCell(bind.Desc).
				SetTextColor(tcell.ColorWhite).
				SetSelectable(false).
				SetExpansion(1))
		}

		if colIdx < len(columns)-1 {
			for row := 0; row <= maxRows; row++ {
				h.SetCell(row, baseCol+2, tview.NewTableCell("").
					SetSelectable(false).
					SetExpansion(1))
			}
		}
	}

	h.SetCell(maxRows+2, 0, tview.NewTableCell("<esc> to close").
		SetTextColor(tcell.ColorGray).
		SetSelectable(false))
}
