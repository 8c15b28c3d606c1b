// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of infitab

package ui

import (
	"context"

	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
)

const (
	dialogOK  = "OK"
	dialogYes = "Yes"
	dialogNo  = "No"
)

// Dialog is a modal message box pushed on the page stack.
type Dialog struct {
	*tview.Modal

	name    string
	actions *KeyActions
}

func newDialog(name, msg string, buttons []string) *Dialog {
	d := Dialog{
		Modal:   tview.NewModal(),
		name:    name,
		actions: NewKeyActions(),
	}
	d.SetText(msg)
	d.AddButtons(buttons)
	d.SetBackgroundColor(tcell.ColorDefault)
	d.SetTextColor(tcell.ColorWhite)
	d.actions.Add(tcell.KeyEnter, NewKeyAction("Choose", nil, true))
	d.actions.Add(tcell.KeyEsc, NewKeyAction("Dismiss", nil, true))

	return &d
}

// ErrorDialog shows an error with a single dismiss button.
func ErrorDialog(msg string, done func()) *Dialog {
	d := newDialog("error", msg, []string{dialogOK})
	d.SetTextColor(tcell.ColorRed)
	d.SetButtonBackgroundColor(tcell.ColorRed)
	d.SetButtonTextColor(tcell.ColorWhite)
	d.SetDoneFunc(func(int, string) {
		if done != nil {
			done()
		}
	})

	return d
}

// ConfirmDialog asks a yes or no question. Esc counts as no.
func ConfirmDialog(msg string, yes, no func()) *Dialog {
	d := newDialog("confirm", msg, []string{dialogYes, dialogNo})
	d.SetButtonBackgroundColor(tcell.ColorDodgerBlue)
	d.SetButtonTextColor(tcell.ColorWhite)
	d.SetDoneFunc(func(_ int, label string) {
		if label == dialogYes {
			if yes != nil {
				yes()
			}
			return
		}
		if no != nil {
			no()
		}
	})

	return d
}

// Name returns the dialog name.
func (d *Dialog) Name() string { return d.name }

// Init is a no-op.
func (*Dialog) Init(context.Context) error { return nil }

// Start is a no-op.
func (*Dialog) Start() {}

// Stop is a no-op.
func (*Dialog) Stop() {}

// Hints returns the dialog key hints.
func (d *Dialog) Hints() MenuHints { return d.actions.Hints() }

// IsModal keeps the page under the dialog visible.
func (*Dialog) IsModal() bool { return true }
