// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of infitab

package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"

	"github.com/infitab/infitab/internal/model"
)

const (
	formTitle   = " Add row "
	formWidth   = 64
	fieldWidth  = 40
	saveLabel   = "Save"
	savingLabel = "Saving..."
	cancelLabel = "Cancel"
)

// RowForm is the modal form used to add a row.
type RowForm struct {
	*tview.Flex

	form     *tview.Form
	msgs     *tview.TextView
	model    *model.AddRowForm
	drawer   Drawer
	actions  *KeyActions
	ctx      context.Context
	onCancel func()
}

// NewRowForm returns a form view over an add row form model.
func NewRowForm(m *model.AddRowForm, d Drawer) *RowForm {
	r := RowForm{
		form:    tview.NewForm(),
		msgs:    tview.NewTextView(),
		model:   m,
		drawer:  d,
		actions: NewKeyActions(),
		ctx:     context.Background(),
	}
	r.build()
	m.AddListener(&r)

	return &r
}

func (r *RowForm) build() {
	ff := r.model.Fields()
	for _, f := range ff {
		key := f.Key
		r.form.AddInputField(f.Label, "", fieldWidth, r.accept, func(text string) {
			r.model.SetValue(key, text)
		})
	}
	r.form.AddButton(saveLabel, r.save)
	r.form.AddButton(cancelLabel, r.cancel)
	r.form.SetCancelFunc(r.cancel)
	r.form.SetButtonsAlign(tview.AlignRight)
	r.form.SetBackgroundColor(tcell.ColorDefault)
	r.form.SetFieldBackgroundColor(tcell.ColorDarkSlateGray)

	r.msgs.SetDynamicColors(true)
	r.msgs.SetBackgroundColor(tcell.ColorDefault)
	r.msgs.SetBorderPadding(0, 0, 1, 1)

	formHeight := len(ff)*2 + 3
	msgHeight := len(ff) + 2
	body := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(r.form, formHeight, 0, true).
		AddItem(r.msgs, msgHeight, 0, false)
	body.Box = tview.NewBox()
	body.SetBorder(true)
	body.SetTitle(formTitle)
	body.SetTitleColor(tcell.ColorAqua)
	body.SetBorderColor(tcell.ColorDodgerBlue)

	r.Flex = tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(tview.NewFlex().SetDirection(tview.FlexRow).
			AddItem(nil, 0, 1, false).
			AddItem(body, formHeight+msgHeight+2, 0, true).
			AddItem(nil, 0, 1, false), formWidth, 0, true).
		AddItem(nil, 0, 1, false)

	r.actions.Bulk(KeyMap{
		tcell.KeyTab:   NewKeyAction("Next", nil, true),
		tcell.KeyEnter: NewKeyAction("Choose", nil, true),
		tcell.KeyEsc:   NewKeyAction("Cancel", nil, true),
	})
}

// SetCancelFunc overrides what cancelling the form does.
func (r *RowForm) SetCancelFunc(fn func()) {
	r.onCancel = fn
}

// Name returns the component name.
func (*RowForm) Name() string { return "add" }

// Init records the context used for submissions.
func (r *RowForm) Init(ctx context.Context) error {
	r.ctx = ctx
	return nil
}

// Start is a no-op.
func (*RowForm) Start() {}

// Stop is a no-op.
func (*RowForm) Stop() {}

// Hints returns the form key hints.
func (r *RowForm) Hints() MenuHints { return r.actions.Hints() }

// IsModal keeps the table visible under the form.
func (*RowForm) IsModal() bool { return true }

// FormChanged implements model.FormListener.
func (r *RowForm) FormChanged(s model.FormSnapshot) {
	r.drawer.QueueUpdateDraw(func() {
		r.refresh(s)
	})
}

// Messages returns the text shown under the fields.
func (r *RowForm) Messages() string {
	return r.msgs.GetText(false)
}

func (r *RowForm) accept(string, rune) bool {
	return r.model.State() == model.FormEditing
}

func (r *RowForm) save() {
	if r.model.State() != model.FormEditing {
		return
	}
	go r.model.Submit(r.ctx)
}

// Cancel runs the cancel action, as Esc or the Cancel button do.
func (r *RowForm) Cancel() {
	r.cancel()
}

func (r *RowForm) cancel() {
	if r.model.Snapshot().Busy() {
		return
	}
	if r.onCancel != nil {
		r.onCancel()
		return
	}
	r.model.Cancel()
}

func (r *RowForm) refresh(s model.FormSnapshot) {
	if b := r.form.GetButton(0); b != nil {
		if s.Busy() {
			b.SetLabel(savingLabel)
		} else {
			b.SetLabel(saveLabel)
		}
	}
	r.msgs.SetText(FormMessages(s))
}

// FormMessages formats field errors and banners for display.
func FormMessages(s model.FormSnapshot) string {
	var b strings.Builder
	for _, f := range s.Fields {
		if msg, ok := s.Errors[f.Key]; ok {
			fmt.Fprintf(&b, "[red]• %s[-]\n", msg)
		}
	}
	switch {
	case s.Busy():
		fmt.Fprintf(&b, "[yellow]%s[-]\n", savingLabel)
	case s.ServerErr != "":
		fmt.Fprintf(&b, "[red::b]%s[-::-]\n", s.ServerErr)
	case s.Success != "":
		fmt.Fprintf(&b, "[green::b]%s[-::-]\n", s.Success)
	}

	return strings.TrimSuffix(b.String(), "\n")
}

// HasInput returns true when any field holds text.
func HasInput(s model.FormSnapshot) bool {
	for _, v := range s.Values {
		if strings.TrimSpace(v) != "" {
			return true
		}
	}
	return false
}
