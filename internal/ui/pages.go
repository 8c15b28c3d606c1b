// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of infitab

package ui

import (
	"fmt"

	"github.com/derailed/tview"
)

// Pages shows the top of a component stack.
type Pages struct {
	*tview.Pages
	*Stack
}

// NewPages returns a new page stack.
func NewPages() *Pages {
	p := Pages{
		Pages: tview.NewPages(),
		Stack: NewStack(),
	}
	p.Stack.AddListener(&p)

	return &p
}

// IsTopModal returns true when the front page is a modal.
func (p *Pages) IsTopModal() bool {
	top := p.Top()
	return top != nil && IsModal(top)
}

// Current returns the top component.
func (p *Pages) Current() Component {
	return p.Top()
}

// StackPushed adds the component page. Modals keep the page under them visible.
func (p *Pages) StackPushed(c Component) {
	id := componentID(c)
	p.AddPage(id, c, true, true)
	if !IsModal(c) {
		p.SwitchToPage(id)
	}
}

// StackPopped removes the popped component page.
func (p *Pages) StackPopped(o, top Component) {
	p.RemovePage(componentID(o))
	if top != nil && !IsModal(o) {
		p.SwitchToPage(componentID(top))
	}
}

// StackTop is a no-op.
func (*Pages) StackTop(Component) {}

func componentID(c Component) string {
	return fmt.Sprintf("%s-%p", c.Name(), c)
}

// Centered wraps a primitive so it is drawn in the middle of its parent.
func Centered(p tview.Primitive, width, height int) tview.Primitive {
	return tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(tview.NewFlex().SetDirection(tview.FlexRow).
			AddItem(nil, 0, 1, false).
			AddItem(p, height, 1, true).
			AddItem(nil, 0, 1, false), width, 1, true).
		AddItem(nil, 0, 1, false)
}
