// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of infitab

package ui

import (
	"fmt"
	"sync"

	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
)

// Status is what the indicator displays.
type Status struct {
	BaseURL string
	Rows    int
	Total   int
	Pages   int
	State   string
	HasNext bool
}

// Indicator shows the backend and paging status on one line.
type Indicator struct {
	*tview.TextView

	version string
	status  Status
	mx      sync.RWMutex
}

// NewIndicator returns a new status indicator.
func NewIndicator(version string) *Indicator {
	i := Indicator{
		TextView: tview.NewTextView(),
		version:  version,
	}
	i.SetDynamicColors(true)
	i.SetBackgroundColor(tcell.ColorDefault)
	i.SetTextColor(tcell.ColorWhite)
	i.SetBorderPadding(0, 0, 1, 1)
	i.refresh()

	return &i
}

// SetStatus updates the displayed status.
func (i *Indicator) SetStatus(s Status) {
	i.mx.Lock()
	i.status = s
	i.mx.Unlock()
	i.refresh()
}

// Status returns the displayed status.
func (i *Indicator) Status() Status {
	i.mx.RLock()
	defer i.mx.RUnlock()
	return i.status
}

func (i *Indicator) refresh() {
	i.TextView.SetText(i.format())
}

func (i *Indicator) format() string {
	i.mx.RLock()
	defer i.mx.RUnlock()

	s := i.status
	more := "end"
	if s.HasNext {
		more = "more"
	}
	state := s.State
	if state == "" {
		state = "idle"
	}

	return fmt.Sprintf(
		"[orange::b]infitab[white::-] %s  [aqua::b]url:[white::-] %s  [aqua::b]rows:[white::-] %d/%d  [aqua::b]pages:[white::-] %d (%s)  [aqua::b]fetch:[%s::-] %s",
		i.version, s.BaseURL, s.Rows, max(s.Total, s.Rows), s.Pages, more, stateColor(state), state,
	)
}

func stateColor(state string) string {
	switch state {
	case "fetching":
		return "yellow"
	case "failed":
		return "red"
	default:
		return "green"
	}
}
