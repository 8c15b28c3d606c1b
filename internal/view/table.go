// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of infitab

package view

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/derailed/tcell/v2"
	"github.com/rs/zerolog"

	"github.com/infitab/infitab/internal/dao"
	"github.com/infitab/infitab/internal/logging"
	"github.com/infitab/infitab/internal/model"
	"github.com/infitab/infitab/internal/model1"
	"github.com/infitab/infitab/internal/render"
	"github.com/infitab/infitab/internal/ui"
)

const (
	tableName    = "rows"
	spinnerRate  = 120 * time.Millisecond
	discardMsg   = "Discard the new row?"
	noColumnsMsg = "Columns are not loaded yet"
)

// TableView shows the paginated rows and drives page fetches from scrolling.
type TableView struct {
	*ui.DataTable

	app        *App
	backend    dao.Backend
	cache      *model.RowCache
	ctl        *model.FetchController
	skeleton   int
	closeDelay time.Duration
	ctx        context.Context
	started    bool
	stopTicker context.CancelFunc
	logger     zerolog.Logger
	mx         sync.Mutex
}

// NewTableView returns a new table view.
func NewTableView(app *App) *TableView {
	return &TableView{
		DataTable:  ui.NewDataTable(),
		app:        app,
		closeDelay: model.DefaultCloseDelay,
		ctx:        context.Background(),
		logger:     logging.NewLogger("view"),
	}
}

// Name returns the component name.
func (*TableView) Name() string { return tableName }

// Init builds the row cache and fetch controller and requests the header.
func (t *TableView) Init(ctx context.Context) error {
	f := t.app.GetFactory()
	if f == nil {
		return errors.New("no backend factory configured")
	}
	t.ctx = ctx
	t.backend = f.Backend()

	cfg := t.app.Config().Infitab
	t.skeleton = cfg.GetSkeletonRows()
	if d, err := cfg.GetCloseDelay(); err == nil {
		t.closeDelay = d
	}

	t.cache = model.NewRowCache(dao.NewColumnStore(t.backend), t.backend)
	t.ctl = model.NewFetchController(ctx, t.cache)
	t.cache.AddListener(t.ctl)
	t.cache.AddListener(t)

	t.SetSentinelFunc(func(visible bool) {
		t.ctl.VisibilityChanged(visible)
	})
	t.bindKeys(t.Actions())

	t.cache.LoadColumns(ctx)
	t.refresh()

	return nil
}

// Start requests the first page on first use and animates the spinner.
func (t *TableView) Start() {
	t.mx.Lock()
	first := !t.started
	t.started = true
	ctx, cancel := context.WithCancel(t.ctx)
	if t.stopTicker != nil {
		t.stopTicker()
	}
	t.stopTicker = cancel
	t.mx.Unlock()

	go t.spin(ctx)
	if first {
		t.ctl.Start()
	}
}

// Stop halts the spinner animation. Fetches in flight still land.
func (t *TableView) Stop() {
	t.mx.Lock()
	defer t.mx.Unlock()

	if t.stopTicker != nil {
		t.stopTicker()
		t.stopTicker = nil
	}
}

// Cache returns the row cache backing the view.
func (t *TableView) Cache() *model.RowCache {
	return t.cache
}

// Controller returns the fetch controller backing the view.
func (t *TableView) Controller() *model.FetchController {
	return t.ctl
}

func (t *TableView) spin(ctx context.Context) {
	ticker := time.NewTicker(spinnerRate)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if t.Spinning() && t.app.IsRunning() {
				t.app.QueueUpdateDraw(t.Tick)
			}
		}
	}
}

// CacheChanged implements model.CacheListener.
func (t *TableView) CacheChanged(model.CacheState) {
	t.app.QueueUpdateDraw(t.refresh)
}

// PageFetched implements model.CacheListener.
func (t *TableView) PageFetched(p model1.Page) {
	t.logger.Debug().Int("page", p.Number).Int("rows", len(p.Rows)).Msg("page shown")
}

// PageFailed implements model.CacheListener.
func (t *TableView) PageFailed(page int, err error) {
	t.app.Flash().Errf("Page %d failed: %v (ctrl-r to retry)", page, err)
}

// RowsInvalidated implements model.CacheListener.
func (t *TableView) RowsInvalidated() {
	t.app.QueueUpdateDraw(func() {
		t.Reset()
		t.refresh()
	})
}

// refresh renders the current cache state. Updates may be queued out of
// order so the state is always read when the update runs.
func (t *TableView) refresh() {
	s := t.cache.State()
	st := render.NewState(s)
	st.Skeleton = t.skeleton
	f := render.Table(st)
	t.Apply(f)
	if f.Kind == render.FrameTable && t.ctl.State() == model.FetchIdle {
		t.ctl.ResetVisibility()
	}
	t.SetTotal(s.Total)

	var base string
	if f := t.app.GetFactory(); f != nil {
		base = f.BaseURL()
	}
	t.app.Indicator().SetStatus(ui.Status{
		BaseURL: base,
		Rows:    len(s.Rows),
		Total:   s.Total,
		Pages:   s.PageCount,
		State:   t.ctl.State().String(),
		HasNext: s.HasNextPage,
	})
}

func (t *TableView) bindKeys(aa *ui.KeyActions) {
	aa.Bulk(ui.KeyMap{
		ui.KeyA:        ui.NewKeyAction("Add", t.addCmd, true),
		tcell.KeyCtrlR: ui.NewKeyAction("Reload", t.reloadCmd, true),
		tcell.KeyEnter: ui.NewKeyAction("Details", t.enterCmd, false),
		ui.KeyHelp:     ui.NewKeyAction("Help", nil, true),
		ui.KeyQ:        ui.NewKeyAction("Quit", nil, true),
	})
}

func (t *TableView) addCmd(*tcell.EventKey) *tcell.EventKey {
	s := t.cache.State()
	if s.LoadingColumns || s.ColumnsErr != nil || len(s.Columns) == 0 {
		t.app.Flash().Warn(noColumnsMsg)
		return nil
	}
	t.showForm(s.Columns)

	return nil
}

func (t *TableView) showForm(cc model1.Columns) {
	m := model.NewAddRowForm(cc, t.backend.CreateRow)
	m.SetCloseDelay(t.closeDelay)
	m.SetOnSuccess(func() {
		t.app.Flash().Info(model.MsgAccepted)
		t.ctl.InvalidateRequested()
	})

	form := ui.NewRowForm(m, t.app)
	m.SetOnClose(func() {
		t.app.QueueUpdateDraw(func() {
			t.app.Dismiss(form)
		})
	})
	form.SetCancelFunc(func() {
		if !ui.HasInput(m.Snapshot()) || m.State() != model.FormEditing {
			m.Cancel()
			return
		}
		var confirm *ui.Dialog
		confirm = ui.ConfirmDialog(discardMsg, func() {
			t.app.Dismiss(confirm)
			m.Cancel()
		}, func() {
			t.app.Dismiss(confirm)
		})
		t.app.ShowModal(confirm)
	})

	t.app.ShowModal(form)
}

func (t *TableView) reloadCmd(*tcell.EventKey) *tcell.EventKey {
	s := t.cache.State()
	if s.ColumnsErr != nil {
		t.app.Flash().Info("Reloading columns...")
		t.cache.LoadColumns(t.ctx)
	}
	if t.ctl.State() == model.FetchFailed {
		t.app.Flash().Info("Retrying...")
		t.ctl.Retry()
		return nil
	}
	if s.ColumnsErr == nil {
		t.app.Flash().Info("Reloading...")
		t.ctl.InvalidateRequested()
	}

	return nil
}

func (t *TableView) enterCmd(evt *tcell.EventKey) *tcell.EventKey {
	if t.Kind() == render.FrameError {
		err := t.cache.State().Err()
		if err == nil {
			return nil
		}
		var d *ui.Dialog
		d = ui.ErrorDialog(errorDetail(err), func() {
			t.app.Dismiss(d)
		})
		t.app.ShowModal(d)
		return nil
	}

	row, _ := t.GetSelection()
	if id, ok := t.RowID(row); ok {
		t.app.Flash().Infof("Row %s", id)
		return nil
	}

	return evt
}

func errorDetail(err error) string {
	return fmt.Sprintf("%s\n\n%v", render.ErrorMsg, err)
}
