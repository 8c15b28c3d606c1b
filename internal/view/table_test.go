package view

import (
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/derailed/tcell/v2"

	"github.com/infitab/infitab/internal/backend"
	"github.com/infitab/infitab/internal/config"
	"github.com/infitab/infitab/internal/dao"
	"github.com/infitab/infitab/internal/render"
	"github.com/infitab/infitab/internal/testutil"
	"github.com/infitab/infitab/internal/ui"
)

func newTestApp(t *testing.T, mock *testutil.MockBackend) *App {
	t.Helper()

	cfg := backend.DefaultConfig()
	cfg.BaseURL = mock.URL()
	client, err := backend.NewClient(cfg)
	if err != nil {
		t.Fatal(err)
	}

	app := NewApp(config.NewConfig(), "test")
	app.SetFactory(dao.NewFactory(client))
	if err := app.Init(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(app.cancel)

	return app
}

func startTable(t *testing.T, app *App) *TableView {
	t.Helper()

	tv := NewTableView(app)
	if err := app.inject(tv); err != nil {
		t.Fatal(err)
	}
	tv.Cache().Wait()
	t.Cleanup(tv.Stop)

	return tv
}

func TestTableView_Scroll(t *testing.T) {
	mock := testutil.NewMockBackend(45)
	defer mock.Close()
	app := newTestApp(t, mock)
	tv := startTable(t, app)

	if tv.Kind() != render.FrameTable || tv.Lines() != 20 {
		t.Fatalf("Expected 20 table rows, got %s/%d", tv.Kind(), tv.Lines())
	}

	for range 3 {
		tv.Controller().VisibilityChanged(false)
		tv.Controller().VisibilityChanged(true)
		tv.Cache().Wait()
	}

	if got := tv.Lines(); got != 45 {
		t.Errorf("Expected 45 rows, got %d", got)
	}
	if got := fmt.Sprint(mock.Pages()); got != "[1 2 3]" {
		t.Errorf("Expected pages [1 2 3], got %s", got)
	}
	if got := tv.Title(); got != " <rows>[45/45] " {
		t.Errorf("Unexpected title %q", got)
	}
	if tv.Spinning() {
		t.Error("Expected no spinner once the last page landed")
	}

	st := app.Indicator().Status()
	if st.Rows != 45 || st.Pages != 3 || st.HasNext || st.BaseURL != mock.URL() {
		t.Errorf("Unexpected status %+v", st)
	}
}

func TestTableView_Start(t *testing.T) {
	mock := testutil.NewMockBackend(45)
	defer mock.Close()
	app := newTestApp(t, mock)
	tv := startTable(t, app)

	// Restarting after the help page must not fetch another page.
	tv.Stop()
	tv.Start()
	tv.Cache().Wait()

	if got := fmt.Sprint(mock.Pages()); got != "[1]" {
		t.Errorf("Expected a single page request, got %s", got)
	}
}

func TestTableView_RefreshResetsSentinel(t *testing.T) {
	mock := testutil.NewMockBackend(45)
	defer mock.Close()
	app := newTestApp(t, mock)
	tv := startTable(t, app)

	for range 2 {
		if !tv.Controller().VisibilityChanged(true) {
			t.Fatal("Expected the sentinel of the new rows to fire")
		}
		tv.Cache().Wait()
	}

	if got := fmt.Sprint(mock.Pages()); got != "[1 2 3]" {
		t.Errorf("Expected pages [1 2 3], got %s", got)
	}
}

func TestTableView_Reload(t *testing.T) {
	mock := testutil.NewMockBackend(45)
	defer mock.Close()
	app := newTestApp(t, mock)
	tv := startTable(t, app)

	tv.Controller().VisibilityChanged(true)
	tv.Cache().Wait()
	if tv.Lines() != 40 {
		t.Fatalf("Expected 40 rows, got %d", tv.Lines())
	}

	tv.reloadCmd(nil)
	tv.Cache().Wait()

	if got := tv.Lines(); got != 20 {
		t.Errorf("Expected 20 rows after reload, got %d", got)
	}
	if got := fmt.Sprint(mock.Pages()); got != "[1 2 1]" {
		t.Errorf("Expected reload from page 1, got %s", got)
	}
}

func TestTableView_ColumnsError(t *testing.T) {
	mock := testutil.NewMockBackend(5)
	defer mock.Close()
	mock.SetResponse(http.MethodGet, "/columns", testutil.MockResponse{StatusCode: http.StatusInternalServerError})
	app := newTestApp(t, mock)
	tv := startTable(t, app)

	if tv.Kind() != render.FrameError {
		t.Fatalf("Expected error frame, got %s", tv.Kind())
	}

	tv.addCmd(nil)
	if msg := app.Flash().Message(); !strings.Contains(msg, noColumnsMsg) {
		t.Errorf("Expected columns warning, got %q", msg)
	}
	if app.Content.IsTopModal() {
		t.Error("Expected no form without columns")
	}

	tv.enterCmd(nil)
	top := app.Content.Top()
	if top == nil || top.Name() != "error" {
		t.Fatalf("Expected error dialog on top, got %v", top)
	}
	d, ok := top.(*ui.Dialog)
	if !ok {
		t.Fatalf("Expected a dialog, got %T", top)
	}
	app.Dismiss(d)
	if app.Content.Top() != tv {
		t.Error("Expected table back on top")
	}
}

func TestTableView_PageRetry(t *testing.T) {
	mock := testutil.NewMockBackend(45)
	defer mock.Close()
	app := newTestApp(t, mock)
	tv := startTable(t, app)

	var fail atomic.Bool
	mock.SetHandler(http.MethodGet, "/rows", func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			http.Error(w, "boom", http.StatusBadGateway)
			return
		}
		mock.ServePage(w, r)
	})

	fail.Store(true)
	tv.Controller().VisibilityChanged(true)
	tv.Cache().Wait()
	if tv.Kind() != render.FrameError {
		t.Fatalf("Expected error frame, got %s", tv.Kind())
	}
	if msg := app.Flash().Message(); !strings.Contains(msg, "Page 2 failed") {
		t.Errorf("Expected page failure flash, got %q", msg)
	}

	fail.Store(false)
	tv.reloadCmd(nil)
	tv.Cache().Wait()
	if tv.Kind() != render.FrameTable || tv.Lines() != 40 {
		t.Errorf("Expected 40 rows after retry, got %s/%d", tv.Kind(), tv.Lines())
	}
}

func TestTableView_AddForm(t *testing.T) {
	mock := testutil.NewMockBackend(5)
	defer mock.Close()
	app := newTestApp(t, mock)
	tv := startTable(t, app)

	tv.addCmd(nil)
	form, ok := app.Content.Top().(*ui.RowForm)
	if !ok {
		t.Fatalf("Expected add form on top, got %T", app.Content.Top())
	}
	if got := app.Content.Flatten(); fmt.Sprint(got) != "[rows add]" {
		t.Errorf("Unexpected stack %v", got)
	}

	form.Cancel()
	if app.Content.Top() != tv {
		t.Errorf("Expected empty form to close right away, got %T", app.Content.Top())
	}
}

func TestApp_Help(t *testing.T) {
	mock := testutil.NewMockBackend(5)
	defer mock.Close()
	app := newTestApp(t, mock)
	tv := startTable(t, app)

	if evt := app.keyboard(tcell.NewEventKey(tcell.KeyRune, '?', tcell.ModNone)); evt != nil {
		t.Fatal("Expected help key to be consumed")
	}
	h, ok := app.Content.Top().(*Help)
	if !ok {
		t.Fatalf("Expected help on top, got %T", app.Content.Top())
	}
	if evt := app.keyboard(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)); evt == nil {
		t.Fatal("Expected help to own its keys")
	}

	h.GetInputCapture()(tcell.NewEventKey(tcell.KeyEsc, 0, tcell.ModNone))
	if app.Content.Top() != tv {
		t.Errorf("Expected table back on top, got %T", app.Content.Top())
	}
}
