package view

import (
	"errors"
	"sync"
	"testing"

	"github.com/infitab/infitab/internal/config"
)

func TestFlash(t *testing.T) {
	f := NewFlash(nil)

	tests := []struct {
		name string
		fire func()
		want string
	}{
		{name: "info", fire: func() { f.Infof("added %d", 1) }, want: "[INFO] added 1"},
		{name: "warn", fire: func() { f.Warn("careful") }, want: "[WARN] careful"},
		{name: "err", fire: func() { f.Err(errors.New("boom")) }, want: "[ERROR] boom"},
		{name: "nil_err", fire: func() { f.Err(nil) }, want: "[ERROR] boom"},
		{name: "empty_clears", fire: func() { f.Info("") }, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.fire()
			if got := f.Message(); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
	f.Clear()
}

func TestApp_InitNeedsFactory(t *testing.T) {
	app := NewApp(config.NewConfig(), "test")
	defer app.cancel()

	if err := app.Init(); err == nil {
		t.Error("Expected init without a backend to fail")
	}
}

func TestApp_QueueUpdateDrawBeforeRun(t *testing.T) {
	app := NewApp(config.NewConfig(), "test")
	defer app.cancel()

	const callers = 50
	var (
		count int
		wg    sync.WaitGroup
	)
	for range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.QueueUpdateDraw(func() {
				count++
			})
		}()
	}
	wg.Wait()

	if count != callers {
		t.Errorf("Expected %d updates, got %d", callers, count)
	}
}
