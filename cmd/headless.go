package main

import (
	"context"
	"fmt"
	"io"

	"github.com/infitab/infitab/internal/dao"
	"github.com/infitab/infitab/internal/logging"
	"github.com/infitab/infitab/internal/model"
	"github.com/infitab/infitab/internal/render"
)

// dump loads up to pages pages (0 for all) through the same cache and fetch
// controller as the TUI and prints the resulting table.
func dump(ctx context.Context, w io.Writer, b dao.Backend, pages, skeleton int) error {
	logger := logging.NewLogger("headless")

	cache := model.NewRowCache(dao.NewColumnStore(b), b)
	ctl := model.NewFetchController(ctx, cache)
	cache.AddListener(ctl)

	cache.LoadColumns(ctx)
	ctl.Start()
	cache.Wait()

	for pages <= 0 || cache.State().PageCount < pages {
		if ctl.State() == model.FetchFailed {
			break
		}
		// Every page moves the sentinel onto the freshly written rows.
		ctl.ResetVisibility()
		if !ctl.VisibilityChanged(true) {
			break
		}
		cache.Wait()
	}

	s := cache.State()
	logger.Debug().Int("rows", len(s.Rows)).Int("pages", s.PageCount).Msg("headless dump")

	st := render.NewState(s)
	st.Skeleton = skeleton
	if err := render.WriteText(w, render.Table(st)); err != nil {
		return fmt.Errorf("failed to write table: %w", err)
	}

	return s.Err()
}
