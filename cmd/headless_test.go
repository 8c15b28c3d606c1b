package main

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/infitab/infitab/internal/backend"
	"github.com/infitab/infitab/internal/render"
	"github.com/infitab/infitab/internal/testutil"
)

func newTestClient(t *testing.T, mock *testutil.MockBackend) *backend.Client {
	t.Helper()

	cfg := backend.DefaultConfig()
	cfg.BaseURL = mock.URL()
	c, err := backend.NewClient(cfg)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestDump(t *testing.T) {
	tests := []struct {
		name      string
		pages     int
		wantRows  int
		wantPages string
	}{
		{name: "first_page", pages: 1, wantRows: 20, wantPages: "[1]"},
		{name: "two_pages", pages: 2, wantRows: 40, wantPages: "[1 2]"},
		{name: "all", pages: 0, wantRows: 45, wantPages: "[1 2 3]"},
		{name: "more_than_available", pages: 9, wantRows: 45, wantPages: "[1 2 3]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := testutil.NewMockBackend(45)
			defer mock.Close()

			var buf bytes.Buffer
			if err := dump(context.Background(), &buf, newTestClient(t, mock), tt.pages, 0); err != nil {
				t.Fatalf("dump failed: %v", err)
			}

			lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
			if len(lines) != tt.wantRows+1 {
				t.Errorf("Expected header and %d rows, got %d lines", tt.wantRows, len(lines))
			}
			if !strings.HasPrefix(lines[0], "ID") {
				t.Errorf("Expected header first, got %q", lines[0])
			}
			if got := fmt.Sprint(mock.Pages()); got != tt.wantPages {
				t.Errorf("Expected pages %s, got %s", tt.wantPages, got)
			}
		})
	}
}

func TestDump_Failure(t *testing.T) {
	mock := testutil.NewMockBackend(45)
	defer mock.Close()
	mock.SetResponse(http.MethodGet, "/columns", testutil.MockResponse{StatusCode: http.StatusServiceUnavailable})

	var buf bytes.Buffer
	err := dump(context.Background(), &buf, newTestClient(t, mock), 0, 0)
	if !backend.IsKind(err, backend.KindColumnsFetch) {
		t.Errorf("Expected columns error, got %v", err)
	}
	if got := buf.String(); got != render.ErrorMsg+"\n" {
		t.Errorf("Expected error frame, got %q", got)
	}
}
