package ui

import (
	"strings"
	"testing"
)

func TestIndicator(t *testing.T) {
	i := NewIndicator("v0.1.0")
	i.SetStatus(Status{BaseURL: "http://localhost:3000", Rows: 20, Total: 45, Pages: 1, State: "fetching", HasNext: true})

	got := i.format()
	for _, want := range []string{"v0.1.0", "http://localhost:3000", "20/45", "1 (more)", "[yellow::-] fetching"} {
		if !strings.Contains(got, want) {
			t.Errorf("Expected %q in %q", want, got)
		}
	}
	if i.Status().Pages != 1 {
		t.Error("Expected status to be kept")
	}
}
