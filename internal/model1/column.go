package model1

import (
	"fmt"
	"strings"
)

// Column describes one table column as served by the backend.
type Column struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

func (c Column) String() string {
	return fmt.Sprintf("%s[%s]", c.Key, c.Label)
}

// Columns represents the ordered table header.
type Columns []Column

// Validate checks keys are present and unique.
func (cc Columns) Validate() error {
	seen := make(map[string]struct{}, len(cc))
	for i, c := range cc {
		if strings.TrimSpace(c.Key) == "" {
			return fmt.Errorf("column %d has an empty key", i)
		}
		if _, ok := seen[c.Key]; ok {
			return fmt.Errorf("duplicate column key %q", c.Key)
		}
		seen[c.Key] = struct{}{}
	}
	return nil
}

func (cc Columns) Clone() Columns {
	if cc == nil {
		return nil
	}
	out := make(Columns, len(cc))
	copy(out, cc)
	return out
}

// Labels returns the display labels in column order.
func (cc Columns) Labels() []string {
	if len(cc) == 0 {
		return nil
	}
	ll := make([]string, 0, len(cc))
	for _, c := range cc {
		ll = append(ll, c.Label)
	}
	return ll
}

// Editable returns every column but the id column.
func (cc Columns) Editable() Columns {
	out := make(Columns, 0, len(cc))
	for _, c := range cc {
		if c.Key == IDKey {
			continue
		}
		out = append(out, c)
	}
	return out
}
