package model1

// Row represents a single backend record keyed by column key.
type Row struct {
	ID     string
	Values map[string]string
}

func NewRow(id string, size int) Row {
	return Row{ID: id, Values: make(map[string]string, size)}
}

// Value returns the cell for a column key, Blank if the row has none.
func (r Row) Value(key string) string {
	if v, ok := r.Values[key]; ok {
		return v
	}
	return Blank
}

// Fields projects the row onto the given columns.
func (r Row) Fields(cc Columns) []string {
	ff := make([]string, len(cc))
	for i, c := range cc {
		ff[i] = r.Value(c.Key)
	}
	return ff
}

// Rows represents a collection of rows
type Rows []Row
