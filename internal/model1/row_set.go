package model1

// RowSet is an ordered, id-indexed collection of rows.
// Rows keep their insertion order; a row whose id is already present is skipped.
type RowSet struct {
	rows  Rows
	index map[string]int
}

func NewRowSet(size int) *RowSet {
	return &RowSet{
		rows:  make(Rows, 0, size),
		index: make(map[string]int, size),
	}
}

// Add appends a row unless its id was already seen.
func (r *RowSet) Add(row Row) ResEvent {
	if _, ok := r.index[row.ID]; ok {
		return EventSkip
	}
	r.rows = append(r.rows, row)
	r.index[row.ID] = len(r.rows) - 1
	return EventAdd
}

// AddAll appends rows in order and returns how many were kept.
func (r *RowSet) AddAll(rr Rows) int {
	var n int
	for _, row := range rr {
		if r.Add(row) == EventAdd {
			n++
		}
	}
	return n
}

func (r *RowSet) Len() int {
	return len(r.rows)
}

func (r *RowSet) Clear() {
	r.rows = r.rows[:0]
	for k := range r.index {
		delete(r.index, k)
	}
}

// Rows returns a copy of the ordered rows.
func (r *RowSet) Rows() Rows {
	out := make(Rows, len(r.rows))
	copy(out, r.rows)
	return out
}
