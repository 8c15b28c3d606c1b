package model1

// PageSize is the fixed number of rows requested per page.
const PageSize = 20

// IDKey is the reserved row identity column.
const IDKey = "id"

// Blank is rendered for a column a row has no value for.
const Blank = ""

// ResEvent represents a row set event type.
type ResEvent int

const (
	EventAdd ResEvent = 1 << iota
	EventSkip
)

func (e ResEvent) String() string {
	switch e {
	case EventAdd:
		return "add"
	case EventSkip:
		return "skip"
	default:
		return "unknown"
	}
}
