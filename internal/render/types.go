package render

const (
	// SkeletonRows is the number of placeholder rows shown while loading.
	SkeletonRows = 11
	// ScrollSkeletonRows is the number of placeholder rows trailing a page fetch.
	ScrollSkeletonRows = 3
	// GuessedColumns is the placeholder width when no header is known yet.
	GuessedColumns = 5

	// ErrorMsg replaces the table when columns or rows failed to load.
	ErrorMsg = "Error loading table"

	// SkeletonCell fills placeholder cells.
	SkeletonCell = "░░░░░░░░"
)

// FrameKind identifies what a frame displays.
type FrameKind int

const (
	FrameSkeleton FrameKind = iota
	FrameError
	FrameTable
)

func (k FrameKind) String() string {
	switch k {
	case FrameSkeleton:
		return "skeleton"
	case FrameError:
		return "error"
	case FrameTable:
		return "table"
	default:
		return "unknown"
	}
}

// Line is a rendered body row.
type Line struct {
	ID    string
	Cells []string
}

// Frame is the output of a render pass.
type Frame struct {
	Kind    FrameKind
	Width   int
	Header  []string
	Lines   []Line
	Trailer int
	Spinner bool
	Message string
}

// Sentinel returns the index of the last body line or -1 when there is none.
func (f Frame) Sentinel() int {
	if f.Kind != FrameTable {
		return -1
	}
	return len(f.Lines) - 1
}
