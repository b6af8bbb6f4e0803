package matrix

import "loopdrum-service/internal/types"

// DefaultMaxDebounce is the number of consecutive agreeing samples needed
// before a level change is reported.
const DefaultMaxDebounce = 3

// Edge is a confirmed change of a cell's stable state.
type Edge int

const (
	EdgeNone Edge = iota
	EdgePress
	EdgeRelease
)

func (e Edge) String() string {
	switch e {
	case EdgePress:
		return "press"
	case EdgeRelease:
		return "release"
	default:
		return "none"
	}
}

// DebouncedCell holds the filter state of one matrix intersection.
// Pressed is the last confirmed state; it only flips when Count lands on a
// bound it was not already reported at.
type DebouncedCell struct {
	Raw     bool
	Count   int
	Pressed bool
}

// Debouncer is a per-cell hysteresis counter. The counter moves by at most
// one per sample. A press is reported when it reaches the maximum from a
// released state and a release when it reaches 0 from a pressed state.
type Debouncer struct {
	max   int
	cells [types.Columns][types.Rows]DebouncedCell
}

// NewDebouncer returns a filter needing max agreeing samples; max is at least 1.
func NewDebouncer(max int) *Debouncer {
	if max < 1 {
		max = 1
	}
	return &Debouncer{max: max}
}

// Sample feeds one raw reading for the cell and returns the edge it
// completes, if any.
func (d *Debouncer) Sample(cell types.Cell, pressed bool) Edge {
	c := &d.cells[cell.Column][cell.Row]
	c.Raw = pressed

	if pressed {
		if c.Count < d.max {
			c.Count++
			if c.Count == d.max && !c.Pressed {
				c.Pressed = true
				return EdgePress
			}
		}
		return EdgeNone
	}

	if c.Count > 0 {
		c.Count--
		if c.Count == 0 && c.Pressed {
			c.Pressed = false
			return EdgeRelease
		}
	}
	return EdgeNone
}
