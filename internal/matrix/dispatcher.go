package matrix

import (
	"sync/atomic"

	"loopdrum-service/internal/types"
)

// Transition is a confirmed press or release of one cell.
type Transition struct {
	Cell types.Cell
	Edge Edge
}

// Dispatcher hands confirmed transitions from the scan loop to the
// interpretation loop. Each cell has one pending-press and one
// pending-release flag, so repeated transitions of the same kind that are
// not consumed in time collapse into one. last records the most recently
// posted edge so both pending edges are delivered in the order they happened.
type Dispatcher struct {
	press   [types.Columns][types.Rows]atomic.Bool
	release [types.Columns][types.Rows]atomic.Bool
	last    [types.Columns][types.Rows]atomic.Int32
	ready   chan struct{}
}

// NewDispatcher returns a Dispatcher with nothing pending.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		ready: make(chan struct{}, 1),
	}
}

// Post marks a transition as pending and wakes the consumer. It never blocks.
func (d *Dispatcher) Post(cell types.Cell, edge Edge) {
	switch edge {
	case EdgePress:
		d.last[cell.Column][cell.Row].Store(int32(edge))
		d.press[cell.Column][cell.Row].Store(true)
	case EdgeRelease:
		d.last[cell.Column][cell.Row].Store(int32(edge))
		d.release[cell.Column][cell.Row].Store(true)
	default:
		return
	}

	select {
	case d.ready <- struct{}{}:
	default:
	}
}

// Ready is signalled after Post. A signal may cover several transitions.
func (d *Dispatcher) Ready() <-chan struct{} {
	return d.ready
}

// Drain clears every pending flag and calls fn for each, column by column.
// When a cell has both a press and a release pending they are delivered
// oldest first. It returns the number of transitions delivered.
func (d *Dispatcher) Drain(fn func(Transition)) int {
	n := 0
	for col := 0; col < types.Columns; col++ {
		for row := 0; row < types.Rows; row++ {
			cell := types.Cell{Column: col, Row: row}
			pressed := d.press[col][row].Swap(false)
			released := d.release[col][row].Swap(false)

			order := [2]Edge{EdgePress, EdgeRelease}
			if pressed && released && Edge(d.last[col][row].Load()) == EdgePress {
				order = [2]Edge{EdgeRelease, EdgePress}
			}
			for _, edge := range order {
				if (edge == EdgePress && pressed) || (edge == EdgeRelease && released) {
					fn(Transition{Cell: cell, Edge: edge})
					n++
				}
			}
		}
	}
	return n
}
