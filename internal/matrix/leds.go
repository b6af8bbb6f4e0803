package matrix

import (
	"fmt"
	"sync"

	"loopdrum-service/internal/types"
)

// LEDBuffer is the target color of every cell. The interpreter and the
// engine status feed write it; the scanner reads one column per visit.
type LEDBuffer struct {
	mu     sync.RWMutex
	colors [types.Columns][types.Rows]types.Color
}

// NewLEDBuffer returns a buffer with every LED off.
func NewLEDBuffer() *LEDBuffer {
	return &LEDBuffer{}
}

// Set stores the color of one cell.
func (b *LEDBuffer) Set(cell types.Cell, color types.Color) error {
	if !cell.Valid() {
		return fmt.Errorf("cell %s out of range", cell)
	}
	if !color.Valid() {
		return fmt.Errorf("invalid color %d", uint8(color))
	}
	b.mu.Lock()
	b.colors[cell.Column][cell.Row] = color
	b.mu.Unlock()
	return nil
}

// SetButton stores the color of a 1-based button.
func (b *LEDBuffer) SetButton(button int, color types.Color) error {
	cell, err := types.CellForButton(button)
	if err != nil {
		return err
	}
	return b.Set(cell, color)
}

// Get returns the stored color of one cell.
func (b *LEDBuffer) Get(cell types.Cell) types.Color {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.colors[cell.Column][cell.Row]
}

// Button returns the stored color of a button, or off when out of range.
func (b *LEDBuffer) Button(button int) types.Color {
	cell, err := types.CellForButton(button)
	if err != nil {
		return types.ColorOff
	}
	return b.Get(cell)
}

// Column returns a copy of one column's row colors.
func (b *LEDBuffer) Column(col int) [types.Rows]types.Color {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.colors[col]
}

// Clear turns every LED off.
func (b *LEDBuffer) Clear() {
	b.mu.Lock()
	b.colors = [types.Columns][types.Rows]types.Color{}
	b.mu.Unlock()
}
