package types

import "fmt"

const (
	Columns = 4
	Rows    = 4

	FirstLoopButton    = 1
	LastLoopButton     = 8
	FirstDrumpadButton = 9
	LastDrumpadButton  = 16
	ButtonCount        = Columns * Rows
)

// Cell addresses one button/LED intersection of the matrix.
type Cell struct {
	Column int
	Row    int
}

// Button returns the linear button number (1..16) of the cell.
func (c Cell) Button() int {
	return 1 + Rows*c.Column + c.Row
}

func (c Cell) Valid() bool {
	return c.Column >= 0 && c.Column < Columns && c.Row >= 0 && c.Row < Rows
}

func (c Cell) String() string {
	return fmt.Sprintf("%d,%d", c.Column, c.Row)
}

// CellForButton is the inverse of Cell.Button.
func CellForButton(button int) (Cell, error) {
	if !ValidButton(button) {
		return Cell{}, fmt.Errorf("button %d out of range", button)
	}
	idx := button - 1
	return Cell{Column: idx / Rows, Row: idx % Rows}, nil
}

func ValidButton(button int) bool {
	return button >= 1 && button <= ButtonCount
}

func IsLoopButton(button int) bool {
	return button >= FirstLoopButton && button <= LastLoopButton
}

func IsDrumpadButton(button int) bool {
	return button >= FirstDrumpadButton && button <= LastDrumpadButton
}
