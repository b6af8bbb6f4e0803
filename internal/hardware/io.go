package hardware

import (
	"fmt"
	"sync"

	"github.com/warthog618/go-gpiocdev"

	"loopdrum-service/internal/logger"
	"loopdrum-service/internal/types"
)

// PinMap lists the line offsets of the matrix on one GPIO chip.
type PinMap struct {
	Chip          string   `json:"chip"`
	ButtonColumns [4]int   `json:"button_columns"`
	ButtonRows    [4]int   `json:"button_rows"`
	LEDColumns    [4]int   `json:"led_columns"`
	LEDRows       [4][]int `json:"led_rows"` // one offset (mono) or three (red, green, blue) per row
}

func DefaultPinMap() PinMap {
	var rows [4][]int
	for i, r := range DefaultLEDRows {
		rows[i] = append([]int(nil), r...)
	}
	return PinMap{
		Chip:          DefaultChip,
		ButtonColumns: DefaultButtonColumns,
		ButtonRows:    DefaultButtonRows,
		LEDColumns:    DefaultLEDColumns,
		LEDRows:       rows,
	}
}

// Channels returns the number of color lines per LED row.
func (p PinMap) Channels() int {
	return len(p.LEDRows[0])
}

func (p PinMap) Validate() error {
	if p.Chip == "" {
		return fmt.Errorf("gpio chip not set")
	}
	ch := p.Channels()
	if ch != 1 && ch != 3 {
		return fmt.Errorf("LED rows need 1 or 3 color lines, got %d", ch)
	}

	seen := make(map[int]string)
	claim := func(offset int, what string) error {
		if offset < 0 {
			return fmt.Errorf("%s: negative line offset %d", what, offset)
		}
		if prev, ok := seen[offset]; ok {
			return fmt.Errorf("line %d used by both %s and %s", offset, prev, what)
		}
		seen[offset] = what
		return nil
	}

	for i := 0; i < 4; i++ {
		if err := claim(p.ButtonColumns[i], fmt.Sprintf("button column %d", i)); err != nil {
			return err
		}
		if err := claim(p.ButtonRows[i], fmt.Sprintf("button row %d", i)); err != nil {
			return err
		}
		if err := claim(p.LEDColumns[i], fmt.Sprintf("LED column %d", i)); err != nil {
			return err
		}
		if len(p.LEDRows[i]) != ch {
			return fmt.Errorf("LED row %d has %d color lines, expected %d", i, len(p.LEDRows[i]), ch)
		}
		for c, off := range p.LEDRows[i] {
			if err := claim(off, fmt.Sprintf("LED row %d channel %d", i, c)); err != nil {
				return err
			}
		}
	}
	return nil
}

// LinuxMatrixIO drives the button/LED matrix through the GPIO character
// device. Column select lines and button rows are active low; the button
// rows use the internal pull-ups.
type LinuxMatrixIO struct {
	logger *logger.Logger
	pins   PinMap

	chip          *gpiocdev.Chip
	buttonColumns *gpiocdev.Lines
	ledColumns    *gpiocdev.Lines
	buttonRows    *gpiocdev.Lines
	ledRows       *gpiocdev.Lines

	mu        sync.Mutex
	colValues []int
	rowValues []int
	readBuf   []int
}

func NewLinuxMatrixIO(pins PinMap, l *logger.Logger) *LinuxMatrixIO {
	return &LinuxMatrixIO{
		logger:    l,
		pins:      pins,
		colValues: make([]int, types.Columns),
		rowValues: make([]int, types.Rows*pins.Channels()),
		readBuf:   make([]int, types.Rows),
	}
}

func (io *LinuxMatrixIO) Initialize() error {
	io.logger.Infof("Initializing matrix lines on %s", io.pins.Chip)

	if err := io.pins.Validate(); err != nil {
		return fmt.Errorf("invalid pin map: %w", err)
	}

	chip, err := gpiocdev.NewChip(io.pins.Chip, gpiocdev.WithConsumer(Consumer))
	if err != nil {
		return fmt.Errorf("failed to open GPIO chip %s: %w", io.pins.Chip, err)
	}
	io.chip = chip

	io.buttonColumns, err = chip.RequestLines(io.pins.ButtonColumns[:],
		gpiocdev.AsOutput(0, 0, 0, 0),
		gpiocdev.AsActiveLow)
	if err != nil {
		io.Cleanup()
		return fmt.Errorf("failed to request button column lines %v: %w", io.pins.ButtonColumns, err)
	}
	io.logger.Debugf("Configured button columns: %v", io.pins.ButtonColumns)

	io.ledColumns, err = chip.RequestLines(io.pins.LEDColumns[:],
		gpiocdev.AsOutput(0, 0, 0, 0),
		gpiocdev.AsActiveLow)
	if err != nil {
		io.Cleanup()
		return fmt.Errorf("failed to request LED column lines %v: %w", io.pins.LEDColumns, err)
	}
	io.logger.Debugf("Configured LED columns: %v", io.pins.LEDColumns)

	io.buttonRows, err = chip.RequestLines(io.pins.ButtonRows[:],
		gpiocdev.AsInput,
		gpiocdev.WithPullUp,
		gpiocdev.AsActiveLow)
	if err != nil {
		io.Cleanup()
		return fmt.Errorf("failed to request button row lines %v: %w", io.pins.ButtonRows, err)
	}
	io.logger.Debugf("Configured button rows: %v", io.pins.ButtonRows)

	var rowOffsets []int
	for _, r := range io.pins.LEDRows {
		rowOffsets = append(rowOffsets, r...)
	}
	io.ledRows, err = chip.RequestLines(rowOffsets,
		gpiocdev.AsOutput(make([]int, len(rowOffsets))...))
	if err != nil {
		io.Cleanup()
		return fmt.Errorf("failed to request LED row lines %v: %w", rowOffsets, err)
	}
	io.logger.Debugf("Configured LED rows: %v (%d channel(s) per row)", rowOffsets, io.pins.Channels())

	return nil
}

func (io *LinuxMatrixIO) SelectColumn(col int) error {
	io.mu.Lock()
	defer io.mu.Unlock()

	for i := range io.colValues {
		io.colValues[i] = 0
	}
	io.colValues[col] = 1
	return io.writeColumns()
}

func (io *LinuxMatrixIO) DeselectColumn(col int) error {
	io.mu.Lock()
	defer io.mu.Unlock()

	for i := range io.colValues {
		io.colValues[i] = 0
	}
	return io.writeColumns()
}

// writeColumns must be called with mu held.
func (io *LinuxMatrixIO) writeColumns() error {
	if err := io.buttonColumns.SetValues(io.colValues); err != nil {
		return fmt.Errorf("failed to set button columns: %w", err)
	}
	if err := io.ledColumns.SetValues(io.colValues); err != nil {
		return fmt.Errorf("failed to set LED columns: %w", err)
	}
	return nil
}

func (io *LinuxMatrixIO) WriteRowColors(colors [types.Rows]types.Color) error {
	io.mu.Lock()
	defer io.mu.Unlock()

	ch := io.pins.Channels()
	for row, c := range colors {
		if ch == 1 {
			io.rowValues[row] = boolToInt(c.Lit())
			continue
		}
		r, g, b := c.Channels()
		io.rowValues[row*3] = boolToInt(r)
		io.rowValues[row*3+1] = boolToInt(g)
		io.rowValues[row*3+2] = boolToInt(b)
	}
	if err := io.ledRows.SetValues(io.rowValues); err != nil {
		return fmt.Errorf("failed to set LED rows: %w", err)
	}
	return nil
}

func (io *LinuxMatrixIO) BlankRows() error {
	io.mu.Lock()
	defer io.mu.Unlock()

	for i := range io.rowValues {
		io.rowValues[i] = 0
	}
	if err := io.ledRows.SetValues(io.rowValues); err != nil {
		return fmt.Errorf("failed to blank LED rows: %w", err)
	}
	return nil
}

// ReadRows samples the button rows of the selected column; true is pressed.
func (io *LinuxMatrixIO) ReadRows() ([types.Rows]bool, error) {
	io.mu.Lock()
	defer io.mu.Unlock()

	var out [types.Rows]bool
	if err := io.buttonRows.Values(io.readBuf); err != nil {
		return out, fmt.Errorf("failed to read button rows: %w", err)
	}
	for i, v := range io.readBuf {
		out[i] = v == 1
	}
	return out, nil
}

// Cleanup stops driving every line and releases the chip. Output lines are
// switched to inputs before closing so nothing is left driven.
func (io *LinuxMatrixIO) Cleanup() {
	io.mu.Lock()
	defer io.mu.Unlock()

	io.logger.Infof("Releasing matrix lines")

	for name, lines := range map[string]*gpiocdev.Lines{
		"LED rows":       io.ledRows,
		"LED columns":    io.ledColumns,
		"button columns": io.buttonColumns,
		"button rows":    io.buttonRows,
	} {
		if lines == nil {
			continue
		}
		if err := lines.Reconfigure(gpiocdev.AsInput); err != nil {
			io.logger.Warnf("Failed to float %s: %v", name, err)
		}
		if err := lines.Close(); err != nil {
			io.logger.Warnf("Failed to close %s: %v", name, err)
		}
		io.logger.Debugf("Closed %s", name)
	}
	io.ledRows, io.ledColumns, io.buttonColumns, io.buttonRows = nil, nil, nil, nil

	if io.chip != nil {
		io.chip.Close()
		io.chip = nil
	}
	io.logger.Infof("Matrix lines released")
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
