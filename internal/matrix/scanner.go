package matrix

import (
	"context"
	"fmt"
	"time"

	"loopdrum-service/internal/logger"
	"loopdrum-service/internal/types"
)

// Lines is the electrical side of the matrix. Selecting a column asserts both
// its button-column and LED-column select lines.
type Lines interface {
	SelectColumn(col int) error
	DeselectColumn(col int) error
	WriteRowColors(colors [types.Rows]types.Color) error
	BlankRows() error
	ReadRows() ([types.Rows]bool, error)
}

// Scan timing
const (
	DefaultSettleDelay  = time.Millisecond
	DefaultHoldDelay    = time.Millisecond
	DefaultPassInterval = time.Millisecond
)

// ScannerConfig holds the per-column delays and the pass period.
type ScannerConfig struct {
	SettleDelay  time.Duration // after driving a column, before reading its rows
	HoldDelay    time.Duration // after reading, before releasing the column
	PassInterval time.Duration // start-to-start period of full passes
}

// Scanner multiplexes the matrix one column at a time, lighting LEDs from
// the LEDBuffer and feeding button samples through the Debouncer into the
// Dispatcher.
type Scanner struct {
	lines      Lines
	leds       *LEDBuffer
	debouncer  *Debouncer
	dispatcher *Dispatcher
	cfg        ScannerConfig
	logger     *logger.Logger

	// replaced in tests
	sleep func(time.Duration)
}

// NewScanner wires the scan loop to its lines, buffers and logger.
func NewScanner(lines Lines, leds *LEDBuffer, debouncer *Debouncer, dispatcher *Dispatcher, cfg ScannerConfig, l *logger.Logger) *Scanner {
	return &Scanner{
		lines:      lines,
		leds:       leds,
		debouncer:  debouncer,
		dispatcher: dispatcher,
		cfg:        cfg,
		logger:     l,
		sleep:      time.Sleep,
	}
}

// Pass visits every column once.
func (s *Scanner) Pass() error {
	for col := 0; col < types.Columns; col++ {
		if err := s.visitColumn(col); err != nil {
			return err
		}
	}
	return nil
}

func (s *Scanner) visitColumn(col int) error {
	if err := s.lines.SelectColumn(col); err != nil {
		s.releaseColumn(col)
		return fmt.Errorf("select column %d: %w", col, err)
	}

	if err := s.lines.WriteRowColors(s.leds.Column(col)); err != nil {
		s.releaseColumn(col)
		return fmt.Errorf("write LED rows for column %d: %w", col, err)
	}

	s.sleep(s.cfg.SettleDelay)

	levels, err := s.lines.ReadRows()
	if err != nil {
		s.releaseColumn(col)
		return fmt.Errorf("read rows for column %d: %w", col, err)
	}

	for row, pressed := range levels {
		cell := types.Cell{Column: col, Row: row}
		switch edge := s.debouncer.Sample(cell, pressed); edge {
		case EdgePress:
			s.logger.Debugf("Key down: button %d (%s)", cell.Button(), cell)
			s.dispatcher.Post(cell, edge)
		case EdgeRelease:
			s.logger.Debugf("Key up: button %d (%s)", cell.Button(), cell)
			s.dispatcher.Post(cell, edge)
		}
	}

	s.sleep(s.cfg.HoldDelay)

	// rows go dark before the column is released
	if err := s.lines.BlankRows(); err != nil {
		s.lines.DeselectColumn(col)
		return fmt.Errorf("blank LED rows after column %d: %w", col, err)
	}
	if err := s.lines.DeselectColumn(col); err != nil {
		return fmt.Errorf("deselect column %d: %w", col, err)
	}
	return nil
}

// releaseColumn is the best-effort cleanup after a failed visit.
func (s *Scanner) releaseColumn(col int) {
	if err := s.lines.BlankRows(); err != nil {
		s.logger.Errorf("Failed to blank LED rows: %v", err)
	}
	if err := s.lines.DeselectColumn(col); err != nil {
		s.logger.Errorf("Failed to deselect column %d: %v", col, err)
	}
}

// Run scans until ctx is cancelled, starting a pass every PassInterval
// measured on the monotonic clock. A pass that overruns starts the next one
// immediately. Hardware errors end the loop and are returned.
func (s *Scanner) Run(ctx context.Context) error {
	s.logger.Infof("Starting matrix scan (settle=%v hold=%v interval=%v)",
		s.cfg.SettleDelay, s.cfg.HoldDelay, s.cfg.PassInterval)

	timer := time.NewTimer(0)
	defer timer.Stop()
	<-timer.C

	next := time.Now()
	for {
		select {
		case <-ctx.Done():
			s.logger.Infof("Matrix scan stopped")
			return nil
		default:
		}

		if err := s.Pass(); err != nil {
			return err
		}

		next = next.Add(s.cfg.PassInterval)
		wait := time.Until(next)
		if wait <= 0 {
			next = time.Now()
			continue
		}

		timer.Reset(wait)
		select {
		case <-ctx.Done():
			s.logger.Infof("Matrix scan stopped")
			return nil
		case <-timer.C:
		}
	}
}
