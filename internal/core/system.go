package core

import (
	"context"
	"fmt"
	"sync"

	"loopdrum-service/internal/config"
	"loopdrum-service/internal/hardware"
	"loopdrum-service/internal/logger"
	"loopdrum-service/internal/matrix"
	"loopdrum-service/internal/messaging"
	"loopdrum-service/internal/types"
)

const LoadingLine = "Loading..."

// LooperSystem owns the shared LED buffer and event flags and runs the
// three loops: matrix scan, input interpretation and engine status.
type LooperSystem struct {
	cfg    *config.Config
	logger *logger.Logger
	io     HardwareIO
	engine EngineClient
	board  StatusBoard

	leds        *matrix.LEDBuffer
	dispatcher  *matrix.Dispatcher
	scanner     *matrix.Scanner
	interpreter *Interpreter
	status      *StatusHandler

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	shutdownOnce sync.Once
	fatalf       func(format string, v ...interface{})
}

func NewLooperSystem(cfg *config.Config, io HardwareIO, engine EngineClient, board StatusBoard, l *logger.Logger) (*LooperSystem, error) {
	leds := matrix.NewLEDBuffer()
	dispatcher := matrix.NewDispatcher()
	debouncer := matrix.NewDebouncer(cfg.Scan.MaxDebounce)

	timing := Timing{
		DoubleTap:   cfg.Timing.DoubleTapWindow.D(),
		OverdubHold: cfg.Timing.OverdubHold.D(),
		OptionsHold: cfg.Timing.OptionsHold.D(),
	}
	interpreter, err := NewInterpreter(dispatcher, leds, engine, board, timing, cfg.Menu.TotalKits, l.WithTag("input"))
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &LooperSystem{
		cfg:         cfg,
		logger:      l,
		io:          io,
		engine:      engine,
		board:       board,
		leds:        leds,
		dispatcher:  dispatcher,
		scanner:     matrix.NewScanner(io, leds, debouncer, dispatcher, cfg.ScannerConfig(), l.WithTag("scan")),
		interpreter: interpreter,
		status:      NewStatusHandler(leds, board, interpreter, l.WithTag("status")),
		ctx:         ctx,
		cancel:      cancel,
		fatalf:      l.Fatalf,
	}, nil
}

func (s *LooperSystem) Start() error {
	s.logger.Infof("Starting looper system")
	s.show(1, LoadingLine)
	s.show(2, "")

	if err := s.io.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize hardware: %w", err)
	}

	for b := types.FirstDrumpadButton; b <= types.LastDrumpadButton; b++ {
		if err := s.leds.SetButton(b, DrumpadColor); err != nil {
			return err
		}
	}
	for b := types.FirstLoopButton; b <= types.LastLoopButton; b++ {
		if err := s.board.PublishLoop(b, false); err != nil {
			s.logger.Warnf("Failed to publish loop %d: %v", b, err)
		}
	}

	// The mode machine outlives s.ctx so the interpreter can leave the menu
	// on its way out; Shutdown stops it after the loops have exited.
	if err := s.interpreter.Start(context.Background()); err != nil {
		return fmt.Errorf("failed to start mode machine: %w", err)
	}

	s.engine.SetCallbacks(messaging.Callbacks{
		StatusCallback:  s.status.HandleStatus,
		CounterCallback: s.status.HandleCounter,
	})
	if err := s.engine.Connect(); err != nil {
		return fmt.Errorf("failed to connect to audio engine: %w", err)
	}
	if err := s.engine.StartListening(); err != nil {
		return fmt.Errorf("failed to start engine listener: %w", err)
	}

	s.wg.Add(2)
	go s.runScanner()
	go func() {
		defer s.wg.Done()
		s.interpreter.Run(s.ctx)
	}()

	s.show(1, ReadyLine)
	s.logger.Infof("Looper system started")
	return nil
}

func (s *LooperSystem) runScanner() {
	defer s.wg.Done()

	if err := hardware.PromoteScanThread(s.cfg.GPIO.RealtimePriority); err != nil {
		s.logger.Warnf("Scanning without realtime priority: %v", err)
	}

	if err := s.scanner.Run(s.ctx); err != nil {
		s.logger.Errorf("Matrix scan failed: %v", err)
		s.io.Cleanup()
		s.fatalf("Hardware I/O failure, exiting: %v", err)
	}
}

func (s *LooperSystem) Shutdown() {
	s.shutdownOnce.Do(func() {
		s.logger.Infof("Shutting down looper system")
		s.cancel()
		s.wg.Wait()
		s.interpreter.Stop()

		if err := s.engine.Close(); err != nil {
			s.logger.Warnf("Failed to close engine client: %v", err)
		}
		s.leds.Clear()
		s.show(1, "")
		s.show(2, "")
		if err := s.board.Close(); err != nil {
			s.logger.Warnf("Failed to close status board: %v", err)
		}
		s.io.Cleanup()
	})
}

func (s *LooperSystem) LEDs() *matrix.LEDBuffer {
	return s.leds
}

func (s *LooperSystem) Interpreter() *Interpreter {
	return s.interpreter
}

func (s *LooperSystem) show(line int, text string) {
	if err := s.board.ShowLine(line, text); err != nil {
		s.logger.Warnf("Failed to show line %d: %v", line, err)
	}
}
