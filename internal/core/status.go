package core

import (
	"fmt"
	"math"
	"strings"

	"loopdrum-service/internal/logger"
	"loopdrum-service/internal/matrix"
	"loopdrum-service/internal/types"
)

const (
	ScreenWidth   = 16
	metronomeFill = "#"
	metronomeGap  = " "
	minBeats      = 4
)

// StatusHandler applies recording state reported by the audio engine to
// the LED buffer and the display. It runs on the engine listener goroutine.
type StatusHandler struct {
	leds   *matrix.LEDBuffer
	board  StatusBoard
	mode   ModeReader
	logger *logger.Logger
}

func NewStatusHandler(leds *matrix.LEDBuffer, board StatusBoard, mode ModeReader, l *logger.Logger) *StatusHandler {
	return &StatusHandler{
		leds:   leds,
		board:  board,
		mode:   mode,
		logger: l,
	}
}

func (h *StatusHandler) HandleStatus(ev types.StatusEvent) error {
	if len(ev.Args) < ev.Kind.Arity() {
		return fmt.Errorf("status %s needs %d arguments, got %d", ev.Name, ev.Kind.Arity(), len(ev.Args))
	}

	switch ev.Kind {
	case types.StatusClearRec:
		return h.leds.SetButton(ev.Args[0], types.ColorOff)

	case types.StatusStartRec, types.StatusStartOverdub:
		if err := h.leds.SetButton(ev.Args[0], types.ColorRed); err != nil {
			return err
		}
		return h.board.ShowLine(1, fmt.Sprintf("Start %s: %d", recordingLabel(ev.Kind), ev.Args[0]))

	case types.StatusStopRec, types.StatusStopOverdub:
		if err := h.leds.SetButton(ev.Args[0], types.ColorGreen); err != nil {
			return err
		}
		return h.board.ShowLine(1, fmt.Sprintf("Finished %s: %d", recordingLabel(ev.Kind), ev.Args[0]))

	case types.StatusWaitRec:
		return h.leds.SetButton(ev.Args[0], types.ColorWhite)

	case types.StatusMuteRec:
		switch ev.Args[0] {
		case 1:
			return h.leds.SetButton(ev.Args[1], types.ColorBlue)
		case 0:
			return h.leds.SetButton(ev.Args[1], types.ColorGreen)
		default:
			return fmt.Errorf("invalid mute flag %d", ev.Args[0])
		}

	default:
		h.logger.Warnf("Unknown status action %q, ignoring", ev.Name)
		return nil
	}
}

// HandleCounter draws the metronome bar unless the options menu owns the display.
func (h *StatusHandler) HandleCounter(ev types.CounterEvent) error {
	if h.mode.Mode() == types.ModeOptions {
		return nil
	}
	return h.board.ShowLine(2, MetronomeBar(ev.Beat, ev.Beats))
}

func recordingLabel(kind types.StatusKind) string {
	if kind == types.StatusStartRec || kind == types.StatusStopRec {
		return "rec"
	}
	return "odub"
}

// MetronomeBar renders beat (0-based) of beats as a bar ScreenWidth cells wide.
// Loops shorter than four beats are drawn on a four beat scale.
func MetronomeBar(beat, beats int) string {
	width := int(math.Floor(float64(ScreenWidth) / float64(max(beats, minBeats)) * float64(beat+1)))
	width = min(max(width, 0), ScreenWidth)
	return strings.Repeat(metronomeFill, width) + strings.Repeat(metronomeGap, ScreenWidth-width)
}
