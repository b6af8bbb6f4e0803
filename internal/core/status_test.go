package core

import (
	"strings"
	"testing"

	"loopdrum-service/internal/matrix"
	"loopdrum-service/internal/types"
)

type fixedMode types.Mode

func (m fixedMode) Mode() types.Mode { return types.Mode(m) }

func newTestStatusHandler(mode types.Mode) (*StatusHandler, *matrix.LEDBuffer, *mockStatusBoard) {
	leds := matrix.NewLEDBuffer()
	board := newMockStatusBoard()
	return NewStatusHandler(leds, board, fixedMode(mode), newTestLogger()), leds, board
}

func status(name string, args ...int) types.StatusEvent {
	return types.StatusEvent{Kind: types.ParseStatusKind(name), Name: name, Args: args}
}

func TestStatusColors(t *testing.T) {
	tests := []struct {
		ev     types.StatusEvent
		button int
		color  types.Color
	}{
		{status("start_rec", 1), 1, types.ColorRed},
		{status("start_overdub", 2), 2, types.ColorRed},
		{status("stop_rec", 3), 3, types.ColorGreen},
		{status("stop_overdub", 4), 4, types.ColorGreen},
		{status("wait_rec", 5), 5, types.ColorWhite},
		{status("mute_rec", 1, 6), 6, types.ColorBlue},
		{status("mute_rec", 0, 7), 7, types.ColorGreen},
	}

	for _, tt := range tests {
		h, leds, _ := newTestStatusHandler(types.ModePlay)
		if err := h.HandleStatus(tt.ev); err != nil {
			t.Errorf("%s: unexpected error: %v", tt.ev.Name, err)
			continue
		}
		if c := leds.Button(tt.button); c != tt.color {
			t.Errorf("%s: expected %v, got %v", tt.ev.Name, tt.color, c)
		}
	}
}

func TestClearRecTurnsOff(t *testing.T) {
	h, leds, _ := newTestStatusHandler(types.ModePlay)
	leds.SetButton(2, types.ColorRed)

	if err := h.HandleStatus(status("clear_rec", 2)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c := leds.Button(2); c != types.ColorOff {
		t.Errorf("expected off, got %v", c)
	}
}

func TestRecordingLines(t *testing.T) {
	h, _, board := newTestStatusHandler(types.ModePlay)

	h.HandleStatus(status("start_rec", 3))
	if board.line(1) != "Start rec: 3" {
		t.Errorf("unexpected line %q", board.line(1))
	}
	h.HandleStatus(status("start_overdub", 3))
	if board.line(1) != "Start odub: 3" {
		t.Errorf("unexpected line %q", board.line(1))
	}
	h.HandleStatus(status("stop_rec", 4))
	if board.line(1) != "Finished rec: 4" {
		t.Errorf("unexpected line %q", board.line(1))
	}
	h.HandleStatus(status("stop_overdub", 5))
	if board.line(1) != "Finished odub: 5" {
		t.Errorf("unexpected line %q", board.line(1))
	}
}

func TestUnknownStatusIsIgnored(t *testing.T) {
	h, leds, board := newTestStatusHandler(types.ModePlay)

	if err := h.HandleStatus(status("self_destruct", 1)); err != nil {
		t.Errorf("unknown status should not fail: %v", err)
	}
	for b := 1; b <= types.ButtonCount; b++ {
		if c := leds.Button(b); c != types.ColorOff {
			t.Errorf("button %d changed to %v", b, c)
		}
	}
	if len(board.shown) != 0 {
		t.Errorf("display changed: %v", board.shown)
	}
}

func TestMalformedStatusRejected(t *testing.T) {
	h, leds, _ := newTestStatusHandler(types.ModePlay)

	for _, ev := range []types.StatusEvent{
		status("start_rec"),
		status("mute_rec", 1),
		status("mute_rec", 2, 3),
		status("wait_rec", 17),
		status("clear_rec", 0),
	} {
		if err := h.HandleStatus(ev); err == nil {
			t.Errorf("%s %v: expected error", ev.Name, ev.Args)
		}
	}
	if c := leds.Button(3); c != types.ColorOff {
		t.Errorf("invalid mute flag must not touch LEDs, got %v", c)
	}
}

func TestMetronomeBar(t *testing.T) {
	tests := []struct {
		beat, beats, width int
	}{
		{0, 4, 4},
		{1, 4, 8},
		{3, 4, 16},
		{0, 8, 2},
		{7, 8, 16},
		{0, 2, 4}, // short loops use a four beat scale
		{2, 3, 12},
		{0, 16, 1},
		{9, 4, 16},
		{-1, 4, 0},
	}

	for _, tt := range tests {
		bar := MetronomeBar(tt.beat, tt.beats)
		if len(bar) != ScreenWidth {
			t.Errorf("%d/%d: bar length %d", tt.beat, tt.beats, len(bar))
		}
		if got := strings.Count(bar, metronomeFill); got != tt.width {
			t.Errorf("%d/%d: expected width %d, got %d", tt.beat, tt.beats, tt.width, got)
		}
	}
}

func TestCounterDrawsMetronome(t *testing.T) {
	h, _, board := newTestStatusHandler(types.ModePlay)

	if err := h.HandleCounter(types.CounterEvent{Beat: 1, Beats: 4}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if board.line(2) != "########        " {
		t.Errorf("unexpected bar %q", board.line(2))
	}
}

func TestCounterSuppressedInOptions(t *testing.T) {
	h, _, board := newTestStatusHandler(types.ModeOptions)

	if err := h.HandleCounter(types.CounterEvent{Beat: 1, Beats: 4}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(board.shown) != 0 {
		t.Errorf("metronome drawn over the menu: %v", board.shown)
	}
}
