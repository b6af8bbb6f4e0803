package core

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/librescoot/librefsm"

	"loopdrum-service/internal/fsm"
	"loopdrum-service/internal/logger"
	"loopdrum-service/internal/matrix"
	"loopdrum-service/internal/types"
)

const (
	DrumpadColor = types.ColorCyan

	ReadyLine   = "Ready to play!"
	OptionsLine = "Options"
	MenuHint    = "Use but 14/15/16"
)

var menuHintColors = map[int]types.Color{
	NextOptionButton:  types.ColorYellow,
	ApplyOptionButton: types.ColorGreen,
	ExitOptionsButton: types.ColorRed,
}

// Timing holds the gesture thresholds
type Timing struct {
	DoubleTap   time.Duration // two presses closer than this clear a loop
	OverdubHold time.Duration // an active loop held this long overdubs
	OptionsHold time.Duration // button 13 held this long opens the menu
}

func DefaultTiming() Timing {
	return Timing{
		DoubleTap:   200 * time.Millisecond,
		OverdubHold: 200 * time.Millisecond,
		OptionsHold: 500 * time.Millisecond,
	}
}

// Interpreter turns debounced presses and releases into looper actions.
// All loop and menu state is owned by the goroutine calling Poll; the mode
// machine's callbacks run while that goroutine waits in SendSync.
type Interpreter struct {
	dispatcher *matrix.Dispatcher
	leds       *matrix.LEDBuffer
	sink       ActionSink
	board      StatusBoard
	logger     *logger.Logger
	timing     Timing
	menu       *Menu
	machine    *librefsm.Machine

	initLoop      bool
	active        [types.LastLoopButton + 1]bool
	pressTime     [types.ButtonCount + 1]time.Time
	prevPressTime [types.ButtonCount + 1]time.Time

	optionsOpen atomic.Bool
}

// Ensure Interpreter implements fsm.Actions
var _ fsm.Actions = (*Interpreter)(nil)

func NewInterpreter(dispatcher *matrix.Dispatcher, leds *matrix.LEDBuffer, sink ActionSink, board StatusBoard, timing Timing, totalKits int, l *logger.Logger) (*Interpreter, error) {
	i := &Interpreter{
		dispatcher: dispatcher,
		leds:       leds,
		sink:       sink,
		board:      board,
		logger:     l,
		timing:     timing,
		menu:       NewMenu(totalKits),
		initLoop:   true,
	}

	machine, err := fsm.NewDefinition(i).Build(librefsm.WithLogger(l.Slog()))
	if err != nil {
		return nil, fmt.Errorf("failed to build mode machine: %w", err)
	}
	i.machine = machine
	return i, nil
}

// Start enters play mode. It must be called before Poll or Run.
func (i *Interpreter) Start(ctx context.Context) error {
	return i.machine.Start(ctx)
}

func (i *Interpreter) Stop() {
	i.machine.Stop()
}

// Run polls the dispatcher until ctx is cancelled, then leaves the menu.
func (i *Interpreter) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			i.reset()
			return
		case <-i.dispatcher.Ready():
			i.Poll(time.Now())
		}
	}
}

// Poll consumes every pending transition, stamping them with now.
func (i *Interpreter) Poll(now time.Time) int {
	return i.dispatcher.Drain(func(t matrix.Transition) {
		button := t.Cell.Button()
		switch t.Edge {
		case matrix.EdgePress:
			i.HandlePress(button, now)
		case matrix.EdgeRelease:
			i.HandleRelease(button, now)
		}
	})
}

func (i *Interpreter) Mode() types.Mode {
	if i.optionsOpen.Load() {
		return types.ModeOptions
	}
	return types.ModePlay
}

// Active reports whether a loop button holds a recorded loop.
func (i *Interpreter) Active(button int) bool {
	if !types.IsLoopButton(button) {
		return false
	}
	return i.active[button]
}

// InitLoop reports whether the first loop is still to be recorded.
func (i *Interpreter) InitLoop() bool {
	return i.initLoop
}

func (i *Interpreter) Menu() *Menu {
	return i.menu
}

func (i *Interpreter) HandlePress(button int, now time.Time) {
	if !types.ValidButton(button) {
		return
	}
	if i.optionsOpen.Load() {
		i.handleMenuPress(button)
		return
	}

	i.pressTime[button] = now

	// Active loops wait for the release to tell a tap from a hold
	if types.IsDrumpadButton(button) || !i.active[button] {
		i.send(types.Press(button))
	}

	if !i.initLoop && types.IsLoopButton(button) && !i.prevPressTime[button].IsZero() &&
		now.Sub(i.prevPressTime[button]) < i.timing.DoubleTap {
		i.send(types.ClearLoop(button))
		i.setActive(button, false)
	}

	i.prevPressTime[button] = now
}

func (i *Interpreter) HandleRelease(button int, now time.Time) {
	if !types.ValidButton(button) || i.optionsOpen.Load() {
		return
	}
	pressed := i.pressTime[button]
	if pressed.IsZero() {
		// the press was consumed by the menu
		return
	}
	held := now.Sub(pressed)
	i.pressTime[button] = time.Time{}

	if types.IsLoopButton(button) {
		if i.active[button] {
			if held >= i.timing.OverdubHold {
				i.send(types.Overdub(button))
			} else {
				i.send(types.Press(button))
			}
		}
		if i.initLoop {
			i.initLoop = false
		} else {
			i.setActive(button, true)
		}
	}

	if button == OptionsButton && held >= i.timing.OptionsHold {
		i.logger.Infof("Button %d held for %v, opening options", button, held)
		if err := i.machine.SendSync(librefsm.Event{ID: fsm.EvOptionsOpen}); err != nil {
			i.logger.Errorf("Failed to open options: %v", err)
		}
	}
}

func (i *Interpreter) handleMenuPress(button int) {
	switch button {
	case NextOptionButton:
		i.menu.Next()
		i.show(2, i.menu.Line())
	case ApplyOptionButton:
		action := i.menu.Apply()
		i.send(action)
		switch action.Kind {
		case types.ActionSelectKit:
			i.publish("kit", i.board.PublishKit(action.Index))
		case types.ActionAudioOn, types.ActionAudioOff:
			i.publish("audio", i.board.PublishAudio(action.Kind == types.ActionAudioOn))
		case types.ActionClearAll:
			i.resetLoops()
		}
		i.show(2, i.menu.Line())
	case ExitOptionsButton:
		if err := i.machine.SendSync(librefsm.Event{ID: fsm.EvOptionsClose}); err != nil {
			i.logger.Errorf("Failed to close options: %v", err)
		}
	default:
		i.show(1, MenuHint)
		i.show(2, i.menu.Line())
	}
}

// resetLoops forgets every recorded loop, as after clear_all.
func (i *Interpreter) resetLoops() {
	i.initLoop = true
	for b := types.FirstLoopButton; b <= types.LastLoopButton; b++ {
		i.setActive(b, false)
		if err := i.leds.SetButton(b, types.ColorOff); err != nil {
			i.logger.Warnf("Failed to clear LED %d: %v", b, err)
		}
	}
}

func (i *Interpreter) reset() {
	if err := i.machine.SendSync(librefsm.Event{ID: fsm.EvReset}); err != nil {
		i.logger.Warnf("Failed to reset mode: %v", err)
	}
}

func (i *Interpreter) setActive(button int, active bool) {
	if i.active[button] == active {
		return
	}
	i.active[button] = active
	i.publish("loop", i.board.PublishLoop(button, active))
}

func (i *Interpreter) send(action types.Action) {
	i.logger.Infof("Action: %s", action)
	if err := i.sink.SendAction(action); err != nil {
		i.logger.Warnf("Failed to send %s: %v", action, err)
	}
}

func (i *Interpreter) show(line int, text string) {
	if err := i.board.ShowLine(line, text); err != nil {
		i.logger.Warnf("Failed to show line %d: %v", line, err)
	}
}

func (i *Interpreter) publish(what string, err error) {
	if err != nil {
		i.logger.Warnf("Failed to publish %s: %v", what, err)
	}
}

// EnterPlay runs on the machine goroutine. Entering play mode from the
// initial transition only publishes the mode.
func (i *Interpreter) EnterPlay(c *librefsm.Context) error {
	i.optionsOpen.Store(false)
	i.menu.Reset()
	i.publish("mode", i.board.PublishMode(types.ModePlay))
	if c.FromState != "" {
		i.show(1, ReadyLine)
	}
	return nil
}

func (i *Interpreter) EnterOptions(c *librefsm.Context) error {
	i.menu.Reset()
	i.optionsOpen.Store(true)
	i.publish("mode", i.board.PublishMode(types.ModeOptions))
	i.show(1, OptionsLine)
	i.show(2, i.menu.Line())
	for button, color := range menuHintColors {
		if err := i.leds.SetButton(button, color); err != nil {
			return err
		}
	}
	return nil
}

func (i *Interpreter) ExitOptions(c *librefsm.Context) error {
	for button := range menuHintColors {
		if err := i.leds.SetButton(button, DrumpadColor); err != nil {
			return err
		}
	}
	for b := range i.pressTime {
		i.pressTime[b] = time.Time{}
	}
	i.show(2, "")
	return nil
}
