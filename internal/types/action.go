package types

import "fmt"

// ActionKind enumerates the commands sent to the audio engine.
type ActionKind int

const (
	ActionPress ActionKind = iota + 1
	ActionClearLoop
	ActionOverdub
	ActionSelectKit
	ActionAudioOn
	ActionAudioOff
	ActionClearAll
)

func (k ActionKind) String() string {
	switch k {
	case ActionPress:
		return "press"
	case ActionClearLoop:
		return "clear_loop"
	case ActionOverdub:
		return "overdub"
	case ActionSelectKit:
		return "select_kit"
	case ActionAudioOn:
		return "audio_on"
	case ActionAudioOff:
		return "audio_off"
	case ActionClearAll:
		return "clear_all"
	default:
		return fmt.Sprintf("action(%d)", int(k))
	}
}

// Action is one outward event. Button is set for press, clear_loop and
// overdub; Index carries the kit number for select_kit.
type Action struct {
	Kind   ActionKind
	Button int
	Index  int
}

func Press(button int) Action     { return Action{Kind: ActionPress, Button: button} }
func ClearLoop(button int) Action { return Action{Kind: ActionClearLoop, Button: button} }
func Overdub(button int) Action   { return Action{Kind: ActionOverdub, Button: button} }
func SelectKit(index int) Action  { return Action{Kind: ActionSelectKit, Index: index} }
func AudioOn() Action             { return Action{Kind: ActionAudioOn} }
func AudioOff() Action            { return Action{Kind: ActionAudioOff} }
func ClearAll() Action            { return Action{Kind: ActionClearAll} }

// String renders the action in the engine's message form, e.g. "press 3".
func (a Action) String() string {
	switch a.Kind {
	case ActionPress, ActionClearLoop, ActionOverdub:
		return fmt.Sprintf("%s %d", a.Kind, a.Button)
	case ActionSelectKit:
		return fmt.Sprintf("%s %d", a.Kind, a.Index)
	default:
		return a.Kind.String()
	}
}
