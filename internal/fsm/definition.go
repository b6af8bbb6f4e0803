package fsm

import "github.com/librescoot/librefsm"

// NewDefinition creates the input mode FSM definition.
func NewDefinition(actions Actions) *librefsm.Definition {
	return librefsm.NewDefinition().
		State(StatePlay,
			librefsm.WithOnEnter(actions.EnterPlay),
		).
		State(StateOptions,
			librefsm.WithOnEnter(actions.EnterOptions),
			librefsm.WithOnExit(actions.ExitOptions),
		).
		Transition(StatePlay, EvOptionsOpen, StateOptions).
		Transition(StateOptions, EvOptionsClose, StatePlay).
		Transition(StateOptions, EvReset, StatePlay).
		Initial(StatePlay)
}
