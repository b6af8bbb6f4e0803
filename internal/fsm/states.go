package fsm

import "github.com/librescoot/librefsm"

// Input modes
const (
	StatePlay    librefsm.StateID = "play"
	StateOptions librefsm.StateID = "options"
)

// Mode events
const (
	// Long hold of the menu button in play mode
	EvOptionsOpen librefsm.EventID = "options-open"
	// Exit button in options mode
	EvOptionsClose librefsm.EventID = "options-close"
	// Drop back to play from anywhere, e.g. on shutdown
	EvReset librefsm.EventID = "reset"
)
