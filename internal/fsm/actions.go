package fsm

import "github.com/librescoot/librefsm"

// Actions defines the interface for the input mode machine.
// The input interpreter implements it to reset the options menu and drive
// the display on mode changes.
type Actions interface {
	EnterPlay(c *librefsm.Context) error
	EnterOptions(c *librefsm.Context) error
	ExitOptions(c *librefsm.Context) error
}
