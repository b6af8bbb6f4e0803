package core

import (
	"fmt"

	"loopdrum-service/internal/types"
)

// Buttons with a fixed role while the options menu is open
const (
	OptionsButton     = 13 // long press in play mode opens the menu
	NextOptionButton  = 14
	ApplyOptionButton = 15
	ExitOptionsButton = 16
)

type option int

const (
	optionSelectKit option = iota
	optionToggleSound
	optionClearAll
	optionCount
)

var optionNames = [optionCount]string{
	optionSelectKit:   "select_kit",
	optionToggleSound: "toggle_sound",
	optionClearAll:    "clear_all",
}

// Menu holds the options menu cursor and the value of every option.
// clear_all has no persistent value: it reads 1 after being applied until
// the menu is reset.
type Menu struct {
	index     int
	values    [optionCount]int
	totalKits int
}

func NewMenu(totalKits int) *Menu {
	if totalKits < 1 {
		totalKits = 1
	}
	m := &Menu{totalKits: totalKits}
	m.values[optionSelectKit] = 1
	m.values[optionToggleSound] = 1
	return m
}

// Reset moves the cursor back to the first option and clears apply-only values.
func (m *Menu) Reset() {
	m.index = 0
	m.values[optionClearAll] = 0
}

// Next advances the cursor, wrapping after the last option.
func (m *Menu) Next() {
	m.index = (m.index + 1) % int(optionCount)
}

func (m *Menu) Index() int {
	return m.index
}

func (m *Menu) Len() int {
	return int(optionCount)
}

func (m *Menu) Name() string {
	return optionNames[m.index]
}

func (m *Menu) Value() int {
	return m.values[m.index]
}

func (m *Menu) Kit() int {
	return m.values[optionSelectKit]
}

func (m *Menu) AudioOn() bool {
	return m.values[optionToggleSound] == 1
}

// Line renders the current option for the display, e.g. "select_kit:2".
func (m *Menu) Line() string {
	return fmt.Sprintf("%s:%d", m.Name(), m.Value())
}

// Apply updates the current option's value and returns the action it triggers.
func (m *Menu) Apply() types.Action {
	switch option(m.index) {
	case optionSelectKit:
		if m.values[optionSelectKit] >= m.totalKits {
			m.values[optionSelectKit] = 1
		} else {
			m.values[optionSelectKit]++
		}
		return types.SelectKit(m.values[optionSelectKit])
	case optionToggleSound:
		m.values[optionToggleSound] ^= 1
		if m.values[optionToggleSound] == 1 {
			return types.AudioOn()
		}
		return types.AudioOff()
	default:
		m.values[optionClearAll] = 1
		return types.ClearAll()
	}
}
