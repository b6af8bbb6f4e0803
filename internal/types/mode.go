package types

type Mode string

const (
	ModePlay    Mode = "play"
	ModeOptions Mode = "options"
)
