package core

import (
	"loopdrum-service/internal/matrix"
	"loopdrum-service/internal/messaging"
	"loopdrum-service/internal/types"
)

// ActionSink receives the outward actions produced by the interpreter
type ActionSink interface {
	SendAction(action types.Action) error
}

// EngineClient defines the audio engine transport needed by LooperSystem
type EngineClient interface {
	ActionSink
	SetCallbacks(callbacks messaging.Callbacks)
	Connect() error
	StartListening() error
	Close() error
}

// StatusBoard is the display and state feed read by the front panel
type StatusBoard interface {
	ShowLine(line int, text string) error
	PublishMode(mode types.Mode) error
	PublishLoop(button int, active bool) error
	PublishKit(kit int) error
	PublishAudio(on bool) error
	Close() error
}

// ModeReader reports the current interpretation mode. Safe to call from
// any goroutine.
type ModeReader interface {
	Mode() types.Mode
}

// HardwareIO defines the matrix line operations needed by LooperSystem
type HardwareIO interface {
	matrix.Lines
	Initialize() error
	Cleanup()
}
