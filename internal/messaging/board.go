package messaging

import (
	"fmt"

	ipc "github.com/librescoot/redis-ipc"

	"loopdrum-service/internal/logger"
	"loopdrum-service/internal/types"
)

const DisplayLines = 2

// StatusBoard publishes the front panel state to a Redis hash. Every field
// change is announced on the hash's channel so a display process can follow.
//
// Fields: display:line1, display:line2, mode, loop:<n>, kit, audio.
type StatusBoard struct {
	client *ipc.Client
	pub    *ipc.HashPublisher
	logger *logger.Logger
}

func NewStatusBoard(host string, port int, hash string, l *logger.Logger) (*StatusBoard, error) {
	client, err := ipc.New(
		ipc.WithAddress(host),
		ipc.WithPort(port),
		ipc.WithLogger(l.Slog()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect status board: %w", err)
	}
	l.Infof("Publishing status board to hash %s", hash)
	return &StatusBoard{
		client: client,
		pub:    client.NewHashPublisher(hash),
		logger: l,
	}, nil
}

// ShowLine sets display line 1 or 2. Unchanged text is not republished,
// which keeps the metronome from flooding the channel.
func (b *StatusBoard) ShowLine(line int, text string) error {
	if line < 1 || line > DisplayLines {
		return fmt.Errorf("display line %d out of range", line)
	}
	_, err := b.pub.SetIfChanged(fmt.Sprintf("display:line%d", line), text)
	return err
}

func (b *StatusBoard) PublishMode(mode types.Mode) error {
	return b.pub.Set("mode", string(mode))
}

func (b *StatusBoard) PublishLoop(button int, active bool) error {
	if !types.IsLoopButton(button) {
		return fmt.Errorf("button %d is not a loop button", button)
	}
	return b.pub.Set(fmt.Sprintf("loop:%d", button), active)
}

func (b *StatusBoard) PublishKit(kit int) error {
	return b.pub.Set("kit", kit)
}

func (b *StatusBoard) PublishAudio(on bool) error {
	value := "off"
	if on {
		value = "on"
	}
	return b.pub.Set("audio", value)
}

func (b *StatusBoard) Close() error {
	return b.client.Close()
}
