package messaging

import (
	"fmt"
	"strconv"
	"strings"

	"loopdrum-service/internal/types"
)

const (
	fieldSeparator = "|"
	tagStatus      = "status"
	tagCounter     = "counter"
)

// EngineMessage is one decoded line from the audio engine. Exactly one of
// Status and Counter is set.
type EngineMessage struct {
	Status  *types.StatusEvent
	Counter *types.CounterEvent
}

// ParseEngineLine decodes "status|<action>|<int>...|" and
// "counter|<beat>|<beats>|". The trailing separator and newline are optional.
// Unknown status actions decode to StatusUnknown rather than an error.
func ParseEngineLine(line string) (EngineMessage, error) {
	line = strings.TrimRight(line, "\r\n")
	line = strings.TrimSuffix(line, fieldSeparator)
	fields := strings.Split(line, fieldSeparator)

	switch fields[0] {
	case tagStatus:
		if len(fields) < 2 || fields[1] == "" {
			return EngineMessage{}, fmt.Errorf("status line without action: %q", line)
		}
		args, err := parseInts(fields[2:])
		if err != nil {
			return EngineMessage{}, fmt.Errorf("status %s: %w", fields[1], err)
		}
		return EngineMessage{Status: &types.StatusEvent{
			Kind: types.ParseStatusKind(fields[1]),
			Name: fields[1],
			Args: args,
		}}, nil

	case tagCounter:
		if len(fields) != 3 {
			return EngineMessage{}, fmt.Errorf("counter line needs beat and beats: %q", line)
		}
		args, err := parseInts(fields[1:])
		if err != nil {
			return EngineMessage{}, fmt.Errorf("counter: %w", err)
		}
		return EngineMessage{Counter: &types.CounterEvent{Beat: args[0], Beats: args[1]}}, nil

	default:
		return EngineMessage{}, fmt.Errorf("unknown engine message %q", line)
	}
}

func parseInts(fields []string) ([]int, error) {
	out := make([]int, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, fmt.Errorf("invalid integer %q", f)
		}
		out = append(out, v)
	}
	return out, nil
}
