package types

// StatusKind enumerates the recording-state reports received from the
// audio engine. Anything the engine sends that is not listed here maps to
// StatusUnknown.
type StatusKind int

const (
	StatusUnknown StatusKind = iota
	StatusClearRec
	StatusStartRec
	StatusStartOverdub
	StatusStopRec
	StatusStopOverdub
	StatusWaitRec
	StatusMuteRec
)

var statusNames = map[string]StatusKind{
	"clear_rec":     StatusClearRec,
	"start_rec":     StatusStartRec,
	"start_overdub": StatusStartOverdub,
	"stop_rec":      StatusStopRec,
	"stop_overdub":  StatusStopOverdub,
	"wait_rec":      StatusWaitRec,
	"mute_rec":      StatusMuteRec,
}

func ParseStatusKind(name string) StatusKind {
	if k, ok := statusNames[name]; ok {
		return k
	}
	return StatusUnknown
}

// Arity is the number of integer arguments the status carries.
func (k StatusKind) Arity() int {
	switch k {
	case StatusUnknown:
		return 0
	case StatusMuteRec:
		return 2
	default:
		return 1
	}
}

// StatusEvent is one decoded status line.
type StatusEvent struct {
	Kind StatusKind
	Name string
	Args []int
}

// CounterEvent reports metronome progress within the current loop.
type CounterEvent struct {
	Beat  int
	Beats int
}
