package camera

// State is the lifecycle position of a frame provider. Each provider
// instance owns its state; nothing is shared across instances.
type State int

const (
	StateUninitialized State = iota
	StateInitialized
	StateStreaming
	StateDeinitialized
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitialized:
		return "initialized"
	case StateStreaming:
		return "streaming"
	case StateDeinitialized:
		return "deinitialized"
	default:
		return "invalid"
	}
}
