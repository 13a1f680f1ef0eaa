package bridge

// State is the lifecycle controller's position in the load/unload protocol.
type State int32

const (
	StateUnloaded State = iota
	StateInitializing
	StateReady
	StateShuttingDown
)

func (s State) String() string {
	switch s {
	case StateUnloaded:
		return "unloaded"
	case StateInitializing:
		return "initializing"
	case StateReady:
		return "ready"
	case StateShuttingDown:
		return "shutting_down"
	}
	return "unknown"
}
