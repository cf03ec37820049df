package importer

// State is the lifecycle position of one table mapper within a run.
type State string

const (
	StatePending   State = "Pending"
	StateLoading   State = "Loading"
	StateStaged    State = "Staged"
	StateOptimized State = "Optimized"
	StateMerged    State = "Merged"
	StateCleaned   State = "Cleaned"
	StateDone      State = "Done"
	StateFailed    State = "Failed"
)

// validTransitions holds the forward edges of the mapper state machine.
// Failed is reachable from any non-terminal state and is handled separately.
var validTransitions = map[State]State{
	StatePending:   StateLoading,
	StateLoading:   StateStaged,
	StateStaged:    StateOptimized,
	StateOptimized: StateMerged,
	StateMerged:    StateCleaned,
	StateCleaned:   StateDone,
}

// IsTerminal reports whether no further transitions are possible.
func (s State) IsTerminal() bool {
	return s == StateDone || s == StateFailed
}

// CanTransition reports whether moving from s to next is legal.
func (s State) CanTransition(next State) bool {
	if s.IsTerminal() {
		return false
	}
	if next == StateFailed {
		return true
	}
	return validTransitions[s] == next
}
