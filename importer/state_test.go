package importer

import (
	"testing"
)

func TestStateTransitions(t *testing.T) {
	order := []State{StatePending, StateLoading, StateStaged, StateOptimized, StateMerged, StateCleaned, StateDone}
	for i := 0; i < len(order)-1; i++ {
		if !order[i].CanTransition(order[i+1]) {
			t.Fatalf("expected %v -> %v to be legal", order[i], order[i+1])
		}
	}
	// No skipping ahead.
	if StatePending.CanTransition(StateStaged) {
		t.Fatal("expected Pending -> Staged to be illegal")
	}
	// Failed is reachable from any non-terminal state.
	for _, s := range order[:len(order)-1] {
		if !s.CanTransition(StateFailed) {
			t.Fatalf("expected %v -> Failed to be legal", s)
		}
	}
	// Terminal states have no exits.
	if StateDone.CanTransition(StateFailed) || StateFailed.CanTransition(StateLoading) {
		t.Fatal("expected terminal states to have no transitions")
	}
}
