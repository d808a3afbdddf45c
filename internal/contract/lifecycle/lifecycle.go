// Package lifecycle orders the contract workflow into an explicit state
// machine. States and events are closed sets and every legal transition sits
// in one table, so an invalid step is unrepresentable instead of being a
// stray string comparison.
package lifecycle

import "fmt"

type State string

const (
	// StateDraft: the contract exists only as an unsubmitted draft.
	StateDraft State = "draft"
	// StatePendingTenantSignature: created and sent, waiting for the
	// tenant to sign on their side.
	StatePendingTenantSignature State = "pending_signature"
	// StatePendingOwnerApproval: tenant has signed ("signed" on the wire),
	// waiting for the owner's counter-signature.
	StatePendingOwnerApproval State = "signed"
	// StateActive: fully executed.
	StateActive State = "active"
	// StateRejected is a terminal failure offshoot.
	StateRejected State = "rejected"
)

type Event string

const (
	// EventSubmit fires when the validator reports no errors and the
	// create request succeeded.
	EventSubmit Event = "submit"
	// EventTenantSigned is observed, not produced: the tenant-side signing
	// happens outside this engine.
	EventTenantSigned Event = "tenant_signed"
	// EventOwnerApproved fires when a non-blank owner signature was
	// captured and the approve request succeeded.
	EventOwnerApproved Event = "owner_approved"
	// EventReject terminates the workflow from any non-terminal state.
	EventReject Event = "reject"
)

var transitions = map[State]map[Event]State{
	StateDraft: {
		EventSubmit: StatePendingTenantSignature,
		EventReject: StateRejected,
	},
	StatePendingTenantSignature: {
		EventTenantSigned: StatePendingOwnerApproval,
		EventReject:       StateRejected,
	},
	StatePendingOwnerApproval: {
		EventOwnerApproved: StateActive,
		EventReject:        StateRejected,
	},
}

// Next returns the state reached by applying event e in state s. The caller
// persists the new state only after the side effect backing the event
// succeeded; on any store failure the state simply is not advanced.
func Next(s State, e Event) (State, error) {
	if targets, ok := transitions[s]; ok {
		if next, ok := targets[e]; ok {
			return next, nil
		}
	}
	return s, &TransitionError{From: s, Event: e}
}

// Can reports whether event e is legal in state s.
func Can(s State, e Event) bool {
	_, err := Next(s, e)
	return err == nil
}

// Terminal reports whether no event can leave state s.
func Terminal(s State) bool {
	targets, ok := transitions[s]
	return !ok || len(targets) == 0
}

type TransitionError struct {
	From  State
	Event Event
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("transition %q is not allowed from state %q", e.Event, e.From)
}

// Parse validates a wire status against the closed state set.
func Parse(raw string) (State, error) {
	switch State(raw) {
	case StateDraft, StatePendingTenantSignature, StatePendingOwnerApproval, StateActive, StateRejected:
		return State(raw), nil
	}
	return "", fmt.Errorf("unknown contract state %q", raw)
}
