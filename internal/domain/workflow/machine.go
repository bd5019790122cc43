package workflow

import "context"

// StateMachine tracks the current state of one submission and validates transitions
type StateMachine interface {
	// State returns the current state
	State() State

	// History returns every state entered so far, starting with the initial one
	History() []State

	// CanFire returns true if the trigger is configured for the current state
	CanFire(trigger Trigger) bool

	// Fire executes the trigger, moving to the new state if allowed
	Fire(ctx context.Context, trigger Trigger) error
}
