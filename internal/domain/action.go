package domain

import "errors"

// ErrInvalidAction indicates an action value outside the known set.
var ErrInvalidAction = errors.New("invalid task action")

// Action identifies the kind of task mutation that occurred.
type Action string

// Known task mutation actions. Deletions do not produce notifications.
const (
	ActionCreated Action = "CREATED"
	ActionUpdated Action = "UPDATED"
)

// Validate checks that the action is one of the known values.
func (a Action) Validate() error {
	switch a {
	case ActionCreated, ActionUpdated:
		return nil
	default:
		return ErrInvalidAction
	}
}
