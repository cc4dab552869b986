package models

import "errors"

// Sentinel errors surfaced by the sandbox and request validation.
var (
	// ErrNotFound covers missing products and orders.
	ErrNotFound = errors.New("not found")
	// ErrInsufficientStock is returned by order creation when any line
	// item's requested quantity exceeds what is on hand. No state is
	// mutated when this is returned.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrInvalidDiscountCode is returned for codes outside the approved list.
	ErrInvalidDiscountCode = errors.New("invalid discount code")
	// ErrDiscountApplied is returned when an order already carries a
	// discount code. One order, one code.
	ErrDiscountApplied = errors.New("discount already applied")
	// ErrUnknownTool is returned when an agent calls a tool no handler
	// is registered for.
	ErrUnknownTool = errors.New("unknown tool")

	// ErrScenarioNotFound is fatal at request-validation time.
	ErrScenarioNotFound = errors.New("scenario not found")
	// ErrUnknownModel is fatal at request-validation time.
	ErrUnknownModel = errors.New("unknown model")
)

// ErrorKind categorizes a fatal per-trial failure.
type ErrorKind string

const (
	// ErrAgent covers network/auth/rate-limit failures from the agent
	// collaborator. Fatal to the trial, never to the batch.
	ErrAgent ErrorKind = "agent_error"
	// ErrInternal is the catch-all for unexpected driver failures.
	ErrInternal ErrorKind = "internal_error"
)

// TrialError records why a trial aborted. Tool sandbox failures are not
// trial errors; they flow back to the agent as tool results.
type TrialError struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}
