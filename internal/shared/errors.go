package shared

import "errors"

// Error categories shared across the domain packages. Module packages
// declare their own specific sentinels and handlers translate both into
// problem responses.
var (
	// ErrNotFound indicates a referenced entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrValidation indicates malformed or missing required input.
	ErrValidation = errors.New("invalid input")
	// ErrCrossCompany indicates a referenced entity belongs to another company.
	ErrCrossCompany = errors.New("entity belongs to another company")
	// ErrInvalidStatus indicates an operation illegal for the entity's lifecycle state.
	ErrInvalidStatus = errors.New("invalid status transition")
	// ErrInconsistentState indicates a broken internal expectation, not a caller mistake.
	ErrInconsistentState = errors.New("inconsistent ledger state")
)
