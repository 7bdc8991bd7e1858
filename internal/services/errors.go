package services

import "errors"

// Sentinel errors returned by the placement services. Handlers translate
// these into HTTP status codes; anything else is a 500.
var (
	// ErrNotFound: job, application or account does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists: duplicate application or duplicate account email.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidState: a status transition was attempted from a state that
	// does not allow it.
	ErrInvalidState = errors.New("invalid state")

	// ErrExclusivity: the student is already confirmed on an Exclusive-policy
	// job and may not apply elsewhere.
	ErrExclusivity = errors.New("already placed under an exclusive offer")

	// ErrUnauthorized: actor lacks the role or ownership for the action.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrExternalService: the scoring oracle was unreachable or returned
	// output we could not parse. Never surfaced from apply/withdraw/offer
	// flows; those degrade to a zero score instead.
	ErrExternalService = errors.New("external service failure")
)
