// domain/errors/errors.domain.go
package errors

import "errors"

// Standard sentinel errors.
// These let adapters map backend failures onto one taxonomy the core
// understands (e.g. a GraphQL FORBIDDEN extension -> ErrUnauthorized),
// and let callers branch with errors.Is without string matching.

var (
	// Transport / backend errors
	ErrTransport    = errors.New("backend endpoint unreachable")
	ErrUnauthorized = errors.New("operation rejected for insufficient permission")
	ErrNotFound     = errors.New("resource not found")

	// Validation errors
	ErrInvalidInput        = errors.New("invalid input arguments")
	ErrUnknownRole         = errors.New("unknown membership role")
	ErrUnknownStatus       = errors.New("unknown attendance status")
	ErrUnknownSchoolSts    = errors.New("unknown school status")
	ErrDuplicateMembership = errors.New("user already has a membership in this school")

	// State errors
	ErrSuperseded    = errors.New("result superseded by a newer request")
	ErrSheetNotReady = errors.New("attendance sheet is not in a ready state")
)
