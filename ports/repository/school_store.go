// ports/repository/school_store.go
package repository

import (
	"context"

	"github.com/vuthysan/school-management-system-sub000/domain/school"
)

// PendingSchools is the result of the best-effort pending-schools query.
// Unauthorized is an explicit variant, distinct from an empty list, so
// callers can choose between surfacing a hint and omitting the section.
type PendingSchools struct {
	Schools      []school.School
	Unauthorized bool
}

// SchoolStore resolves schools through the backend.
type SchoolStore interface {
	// SchoolByID returns domain/errors.ErrNotFound (wrapped) when the
	// identifier no longer resolves.
	SchoolByID(ctx context.Context, id string) (*school.School, error)

	// PendingSchools is permission-gated on the backend. Implementations
	// translate an authorization rejection into the Unauthorized variant
	// rather than an error; transport failures are still errors.
	PendingSchools(ctx context.Context) (PendingSchools, error)
}
