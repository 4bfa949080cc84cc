// domain/user/user.domain.go
package user

// Principal is the authenticated user on whose behalf operations run.
// It is owned by the authentication subsystem and read-only here.
type Principal struct {
	ID    string
	Name  string
	Email string
}
