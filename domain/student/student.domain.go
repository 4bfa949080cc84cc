// domain/student/student.domain.go
package student

// Student is a roster entry for a class. Owned by the external
// student-management collaborator; read-only here.
type Student struct {
	ID       string
	FullName string
	PhotoURL string
	Code     string // external student code, e.g. "STU-0042"
}
