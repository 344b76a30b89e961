package models

// Instructor teaches courses for a department. Assigned courses are
// not stored here; they are derived by querying the course catalog for
// courses whose InstructorID matches, so the two sides of the relation
// cannot diverge.
type Instructor struct {
	Person
	Department     string `json:"department"`
	Specialization string `json:"specialization,omitempty"`
}
