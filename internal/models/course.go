package models

import (
	"fmt"
	"time"
)

// Semester identifies the term a course runs in.
type Semester string

// Semester tokens. Import rows must match these exactly.
const (
	SemesterSpring Semester = "SPRING"
	SemesterSummer Semester = "SUMMER"
	SemesterFall   Semester = "FALL"
)

// Valid reports whether the semester is one of the three known terms.
func (s Semester) Valid() bool {
	switch s {
	case SemesterSpring, SemesterSummer, SemesterFall:
		return true
	}
	return false
}

// ParseSemester converts a raw token into a Semester. The match is
// exact; lowercase or mixed-case tokens are rejected.
func ParseSemester(raw string) (Semester, error) {
	s := Semester(raw)
	if !s.Valid() {
		return "", fmt.Errorf("unknown semester token %q", raw)
	}
	return s, nil
}

// Course is an offering in the catalog, keyed by its immutable code.
// InstructorID is the owning side of the instructor relation; an empty
// value means no instructor is assigned.
type Course struct {
	Code         string    `json:"code"`
	Title        string    `json:"title"`
	Credits      int       `json:"credits"`
	Semester     Semester  `json:"semester"`
	Department   string    `json:"department"`
	InstructorID string    `json:"instructor_id,omitempty"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
}
