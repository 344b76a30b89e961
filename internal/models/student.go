package models

import "time"

// GPA bounds. The upper bound matches the highest letter grade (S).
const (
	MinGPA = 0.0
	MaxGPA = 4.3
)

// Student is a learner registered with the institution. EnrolledCourses
// holds course codes in enrollment order without duplicates; it is the
// single source of truth for the enrollment relationship.
type Student struct {
	Person
	RegNo           string    `json:"reg_no"`
	EnrolledCourses []string  `json:"enrolled_courses"`
	GPA             float64   `json:"gpa"`
	EnrolledAt      time.Time `json:"enrolled_at"`
}

// HasCourse reports whether the student is enrolled in the course code.
func (s *Student) HasCourse(code string) bool {
	for _, c := range s.EnrolledCourses {
		if c == code {
			return true
		}
	}
	return false
}

// EnrollIn adds the course code to the enrolled set. Adding an already
// present code is a no-op, keeping the set duplicate-free.
func (s *Student) EnrollIn(code string) {
	if s.HasCourse(code) {
		return
	}
	s.EnrolledCourses = append(s.EnrolledCourses, code)
}

// UnenrollFrom removes the course code from the enrolled set.
func (s *Student) UnenrollFrom(code string) {
	for i, c := range s.EnrolledCourses {
		if c == code {
			s.EnrolledCourses = append(s.EnrolledCourses[:i], s.EnrolledCourses[i+1:]...)
			return
		}
	}
}

// Clone returns a copy whose enrolled-course slice is independent of
// the receiver, so repository snapshots stay isolated from callers.
func (s Student) Clone() Student {
	clone := s
	if s.EnrolledCourses != nil {
		clone.EnrolledCourses = make([]string, len(s.EnrolledCourses))
		copy(clone.EnrolledCourses, s.EnrolledCourses)
	}
	return clone
}
