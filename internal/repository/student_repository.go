package repository

import (
	"strings"

	"github.com/edu-ccrm/ccrm-api/internal/models"
)

// StudentRepository stores students keyed by their id.
type StudentRepository struct {
	*Store[models.Student]
}

// NewStudentRepository constructs an empty student repository.
func NewStudentRepository() *StudentRepository {
	return &StudentRepository{
		Store: NewStore[models.Student](
			func(s models.Student) string { return s.ID },
			models.Student.Clone,
		),
	}
}

// FindByEnrolledCourseCode returns students whose enrolled set
// contains the course code.
func (r *StudentRepository) FindByEnrolledCourseCode(code string) []models.Student {
	var out []models.Student
	for _, s := range r.FindAll() {
		if s.HasCourse(code) {
			out = append(out, s)
		}
	}
	return out
}

// FindByGPAGreaterThan returns students with a GPA strictly above the
// threshold.
func (r *StudentRepository) FindByGPAGreaterThan(gpa float64) []models.Student {
	var out []models.Student
	for _, s := range r.FindAll() {
		if s.GPA > gpa {
			out = append(out, s)
		}
	}
	return out
}

// SearchByName matches the full name case-insensitively by substring.
func (r *StudentRepository) SearchByName(query string) []models.Student {
	q := strings.ToLower(query)
	var out []models.Student
	for _, s := range r.FindAll() {
		if strings.Contains(strings.ToLower(s.FullName), q) {
			out = append(out, s)
		}
	}
	return out
}
