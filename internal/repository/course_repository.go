package repository

import (
	"strings"

	"github.com/edu-ccrm/ccrm-api/internal/models"
)

// CourseRepository stores courses keyed by their code.
type CourseRepository struct {
	*Store[models.Course]
}

// NewCourseRepository constructs an empty course catalog.
func NewCourseRepository() *CourseRepository {
	return &CourseRepository{
		Store: NewStore[models.Course](
			func(c models.Course) string { return c.Code },
			nil,
		),
	}
}

// FindByDepartment matches the department case-insensitively.
func (r *CourseRepository) FindByDepartment(department string) []models.Course {
	var out []models.Course
	for _, c := range r.FindAll() {
		if strings.EqualFold(c.Department, department) {
			out = append(out, c)
		}
	}
	return out
}

// FindBySemester returns courses running in the given semester.
func (r *CourseRepository) FindBySemester(semester models.Semester) []models.Course {
	var out []models.Course
	for _, c := range r.FindAll() {
		if c.Semester == semester {
			out = append(out, c)
		}
	}
	return out
}

// FindByInstructor returns courses assigned to the instructor id.
func (r *CourseRepository) FindByInstructor(instructorID string) []models.Course {
	var out []models.Course
	for _, c := range r.FindAll() {
		if c.InstructorID != "" && c.InstructorID == instructorID {
			out = append(out, c)
		}
	}
	return out
}

// SearchByTitle matches the title case-insensitively by substring.
func (r *CourseRepository) SearchByTitle(query string) []models.Course {
	q := strings.ToLower(query)
	var out []models.Course
	for _, c := range r.FindAll() {
		if strings.Contains(strings.ToLower(c.Title), q) {
			out = append(out, c)
		}
	}
	return out
}

// FilterByCredits returns courses whose credit count lies in the
// inclusive [min, max] range.
func (r *CourseRepository) FilterByCredits(min, max int) []models.Course {
	var out []models.Course
	for _, c := range r.FindAll() {
		if c.Credits >= min && c.Credits <= max {
			out = append(out, c)
		}
	}
	return out
}

// FilterActiveByDepartmentAndSemester composes the active, department
// and semester filters.
func (r *CourseRepository) FilterActiveByDepartmentAndSemester(department string, semester models.Semester) []models.Course {
	var out []models.Course
	for _, c := range r.FindAll() {
		if c.Active && strings.EqualFold(c.Department, department) && c.Semester == semester {
			out = append(out, c)
		}
	}
	return out
}
