package repository

import "github.com/edu-ccrm/ccrm-api/internal/models"

// InstructorRepository stores instructors keyed by their id.
type InstructorRepository struct {
	*Store[models.Instructor]
}

// NewInstructorRepository constructs an empty instructor repository.
func NewInstructorRepository() *InstructorRepository {
	return &InstructorRepository{
		Store: NewStore[models.Instructor](
			func(i models.Instructor) string { return i.ID },
			nil,
		),
	}
}
