package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/edu-ccrm/ccrm-api/internal/models"
	"github.com/edu-ccrm/ccrm-api/internal/repository"
	appErrors "github.com/edu-ccrm/ccrm-api/pkg/errors"
)

type instructorRepository interface {
	Create(instructor models.Instructor) error
	FindByID(id string) (models.Instructor, bool)
	FindAll() []models.Instructor
	Update(instructor models.Instructor) error
	Delete(id string) error
	Exists(id string) bool
}

type instructorCourseCatalog interface {
	FindByInstructor(instructorID string) []models.Course
	Update(course models.Course) error
}

// CreateInstructorRequest holds payload for registering instructors.
type CreateInstructorRequest struct {
	ID             string `json:"id" validate:"required"`
	FullName       string `json:"full_name" validate:"required"`
	Email          string `json:"email" validate:"required,email"`
	Department     string `json:"department" validate:"required"`
	Specialization string `json:"specialization"`
}

// UpdateInstructorRequest holds payload for updating instructors.
type UpdateInstructorRequest struct {
	FullName       string `json:"full_name" validate:"required"`
	Email          string `json:"email" validate:"required,email"`
	Department     string `json:"department" validate:"required"`
	Specialization string `json:"specialization"`
	Active         bool   `json:"active"`
}

// InstructorService manages the instructor roster. Assigned courses
// are always answered from the catalog, never cached here.
type InstructorService struct {
	repo      instructorRepository
	catalog   instructorCourseCatalog
	validator *validator.Validate
	logger    *zap.Logger
}

// NewInstructorService constructs the instructor service.
func NewInstructorService(repo instructorRepository, catalog instructorCourseCatalog, validate *validator.Validate, logger *zap.Logger) *InstructorService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InstructorService{repo: repo, catalog: catalog, validator: validate, logger: logger}
}

// Create registers a new instructor.
func (s *InstructorService) Create(ctx context.Context, req CreateInstructorRequest) (*models.Instructor, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid instructor payload")
	}
	instructor := models.Instructor{
		Person: models.Person{
			ID:        req.ID,
			FullName:  req.FullName,
			Email:     req.Email,
			Role:      models.RoleInstructor,
			Active:    true,
			CreatedAt: time.Now().UTC(),
		},
		Department:     req.Department,
		Specialization: req.Specialization,
	}
	if err := s.repo.Create(instructor); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "instructor already exists with this id")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create instructor")
	}
	return &instructor, nil
}

// Get returns the instructor by id.
func (s *InstructorService) Get(ctx context.Context, id string) (*models.Instructor, error) {
	instructor, ok := s.repo.FindByID(id)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "instructor not found")
	}
	return &instructor, nil
}

// List returns a snapshot of all instructors.
func (s *InstructorService) List(ctx context.Context) []models.Instructor {
	return s.repo.FindAll()
}

// Update modifies the mutable fields of an existing instructor.
func (s *InstructorService) Update(ctx context.Context, id string, req UpdateInstructorRequest) (*models.Instructor, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid instructor payload")
	}
	instructor, ok := s.repo.FindByID(id)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "instructor not found")
	}
	instructor.FullName = req.FullName
	instructor.Email = req.Email
	instructor.Department = req.Department
	instructor.Specialization = req.Specialization
	instructor.Active = req.Active
	if err := s.repo.Update(instructor); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update instructor")
	}
	return &instructor, nil
}

// Delete removes the instructor and clears the instructor reference on
// every course still assigned to them, keeping the relation consistent.
func (s *InstructorService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return appErrors.Clone(appErrors.ErrNotFound, "instructor not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete instructor")
	}
	for _, course := range s.catalog.FindByInstructor(id) {
		course.InstructorID = ""
		if err := s.catalog.Update(course); err != nil {
			s.logger.Warn("failed to unassign deleted instructor", zap.String("course", course.Code), zap.Error(err))
		}
	}
	return nil
}

// AssignedCourses returns the courses currently assigned to the
// instructor, derived from the catalog.
func (s *InstructorService) AssignedCourses(ctx context.Context, id string) ([]models.Course, error) {
	if !s.repo.Exists(id) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "instructor not found")
	}
	return s.catalog.FindByInstructor(id), nil
}
