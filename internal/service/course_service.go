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

type courseRepository interface {
	Create(course models.Course) error
	FindByID(code string) (models.Course, bool)
	FindAll() []models.Course
	Update(course models.Course) error
	Delete(code string) error
	Exists(code string) bool
	FindByDepartment(department string) []models.Course
	FindBySemester(semester models.Semester) []models.Course
	FindByInstructor(instructorID string) []models.Course
	SearchByTitle(query string) []models.Course
	FilterByCredits(min, max int) []models.Course
	FilterActiveByDepartmentAndSemester(department string, semester models.Semester) []models.Course
}

type instructorReader interface {
	FindByID(id string) (models.Instructor, bool)
}

// CreateCourseRequest holds payload for adding catalog entries.
type CreateCourseRequest struct {
	Code         string `json:"code" validate:"required"`
	Title        string `json:"title" validate:"required"`
	Credits      int    `json:"credits" validate:"required,gt=0"`
	Semester     string `json:"semester" validate:"required"`
	Department   string `json:"department" validate:"required"`
	InstructorID string `json:"instructor_id"`
}

// UpdateCourseRequest holds payload for updating the mutable course
// fields. The code is the immutable key and absent on purpose.
type UpdateCourseRequest struct {
	Title      string `json:"title" validate:"required"`
	Credits    int    `json:"credits" validate:"required,gt=0"`
	Semester   string `json:"semester" validate:"required"`
	Department string `json:"department" validate:"required"`
}

// CourseService is the course catalog: repository access plus the
// department/semester/instructor/text queries and the instructor
// relation maintenance.
type CourseService struct {
	repo        courseRepository
	instructors instructorReader
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewCourseService constructs the course service.
func NewCourseService(repo courseRepository, instructors instructorReader, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{repo: repo, instructors: instructors, validator: validate, logger: logger}
}

// Create adds a course to the catalog.
func (s *CourseService) Create(ctx context.Context, req CreateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	semester, err := models.ParseSemester(req.Semester)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid semester")
	}
	if req.InstructorID != "" {
		if _, ok := s.instructors.FindByID(req.InstructorID); !ok {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "instructor not found")
		}
	}
	course := models.Course{
		Code:         req.Code,
		Title:        req.Title,
		Credits:      req.Credits,
		Semester:     semester,
		Department:   req.Department,
		InstructorID: req.InstructorID,
		Active:       true,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.repo.Create(course); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "course already exists with this code")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create course")
	}
	return &course, nil
}

// Get returns the course by code.
func (s *CourseService) Get(ctx context.Context, code string) (*models.Course, error) {
	course, ok := s.repo.FindByID(code)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
	}
	return &course, nil
}

// List returns a snapshot of the whole catalog.
func (s *CourseService) List(ctx context.Context) []models.Course {
	return s.repo.FindAll()
}

// Update modifies the mutable fields of an existing course.
func (s *CourseService) Update(ctx context.Context, code string, req UpdateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	semester, err := models.ParseSemester(req.Semester)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid semester")
	}
	course, ok := s.repo.FindByID(code)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
	}
	course.Title = req.Title
	course.Credits = req.Credits
	course.Semester = semester
	course.Department = req.Department
	if err := s.repo.Update(course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update course")
	}
	return &course, nil
}

// Delete removes the course from the catalog.
func (s *CourseService) Delete(ctx context.Context, code string) error {
	if err := s.repo.Delete(code); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete course")
	}
	return nil
}

// AssignInstructor sets the owning side of the instructor relation.
// The instructor's assigned-course list is derived from the catalog,
// so both sides stay consistent by construction.
func (s *CourseService) AssignInstructor(ctx context.Context, code, instructorID string) (*models.Course, error) {
	course, ok := s.repo.FindByID(code)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
	}
	if _, ok := s.instructors.FindByID(instructorID); !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "instructor not found")
	}
	course.InstructorID = instructorID
	if err := s.repo.Update(course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to assign instructor")
	}
	return &course, nil
}

// UnassignInstructor clears the course's instructor reference.
func (s *CourseService) UnassignInstructor(ctx context.Context, code string) (*models.Course, error) {
	course, ok := s.repo.FindByID(code)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
	}
	course.InstructorID = ""
	if err := s.repo.Update(course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to unassign instructor")
	}
	return &course, nil
}

// Deactivate marks the course inactive. Unlike student deactivation,
// a missing course code is an error here.
func (s *CourseService) Deactivate(ctx context.Context, code string) (*models.Course, error) {
	course, ok := s.repo.FindByID(code)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
	}
	course.Active = false
	if err := s.repo.Update(course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to deactivate course")
	}
	return &course, nil
}

// FindByDepartment matches the department case-insensitively.
func (s *CourseService) FindByDepartment(ctx context.Context, department string) []models.Course {
	return s.repo.FindByDepartment(department)
}

// FindBySemester returns courses running in the given semester.
func (s *CourseService) FindBySemester(ctx context.Context, semester models.Semester) []models.Course {
	return s.repo.FindBySemester(semester)
}

// FindByInstructor returns the courses assigned to an instructor.
func (s *CourseService) FindByInstructor(ctx context.Context, instructorID string) []models.Course {
	return s.repo.FindByInstructor(instructorID)
}

// SearchByTitle matches course titles case-insensitively by substring.
func (s *CourseService) SearchByTitle(ctx context.Context, query string) []models.Course {
	return s.repo.SearchByTitle(query)
}

// FilterByCredits returns courses within the inclusive credit range.
func (s *CourseService) FilterByCredits(ctx context.Context, min, max int) []models.Course {
	return s.repo.FilterByCredits(min, max)
}

// FilterActiveByDepartmentAndSemester composes the active, department
// and semester filters.
func (s *CourseService) FilterActiveByDepartmentAndSemester(ctx context.Context, department string, semester models.Semester) []models.Course {
	return s.repo.FilterActiveByDepartmentAndSemester(department, semester)
}
