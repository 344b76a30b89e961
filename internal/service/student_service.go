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

type studentRepository interface {
	Create(student models.Student) error
	FindByID(id string) (models.Student, bool)
	FindAll() []models.Student
	Update(student models.Student) error
	Delete(id string) error
	Exists(id string) bool
	FindByEnrolledCourseCode(code string) []models.Student
	FindByGPAGreaterThan(gpa float64) []models.Student
	SearchByName(query string) []models.Student
}

type courseReader interface {
	FindByID(code string) (models.Course, bool)
}

type studentGradeLedger interface {
	Grade(studentID, courseCode string) (models.Grade, bool)
	RemoveStudent(studentID string)
}

// CreateStudentRequest holds payload for registering students.
type CreateStudentRequest struct {
	ID       string `json:"id" validate:"required"`
	RegNo    string `json:"reg_no" validate:"required"`
	FullName string `json:"full_name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
}

// UpdateStudentRequest holds payload for updating students. The id and
// registration number are immutable and absent on purpose.
type UpdateStudentRequest struct {
	FullName string `json:"full_name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Active   bool   `json:"active"`
}

// StudentService is the student directory: repository access plus the
// name/GPA/enrollment queries and GPA bookkeeping.
type StudentService struct {
	repo      studentRepository
	courses   courseReader
	ledger    studentGradeLedger
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs the student service.
func NewStudentService(repo studentRepository, courses courseReader, ledger studentGradeLedger, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, courses: courses, ledger: ledger, validator: validate, logger: logger}
}

// Create registers a new student.
func (s *StudentService) Create(ctx context.Context, req CreateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	now := time.Now().UTC()
	student := models.Student{
		Person: models.Person{
			ID:        req.ID,
			FullName:  req.FullName,
			Email:     req.Email,
			Role:      models.RoleStudent,
			Active:    true,
			CreatedAt: now,
		},
		RegNo:      req.RegNo,
		EnrolledAt: now,
	}
	if err := s.repo.Create(student); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "student already exists with this id")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create student")
	}
	return &student, nil
}

// Get returns the student by id.
func (s *StudentService) Get(ctx context.Context, id string) (*models.Student, error) {
	student, ok := s.repo.FindByID(id)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	return &student, nil
}

// List returns a snapshot of all students.
func (s *StudentService) List(ctx context.Context) []models.Student {
	return s.repo.FindAll()
}

// Update modifies the mutable fields of an existing student.
func (s *StudentService) Update(ctx context.Context, id string, req UpdateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	student, ok := s.repo.FindByID(id)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	student.FullName = req.FullName
	student.Email = req.Email
	student.Active = req.Active
	if err := s.repo.Update(student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update student")
	}
	return &student, nil
}

// Delete removes the student and every ledger entry belonging to them.
func (s *StudentService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete student")
	}
	s.ledger.RemoveStudent(id)
	return nil
}

// Deactivate marks the student inactive. A missing id is a no-op, not
// an error; callers rely on that.
func (s *StudentService) Deactivate(ctx context.Context, id string) {
	student, ok := s.repo.FindByID(id)
	if !ok {
		return
	}
	student.Active = false
	if err := s.repo.Update(student); err != nil {
		s.logger.Warn("deactivate student failed", zap.String("student_id", id), zap.Error(err))
	}
}

// FindByEnrolledCourseCode returns students enrolled in the course.
func (s *StudentService) FindByEnrolledCourseCode(ctx context.Context, code string) []models.Student {
	return s.repo.FindByEnrolledCourseCode(code)
}

// FindByGPAGreaterThan returns students with GPA strictly above the
// threshold.
func (s *StudentService) FindByGPAGreaterThan(ctx context.Context, gpa float64) []models.Student {
	return s.repo.FindByGPAGreaterThan(gpa)
}

// SearchByName matches student names case-insensitively by substring.
func (s *StudentService) SearchByName(ctx context.Context, query string) []models.Student {
	return s.repo.SearchByName(query)
}

// CalculateGPA computes the credit-weighted mean of grade points over
// the student's graded enrolled courses. Ungraded courses contribute
// to neither numerator nor denominator; no graded courses yields 0.0.
func (s *StudentService) CalculateGPA(ctx context.Context, id string) (float64, error) {
	student, ok := s.repo.FindByID(id)
	if !ok {
		return 0, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}

	var totalPoints float64
	var totalCredits int
	for _, code := range student.EnrolledCourses {
		grade, graded := s.ledger.Grade(id, code)
		if !graded {
			continue
		}
		course, found := s.courses.FindByID(code)
		if !found {
			continue
		}
		totalPoints += grade.Points() * float64(course.Credits)
		totalCredits += course.Credits
	}
	if totalCredits == 0 {
		return 0, nil
	}
	return totalPoints / float64(totalCredits), nil
}

// UpdateGPA recomputes and persists the student's GPA. A missing
// student is silently skipped; this non-strict contract lets grade
// recording proceed even when the student vanished in between.
func (s *StudentService) UpdateGPA(ctx context.Context, id string) error {
	student, ok := s.repo.FindByID(id)
	if !ok {
		return nil
	}
	gpa, err := s.CalculateGPA(ctx, id)
	if err != nil {
		return err
	}
	student.GPA = gpa
	if err := s.repo.Update(student); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist gpa")
	}
	s.logger.Debug("gpa updated", zap.String("student_id", id), zap.Float64("gpa", gpa))
	return nil
}
