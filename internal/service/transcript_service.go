package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/edu-ccrm/ccrm-api/internal/models"
	"github.com/edu-ccrm/ccrm-api/pkg/config"
	appErrors "github.com/edu-ccrm/ccrm-api/pkg/errors"
)

type transcriptStudentReader interface {
	FindByID(id string) (models.Student, bool)
}

type transcriptGradeReader interface {
	Grade(studentID, courseCode string) (models.Grade, bool)
}

// TranscriptService assembles academic records from the student
// directory, the catalog and the grade ledger. A course counts as
// completed once a passing grade is recorded for it; everything else
// the student is enrolled in is pending.
type TranscriptService struct {
	students  transcriptStudentReader
	courses   courseReader
	ledger    transcriptGradeReader
	academics config.AcademicsConfig
	logger    *zap.Logger
}

// NewTranscriptService constructs the transcript service.
func NewTranscriptService(students transcriptStudentReader, courses courseReader, ledger transcriptGradeReader, academics config.AcademicsConfig, logger *zap.Logger) *TranscriptService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TranscriptService{students: students, courses: courses, ledger: ledger, academics: academics, logger: logger}
}

// Transcript builds the student's full academic record.
func (s *TranscriptService) Transcript(ctx context.Context, studentID string) (*models.Transcript, error) {
	return s.build(ctx, studentID, "")
}

// SemesterTranscript builds a record restricted to one semester. The
// cumulative figures (GPA, credits, standing) still cover the whole
// record; only the course lines are filtered.
func (s *TranscriptService) SemesterTranscript(ctx context.Context, studentID string, semester models.Semester) (*models.Transcript, error) {
	return s.build(ctx, studentID, semester)
}

// SemesterGPA computes the credit-weighted GPA over graded courses of
// one semester; 0.0 when no course of that semester is graded.
func (s *TranscriptService) SemesterGPA(ctx context.Context, studentID string, semester models.Semester) (float64, error) {
	student, ok := s.students.FindByID(studentID)
	if !ok {
		return 0, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	gpa, _ := s.weightedGPA(student, semester)
	return gpa, nil
}

// CumulativeGPA computes the credit-weighted GPA over every graded
// course.
func (s *TranscriptService) CumulativeGPA(ctx context.Context, studentID string) (float64, error) {
	student, ok := s.students.FindByID(studentID)
	if !ok {
		return 0, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	gpa, _ := s.weightedGPA(student, "")
	return gpa, nil
}

// GPAProgression returns the per-semester GPA for every semester in
// which the student has at least one graded course.
func (s *TranscriptService) GPAProgression(ctx context.Context, studentID string) (map[models.Semester]float64, error) {
	student, ok := s.students.FindByID(studentID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	progression := make(map[models.Semester]float64)
	for _, semester := range []models.Semester{models.SemesterSpring, models.SemesterSummer, models.SemesterFall} {
		if gpa, graded := s.weightedGPA(student, semester); graded {
			progression[semester] = gpa
		}
	}
	return progression, nil
}

// CompletedCourses returns the courses the student has passed.
func (s *TranscriptService) CompletedCourses(ctx context.Context, studentID string) ([]models.CourseGrade, error) {
	student, ok := s.students.FindByID(studentID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	var out []models.CourseGrade
	for _, code := range student.EnrolledCourses {
		course, found := s.courses.FindByID(code)
		if !found {
			continue
		}
		if grade, graded := s.ledger.Grade(studentID, code); graded && grade.Passing() {
			out = append(out, models.CourseGrade{Course: course, Grade: grade})
		}
	}
	return out, nil
}

// GradeDistribution counts the student's recorded grades per letter.
func (s *TranscriptService) GradeDistribution(ctx context.Context, studentID string) (map[models.Grade]int, error) {
	student, ok := s.students.FindByID(studentID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	distribution := make(map[models.Grade]int)
	for _, code := range student.EnrolledCourses {
		if grade, graded := s.ledger.Grade(studentID, code); graded {
			distribution[grade]++
		}
	}
	return distribution, nil
}

// Standing maps a cumulative GPA to an academic standing label.
func (s *TranscriptService) Standing(gpa float64) string {
	switch {
	case gpa >= s.academics.DeansListGPA:
		return models.StandingDeansList
	case gpa >= s.academics.ProbationGPA:
		return models.StandingGood
	default:
		return models.StandingProbation
	}
}

func (s *TranscriptService) build(ctx context.Context, studentID string, semester models.Semester) (*models.Transcript, error) {
	student, ok := s.students.FindByID(studentID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}

	var lines []models.TranscriptLine
	completed := 0
	pending := 0
	for _, code := range student.EnrolledCourses {
		course, found := s.courses.FindByID(code)
		if !found {
			continue
		}
		grade, graded := s.ledger.Grade(studentID, code)
		if graded && grade.Passing() {
			completed += course.Credits
		} else {
			pending += course.Credits
		}
		if semester != "" && course.Semester != semester {
			continue
		}
		line := models.TranscriptLine{
			CourseCode: course.Code,
			Title:      course.Title,
			Credits:    course.Credits,
			Semester:   course.Semester,
		}
		if graded {
			g := grade
			points := grade.Points()
			line.Grade = &g
			line.Points = &points
		}
		lines = append(lines, line)
	}

	gpa, _ := s.weightedGPA(student, "")
	semesterGPAs := make(map[models.Semester]float64)
	for _, sem := range []models.Semester{models.SemesterSpring, models.SemesterSummer, models.SemesterFall} {
		if semGPA, graded := s.weightedGPA(student, sem); graded {
			semesterGPAs[sem] = semGPA
		}
	}

	return &models.Transcript{
		StudentID:          student.ID,
		RegNo:              student.RegNo,
		FullName:           student.FullName,
		Lines:              lines,
		SemesterGPAs:       semesterGPAs,
		CumulativeGPA:      gpa,
		CreditsCompleted:   completed,
		CreditsPending:     pending,
		Standing:           s.Standing(gpa),
		EligibleToGraduate: completed >= s.academics.GraduationCredits && gpa >= s.academics.ProbationGPA,
		GeneratedAt:        time.Now().UTC(),
	}, nil
}

// weightedGPA returns the credit-weighted GPA over graded courses of
// the given semester (empty semester means all) and whether any graded
// course contributed.
func (s *TranscriptService) weightedGPA(student models.Student, semester models.Semester) (float64, bool) {
	var totalPoints float64
	var totalCredits int
	for _, code := range student.EnrolledCourses {
		grade, graded := s.ledger.Grade(student.ID, code)
		if !graded {
			continue
		}
		course, found := s.courses.FindByID(code)
		if !found {
			continue
		}
		if semester != "" && course.Semester != semester {
			continue
		}
		totalPoints += grade.Points() * float64(course.Credits)
		totalCredits += course.Credits
	}
	if totalCredits == 0 {
		return 0, false
	}
	return totalPoints / float64(totalCredits), true
}
