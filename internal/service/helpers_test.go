package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/edu-ccrm/ccrm-api/internal/models"
	"github.com/edu-ccrm/ccrm-api/internal/repository"
	"github.com/edu-ccrm/ccrm-api/pkg/config"
)

// registrar wires real in-memory repositories through the full service
// graph, the same shape the server builds at startup.
type registrar struct {
	students    *repository.StudentRepository
	courses     *repository.CourseRepository
	instructors *repository.InstructorRepository
	ledger      *repository.GradeLedger

	studentSvc    *StudentService
	courseSvc     *CourseService
	instructorSvc *InstructorService
	enrollSvc     *EnrollmentService
	transcriptSvc *TranscriptService
}

func newRegistrar(maxCredits int) *registrar {
	students := repository.NewStudentRepository()
	courses := repository.NewCourseRepository()
	instructors := repository.NewInstructorRepository()
	ledger := repository.NewGradeLedger()

	studentSvc := NewStudentService(students, courses, ledger, nil, nil)
	courseSvc := NewCourseService(courses, instructors, nil, nil)
	instructorSvc := NewInstructorService(instructors, courses, nil, nil)
	enrollSvc := NewEnrollmentService(students, courses, ledger, studentSvc, maxCredits, nil, nil, nil)
	transcriptSvc := NewTranscriptService(students, courses, ledger, config.AcademicsConfig{
		MaxCreditsPerSemester: maxCredits,
		GraduationCredits:     120,
		ProbationGPA:          2.0,
		DeansListGPA:          3.5,
	}, nil)

	return &registrar{
		students:      students,
		courses:       courses,
		instructors:   instructors,
		ledger:        ledger,
		studentSvc:    studentSvc,
		courseSvc:     courseSvc,
		instructorSvc: instructorSvc,
		enrollSvc:     enrollSvc,
		transcriptSvc: transcriptSvc,
	}
}

func (r *registrar) mustCreateStudent(t *testing.T, id string) {
	t.Helper()
	_, err := r.studentSvc.Create(context.Background(), CreateStudentRequest{
		ID:       id,
		RegNo:    "REG-" + id,
		FullName: "Student " + id,
		Email:    id + "@campus.edu",
	})
	require.NoError(t, err)
}

func (r *registrar) mustCreateCourse(t *testing.T, code string, credits int, semester models.Semester) {
	t.Helper()
	_, err := r.courseSvc.Create(context.Background(), CreateCourseRequest{
		Code:       code,
		Title:      "Course " + code,
		Credits:    credits,
		Semester:   string(semester),
		Department: "CS",
	})
	require.NoError(t, err)
}

func (r *registrar) mustEnroll(t *testing.T, studentID, courseCode string) {
	t.Helper()
	_, err := r.enrollSvc.Enroll(context.Background(), EnrollRequest{StudentID: studentID, CourseCode: courseCode})
	require.NoError(t, err)
}

func (r *registrar) mustRecordGrade(t *testing.T, studentID, courseCode, grade string) {
	t.Helper()
	err := r.enrollSvc.RecordGrade(context.Background(), RecordGradeRequest{
		StudentID:  studentID,
		CourseCode: courseCode,
		Grade:      grade,
	})
	require.NoError(t, err)
}
