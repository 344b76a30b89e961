package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edu-ccrm/ccrm-api/internal/models"
	appErrors "github.com/edu-ccrm/ccrm-api/pkg/errors"
)

func TestEnrollHappyPath(t *testing.T) {
	r := newRegistrar(21)
	r.mustCreateStudent(t, "s-1")
	r.mustCreateCourse(t, "CS101", 4, models.SemesterFall)

	student, err := r.enrollSvc.Enroll(context.Background(), EnrollRequest{StudentID: "s-1", CourseCode: "CS101"})
	require.NoError(t, err)
	assert.True(t, student.HasCourse("CS101"))

	credits, err := r.enrollSvc.TotalCredits(context.Background(), "s-1", models.SemesterFall)
	require.NoError(t, err)
	assert.Equal(t, 4, credits)
}

func TestEnrollPreconditionOrder(t *testing.T) {
	r := newRegistrar(21)
	r.mustCreateStudent(t, "s-1")
	r.mustCreateCourse(t, "CS101", 4, models.SemesterFall)

	_, err := r.enrollSvc.Enroll(context.Background(), EnrollRequest{StudentID: "ghost", CourseCode: "CS101"})
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))

	_, err = r.enrollSvc.Enroll(context.Background(), EnrollRequest{StudentID: "s-1", CourseCode: "XX999"})
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))

	r.mustEnroll(t, "s-1", "CS101")
	_, err = r.enrollSvc.Enroll(context.Background(), EnrollRequest{StudentID: "s-1", CourseCode: "CS101"})
	assert.True(t, appErrors.Is(err, appErrors.ErrDuplicateEnrollment))
}

func TestEnrollCreditCeiling(t *testing.T) {
	r := newRegistrar(21)
	r.mustCreateStudent(t, "s-1")
	r.mustCreateCourse(t, "CS101", 6, models.SemesterFall)
	r.mustCreateCourse(t, "CS102", 6, models.SemesterFall)
	r.mustCreateCourse(t, "CS103", 6, models.SemesterFall)
	r.mustCreateCourse(t, "CS104", 4, models.SemesterFall)
	r.mustCreateCourse(t, "CS105", 3, models.SemesterFall)
	r.mustCreateCourse(t, "SP101", 4, models.SemesterSpring)
	r.mustEnroll(t, "s-1", "CS101")
	r.mustEnroll(t, "s-1", "CS102")
	r.mustEnroll(t, "s-1", "CS103")

	// 18 + 4 > 21 is rejected with the counters in the error details.
	_, err := r.enrollSvc.Enroll(context.Background(), EnrollRequest{StudentID: "s-1", CourseCode: "CS104"})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrCreditLimitExceeded))
	appErr := appErrors.FromError(err)
	assert.Equal(t, 18, appErr.Details["current_credits"])
	assert.Equal(t, 21, appErr.Details["max_credits"])

	// 18 + 3 = 21 is still allowed; the ceiling is inclusive.
	r.mustEnroll(t, "s-1", "CS105")

	// The ceiling is per semester: a spring course is unaffected by the
	// fall load.
	r.mustEnroll(t, "s-1", "SP101")
}

func TestCanEnrollNeverErrors(t *testing.T) {
	r := newRegistrar(21)
	assert.False(t, r.enrollSvc.CanEnroll(context.Background(), "ghost", "CS101"))

	r.mustCreateStudent(t, "s-1")
	assert.False(t, r.enrollSvc.CanEnroll(context.Background(), "s-1", "XX999"))

	r.mustCreateCourse(t, "CS101", 4, models.SemesterFall)
	assert.True(t, r.enrollSvc.CanEnroll(context.Background(), "s-1", "CS101"))

	r.mustEnroll(t, "s-1", "CS101")
	assert.False(t, r.enrollSvc.CanEnroll(context.Background(), "s-1", "CS101"))
}

func TestUnenrollDropsGrade(t *testing.T) {
	r := newRegistrar(21)
	r.mustCreateStudent(t, "s-1")
	r.mustCreateCourse(t, "CS101", 4, models.SemesterFall)
	r.mustEnroll(t, "s-1", "CS101")
	r.mustRecordGrade(t, "s-1", "CS101", "A")

	student, err := r.enrollSvc.Unenroll(context.Background(), "s-1", "CS101")
	require.NoError(t, err)
	assert.False(t, student.HasCourse("CS101"))

	_, ok := r.ledger.Grade("s-1", "CS101")
	assert.False(t, ok)

	_, err = r.enrollSvc.Unenroll(context.Background(), "s-1", "CS101")
	assert.True(t, appErrors.Is(err, appErrors.ErrInvalidState))
}

func TestRecordGradeRequiresEnrollment(t *testing.T) {
	r := newRegistrar(21)
	r.mustCreateStudent(t, "s-1")
	r.mustCreateCourse(t, "CS101", 4, models.SemesterFall)

	err := r.enrollSvc.RecordGrade(context.Background(), RecordGradeRequest{StudentID: "s-1", CourseCode: "CS101", Grade: "A"})
	assert.True(t, appErrors.Is(err, appErrors.ErrInvalidState))

	err = r.enrollSvc.RecordGrade(context.Background(), RecordGradeRequest{StudentID: "s-1", CourseCode: "CS101", Grade: "Z"})
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

func TestRecordGradeOverwritesAndUpdatesGPA(t *testing.T) {
	r := newRegistrar(21)
	r.mustCreateStudent(t, "s-1")
	r.mustCreateCourse(t, "CS101", 4, models.SemesterFall)
	r.mustEnroll(t, "s-1", "CS101")

	r.mustRecordGrade(t, "s-1", "CS101", "C")
	r.mustRecordGrade(t, "s-1", "CS101", "A")

	grade, err := r.enrollSvc.StudentGrade(context.Background(), "s-1", "CS101")
	require.NoError(t, err)
	require.NotNil(t, grade)
	assert.Equal(t, models.GradeA, *grade)

	student, err := r.studentSvc.Get(context.Background(), "s-1")
	require.NoError(t, err)
	assert.InDelta(t, 4.0, student.GPA, 1e-9)
}

func TestStudentGradeUngradedIsNil(t *testing.T) {
	r := newRegistrar(21)
	r.mustCreateStudent(t, "s-1")
	r.mustCreateCourse(t, "CS101", 4, models.SemesterFall)
	r.mustEnroll(t, "s-1", "CS101")

	grade, err := r.enrollSvc.StudentGrade(context.Background(), "s-1", "CS101")
	require.NoError(t, err)
	assert.Nil(t, grade)

	_, err = r.enrollSvc.StudentGrade(context.Background(), "s-1", "XX999")
	assert.True(t, appErrors.Is(err, appErrors.ErrInvalidState))
}

func TestEnrolledCoursesSemesterFilter(t *testing.T) {
	r := newRegistrar(21)
	r.mustCreateStudent(t, "s-1")
	r.mustCreateCourse(t, "CS101", 4, models.SemesterFall)
	r.mustCreateCourse(t, "SP101", 3, models.SemesterSpring)
	r.mustEnroll(t, "s-1", "CS101")
	r.mustEnroll(t, "s-1", "SP101")

	all, err := r.enrollSvc.EnrolledCourses(context.Background(), "s-1", "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	fall, err := r.enrollSvc.EnrolledCourses(context.Background(), "s-1", models.SemesterFall)
	require.NoError(t, err)
	require.Len(t, fall, 1)
	assert.Equal(t, "CS101", fall[0].Code)
}

func TestCourseAnalytics(t *testing.T) {
	r := newRegistrar(21)
	r.mustCreateCourse(t, "CS101", 4, models.SemesterFall)
	for _, id := range []string{"s-1", "s-2", "s-3"} {
		r.mustCreateStudent(t, id)
		r.mustEnroll(t, id, "CS101")
	}
	r.mustRecordGrade(t, "s-1", "CS101", "A")
	r.mustRecordGrade(t, "s-2", "CS101", "B")
	r.mustRecordGrade(t, "s-3", "CS101", "A")

	distribution, err := r.enrollSvc.GradeDistribution(context.Background(), "CS101")
	require.NoError(t, err)
	assert.Equal(t, map[models.Grade]int{models.GradeA: 2, models.GradeB: 1}, distribution)

	average, err := r.enrollSvc.AverageGrade(context.Background(), "CS101")
	require.NoError(t, err)
	assert.InDelta(t, (4.0+3.0+4.0)/3.0, average, 1e-9)

	students, err := r.enrollSvc.EnrolledStudents(context.Background(), "CS101")
	require.NoError(t, err)
	assert.Len(t, students, 3)
}

func TestAverageGradeEmptyCourse(t *testing.T) {
	r := newRegistrar(21)
	r.mustCreateCourse(t, "CS101", 4, models.SemesterFall)

	average, err := r.enrollSvc.AverageGrade(context.Background(), "CS101")
	require.NoError(t, err)
	assert.Zero(t, average)

	_, err = r.enrollSvc.AverageGrade(context.Background(), "XX999")
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}

func TestTopPerformersOrderingAndTies(t *testing.T) {
	r := newRegistrar(21)
	r.mustCreateCourse(t, "CS101", 4, models.SemesterFall)
	for _, id := range []string{"s-1", "s-2", "s-3", "s-4"} {
		r.mustCreateStudent(t, id)
		r.mustEnroll(t, id, "CS101")
	}
	r.mustRecordGrade(t, "s-1", "CS101", "B")
	r.mustRecordGrade(t, "s-2", "CS101", "S")
	r.mustRecordGrade(t, "s-3", "CS101", "A")
	r.mustRecordGrade(t, "s-4", "CS101", "A")

	top, err := r.enrollSvc.TopPerformers(context.Background(), "CS101", 3)
	require.NoError(t, err)
	require.Len(t, top, 3)
	assert.Equal(t, "s-2", top[0].Student.ID)
	assert.Equal(t, "s-3", top[1].Student.ID)
	assert.Equal(t, "s-4", top[2].Student.ID)
	assert.InDelta(t, 4.3, top[0].Points, 1e-9)
}
