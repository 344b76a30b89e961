package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edu-ccrm/ccrm-api/internal/models"
	appErrors "github.com/edu-ccrm/ccrm-api/pkg/errors"
)

func TestStudentCreateRejectsDuplicateID(t *testing.T) {
	r := newRegistrar(21)
	r.mustCreateStudent(t, "s-1")

	_, err := r.studentSvc.Create(context.Background(), CreateStudentRequest{
		ID: "s-1", RegNo: "REG-X", FullName: "Other", Email: "other@campus.edu",
	})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrConflict))
}

func TestStudentCreateValidatesPayload(t *testing.T) {
	r := newRegistrar(21)
	_, err := r.studentSvc.Create(context.Background(), CreateStudentRequest{
		ID: "s-1", RegNo: "REG-1", FullName: "No Email", Email: "not-an-email",
	})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

func TestStudentGetMissing(t *testing.T) {
	r := newRegistrar(21)
	_, err := r.studentSvc.Get(context.Background(), "ghost")
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}

func TestStudentDeleteCascadesGrades(t *testing.T) {
	r := newRegistrar(21)
	r.mustCreateStudent(t, "s-1")
	r.mustCreateCourse(t, "CS101", 4, models.SemesterFall)
	r.mustEnroll(t, "s-1", "CS101")
	r.mustRecordGrade(t, "s-1", "CS101", "A")

	require.NoError(t, r.studentSvc.Delete(context.Background(), "s-1"))

	_, ok := r.ledger.Grade("s-1", "CS101")
	assert.False(t, ok)
	assert.True(t, appErrors.Is(r.studentSvc.Delete(context.Background(), "s-1"), appErrors.ErrNotFound))
}

func TestStudentDeactivateMissingIsNoOp(t *testing.T) {
	r := newRegistrar(21)
	r.studentSvc.Deactivate(context.Background(), "ghost")

	r.mustCreateStudent(t, "s-1")
	r.studentSvc.Deactivate(context.Background(), "s-1")
	student, err := r.studentSvc.Get(context.Background(), "s-1")
	require.NoError(t, err)
	assert.False(t, student.Active)
}

func TestCalculateGPAWeightsByCredits(t *testing.T) {
	r := newRegistrar(21)
	r.mustCreateStudent(t, "s-1")
	r.mustCreateCourse(t, "CS101", 4, models.SemesterFall)
	r.mustCreateCourse(t, "MA201", 2, models.SemesterFall)
	r.mustCreateCourse(t, "PH301", 3, models.SemesterSpring)
	r.mustEnroll(t, "s-1", "CS101")
	r.mustEnroll(t, "s-1", "MA201")
	r.mustEnroll(t, "s-1", "PH301")

	r.mustRecordGrade(t, "s-1", "CS101", "A")
	r.mustRecordGrade(t, "s-1", "MA201", "B")
	// PH301 stays ungraded and must not dilute the mean.

	gpa, err := r.studentSvc.CalculateGPA(context.Background(), "s-1")
	require.NoError(t, err)
	assert.InDelta(t, (4.0*4+3.0*2)/6.0, gpa, 1e-9)
}

func TestCalculateGPAWithoutGrades(t *testing.T) {
	r := newRegistrar(21)
	r.mustCreateStudent(t, "s-1")
	gpa, err := r.studentSvc.CalculateGPA(context.Background(), "s-1")
	require.NoError(t, err)
	assert.Zero(t, gpa)

	_, err = r.studentSvc.CalculateGPA(context.Background(), "ghost")
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}

func TestUpdateGPAPersistsAndSkipsMissing(t *testing.T) {
	r := newRegistrar(21)
	require.NoError(t, r.studentSvc.UpdateGPA(context.Background(), "ghost"))

	r.mustCreateStudent(t, "s-1")
	r.mustCreateCourse(t, "CS101", 4, models.SemesterFall)
	r.mustEnroll(t, "s-1", "CS101")
	r.mustRecordGrade(t, "s-1", "CS101", "S")

	student, err := r.studentSvc.Get(context.Background(), "s-1")
	require.NoError(t, err)
	assert.InDelta(t, 4.3, student.GPA, 1e-9)
}

func TestFindByGPAGreaterThanIsStrict(t *testing.T) {
	r := newRegistrar(21)
	r.mustCreateStudent(t, "s-1")
	r.mustCreateStudent(t, "s-2")
	r.mustCreateCourse(t, "CS101", 3, models.SemesterFall)
	r.mustEnroll(t, "s-1", "CS101")
	r.mustEnroll(t, "s-2", "CS101")
	r.mustRecordGrade(t, "s-1", "CS101", "B")
	r.mustRecordGrade(t, "s-2", "CS101", "A")

	above := r.studentSvc.FindByGPAGreaterThan(context.Background(), 3.0)
	require.Len(t, above, 1)
	assert.Equal(t, "s-2", above[0].ID)
}

func TestSearchByName(t *testing.T) {
	r := newRegistrar(21)
	r.mustCreateStudent(t, "s-1")
	matches := r.studentSvc.SearchByName(context.Background(), "student S-1")
	require.Len(t, matches, 1)
	assert.Equal(t, "s-1", matches[0].ID)
}
