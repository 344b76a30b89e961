package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edu-ccrm/ccrm-api/internal/models"
	appErrors "github.com/edu-ccrm/ccrm-api/pkg/errors"
)

func TestCourseCreateRejectsUnknownSemester(t *testing.T) {
	r := newRegistrar(21)
	_, err := r.courseSvc.Create(context.Background(), CreateCourseRequest{
		Code: "CS101", Title: "Intro", Credits: 4, Semester: "Fall", Department: "CS",
	})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

func TestCourseCreateChecksInstructor(t *testing.T) {
	r := newRegistrar(21)
	_, err := r.courseSvc.Create(context.Background(), CreateCourseRequest{
		Code: "CS101", Title: "Intro", Credits: 4, Semester: "FALL", Department: "CS", InstructorID: "ghost",
	})
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))

	_, err = r.instructorSvc.Create(context.Background(), CreateInstructorRequest{
		ID: "i-1", FullName: "Grace Hopper", Email: "grace@campus.edu", Department: "CS",
	})
	require.NoError(t, err)

	course, err := r.courseSvc.Create(context.Background(), CreateCourseRequest{
		Code: "CS101", Title: "Intro", Credits: 4, Semester: "FALL", Department: "CS", InstructorID: "i-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "i-1", course.InstructorID)
}

func TestCourseDeactivateMissingIsError(t *testing.T) {
	r := newRegistrar(21)
	_, err := r.courseSvc.Deactivate(context.Background(), "ghost")
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))

	r.mustCreateCourse(t, "CS101", 4, models.SemesterFall)
	course, err := r.courseSvc.Deactivate(context.Background(), "CS101")
	require.NoError(t, err)
	assert.False(t, course.Active)
}

func TestCourseInstructorRelation(t *testing.T) {
	r := newRegistrar(21)
	r.mustCreateCourse(t, "CS101", 4, models.SemesterFall)
	r.mustCreateCourse(t, "CS102", 3, models.SemesterFall)
	_, err := r.instructorSvc.Create(context.Background(), CreateInstructorRequest{
		ID: "i-1", FullName: "Grace Hopper", Email: "grace@campus.edu", Department: "CS",
	})
	require.NoError(t, err)

	_, err = r.courseSvc.AssignInstructor(context.Background(), "CS101", "i-1")
	require.NoError(t, err)
	_, err = r.courseSvc.AssignInstructor(context.Background(), "CS102", "i-1")
	require.NoError(t, err)

	assigned, err := r.instructorSvc.AssignedCourses(context.Background(), "i-1")
	require.NoError(t, err)
	assert.Len(t, assigned, 2)

	_, err = r.courseSvc.UnassignInstructor(context.Background(), "CS102")
	require.NoError(t, err)
	assigned, err = r.instructorSvc.AssignedCourses(context.Background(), "i-1")
	require.NoError(t, err)
	require.Len(t, assigned, 1)
	assert.Equal(t, "CS101", assigned[0].Code)
}

func TestInstructorDeleteClearsCourses(t *testing.T) {
	r := newRegistrar(21)
	r.mustCreateCourse(t, "CS101", 4, models.SemesterFall)
	_, err := r.instructorSvc.Create(context.Background(), CreateInstructorRequest{
		ID: "i-1", FullName: "Grace Hopper", Email: "grace@campus.edu", Department: "CS",
	})
	require.NoError(t, err)
	_, err = r.courseSvc.AssignInstructor(context.Background(), "CS101", "i-1")
	require.NoError(t, err)

	require.NoError(t, r.instructorSvc.Delete(context.Background(), "i-1"))

	course, err := r.courseSvc.Get(context.Background(), "CS101")
	require.NoError(t, err)
	assert.Empty(t, course.InstructorID)
}

func TestCourseQueries(t *testing.T) {
	r := newRegistrar(21)
	r.mustCreateCourse(t, "CS101", 4, models.SemesterFall)
	r.mustCreateCourse(t, "CS201", 3, models.SemesterSpring)
	_, err := r.courseSvc.Create(context.Background(), CreateCourseRequest{
		Code: "MA101", Title: "Linear Algebra", Credits: 2, Semester: "FALL", Department: "Math",
	})
	require.NoError(t, err)

	ctx := context.Background()
	assert.Len(t, r.courseSvc.FindByDepartment(ctx, "math"), 1)
	assert.Len(t, r.courseSvc.FindBySemester(ctx, models.SemesterFall), 2)
	assert.Len(t, r.courseSvc.SearchByTitle(ctx, "linear"), 1)
	assert.Len(t, r.courseSvc.FilterByCredits(ctx, 3, 4), 2)

	_, err = r.courseSvc.Deactivate(ctx, "CS101")
	require.NoError(t, err)
	active := r.courseSvc.FilterActiveByDepartmentAndSemester(ctx, "CS", models.SemesterFall)
	assert.Empty(t, active)
}
