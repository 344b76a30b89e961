package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportStudents(t *testing.T) {
	r := newRegistrar(21)
	svc := NewImportService(r.studentSvc, r.courseSvc, nil)

	csv := strings.Join([]string{
		"id,regNo,firstName,lastName,email",
		"s-1,2026CS001,Ada,Lovelace,ada@campus.edu",
		"s-2,2026CS002",
		"s-1,2026CS003,Dup,Licate,dup@campus.edu",
		"s-3,2026CS004,Bad,Email,not-an-email",
	}, "\n")

	result, err := svc.ImportStudents(context.Background(), strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 2, result.Failed)
	assert.Len(t, result.Errors, 2)

	student, err := r.studentSvc.Get(context.Background(), "s-1")
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", student.FullName)
}

func TestImportCourses(t *testing.T) {
	r := newRegistrar(21)
	svc := NewImportService(r.studentSvc, r.courseSvc, nil)

	csv := strings.Join([]string{
		"code,title,credits,instructor,semester,department",
		"CS101,Programming Fundamentals,4,Dr. Grace Hopper,FALL,CS",
		"EE102,Circuit Theory,3,,SPRING,EE",
		"MA201,Linear Algebra,three,,FALL,Math",
		"PH301,Waves,3,,Autumn,Physics",
	}, "\n")

	result, err := svc.ImportCourses(context.Background(), strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, 2, result.Failed)

	// Legacy files carry an instructor name in the fourth column; it
	// is not an instructor id and must not end up on the course.
	course, err := r.courseSvc.Get(context.Background(), "CS101")
	require.NoError(t, err)
	assert.Equal(t, 4, course.Credits)
	assert.Empty(t, course.InstructorID)
}

func TestImportEmptyFile(t *testing.T) {
	r := newRegistrar(21)
	svc := NewImportService(r.studentSvc, r.courseSvc, nil)

	result, err := svc.ImportStudents(context.Background(), strings.NewReader("id,regNo,firstName,lastName,email\n"))
	require.NoError(t, err)
	assert.Zero(t, result.Imported)
}
