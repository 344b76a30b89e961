package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edu-ccrm/ccrm-api/internal/repository"
	"github.com/edu-ccrm/ccrm-api/internal/service"
	"github.com/edu-ccrm/ccrm-api/pkg/response"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	students := repository.NewStudentRepository()
	courses := repository.NewCourseRepository()
	instructors := repository.NewInstructorRepository()
	ledger := repository.NewGradeLedger()

	studentSvc := service.NewStudentService(students, courses, ledger, nil, nil)
	courseSvc := service.NewCourseService(courses, instructors, nil, nil)
	enrollSvc := service.NewEnrollmentService(students, courses, ledger, studentSvc, 21, nil, nil, nil)

	studentHandler := NewStudentHandler(studentSvc)
	courseHandler := NewCourseHandler(courseSvc)
	enrollmentHandler := NewEnrollmentHandler(enrollSvc)

	r := gin.New()
	r.POST("/students", studentHandler.Create)
	r.GET("/students/:id/gpa", studentHandler.GPA)
	r.POST("/courses", courseHandler.Create)
	r.POST("/enrollments", enrollmentHandler.Enroll)
	r.POST("/grades", enrollmentHandler.RecordGrade)
	r.GET("/students/:id/enrollments", enrollmentHandler.EnrolledCourses)
	r.DELETE("/students/:id/enrollments/:code", enrollmentHandler.Unenroll)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestEnrollmentRoundTrip(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/students", gin.H{
		"id": "s-1", "reg_no": "2026CS001", "full_name": "Ada Lovelace", "email": "ada@campus.edu",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodPost, "/courses", gin.H{
		"code": "CS101", "title": "Programming Fundamentals", "credits": 4, "semester": "FALL", "department": "CS",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodPost, "/enrollments", gin.H{"student_id": "s-1", "course_code": "CS101"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodPost, "/grades", gin.H{"student_id": "s-1", "course_code": "CS101", "grade": "A"})
	require.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, r, http.MethodGet, "/students/s-1/gpa", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	data, ok := envelope.Data.(map[string]interface{})
	require.True(t, ok)
	assert.InDelta(t, 4.0, data["gpa"], 1e-9)
}

func TestEnrollDuplicateReturnsConflict(t *testing.T) {
	r := newTestRouter(t)

	doJSON(t, r, http.MethodPost, "/students", gin.H{
		"id": "s-1", "reg_no": "2026CS001", "full_name": "Ada Lovelace", "email": "ada@campus.edu",
	})
	doJSON(t, r, http.MethodPost, "/courses", gin.H{
		"code": "CS101", "title": "Programming Fundamentals", "credits": 4, "semester": "FALL", "department": "CS",
	})
	doJSON(t, r, http.MethodPost, "/enrollments", gin.H{"student_id": "s-1", "course_code": "CS101"})

	w := doJSON(t, r, http.MethodPost, "/enrollments", gin.H{"student_id": "s-1", "course_code": "CS101"})
	require.Equal(t, http.StatusConflict, w.Code)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "DUPLICATE_ENROLLMENT", envelope.Error.Code)
}

func TestEnrollMissingStudentReturnsNotFound(t *testing.T) {
	r := newTestRouter(t)
	w := doJSON(t, r, http.MethodPost, "/enrollments", gin.H{"student_id": "ghost", "course_code": "CS101"})
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestUnenrollNotEnrolled(t *testing.T) {
	r := newTestRouter(t)

	doJSON(t, r, http.MethodPost, "/students", gin.H{
		"id": "s-1", "reg_no": "2026CS001", "full_name": "Ada Lovelace", "email": "ada@campus.edu",
	})
	doJSON(t, r, http.MethodPost, "/courses", gin.H{
		"code": "CS101", "title": "Programming Fundamentals", "credits": 4, "semester": "FALL", "department": "CS",
	})

	w := doJSON(t, r, http.MethodDelete, "/students/s-1/enrollments/CS101", nil)
	require.Equal(t, http.StatusConflict, w.Code)
}
