package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/edu-ccrm/ccrm-api/internal/models"
	"github.com/edu-ccrm/ccrm-api/internal/service"
	appErrors "github.com/edu-ccrm/ccrm-api/pkg/errors"
	"github.com/edu-ccrm/ccrm-api/pkg/response"
)

// EnrollmentHandler exposes the enrollment state machine and the grade
// analytics endpoints.
type EnrollmentHandler struct {
	enrollments *service.EnrollmentService
}

// NewEnrollmentHandler constructs EnrollmentHandler.
func NewEnrollmentHandler(enrollments *service.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollments: enrollments}
}

func parseSemesterQuery(c *gin.Context) (models.Semester, bool) {
	raw := c.Query("semester")
	if raw == "" {
		return "", true
	}
	semester, err := models.ParseSemester(raw)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid semester"))
		return "", false
	}
	return semester, true
}

// Enroll godoc
// @Summary Enroll student in course
// @Tags Enrollments
// @Accept json
// @Produce json
// @Param payload body service.EnrollRequest true "Enrollment target"
// @Success 201 {object} response.Envelope
// @Router /enrollments [post]
func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	var req service.EnrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	student, err := h.enrollments.Enroll(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, student)
}

// Unenroll godoc
// @Summary Remove student from course
// @Tags Enrollments
// @Produce json
// @Param id path string true "Student ID"
// @Param code path string true "Course code"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/enrollments/{code} [delete]
func (h *EnrollmentHandler) Unenroll(c *gin.Context) {
	student, err := h.enrollments.Unenroll(c.Request.Context(), c.Param("id"), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student)
}

// EnrolledCourses godoc
// @Summary List courses a student is enrolled in
// @Tags Enrollments
// @Produce json
// @Param id path string true "Student ID"
// @Param semester query string false "Restrict to one semester"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/enrollments [get]
func (h *EnrollmentHandler) EnrolledCourses(c *gin.Context) {
	semester, ok := parseSemesterQuery(c)
	if !ok {
		return
	}
	courses, err := h.enrollments.EnrolledCourses(c.Request.Context(), c.Param("id"), semester)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courses)
}

// TotalCredits godoc
// @Summary Sum a student's enrolled credits
// @Tags Enrollments
// @Produce json
// @Param id path string true "Student ID"
// @Param semester query string false "Restrict to one semester"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/credits [get]
func (h *EnrollmentHandler) TotalCredits(c *gin.Context) {
	semester, ok := parseSemesterQuery(c)
	if !ok {
		return
	}
	credits, err := h.enrollments.TotalCredits(c.Request.Context(), c.Param("id"), semester)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"student_id": c.Param("id"), "credits": credits})
}

// CanEnroll godoc
// @Summary Check whether a student may enroll in a course
// @Tags Enrollments
// @Produce json
// @Param id path string true "Student ID"
// @Param code path string true "Course code"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/eligibility/{code} [get]
func (h *EnrollmentHandler) CanEnroll(c *gin.Context) {
	eligible := h.enrollments.CanEnroll(c.Request.Context(), c.Param("id"), c.Param("code"))
	response.JSON(c, http.StatusOK, gin.H{
		"student_id":  c.Param("id"),
		"course_code": c.Param("code"),
		"eligible":    eligible,
	})
}

// RecordGrade godoc
// @Summary Record a grade for an enrolled student
// @Tags Grades
// @Accept json
// @Produce json
// @Param payload body service.RecordGradeRequest true "Grade entry"
// @Success 204
// @Router /grades [post]
func (h *EnrollmentHandler) RecordGrade(c *gin.Context) {
	var req service.RecordGradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.enrollments.RecordGrade(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// StudentGrades godoc
// @Summary List a student's grades
// @Tags Grades
// @Produce json
// @Param id path string true "Student ID"
// @Param semester query string false "Restrict to one semester"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/grades [get]
func (h *EnrollmentHandler) StudentGrades(c *gin.Context) {
	semester, ok := parseSemesterQuery(c)
	if !ok {
		return
	}
	grades, err := h.enrollments.StudentGrades(c.Request.Context(), c.Param("id"), semester)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, grades)
}

// StudentGrade godoc
// @Summary Get a student's grade in one course
// @Tags Grades
// @Produce json
// @Param id path string true "Student ID"
// @Param code path string true "Course code"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/grades/{code} [get]
func (h *EnrollmentHandler) StudentGrade(c *gin.Context) {
	grade, err := h.enrollments.StudentGrade(c.Request.Context(), c.Param("id"), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{
		"student_id":  c.Param("id"),
		"course_code": c.Param("code"),
		"grade":       grade,
	})
}

// EnrolledStudents godoc
// @Summary List students enrolled in a course
// @Tags Enrollments
// @Produce json
// @Param code path string true "Course code"
// @Success 200 {object} response.Envelope
// @Router /courses/{code}/students [get]
func (h *EnrollmentHandler) EnrolledStudents(c *gin.Context) {
	students, err := h.enrollments.EnrolledStudents(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students)
}

// GradeDistribution godoc
// @Summary Count grades per letter for a course
// @Tags Grades
// @Produce json
// @Param code path string true "Course code"
// @Success 200 {object} response.Envelope
// @Router /courses/{code}/grades/distribution [get]
func (h *EnrollmentHandler) GradeDistribution(c *gin.Context) {
	distribution, err := h.enrollments.GradeDistribution(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, distribution)
}

// AverageGrade godoc
// @Summary Average grade points for a course
// @Tags Grades
// @Produce json
// @Param code path string true "Course code"
// @Success 200 {object} response.Envelope
// @Router /courses/{code}/grades/average [get]
func (h *EnrollmentHandler) AverageGrade(c *gin.Context) {
	average, err := h.enrollments.AverageGrade(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"course_code": c.Param("code"), "average_points": average})
}

// TopPerformers godoc
// @Summary Rank the best graded students in a course
// @Tags Grades
// @Produce json
// @Param code path string true "Course code"
// @Param limit query int false "Maximum entries"
// @Success 200 {object} response.Envelope
// @Router /courses/{code}/grades/top [get]
func (h *EnrollmentHandler) TopPerformers(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "3"))
	if err != nil || limit <= 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "limit must be a positive integer"))
		return
	}
	ranked, rankErr := h.enrollments.TopPerformers(c.Request.Context(), c.Param("code"), limit)
	if rankErr != nil {
		response.Error(c, rankErr)
		return
	}
	response.JSON(c, http.StatusOK, ranked)
}
