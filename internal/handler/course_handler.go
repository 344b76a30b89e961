package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/edu-ccrm/ccrm-api/internal/models"
	"github.com/edu-ccrm/ccrm-api/internal/service"
	appErrors "github.com/edu-ccrm/ccrm-api/pkg/errors"
	"github.com/edu-ccrm/ccrm-api/pkg/response"
)

// CourseHandler exposes course catalog endpoints.
type CourseHandler struct {
	courses *service.CourseService
}

// NewCourseHandler constructs CourseHandler.
func NewCourseHandler(courses *service.CourseService) *CourseHandler {
	return &CourseHandler{courses: courses}
}

// List godoc
// @Summary List courses
// @Tags Courses
// @Produce json
// @Param department query string false "Filter by department"
// @Param semester query string false "Filter by semester (SPRING, SUMMER, FALL)"
// @Param instructor query string false "Filter by instructor id"
// @Param search query string false "Search by title"
// @Param min_credits query int false "Minimum credits"
// @Param max_credits query int false "Maximum credits"
// @Param active query bool false "Combine active with department and semester"
// @Success 200 {object} response.Envelope
// @Router /courses [get]
func (h *CourseHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	department := c.Query("department")
	rawSemester := c.Query("semester")

	var semester models.Semester
	if rawSemester != "" {
		parsed, err := models.ParseSemester(rawSemester)
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid semester"))
			return
		}
		semester = parsed
	}

	switch {
	case c.Query("active") == "true" && department != "" && semester != "":
		response.JSON(c, http.StatusOK, h.courses.FilterActiveByDepartmentAndSemester(ctx, department, semester))
	case department != "":
		response.JSON(c, http.StatusOK, h.courses.FindByDepartment(ctx, department))
	case semester != "":
		response.JSON(c, http.StatusOK, h.courses.FindBySemester(ctx, semester))
	case c.Query("instructor") != "":
		response.JSON(c, http.StatusOK, h.courses.FindByInstructor(ctx, c.Query("instructor")))
	case strings.TrimSpace(c.Query("search")) != "":
		response.JSON(c, http.StatusOK, h.courses.SearchByTitle(ctx, strings.TrimSpace(c.Query("search"))))
	case c.Query("min_credits") != "" || c.Query("max_credits") != "":
		min, err := strconv.Atoi(c.DefaultQuery("min_credits", "0"))
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "min_credits must be an integer"))
			return
		}
		max, err := strconv.Atoi(c.DefaultQuery("max_credits", strconv.Itoa(1<<31-1)))
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "max_credits must be an integer"))
			return
		}
		response.JSON(c, http.StatusOK, h.courses.FilterByCredits(ctx, min, max))
	default:
		response.JSON(c, http.StatusOK, h.courses.List(ctx))
	}
}

// Get godoc
// @Summary Get course detail
// @Tags Courses
// @Produce json
// @Param code path string true "Course code"
// @Success 200 {object} response.Envelope
// @Router /courses/{code} [get]
func (h *CourseHandler) Get(c *gin.Context) {
	course, err := h.courses.Get(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, course)
}

// Create godoc
// @Summary Add course
// @Tags Courses
// @Accept json
// @Produce json
// @Param payload body service.CreateCourseRequest true "Course payload"
// @Success 201 {object} response.Envelope
// @Router /courses [post]
func (h *CourseHandler) Create(c *gin.Context) {
	var req service.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	course, err := h.courses.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, course)
}

// Update godoc
// @Summary Update course
// @Tags Courses
// @Accept json
// @Produce json
// @Param code path string true "Course code"
// @Param payload body service.UpdateCourseRequest true "Course payload"
// @Success 200 {object} response.Envelope
// @Router /courses/{code} [put]
func (h *CourseHandler) Update(c *gin.Context) {
	var req service.UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	course, err := h.courses.Update(c.Request.Context(), c.Param("code"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, course)
}

// Delete godoc
// @Summary Delete course
// @Tags Courses
// @Produce json
// @Param code path string true "Course code"
// @Success 204
// @Router /courses/{code} [delete]
func (h *CourseHandler) Delete(c *gin.Context) {
	if err := h.courses.Delete(c.Request.Context(), c.Param("code")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Deactivate godoc
// @Summary Deactivate course
// @Tags Courses
// @Produce json
// @Param code path string true "Course code"
// @Success 200 {object} response.Envelope
// @Router /courses/{code}/deactivate [post]
func (h *CourseHandler) Deactivate(c *gin.Context) {
	course, err := h.courses.Deactivate(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, course)
}

type assignInstructorRequest struct {
	InstructorID string `json:"instructor_id" binding:"required"`
}

// AssignInstructor godoc
// @Summary Assign instructor to course
// @Tags Courses
// @Accept json
// @Produce json
// @Param code path string true "Course code"
// @Param payload body assignInstructorRequest true "Instructor reference"
// @Success 200 {object} response.Envelope
// @Router /courses/{code}/instructor [put]
func (h *CourseHandler) AssignInstructor(c *gin.Context) {
	var req assignInstructorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	course, err := h.courses.AssignInstructor(c.Request.Context(), c.Param("code"), req.InstructorID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, course)
}

// UnassignInstructor godoc
// @Summary Remove instructor from course
// @Tags Courses
// @Produce json
// @Param code path string true "Course code"
// @Success 200 {object} response.Envelope
// @Router /courses/{code}/instructor [delete]
func (h *CourseHandler) UnassignInstructor(c *gin.Context) {
	course, err := h.courses.UnassignInstructor(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, course)
}
