package handler

import (
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/edu-ccrm/ccrm-api/internal/models"
	"github.com/edu-ccrm/ccrm-api/internal/service"
	appErrors "github.com/edu-ccrm/ccrm-api/pkg/errors"
	"github.com/edu-ccrm/ccrm-api/pkg/response"
)

// ExportHandler exposes synchronous CSV downloads and the asynchronous
// export job endpoints.
type ExportHandler struct {
	exports *service.ExportService
}

// NewExportHandler constructs ExportHandler.
func NewExportHandler(exports *service.ExportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

func (h *ExportHandler) serveCSV(c *gin.Context, filename string, data []byte, err error) {
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv", data)
}

// Students godoc
// @Summary Download the student directory as CSV
// @Tags Exports
// @Produce text/csv
// @Success 200 {file} binary
// @Router /exports/students [get]
func (h *ExportHandler) Students(c *gin.Context) {
	data, err := h.exports.StudentsCSV(c.Request.Context())
	h.serveCSV(c, "students.csv", data, err)
}

// Courses godoc
// @Summary Download the course catalog as CSV
// @Tags Exports
// @Produce text/csv
// @Success 200 {file} binary
// @Router /exports/courses [get]
func (h *ExportHandler) Courses(c *gin.Context) {
	data, err := h.exports.CoursesCSV(c.Request.Context())
	h.serveCSV(c, "courses.csv", data, err)
}

// Enrollments godoc
// @Summary Download all enrollments as CSV
// @Tags Exports
// @Produce text/csv
// @Success 200 {file} binary
// @Router /exports/enrollments [get]
func (h *ExportHandler) Enrollments(c *gin.Context) {
	data, err := h.exports.EnrollmentsCSV(c.Request.Context())
	h.serveCSV(c, "enrollments.csv", data, err)
}

// Grades godoc
// @Summary Download all recorded grades as CSV
// @Tags Exports
// @Produce text/csv
// @Success 200 {file} binary
// @Router /exports/grades [get]
func (h *ExportHandler) Grades(c *gin.Context) {
	data, err := h.exports.GradesCSV(c.Request.Context())
	h.serveCSV(c, "grades.csv", data, err)
}

type enqueueExportRequest struct {
	Type      string `json:"type" binding:"required"`
	StudentID string `json:"student_id"`
}

// Enqueue godoc
// @Summary Queue a background export
// @Tags Exports
// @Accept json
// @Produce json
// @Param payload body enqueueExportRequest true "Export request"
// @Success 201 {object} response.Envelope
// @Router /exports/jobs [post]
func (h *ExportHandler) Enqueue(c *gin.Context) {
	var req enqueueExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	job, err := h.exports.Enqueue(c.Request.Context(), models.ExportType(req.Type), req.StudentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, job)
}

// Jobs godoc
// @Summary List export jobs
// @Tags Exports
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /exports/jobs [get]
func (h *ExportHandler) Jobs(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.exports.Jobs(c.Request.Context()))
}

// Job godoc
// @Summary Get export job status
// @Tags Exports
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} response.Envelope
// @Router /exports/jobs/{id} [get]
func (h *ExportHandler) Job(c *gin.Context) {
	job, err := h.exports.Job(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, job)
}

// Download godoc
// @Summary Download the file of a completed export job
// @Tags Exports
// @Produce application/octet-stream
// @Param id path string true "Job ID"
// @Success 200 {file} binary
// @Router /exports/jobs/{id}/download [get]
func (h *ExportHandler) Download(c *gin.Context) {
	file, job, err := h.exports.OpenResult(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.Close() //nolint:errcheck

	info, err := file.Stat()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to stat export file"))
		return
	}
	contentType := "text/csv"
	if filepath.Ext(job.File) == ".pdf" {
		contentType = "application/pdf"
	}
	c.DataFromReader(http.StatusOK, info.Size(), contentType, file, map[string]string{
		"Content-Disposition": `attachment; filename="` + filepath.Base(job.File) + `"`,
	})
}

// Cleanup godoc
// @Summary Remove export files past their retention TTL
// @Tags Exports
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /exports/cleanup [post]
func (h *ExportHandler) Cleanup(ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		deleted, err := h.exports.CleanupExpired(ttl)
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to cleanup exports"))
			return
		}
		response.JSON(c, http.StatusOK, gin.H{"deleted": deleted})
	}
}
