package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edu-ccrm/ccrm-api/internal/service"
	appErrors "github.com/edu-ccrm/ccrm-api/pkg/errors"
	"github.com/edu-ccrm/ccrm-api/pkg/response"
)

// ImportHandler exposes CSV import endpoints. Payloads arrive either
// as a multipart "file" field or as the raw request body.
type ImportHandler struct {
	imports *service.ImportService
}

// NewImportHandler constructs ImportHandler.
func NewImportHandler(imports *service.ImportService) *ImportHandler {
	return &ImportHandler{imports: imports}
}

func csvBody(c *gin.Context) (io.ReadCloser, error) {
	if file, err := c.FormFile("file"); err == nil {
		return file.Open()
	}
	return c.Request.Body, nil
}

// Students godoc
// @Summary Import students from CSV
// @Tags Imports
// @Accept text/csv
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /imports/students [post]
func (h *ImportHandler) Students(c *gin.Context) {
	body, err := csvBody(c)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "failed to read upload"))
		return
	}
	defer body.Close() //nolint:errcheck

	result, err := h.imports.ImportStudents(c.Request.Context(), body)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "failed to parse csv"))
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// Courses godoc
// @Summary Import courses from CSV
// @Tags Imports
// @Accept text/csv
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /imports/courses [post]
func (h *ImportHandler) Courses(c *gin.Context) {
	body, err := csvBody(c)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "failed to read upload"))
		return
	}
	defer body.Close() //nolint:errcheck

	result, err := h.imports.ImportCourses(c.Request.Context(), body)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "failed to parse csv"))
		return
	}
	response.JSON(c, http.StatusOK, result)
}
