package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edu-ccrm/ccrm-api/internal/service"
	"github.com/edu-ccrm/ccrm-api/pkg/response"
)

// TranscriptHandler exposes academic record endpoints.
type TranscriptHandler struct {
	transcripts *service.TranscriptService
	exports     *service.ExportService
}

// NewTranscriptHandler constructs TranscriptHandler.
func NewTranscriptHandler(transcripts *service.TranscriptService, exports *service.ExportService) *TranscriptHandler {
	return &TranscriptHandler{transcripts: transcripts, exports: exports}
}

// Transcript godoc
// @Summary Build a student's transcript
// @Tags Transcripts
// @Produce json
// @Param id path string true "Student ID"
// @Param semester query string false "Restrict course lines to one semester"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/transcript [get]
func (h *TranscriptHandler) Transcript(c *gin.Context) {
	semester, ok := parseSemesterQuery(c)
	if !ok {
		return
	}
	var err error
	var transcript interface{}
	if semester != "" {
		transcript, err = h.transcripts.SemesterTranscript(c.Request.Context(), c.Param("id"), semester)
	} else {
		transcript, err = h.transcripts.Transcript(c.Request.Context(), c.Param("id"))
	}
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, transcript)
}

// TranscriptPDF godoc
// @Summary Download a student's transcript as PDF
// @Tags Transcripts
// @Produce application/pdf
// @Param id path string true "Student ID"
// @Success 200 {file} binary
// @Router /students/{id}/transcript/pdf [get]
func (h *TranscriptHandler) TranscriptPDF(c *gin.Context) {
	data, err := h.exports.TranscriptPDF(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="transcript_`+c.Param("id")+`.pdf"`)
	c.Data(http.StatusOK, "application/pdf", data)
}

// GPAProgression godoc
// @Summary Per-semester GPA progression
// @Tags Transcripts
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/transcript/progression [get]
func (h *TranscriptHandler) GPAProgression(c *gin.Context) {
	progression, err := h.transcripts.GPAProgression(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, progression)
}

// CompletedCourses godoc
// @Summary List a student's passed courses
// @Tags Transcripts
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/transcript/completed [get]
func (h *TranscriptHandler) CompletedCourses(c *gin.Context) {
	completed, err := h.transcripts.CompletedCourses(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, completed)
}
