package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edu-ccrm/ccrm-api/internal/service"
	"github.com/edu-ccrm/ccrm-api/pkg/response"
)

// BackupHandler exposes snapshot endpoints.
type BackupHandler struct {
	backups *service.BackupService
}

// NewBackupHandler constructs BackupHandler.
func NewBackupHandler(backups *service.BackupService) *BackupHandler {
	return &BackupHandler{backups: backups}
}

// Create godoc
// @Summary Write a new backup snapshot
// @Tags Backups
// @Produce json
// @Success 201 {object} response.Envelope
// @Router /backups [post]
func (h *BackupHandler) Create(c *gin.Context) {
	backup, err := h.backups.Create(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, backup)
}

// List godoc
// @Summary List backup snapshots
// @Tags Backups
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /backups [get]
func (h *BackupHandler) List(c *gin.Context) {
	backups, err := h.backups.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, backups)
}

// TotalSize godoc
// @Summary Combined size of all backup snapshots
// @Tags Backups
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /backups/size [get]
func (h *BackupHandler) TotalSize(c *gin.Context) {
	bytes, human, err := h.backups.TotalSize(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"size_bytes": bytes, "size": human})
}

// Cleanup godoc
// @Summary Prune backups beyond the retention count
// @Tags Backups
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /backups/cleanup [post]
func (h *BackupHandler) Cleanup(c *gin.Context) {
	removed, err := h.backups.Cleanup(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"removed": removed})
}
