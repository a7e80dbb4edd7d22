// internal/handler/snapshot_handler.go
package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"scanner-service/internal/fileio"
	"scanner-service/internal/model"
	"scanner-service/internal/repository"
	"scanner-service/internal/service"
	"scanner-service/internal/utils"
)

// SnapshotHandler handles stored snapshot HTTP requests
type SnapshotHandler struct {
	snapshotService *service.SnapshotService
	logger          *utils.ServiceLogger
}

// NewSnapshotHandler creates a new snapshot handler
func NewSnapshotHandler(snapshotService *service.SnapshotService, logger *zap.Logger) *SnapshotHandler {
	return &SnapshotHandler{
		snapshotService: snapshotService,
		logger:          utils.NewServiceLogger(logger, "snapshot-handler"),
	}
}

// RegisterRoutes registers snapshot-related routes
func (h *SnapshotHandler) RegisterRoutes(router *gin.RouterGroup) {
	snapshots := router.Group("/snapshots")
	{
		snapshots.GET("", h.ListSnapshots)
		snapshots.POST("", h.UploadSnapshot)

		snapshotRoutes := snapshots.Group("/:id")
		{
			snapshotRoutes.GET("", h.GetSnapshot)
			snapshotRoutes.DELETE("", h.DeleteSnapshot)
			snapshotRoutes.GET("/download", h.DownloadSnapshot)
		}
	}
}

// ListSnapshots lists stored snapshots
// @Summary List snapshots
// @Description Get stored snapshots with filtering and pagination support
// @Tags Snapshots
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param model query string false "Filter by scanner model"
// @Param source query string false "Filter by source" Enums(DEVICE, FILE)
// @Success 200 {object} utils.APIResponse{data=object{snapshots=[]model.StoredSnapshot,pagination=service.PaginationResult}} "Snapshots retrieved"
// @Failure 500 {object} utils.APIResponse "Internal server error"
// @Router /snapshots [get]
func (h *SnapshotHandler) ListSnapshots(c *gin.Context) {
	filter := &repository.SnapshotFilter{
		Page:    1,
		PerPage: 20,
	}

	if page := c.Query("page"); page != "" {
		if p, err := strconv.Atoi(page); err == nil && p > 0 {
			filter.Page = p
		}
	}
	if perPage := c.Query("per_page"); perPage != "" {
		if pp, err := strconv.Atoi(perPage); err == nil && pp > 0 && pp <= 100 {
			filter.PerPage = pp
		}
	}
	if scannerModel := c.Query("model"); scannerModel != "" {
		filter.Model = &scannerModel
	}
	if source := c.Query("source"); source != "" {
		s := model.SnapshotSource(source)
		filter.Source = &s
	}

	snapshots, pagination, err := h.snapshotService.List(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("Failed to list snapshots", zap.Error(err))
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to list snapshots", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Snapshots retrieved", gin.H{
		"snapshots":  snapshots,
		"pagination": pagination,
	})
}

// UploadSnapshot stores an uploaded snapshot document
// @Summary Upload snapshot
// @Description Store a snapshot JSON document (multipart field "file") for later import
// @Tags Snapshots
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Snapshot JSON document"
// @Param label formData string false "Snapshot label"
// @Success 201 {object} utils.APIResponse{data=model.StoredSnapshot} "Snapshot stored"
// @Failure 400 {object} utils.APIResponse "Invalid snapshot document"
// @Failure 500 {object} utils.APIResponse "Internal server error"
// @Router /snapshots [post]
func (h *SnapshotHandler) UploadSnapshot(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Snapshot file is required", err)
		return
	}
	reader, err := file.Open()
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Failed to read uploaded file", err)
		return
	}
	defer reader.Close()

	snap, err := fileio.DecodeSnapshot(reader)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid snapshot document", err)
		return
	}

	label := c.PostForm("label")
	if label == "" {
		label = file.Filename
	}

	stored, err := h.snapshotService.StoreDocument(c.Request.Context(), label, snap)
	if err != nil {
		h.logger.Error("Failed to store snapshot", zap.Error(err))
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to store snapshot", err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Snapshot stored", stored)
}

// GetSnapshot retrieves one stored snapshot
// @Summary Get snapshot
// @Description Get one stored snapshot including its full document
// @Tags Snapshots
// @Accept json
// @Produce json
// @Param id path string true "Snapshot ID" format(uuid)
// @Success 200 {object} utils.APIResponse{data=model.StoredSnapshot} "Snapshot retrieved"
// @Failure 400 {object} utils.APIResponse "Invalid snapshot ID"
// @Failure 404 {object} utils.APIResponse "Snapshot not found"
// @Router /snapshots/{id} [get]
func (h *SnapshotHandler) GetSnapshot(c *gin.Context) {
	id, ok := h.snapshotID(c)
	if !ok {
		return
	}

	snapshot, err := h.snapshotService.Get(c.Request.Context(), id)
	if err != nil {
		utils.ErrorResponse(c, http.StatusNotFound, "Snapshot not found", err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Snapshot retrieved", snapshot)
}

// DeleteSnapshot removes one stored snapshot
// @Summary Delete snapshot
// @Description Delete one stored snapshot. Operations referencing it keep their audit records.
// @Tags Snapshots
// @Accept json
// @Produce json
// @Param id path string true "Snapshot ID" format(uuid)
// @Success 200 {object} utils.APIResponse "Snapshot deleted"
// @Failure 400 {object} utils.APIResponse "Invalid snapshot ID"
// @Failure 404 {object} utils.APIResponse "Snapshot not found"
// @Router /snapshots/{id} [delete]
func (h *SnapshotHandler) DeleteSnapshot(c *gin.Context) {
	id, ok := h.snapshotID(c)
	if !ok {
		return
	}

	if err := h.snapshotService.Delete(c.Request.Context(), id); err != nil {
		utils.ErrorResponse(c, http.StatusNotFound, "Snapshot not found", err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Snapshot deleted", nil)
}

// DownloadSnapshot downloads a stored snapshot document
// @Summary Download snapshot
// @Description Download a stored snapshot as its JSON document or its channels as a CSV table
// @Tags Snapshots
// @Accept json
// @Produce application/octet-stream
// @Param id path string true "Snapshot ID" format(uuid)
// @Param format query string false "Download format" Enums(json, csv) default(json)
// @Success 200 {file} file "Snapshot document"
// @Failure 400 {object} utils.APIResponse "Invalid request"
// @Failure 404 {object} utils.APIResponse "Snapshot not found"
// @Router /snapshots/{id}/download [get]
func (h *SnapshotHandler) DownloadSnapshot(c *gin.Context) {
	id, ok := h.snapshotID(c)
	if !ok {
		return
	}

	format := c.DefaultQuery("format", "json")
	if format != "json" && format != "csv" {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid format", fmt.Errorf("format must be json or csv, got %q", format))
		return
	}

	stamp := time.Now().Format("20060102-150405")
	switch format {
	case "json":
		c.Header("Content-Type", "application/json")
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=snapshot-%s.json", stamp))
		c.Status(http.StatusOK)
		if err := h.snapshotService.WriteJSON(c.Request.Context(), id, c.Writer); err != nil {
			h.logger.Error("Failed to stream snapshot", zap.Error(err), zap.String("snapshot_id", id.String()))
		}
	case "csv":
		c.Header("Content-Type", "text/csv")
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=snapshot-%s.csv", stamp))
		c.Status(http.StatusOK)
		if err := h.snapshotService.WriteCSV(c.Request.Context(), id, c.Writer); err != nil {
			h.logger.Error("Failed to stream snapshot", zap.Error(err), zap.String("snapshot_id", id.String()))
		}
	}
}

// snapshotID parses and validates the :id path parameter. On failure
// it writes the error response and returns ok=false.
func (h *SnapshotHandler) snapshotID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid snapshot ID", err)
		return uuid.Nil, false
	}
	return id, true
}
