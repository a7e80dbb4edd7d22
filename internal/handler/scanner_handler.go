// internal/handler/scanner_handler.go
package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"scanner-service/internal/bc125"
	"scanner-service/internal/fileio"
	"scanner-service/internal/protocol"
	"scanner-service/internal/service"
	"scanner-service/internal/utils"
)

// ScannerHandler handles scanner programming HTTP requests
type ScannerHandler struct {
	programService   *service.ProgramService
	snapshotService  *service.SnapshotService
	discoveryService *service.DiscoveryService
	logger           *utils.ServiceLogger
}

// NewScannerHandler creates a new scanner handler
func NewScannerHandler(
	programService *service.ProgramService,
	snapshotService *service.SnapshotService,
	discoveryService *service.DiscoveryService,
	logger *zap.Logger,
) *ScannerHandler {
	return &ScannerHandler{
		programService:   programService,
		snapshotService:  snapshotService,
		discoveryService: discoveryService,
		logger:           utils.NewServiceLogger(logger, "scanner-handler"),
	}
}

// RegisterRoutes registers scanner-related routes
func (h *ScannerHandler) RegisterRoutes(router *gin.RouterGroup) {
	scanner := router.Group("/scanner")
	{
		scanner.GET("/info", h.GetInfo)
		scanner.POST("/test", h.TestConnection)
		scanner.GET("/discover", h.Discover)
		scanner.POST("/driver", h.SetupDriver)

		scanner.POST("/export", h.ExportAll)
		scanner.GET("/channels/export", h.ExportChannels)
		scanner.POST("/import", h.Import)
		scanner.POST("/channels/import", h.ImportChannels)

		channels := scanner.Group("/channels/:index")
		{
			channels.GET("", h.ReadChannel)
			channels.PUT("", h.WriteChannel)
			channels.DELETE("", h.DeleteChannel)
		}

		scanner.GET("/settings", h.ListSettings)
		settings := scanner.Group("/settings/:name")
		{
			settings.GET("", h.ReadSetting)
			settings.PUT("", h.WriteSetting)
		}

		scanner.DELETE("/banks/:bank", h.ClearBank)
		scanner.POST("/memory/clear", h.ClearAllMemory)
		scanner.POST("/unlock", h.Unlock)
		scanner.POST("/shell", h.Shell)
	}
}

// GetInfo reads the scanner identity
// @Summary Get scanner info
// @Description Read the connected scanner's model and firmware version
// @Tags Scanner
// @Accept json
// @Produce json
// @Success 200 {object} utils.APIResponse{data=service.InfoResult} "Scanner info retrieved"
// @Failure 502 {object} utils.APIResponse "Scanner rejected the command"
// @Failure 503 {object} utils.APIResponse "Scanner unavailable"
// @Failure 504 {object} utils.APIResponse "Scanner timeout"
// @Router /scanner/info [get]
func (h *ScannerHandler) GetInfo(c *gin.Context) {
	info, err := h.programService.Info(c.Request.Context())
	if err != nil {
		h.respondScannerError(c, "Failed to read scanner info", err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Scanner info retrieved", info)
}

// TestConnection checks scanner connectivity
// @Summary Test scanner connection
// @Description Check that a scanner answers on the configured or discovered port
// @Tags Scanner
// @Accept json
// @Produce json
// @Success 200 {object} utils.APIResponse{data=service.TestResult} "Connection test completed"
// @Router /scanner/test [post]
func (h *ScannerHandler) TestConnection(c *gin.Context) {
	result, err := h.programService.Test(c.Request.Context())
	if err != nil {
		h.respondScannerError(c, "Connection test failed", err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Connection test completed", result)
}

// Discover enumerates candidate ports and USB devices
// @Summary Discover scanner
// @Description Enumerate serial port candidates and check the USB bus for the scanner
// @Tags Scanner
// @Accept json
// @Produce json
// @Success 200 {object} utils.APIResponse{data=service.DiscoveryResult} "Discovery completed"
// @Failure 500 {object} utils.APIResponse "Discovery failed"
// @Router /scanner/discover [get]
func (h *ScannerHandler) Discover(c *gin.Context) {
	result, err := h.discoveryService.Discover(c.Request.Context())
	if err != nil {
		h.logger.Error("Discovery failed", zap.Error(err))
		utils.ErrorResponse(c, http.StatusInternalServerError, "Discovery failed", err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Discovery completed", result)
}

// SetupDriver registers the scanner with the kernel serial driver
// @Summary Set up serial driver
// @Description Register the scanner's USB IDs with the kernel's generic usb-serial driver (Linux, requires root)
// @Tags Scanner
// @Accept json
// @Produce json
// @Success 200 {object} utils.APIResponse "Driver configured"
// @Failure 500 {object} utils.APIResponse "Driver setup failed"
// @Router /scanner/driver [post]
func (h *ScannerHandler) SetupDriver(c *gin.Context) {
	if err := h.discoveryService.SetupDriver(); err != nil {
		h.logger.Error("Driver setup failed", zap.Error(err))
		utils.ErrorResponse(c, http.StatusInternalServerError, "Driver setup failed", err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Driver configured", nil)
}

// ExportAllRequest names the snapshot created by a full export.
type ExportAllRequest struct {
	Label string `json:"label"`
}

// ExportAll exports the full scanner state into a stored snapshot
// @Summary Export full scanner state
// @Description Read identity, all settings and all 500 channels into a stored snapshot. Per-item failures leave the operation PARTIAL.
// @Tags Scanner
// @Accept json
// @Produce json
// @Param request body ExportAllRequest false "Snapshot label"
// @Success 201 {object} utils.APIResponse{data=model.StoredSnapshot} "Snapshot created"
// @Failure 502 {object} utils.APIResponse "Scanner rejected the command"
// @Failure 503 {object} utils.APIResponse "Scanner unavailable"
// @Failure 504 {object} utils.APIResponse "Scanner timeout"
// @Router /scanner/export [post]
func (h *ScannerHandler) ExportAll(c *gin.Context) {
	var req ExportAllRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
			return
		}
	}
	if req.Label == "" {
		req.Label = "export " + time.Now().Format("2006-01-02 15:04:05")
	}

	snapshot, err := h.programService.ExportAll(c.Request.Context(), req.Label)
	if err != nil {
		h.respondScannerError(c, "Export failed", err)
		return
	}
	utils.SuccessResponse(c, http.StatusCreated, "Snapshot created", snapshot)
}

// ExportChannels downloads the channel table
// @Summary Export channels
// @Description Read all 500 channels and download them as a CSV table or JSON document
// @Tags Scanner
// @Accept json
// @Produce text/csv
// @Param format query string false "Download format" Enums(csv, json) default(csv)
// @Success 200 {file} file "Channel table"
// @Failure 502 {object} utils.APIResponse "Scanner rejected the command"
// @Failure 503 {object} utils.APIResponse "Scanner unavailable"
// @Failure 504 {object} utils.APIResponse "Scanner timeout"
// @Router /scanner/channels/export [get]
func (h *ScannerHandler) ExportChannels(c *gin.Context) {
	format := c.DefaultQuery("format", "csv")
	if format != "csv" && format != "json" {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid format", fmt.Errorf("format must be csv or json, got %q", format))
		return
	}

	records, err := h.programService.ExportChannels(c.Request.Context())
	if err != nil {
		h.respondScannerError(c, "Channel export failed", err)
		return
	}

	stamp := time.Now().Format("20060102-150405")
	if format == "json" {
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=channels-%s.json", stamp))
		c.JSON(http.StatusOK, records)
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=channels-%s.csv", stamp))
	c.Status(http.StatusOK)
	if err := fileio.WriteChannelCSV(c.Writer, records); err != nil {
		h.logger.Error("Failed to stream channel table", zap.Error(err))
	}
}

// ImportRequest selects a stored snapshot to program from.
type ImportRequest struct {
	SnapshotID string `json:"snapshot_id"`
}

// Import programs the scanner from a snapshot
// @Summary Import scanner state
// @Description Program the scanner from an uploaded snapshot file (multipart field "file") or a stored snapshot referenced by snapshot_id. Settings are written first, then channels; the first failure aborts.
// @Tags Scanner
// @Accept json
// @Accept multipart/form-data
// @Produce json
// @Param request body ImportRequest false "Stored snapshot reference"
// @Param file formData file false "Snapshot JSON document"
// @Success 200 {object} utils.APIResponse{data=model.Operation} "Import completed"
// @Failure 400 {object} utils.APIResponse "Invalid snapshot document"
// @Failure 502 {object} utils.APIResponse "Scanner rejected the command"
// @Failure 503 {object} utils.APIResponse "Scanner unavailable"
// @Failure 504 {object} utils.APIResponse "Scanner timeout"
// @Router /scanner/import [post]
func (h *ScannerHandler) Import(c *gin.Context) {
	snap, ok := h.resolveImportDocument(c)
	if !ok {
		return
	}

	op, err := h.programService.Import(c.Request.Context(), snap)
	if err != nil {
		h.respondScannerError(c, "Import failed", err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Import completed", op)
}

// resolveImportDocument loads the snapshot document from the uploaded
// file or the referenced stored snapshot. On failure it writes the
// error response and returns ok=false.
func (h *ScannerHandler) resolveImportDocument(c *gin.Context) (*fileio.Snapshot, bool) {
	if file, err := c.FormFile("file"); err == nil {
		reader, err := file.Open()
		if err != nil {
			utils.ErrorResponse(c, http.StatusBadRequest, "Failed to read uploaded file", err)
			return nil, false
		}
		defer reader.Close()

		snap, err := fileio.DecodeSnapshot(reader)
		if err != nil {
			utils.ErrorResponse(c, http.StatusBadRequest, "Invalid snapshot document", err)
			return nil, false
		}
		return snap, true
	}

	var req ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.SnapshotID == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "Provide a snapshot file or snapshot_id", err)
		return nil, false
	}
	id, err := uuid.Parse(req.SnapshotID)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid snapshot_id", err)
		return nil, false
	}

	snap, err := h.snapshotService.Document(c.Request.Context(), id)
	if err != nil {
		utils.ErrorResponse(c, http.StatusNotFound, "Snapshot not found", err)
		return nil, false
	}
	return snap, true
}

// ImportChannels programs channels from an uploaded CSV table
// @Summary Import channels from CSV
// @Description Program channel slots from an uploaded CSV table (multipart field "file"). Every row is validated before programming starts; the first write failure aborts.
// @Tags Scanner
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Channel CSV table"
// @Success 200 {object} utils.APIResponse{data=model.Operation} "Channels imported"
// @Failure 400 {object} utils.APIResponse "Invalid channel table"
// @Failure 502 {object} utils.APIResponse "Scanner rejected the command"
// @Failure 503 {object} utils.APIResponse "Scanner unavailable"
// @Failure 504 {object} utils.APIResponse "Scanner timeout"
// @Router /scanner/channels/import [post]
func (h *ScannerHandler) ImportChannels(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Channel table file is required", err)
		return
	}
	reader, err := file.Open()
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Failed to read uploaded file", err)
		return
	}
	defer reader.Close()

	records, err := fileio.ReadChannelCSV(reader)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid channel table", err)
		return
	}

	op, err := h.programService.ImportChannels(c.Request.Context(), records)
	if err != nil {
		h.respondScannerError(c, "Channel import failed", err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Channels imported", op)
}

// ReadChannel reads one channel slot
// @Summary Read channel
// @Description Read one channel slot by index (1-500)
// @Tags Channels
// @Accept json
// @Produce json
// @Param index path int true "Channel index" minimum(1) maximum(500)
// @Success 200 {object} utils.APIResponse{data=bc125.Dict} "Channel retrieved"
// @Failure 400 {object} utils.APIResponse "Invalid channel index"
// @Failure 502 {object} utils.APIResponse "Scanner rejected the command"
// @Router /scanner/channels/{index} [get]
func (h *ScannerHandler) ReadChannel(c *gin.Context) {
	index, ok := h.channelIndex(c)
	if !ok {
		return
	}
	channel, err := h.programService.ReadChannel(c.Request.Context(), index)
	if err != nil {
		h.respondScannerError(c, "Failed to read channel", err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Channel retrieved", channel)
}

// WriteChannel programs one channel slot
// @Summary Write channel
// @Description Program one channel slot from its dictionary form
// @Tags Channels
// @Accept json
// @Produce json
// @Param index path int true "Channel index" minimum(1) maximum(500)
// @Param request body bc125.Dict true "Channel fields"
// @Success 200 {object} utils.APIResponse{data=model.Operation} "Channel written"
// @Failure 400 {object} utils.APIResponse "Invalid request"
// @Failure 422 {object} utils.APIResponse "Channel validation failed"
// @Failure 502 {object} utils.APIResponse "Scanner rejected the command"
// @Router /scanner/channels/{index} [put]
func (h *ScannerHandler) WriteChannel(c *gin.Context) {
	index, ok := h.channelIndex(c)
	if !ok {
		return
	}
	var data bc125.Dict
	if err := c.ShouldBindJSON(&data); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	op, err := h.programService.WriteChannel(c.Request.Context(), index, data)
	if err != nil {
		h.respondScannerError(c, "Failed to write channel", err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Channel written", op)
}

// DeleteChannel clears one channel slot
// @Summary Delete channel
// @Description Clear one channel slot, returning it to its empty state
// @Tags Channels
// @Accept json
// @Produce json
// @Param index path int true "Channel index" minimum(1) maximum(500)
// @Success 200 {object} utils.APIResponse{data=model.Operation} "Channel deleted"
// @Failure 400 {object} utils.APIResponse "Invalid channel index"
// @Failure 502 {object} utils.APIResponse "Scanner rejected the command"
// @Router /scanner/channels/{index} [delete]
func (h *ScannerHandler) DeleteChannel(c *gin.Context) {
	index, ok := h.channelIndex(c)
	if !ok {
		return
	}
	op, err := h.programService.DeleteChannel(c.Request.Context(), index)
	if err != nil {
		h.respondScannerError(c, "Failed to delete channel", err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Channel deleted", op)
}

// ListSettings lists the programmable global settings
// @Summary List settings
// @Description List the names of the scanner's programmable global settings
// @Tags Settings
// @Accept json
// @Produce json
// @Success 200 {object} utils.APIResponse{data=object{settings=[]string}} "Settings listed"
// @Router /scanner/settings [get]
func (h *ScannerHandler) ListSettings(c *gin.Context) {
	utils.SuccessResponse(c, http.StatusOK, "Settings listed", gin.H{
		"settings": bc125.SettingNames(),
	})
}

// ReadSetting reads one global setting
// @Summary Read setting
// @Description Read one global setting by name
// @Tags Settings
// @Accept json
// @Produce json
// @Param name path string true "Setting name" Enums(backlight, charge_timer, key_beep, priority_mode, scan_channel_group, volume, squelch)
// @Success 200 {object} utils.APIResponse{data=bc125.Dict} "Setting retrieved"
// @Failure 400 {object} utils.APIResponse "Unknown setting"
// @Failure 502 {object} utils.APIResponse "Scanner rejected the command"
// @Router /scanner/settings/{name} [get]
func (h *ScannerHandler) ReadSetting(c *gin.Context) {
	setting, err := h.programService.ReadSetting(c.Request.Context(), c.Param("name"))
	if err != nil {
		h.respondScannerError(c, "Failed to read setting", err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Setting retrieved", setting)
}

// WriteSetting programs one global setting
// @Summary Write setting
// @Description Program one global setting from its dictionary form
// @Tags Settings
// @Accept json
// @Produce json
// @Param name path string true "Setting name" Enums(backlight, charge_timer, key_beep, priority_mode, scan_channel_group, volume, squelch)
// @Param request body bc125.Dict true "Setting fields"
// @Success 200 {object} utils.APIResponse{data=model.Operation} "Setting written"
// @Failure 400 {object} utils.APIResponse "Invalid request"
// @Failure 422 {object} utils.APIResponse "Setting validation failed"
// @Failure 502 {object} utils.APIResponse "Scanner rejected the command"
// @Router /scanner/settings/{name} [put]
func (h *ScannerHandler) WriteSetting(c *gin.Context) {
	var data bc125.Dict
	if err := c.ShouldBindJSON(&data); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	op, err := h.programService.WriteSetting(c.Request.Context(), c.Param("name"), data)
	if err != nil {
		h.respondScannerError(c, "Failed to write setting", err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Setting written", op)
}

// ClearBank clears one channel bank
// @Summary Clear bank
// @Description Delete every channel slot in one bank (1-10)
// @Tags Scanner
// @Accept json
// @Produce json
// @Param bank path int true "Bank number" minimum(1) maximum(10)
// @Success 200 {object} utils.APIResponse{data=model.Operation} "Bank cleared"
// @Failure 400 {object} utils.APIResponse "Invalid bank number"
// @Failure 502 {object} utils.APIResponse "Scanner rejected the command"
// @Router /scanner/banks/{bank} [delete]
func (h *ScannerHandler) ClearBank(c *gin.Context) {
	bank, err := strconv.Atoi(c.Param("bank"))
	if err != nil || !bc125.ValidBankNumber(bank) {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid bank number", fmt.Errorf("bank must be 1-%d, got %q", bc125.NumBanks, c.Param("bank")))
		return
	}

	op, err := h.programService.ClearBank(c.Request.Context(), bank)
	if err != nil {
		h.respondScannerError(c, "Failed to clear bank", err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Bank cleared", op)
}

// ClearAllMemory factory-resets the scanner memory
// @Summary Clear all memory
// @Description Factory-reset the scanner's memory. This wipes all channels and settings.
// @Tags Scanner
// @Accept json
// @Produce json
// @Success 200 {object} utils.APIResponse{data=model.Operation} "Memory cleared"
// @Failure 502 {object} utils.APIResponse "Scanner rejected the command"
// @Router /scanner/memory/clear [post]
func (h *ScannerHandler) ClearAllMemory(c *gin.Context) {
	op, err := h.programService.ClearAllMemory(c.Request.Context())
	if err != nil {
		h.respondScannerError(c, "Failed to clear memory", err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Memory cleared", op)
}

// Unlock releases a scanner stuck in program mode
// @Summary Unlock scanner
// @Description Release a scanner left in program mode by a dead session. Safe to call when the scanner is already unlocked.
// @Tags Scanner
// @Accept json
// @Produce json
// @Success 200 {object} utils.APIResponse{data=model.Operation} "Scanner unlocked"
// @Failure 503 {object} utils.APIResponse "Scanner unavailable"
// @Router /scanner/unlock [post]
func (h *ScannerHandler) Unlock(c *gin.Context) {
	op, err := h.programService.Unlock(c.Request.Context())
	if err != nil {
		h.respondScannerError(c, "Failed to unlock scanner", err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Scanner unlocked", op)
}

// ShellRequest carries one raw command line.
type ShellRequest struct {
	Command string `json:"command" binding:"required"`
}

// Shell sends a raw command to the scanner
// @Summary Raw command
// @Description Send one raw command line to the scanner and return the raw reply. No rejection check is applied.
// @Tags Scanner
// @Accept json
// @Produce json
// @Param request body ShellRequest true "Raw command"
// @Success 200 {object} utils.APIResponse{data=object{reply=string}} "Command executed"
// @Failure 400 {object} utils.APIResponse "Invalid request"
// @Failure 503 {object} utils.APIResponse "Scanner unavailable"
// @Failure 504 {object} utils.APIResponse "Scanner timeout"
// @Router /scanner/shell [post]
func (h *ScannerHandler) Shell(c *gin.Context) {
	var req ShellRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	reply, err := h.programService.Shell(c.Request.Context(), req.Command)
	if err != nil {
		h.respondScannerError(c, "Command failed", err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Command executed", gin.H{"reply": reply})
}

// channelIndex parses and validates the :index path parameter. On
// failure it writes the error response and returns ok=false.
func (h *ScannerHandler) channelIndex(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || !bc125.ValidChannelIndex(index) {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid channel index",
			fmt.Errorf("index must be %d-%d, got %q", bc125.FirstChannel, bc125.NumChannels, c.Param("index")))
		return 0, false
	}
	return index, true
}

// respondScannerError maps session errors onto HTTP statuses: rejected
// commands map to 502, transport faults to 503/504, validation
// failures to 422.
func (h *ScannerHandler) respondScannerError(c *gin.Context, message string, err error) {
	h.logger.Error(message, zap.Error(err))

	switch {
	case errors.Is(err, bc125.ErrCommandRejected):
		utils.ErrorResponse(c, http.StatusBadGateway, message, err)
	case errors.Is(err, protocol.ErrTimeout):
		utils.ErrorResponse(c, http.StatusGatewayTimeout, message, err)
	case errors.Is(err, protocol.ErrIO), errors.Is(err, protocol.ErrNotOpen):
		utils.ErrorResponse(c, http.StatusServiceUnavailable, message, err)
	case errors.Is(err, bc125.ErrFieldOutOfRange),
		errors.Is(err, bc125.ErrInvalidFieldValue),
		errors.Is(err, bc125.ErrMissingField),
		errors.Is(err, bc125.ErrUnexpectedField),
		errors.Is(err, bc125.ErrInvalidToneCode),
		errors.Is(err, bc125.ErrUnknownToneLabel):
		utils.ErrorResponse(c, http.StatusUnprocessableEntity, message, err)
	default:
		utils.ErrorResponse(c, http.StatusInternalServerError, message, err)
	}
}
