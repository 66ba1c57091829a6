package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/wifiscout/scan-ingestion/internal/database"
	"github.com/wifiscout/scan-ingestion/internal/payload"
	"github.com/wifiscout/scan-ingestion/internal/processor"
	"github.com/wifiscout/scan-ingestion/internal/storage"
)

// Pipeline is the ingestion entry point consumed by the transport.
type Pipeline interface {
	ProcessPayload(ctx context.Context, submissionID string, raw []byte) (*processor.Result, error)
}

// NetworkReader is the retrieval side of the storage collaborator.
type NetworkReader interface {
	List(ctx context.Context) ([]database.WiFiNetwork, error)
	GetByBSSID(ctx context.Context, bssid string) (*database.WiFiNetwork, error)
	Delete(ctx context.Context, bssid string) error
}

// ScanHandlers holds the HTTP route handlers
type ScanHandlers struct {
	pipeline       Pipeline
	networks       NetworkReader
	archive        storage.Archiver
	logger         *zap.Logger
	maxPayloadSize int64
}

// SingleResponse is returned for single-record submissions.
type SingleResponse struct {
	SubmissionID string `json:"submission_id"`
	Saved        bool   `json:"saved"`
}

// BatchResponse is returned for batch submissions.
type BatchResponse struct {
	SubmissionID string `json:"submission_id"`
	Total        int    `json:"total"`
	Succeeded    int    `json:"succeeded"`
	Failed       int    `json:"failed"`
	Message      string `json:"message,omitempty"`
}

// ErrorResponse is returned for rejected submissions.
type ErrorResponse struct {
	Error     string    `json:"error"`
	Code      string    `json:"code,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

var startTime = time.Now()

// NewScanHandlers creates new HTTP handlers
func NewScanHandlers(
	pipeline Pipeline,
	networks NetworkReader,
	archive storage.Archiver,
	logger *zap.Logger,
	maxPayloadSize int64,
) *ScanHandlers {
	return &ScanHandlers{
		pipeline:       pipeline,
		networks:       networks,
		archive:        archive,
		logger:         logger,
		maxPayloadSize: maxPayloadSize,
	}
}

// RegisterRoutes registers all scan ingestion routes
func (h *ScanHandlers) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api/v1")

	api.POST("/scans", h.SubmitScan)
	api.POST("/scans/upload", h.UploadScanFile)
	api.GET("/scans/example", h.ExamplePayload)

	api.GET("/networks", h.ListNetworks)
	api.GET("/networks/:bssid", h.GetNetwork)
	api.DELETE("/networks/:bssid", h.DeleteNetwork)

	router.GET("/health", h.HealthCheck)
	router.GET("/health/live", h.LivenessCheck)
	router.GET("/health/ready", h.ReadinessCheck)
}

// SubmitScan ingests a raw JSON body: one record object or an array of them.
func (h *ScanHandlers) SubmitScan(c *gin.Context) {
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, h.maxPayloadSize))
	if err != nil {
		h.sendError(c, http.StatusBadRequest, "READ_FAILED", "failed to read request body")
		return
	}

	submissionID := uuid.New().String()
	h.process(c, submissionID, raw)
}

// UploadScanFile ingests a .json file upload. The raw payload is archived
// before processing so rejected submissions stay inspectable.
func (h *ScanHandlers) UploadScanFile(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.sendError(c, http.StatusBadRequest, "MISSING_FILE", "file is required")
		return
	}

	if !strings.EqualFold(filepath.Ext(fileHeader.Filename), ".json") {
		h.sendError(c, http.StatusBadRequest, "UNSUPPORTED_FILE", "only .json files are accepted")
		return
	}
	if fileHeader.Size > h.maxPayloadSize {
		h.sendError(c, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "file exceeds the payload size limit")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.sendError(c, http.StatusBadRequest, "UNREADABLE_FILE", "failed to open uploaded file")
		return
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		h.sendError(c, http.StatusBadRequest, "UNREADABLE_FILE", "failed to read uploaded file")
		return
	}

	submissionID := uuid.New().String()
	if path, err := h.archive.Store(c.Request.Context(), submissionID, fileHeader.Filename, raw); err != nil {
		h.logger.Error("failed to archive upload",
			zap.String("submission_id", submissionID),
			zap.Error(err))
		// Processing continues; the archive is best effort.
	} else if path != "" {
		h.logger.Info("upload archived",
			zap.String("submission_id", submissionID),
			zap.String("path", path))
	}

	h.process(c, submissionID, raw)
}

func (h *ScanHandlers) process(c *gin.Context, submissionID string, raw []byte) {
	result, err := h.pipeline.ProcessPayload(c.Request.Context(), submissionID, raw)
	if err != nil {
		switch {
		case errors.Is(err, payload.ErrMalformed):
			h.sendError(c, http.StatusBadRequest, "MALFORMED_JSON", err.Error())
		case errors.Is(err, payload.ErrUnsupported):
			h.sendError(c, http.StatusBadRequest, "UNSUPPORTED_PAYLOAD", err.Error())
		case errors.Is(err, processor.ErrExamplePayload):
			h.sendError(c, http.StatusUnprocessableEntity, "EXAMPLE_PAYLOAD",
				"this looks like the example from the instructions, not real scan data")
		default:
			h.sendError(c, http.StatusInternalServerError, "PROCESSING_FAILED", "failed to process submission")
		}
		return
	}

	switch result.Kind {
	case processor.BatchResult:
		resp := BatchResponse{
			SubmissionID: submissionID,
			Total:        result.Outcome.Total,
			Succeeded:    result.Outcome.Succeeded,
			Failed:       result.Outcome.Failed,
		}
		if result.Outcome.Total == 0 {
			resp.Message = "nothing to process"
		}
		c.JSON(http.StatusOK, resp)
	default:
		status := http.StatusUnprocessableEntity
		if result.Saved {
			status = http.StatusCreated
		}
		c.JSON(status, SingleResponse{SubmissionID: submissionID, Saved: result.Saved})
	}
}

// ExamplePayload returns the instructional sample record. Submitting it back
// verbatim is rejected by the example-payload gate.
func (h *ScanHandlers) ExamplePayload(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"single": gin.H{
			"bssid":             payload.ExampleBSSID,
			"frequency":         2412,
			"rssi":              -50,
			"ssid":              payload.ExampleSSID,
			"timestamp":         1698115200,
			"channel_bandwidth": "20",
			"capabilities":      "WPA2-PSK",
		},
		"required_fields": []string{"bssid", "frequency", "rssi", "ssid", "timestamp"},
		"optional_fields": []string{"channel_bandwidth", "capabilities"},
	})
}

// ListNetworks returns all persisted networks.
func (h *ScanHandlers) ListNetworks(c *gin.Context) {
	networks, err := h.networks.List(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to list networks", zap.Error(err))
		h.sendError(c, http.StatusInternalServerError, "DATABASE_ERROR", "failed to list networks")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"networks": networks,
		"count":    len(networks),
	})
}

// GetNetwork returns one network by BSSID.
func (h *ScanHandlers) GetNetwork(c *gin.Context) {
	bssid := c.Param("bssid")

	network, err := h.networks.GetByBSSID(c.Request.Context(), bssid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			h.sendError(c, http.StatusNotFound, "NETWORK_NOT_FOUND", "network not found")
			return
		}
		h.logger.Error("failed to get network", zap.String("bssid", bssid), zap.Error(err))
		h.sendError(c, http.StatusInternalServerError, "DATABASE_ERROR", "failed to get network")
		return
	}

	c.JSON(http.StatusOK, network)
}

// DeleteNetwork removes one network by BSSID.
func (h *ScanHandlers) DeleteNetwork(c *gin.Context) {
	bssid := c.Param("bssid")

	if err := h.networks.Delete(c.Request.Context(), bssid); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			h.sendError(c, http.StatusNotFound, "NETWORK_NOT_FOUND", "network not found")
			return
		}
		h.logger.Error("failed to delete network", zap.String("bssid", bssid), zap.Error(err))
		h.sendError(c, http.StatusInternalServerError, "DATABASE_ERROR", "failed to delete network")
		return
	}

	c.JSON(http.StatusOK, gin.H{"bssid": bssid, "deleted": true})
}

// HealthCheck handles health check requests
func (h *ScanHandlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now(),
		"uptime":    time.Since(startTime).String(),
	})
}

// LivenessCheck handles liveness probe requests
func (h *ScanHandlers) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "alive", "timestamp": time.Now()})
}

// ReadinessCheck handles readiness probe requests
func (h *ScanHandlers) ReadinessCheck(c *gin.Context) {
	if _, err := h.networks.List(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "timestamp": time.Now()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready", "timestamp": time.Now()})
}

func (h *ScanHandlers) sendError(c *gin.Context, status int, code, message string) {
	c.JSON(status, ErrorResponse{
		Error:     message,
		Code:      code,
		Timestamp: time.Now(),
	})
}
