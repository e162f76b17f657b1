package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"pitchside/api/internal/service"
	"pitchside/api/internal/upload"
)

type uploadInitRequest struct {
	FileName  string `json:"fileName" binding:"required"`
	FileSize  int64  `json:"fileSize" binding:"required"`
	ChunkSize int64  `json:"chunkSize"`
}

func (h HandlerSet) UploadInit(c *gin.Context) {
	matchID := c.Param("id")

	var req uploadInitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "fileName and fileSize are required")
		return
	}

	// Operators may configure a cap below the protocol's hard ceiling.
	if max := h.cfg.Upload.MaxFileSize; max > 0 && req.FileSize > max {
		fail(c, http.StatusBadRequest, "File exceeds the configured size limit")
		return
	}

	plan, err := h.uploadService.Init(c.Request.Context(), matchID, req.FileName, req.FileSize, req.ChunkSize)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMatchNotFound):
			fail(c, http.StatusNotFound, "Match not found")
		case errors.Is(err, upload.ErrInvalidFileSize):
			fail(c, http.StatusBadRequest, "File size must be positive")
		case errors.Is(err, upload.ErrFileTooLarge):
			fail(c, http.StatusBadRequest, "File exceeds the 2 GiB limit")
		default:
			h.log.Error().Err(err).Str("match_id", matchID).Msg("upload init failed")
			fail(c, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":        true,
		"uploadId":  plan.UploadID,
		"fileName":  plan.FileName,
		"fileSize":  plan.FileSize,
		"chunkSize": plan.ChunkSize,
		"parts":     plan.Parts,
	})
}

func (h HandlerSet) UploadPart(c *gin.Context) {
	matchID := c.Param("id")
	uploadID := c.Query("uploadId")
	customDir := c.Query("customStoragePath")

	partNumber, err := strconv.Atoi(c.Query("partNumber"))
	if err != nil {
		fail(c, http.StatusBadRequest, "partNumber must be an integer")
		return
	}

	file, _, err := c.Request.FormFile("part")
	if err != nil {
		fail(c, http.StatusBadRequest, "Missing part file")
		return
	}
	defer file.Close()

	receipt, err := h.uploadService.PutPart(c.Request.Context(), matchID, customDir, uploadID, partNumber, file)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMatchNotFound):
			fail(c, http.StatusNotFound, "Match not found")
		case errors.Is(err, upload.ErrInvalidUploadID):
			fail(c, http.StatusBadRequest, "Invalid upload id")
		case errors.Is(err, upload.ErrInvalidPartNumber):
			fail(c, http.StatusBadRequest, "Part number must be >= 1")
		default:
			h.log.Error().Err(err).Str("match_id", matchID).Str("upload_id", uploadID).Msg("upload part failed")
			fail(c, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":         true,
		"partNumber": receipt.PartNumber,
		"etag":       receipt.ETag,
		"size":       receipt.Size,
	})
}

func (h HandlerSet) UploadStatus(c *gin.Context) {
	matchID := c.Param("id")
	uploadID := c.Query("uploadId")
	customDir := c.Query("customStoragePath")

	status, err := h.uploadService.Status(c.Request.Context(), matchID, customDir, uploadID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMatchNotFound):
			fail(c, http.StatusNotFound, "Match not found")
		case errors.Is(err, upload.ErrInvalidUploadID):
			fail(c, http.StatusBadRequest, "Invalid upload id")
		default:
			h.log.Error().Err(err).Str("match_id", matchID).Str("upload_id", uploadID).Msg("upload status failed")
			fail(c, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":            true,
		"uploadId":      status.UploadID,
		"uploadedParts": status.UploadedParts,
		"totalParts":    status.TotalParts,
	})
}

type uploadCompleteRequest struct {
	UploadID          string `json:"uploadId" binding:"required"`
	FileName          string `json:"fileName" binding:"required"`
	PartNumbers       []int  `json:"partNumbers" binding:"required"`
	CustomStoragePath string `json:"customStoragePath"`
}

func (h HandlerSet) UploadComplete(c *gin.Context) {
	matchID := c.Param("id")

	var req uploadCompleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "uploadId, fileName and partNumbers are required")
		return
	}

	result, err := h.uploadService.Complete(c.Request.Context(), matchID, req.CustomStoragePath, req.UploadID, req.FileName, req.PartNumbers)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMatchNotFound):
			fail(c, http.StatusNotFound, "Match not found")
		case errors.Is(err, upload.ErrUploadNotFound):
			fail(c, http.StatusNotFound, "Upload not found")
		case errors.Is(err, upload.ErrInvalidUploadID):
			fail(c, http.StatusBadRequest, "Invalid upload id")
		case errors.Is(err, upload.ErrInvalidPartNumber):
			fail(c, http.StatusBadRequest, "Part number must be >= 1")
		case errors.Is(err, upload.ErrPartMissing):
			fail(c, http.StatusBadRequest, "One or more parts are missing")
		default:
			h.log.Error().Err(err).Str("match_id", matchID).Str("upload_id", req.UploadID).Msg("upload complete failed")
			fail(c, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	resp := gin.H{
		"ok":        true,
		"videoPath": result.VideoPath,
		"fileName":  result.FileName,
	}
	if result.ArchiveURL != "" {
		resp["archiveUrl"] = result.ArchiveURL
	}
	c.JSON(http.StatusOK, resp)
}
