// Package upload implements the chunked, resumable video upload pipeline:
// part planning, filesystem staging and final assembly.
package upload

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

const (
	// MaxFileSize is the hard ceiling for a single upload (2 GiB).
	MaxFileSize = int64(2) << 30

	smallChunkSize      = int64(5) << 20  // 5 MiB
	largeChunkSize      = int64(10) << 20 // 10 MiB
	largeFileThreshold  = int64(100) << 20
)

var (
	ErrInvalidFileSize = errors.New("file size must be positive")
	ErrFileTooLarge    = errors.New("file size exceeds 2 GiB limit")
)

// PartDescriptor describes one contiguous byte range of the file. Ranges are
// half-open [Start, End) and clamped to the file size.
type PartDescriptor struct {
	PartNumber int    `json:"partNumber"`
	Start      int64  `json:"start"`
	End        int64  `json:"end"`
	UploadURL  string `json:"uploadUrl"`
}

// Plan is the negotiated layout of an upload. Producing it has no storage
// side effect; the upload exists on disk only once the first part lands.
type Plan struct {
	UploadID  string           `json:"uploadId"`
	FileName  string           `json:"fileName"`
	FileSize  int64            `json:"fileSize"`
	ChunkSize int64            `json:"chunkSize"`
	Parts     []PartDescriptor `json:"parts"`
}

// DefaultChunkSize picks the part size for a file: 5 MiB under 100 MiB,
// 10 MiB above, never larger than the file itself.
func DefaultChunkSize(fileSize int64) int64 {
	chunk := smallChunkSize
	if fileSize >= largeFileThreshold {
		chunk = largeChunkSize
	}
	if chunk > fileSize {
		chunk = fileSize
	}
	return chunk
}

// NewPlan validates the declared size, generates a fresh upload id and lays
// out 1-based part descriptors. chunkSize <= 0 selects the tiered default.
func NewPlan(matchID, fileName string, fileSize, chunkSize int64) (Plan, error) {
	if fileSize <= 0 {
		return Plan{}, ErrInvalidFileSize
	}
	if fileSize > MaxFileSize {
		return Plan{}, ErrFileTooLarge
	}

	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize(fileSize)
	}

	uploadID := uuid.NewString()

	numParts := int((fileSize + chunkSize - 1) / chunkSize)
	parts := make([]PartDescriptor, 0, numParts)
	for i := 0; i < numParts; i++ {
		start := int64(i) * chunkSize
		end := start + chunkSize
		if end > fileSize {
			end = fileSize
		}
		partNumber := i + 1
		parts = append(parts, PartDescriptor{
			PartNumber: partNumber,
			Start:      start,
			End:        end,
			UploadURL: fmt.Sprintf("/api/v1/matches/%s/video/upload-part?uploadId=%s&partNumber=%d",
				matchID, uploadID, partNumber),
		})
	}

	return Plan{
		UploadID:  uploadID,
		FileName:  fileName,
		FileSize:  fileSize,
		ChunkSize: chunkSize,
		Parts:     parts,
	}, nil
}
