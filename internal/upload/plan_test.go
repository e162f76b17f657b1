package upload

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewPlan_RejectsBadSizes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		fileSize int64
		wantErr  error
	}{
		{"zero", 0, ErrInvalidFileSize},
		{"negative", -1, ErrInvalidFileSize},
		{"over ceiling", MaxFileSize + 1, ErrFileTooLarge},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewPlan("m1", "video.mp4", tt.fileSize, 0)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestNewPlan_DefaultChunking(t *testing.T) {
	t.Parallel()

	// 12 MB under the 100 MiB tier: 5 MiB parts, ceil(12000000/5242880) = 3.
	plan, err := NewPlan("m1", "video.mp4", 12_000_000, 0)
	require.NoError(t, err)

	require.EqualValues(t, 5<<20, plan.ChunkSize)
	require.Len(t, plan.Parts, 3)

	require.Equal(t, 1, plan.Parts[0].PartNumber)
	require.EqualValues(t, 0, plan.Parts[0].Start)
	require.EqualValues(t, 5<<20, plan.Parts[0].End)
	require.EqualValues(t, 10<<20, plan.Parts[2].Start)
	require.EqualValues(t, 12_000_000, plan.Parts[2].End) // clamped to file size
}

func TestNewPlan_LargeFileTier(t *testing.T) {
	t.Parallel()

	plan, err := NewPlan("m1", "video.mp4", 250<<20, 0)
	require.NoError(t, err)
	require.EqualValues(t, 10<<20, plan.ChunkSize)
	require.Len(t, plan.Parts, 25)
}

func TestNewPlan_CallerChunkSize(t *testing.T) {
	t.Parallel()

	plan, err := NewPlan("m1", "video.mp4", 100, 40)
	require.NoError(t, err)
	require.EqualValues(t, 40, plan.ChunkSize)
	require.Len(t, plan.Parts, 3)
	require.EqualValues(t, 80, plan.Parts[2].Start)
	require.EqualValues(t, 100, plan.Parts[2].End)
}

func TestNewPlan_FreshUploadIDPerCall(t *testing.T) {
	t.Parallel()

	first, err := NewPlan("m1", "video.mp4", 100, 0)
	require.NoError(t, err)
	second, err := NewPlan("m1", "video.mp4", 100, 0)
	require.NoError(t, err)

	require.NotEqual(t, first.UploadID, second.UploadID)
}

func TestDefaultChunkSize_ClampedToFile(t *testing.T) {
	t.Parallel()

	require.EqualValues(t, 1024, DefaultChunkSize(1024))
	require.EqualValues(t, 5<<20, DefaultChunkSize(50<<20))
	require.EqualValues(t, 10<<20, DefaultChunkSize(500<<20))
}

func TestNewPlan_UploadURLs(t *testing.T) {
	t.Parallel()

	plan, err := NewPlan("match-42", "final.mov", 10<<20, 0)
	require.NoError(t, err)
	require.Contains(t, plan.Parts[0].UploadURL, "/matches/match-42/video/upload-part")
	require.Contains(t, plan.Parts[0].UploadURL, "uploadId="+plan.UploadID)
	require.Contains(t, plan.Parts[1].UploadURL, "partNumber=2")
}
