package upload

import (
	"crypto/md5"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newTestCoordinator(t *testing.T) *Coordinator {
	t.Helper()
	return NewCoordinator(t.TempDir())
}

func TestPutPart_WritesAndReceipts(t *testing.T) {
	t.Parallel()

	c := newTestCoordinator(t)
	uploadID := uuid.NewString()

	content := "first part bytes"
	receipt, err := c.PutPart("", "m1", uploadID, 1, strings.NewReader(content))
	require.NoError(t, err)

	require.Equal(t, 1, receipt.PartNumber)
	require.EqualValues(t, len(content), receipt.Size)
	require.Equal(t, fmt.Sprintf("%q", fmt.Sprintf("%x", md5.Sum([]byte(content)))), receipt.ETag)

	stored, err := os.ReadFile(filepath.Join(c.stagingDir, "match-m1", "parts", uploadID, "part-1"))
	require.NoError(t, err)
	require.Equal(t, content, string(stored))
}

func TestPutPart_OverwriteKeepsLatest(t *testing.T) {
	t.Parallel()

	c := newTestCoordinator(t)
	uploadID := uuid.NewString()

	_, err := c.PutPart("", "m1", uploadID, 2, strings.NewReader("original attempt, longer"))
	require.NoError(t, err)

	receipt, err := c.PutPart("", "m1", uploadID, 2, strings.NewReader("retry"))
	require.NoError(t, err)
	require.EqualValues(t, 5, receipt.Size)

	stored, err := os.ReadFile(filepath.Join(c.stagingDir, "match-m1", "parts", uploadID, "part-2"))
	require.NoError(t, err)
	require.Equal(t, "retry", string(stored))
}

func TestPutPart_Validation(t *testing.T) {
	t.Parallel()

	c := newTestCoordinator(t)

	_, err := c.PutPart("", "m1", uuid.NewString(), 0, strings.NewReader("x"))
	require.ErrorIs(t, err, ErrInvalidPartNumber)

	_, err = c.PutPart("", "m1", "../../etc", 1, strings.NewReader("x"))
	require.ErrorIs(t, err, ErrInvalidUploadID)
}

func TestPutPart_ConcurrentDistinctParts(t *testing.T) {
	t.Parallel()

	c := newTestCoordinator(t)
	uploadID := uuid.NewString()

	var wg sync.WaitGroup
	for i := 1; i <= 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := c.PutPart("", "m1", uploadID, n, strings.NewReader(fmt.Sprintf("part %d", n)))
			require.NoError(t, err)
		}(i)
	}
	wg.Wait()

	status, err := c.Status("", "m1", uploadID)
	require.NoError(t, err)
	require.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8}, status.UploadedParts)
}

func TestStatus_EmptyBeforeFirstPart(t *testing.T) {
	t.Parallel()

	c := newTestCoordinator(t)
	uploadID := uuid.NewString()

	status, err := c.Status("", "m1", uploadID)
	require.NoError(t, err)
	require.Equal(t, uploadID, status.UploadID)
	require.Empty(t, status.UploadedParts)
	require.Zero(t, status.TotalParts)
}

func TestStatus_DetectsGap(t *testing.T) {
	t.Parallel()

	c := newTestCoordinator(t)
	uploadID := uuid.NewString()

	_, err := c.PutPart("", "m1", uploadID, 3, strings.NewReader("three"))
	require.NoError(t, err)
	_, err = c.PutPart("", "m1", uploadID, 1, strings.NewReader("one"))
	require.NoError(t, err)

	status, err := c.Status("", "m1", uploadID)
	require.NoError(t, err)
	require.Equal(t, []int{1, 3}, status.UploadedParts)
	require.Equal(t, 2, status.TotalParts)
}

func TestComplete_AssemblesInOrder(t *testing.T) {
	t.Parallel()

	c := newTestCoordinator(t)
	uploadID := uuid.NewString()

	// Uploaded out of order; assembly must follow part numbers.
	_, err := c.PutPart("", "m1", uploadID, 2, strings.NewReader("world"))
	require.NoError(t, err)
	_, err = c.PutPart("", "m1", uploadID, 1, strings.NewReader("hello "))
	require.NoError(t, err)

	finalPath, err := c.Complete("", "m1", uploadID, "match.mp4", []int{2, 1})
	require.NoError(t, err)

	assembled, err := os.ReadFile(finalPath)
	require.NoError(t, err)
	require.Equal(t, "hello world", string(assembled))
	require.True(t, strings.HasSuffix(finalPath, ".mp4"))

	// Staging area is gone; status reports a fresh slate.
	status, err := c.Status("", "m1", uploadID)
	require.NoError(t, err)
	require.Empty(t, status.UploadedParts)
}

func TestComplete_MissingPart(t *testing.T) {
	t.Parallel()

	c := newTestCoordinator(t)
	uploadID := uuid.NewString()

	_, err := c.PutPart("", "m1", uploadID, 1, strings.NewReader("only one"))
	require.NoError(t, err)

	_, err = c.Complete("", "m1", uploadID, "match.mp4", []int{1, 2})
	require.ErrorIs(t, err, ErrPartMissing)
}

func TestComplete_UnknownUpload(t *testing.T) {
	t.Parallel()

	c := newTestCoordinator(t)

	_, err := c.Complete("", "m1", uuid.NewString(), "match.mp4", []int{1})
	require.ErrorIs(t, err, ErrUploadNotFound)
}

func TestComplete_SanitizesExtension(t *testing.T) {
	t.Parallel()

	c := newTestCoordinator(t)
	uploadID := uuid.NewString()

	_, err := c.PutPart("", "m1", uploadID, 1, strings.NewReader("data"))
	require.NoError(t, err)

	finalPath, err := c.Complete("", "m1", uploadID, "weird.name/../x", []int{1})
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(finalPath, ".mp4"))
}

func TestPutPart_CustomStorageDir(t *testing.T) {
	t.Parallel()

	c := newTestCoordinator(t)
	custom := t.TempDir()
	uploadID := uuid.NewString()

	_, err := c.PutPart(custom, "m1", uploadID, 1, strings.NewReader("external"))
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(custom, "match-m1", "parts", uploadID, "part-1"))
	require.NoError(t, err)

	// Default staging dir stays untouched.
	status, err := c.Status("", "m1", uploadID)
	require.NoError(t, err)
	require.Empty(t, status.UploadedParts)
}

func TestSweepStale(t *testing.T) {
	t.Parallel()

	c := newTestCoordinator(t)
	staleID := uuid.NewString()
	freshID := uuid.NewString()

	_, err := c.PutPart("", "m1", staleID, 1, strings.NewReader("old"))
	require.NoError(t, err)
	_, err = c.PutPart("", "m1", freshID, 1, strings.NewReader("new"))
	require.NoError(t, err)

	staleDir := filepath.Join(c.stagingDir, "match-m1", "parts", staleID)
	old := time.Now().Add(-72 * time.Hour)
	require.NoError(t, os.Chtimes(staleDir, old, old))

	removed, err := c.SweepStale(time.Now().Add(-48 * time.Hour))
	require.NoError(t, err)
	require.Equal(t, 1, removed)

	_, err = os.Stat(staleDir)
	require.True(t, os.IsNotExist(err))

	status, err := c.Status("", "m1", freshID)
	require.NoError(t, err)
	require.Equal(t, []int{1}, status.UploadedParts)
}
