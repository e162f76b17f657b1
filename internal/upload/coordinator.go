package upload

import (
	"crypto/md5"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidUploadID   = errors.New("invalid upload id")
	ErrInvalidPartNumber = errors.New("part number must be >= 1")
	ErrPartMissing       = errors.New("part missing from staging area")
	ErrUploadNotFound    = errors.New("upload not found")
)

const partFilePrefix = "part-"

var safeExt = regexp.MustCompile(`^\.[a-zA-Z0-9]+$`)

// Coordinator stages upload parts on the filesystem and assembles them.
// The layout is a persisted contract, resumable across process restarts:
//
//	<base>/match-<matchID>/parts/<uploadID>/part-<n>
//
// where <base> is the configured staging dir or a caller-supplied custom
// path (e.g. an external drive).
type Coordinator struct {
	stagingDir string
}

func NewCoordinator(stagingDir string) *Coordinator {
	return &Coordinator{stagingDir: stagingDir}
}

// PartReceipt confirms one durably stored part.
type PartReceipt struct {
	PartNumber int    `json:"partNumber"`
	ETag       string `json:"etag"`
	Size       int64  `json:"size"`
}

// Status reports which parts have arrived so a client can resume by diffing
// against its plan and re-sending only the gaps.
type Status struct {
	UploadID      string `json:"uploadId"`
	UploadedParts []int  `json:"uploadedParts"`
	TotalParts    int    `json:"totalParts"`
}

func (c *Coordinator) matchDir(customDir, matchID string) string {
	base := c.stagingDir
	if customDir != "" {
		base = customDir
	}
	return filepath.Join(base, "match-"+matchID)
}

func (c *Coordinator) partsDir(customDir, matchID, uploadID string) string {
	return filepath.Join(c.matchDir(customDir, matchID), "parts", uploadID)
}

// validateUploadID rejects anything that is not a UUID before the value gets
// anywhere near a filesystem path.
func validateUploadID(uploadID string) error {
	if _, err := uuid.Parse(uploadID); err != nil {
		return ErrInvalidUploadID
	}
	return nil
}

// PutPart durably writes one part, replacing any earlier attempt at the same
// part number. The write goes to a temp file first and is renamed into
// place, so a retried part is swapped in whole, never observed half-written.
// Distinct part numbers write distinct paths and can land concurrently.
func (c *Coordinator) PutPart(customDir, matchID, uploadID string, partNumber int, r io.Reader) (PartReceipt, error) {
	if err := validateUploadID(uploadID); err != nil {
		return PartReceipt{}, err
	}
	if partNumber < 1 {
		return PartReceipt{}, ErrInvalidPartNumber
	}

	dir := c.partsDir(customDir, matchID, uploadID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return PartReceipt{}, fmt.Errorf("create staging dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, fmt.Sprintf(".%s%d-*", partFilePrefix, partNumber))
	if err != nil {
		return PartReceipt{}, fmt.Errorf("create temp part: %w", err)
	}

	hash := md5.New()
	size, err := io.Copy(io.MultiWriter(tmp, hash), r)
	if err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return PartReceipt{}, fmt.Errorf("write part: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return PartReceipt{}, fmt.Errorf("close part: %w", err)
	}

	final := filepath.Join(dir, fmt.Sprintf("%s%d", partFilePrefix, partNumber))
	if err := os.Rename(tmp.Name(), final); err != nil {
		os.Remove(tmp.Name())
		return PartReceipt{}, fmt.Errorf("commit part: %w", err)
	}

	return PartReceipt{
		PartNumber: partNumber,
		ETag:       fmt.Sprintf("%q", fmt.Sprintf("%x", hash.Sum(nil))),
		Size:       size,
	}, nil
}

// Status lists the distinct part numbers present, sorted ascending. A
// staging dir that does not exist yet yields an empty result, not an error;
// that is the client's signal to start from part 1.
func (c *Coordinator) Status(customDir, matchID, uploadID string) (Status, error) {
	if err := validateUploadID(uploadID); err != nil {
		return Status{}, err
	}

	status := Status{UploadID: uploadID, UploadedParts: []int{}}

	entries, err := os.ReadDir(c.partsDir(customDir, matchID, uploadID))
	if err != nil {
		if os.IsNotExist(err) {
			return status, nil
		}
		return Status{}, fmt.Errorf("read staging dir: %w", err)
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, partFilePrefix) {
			continue
		}
		n, err := strconv.Atoi(strings.TrimPrefix(name, partFilePrefix))
		if err != nil || n < 1 {
			continue
		}
		status.UploadedParts = append(status.UploadedParts, n)
	}

	sort.Ints(status.UploadedParts)
	status.TotalParts = len(status.UploadedParts)
	return status, nil
}

// Complete stream-concatenates the listed parts in ascending order into the
// final video file, then removes the upload's staging directory. Every
// listed part must be present.
func (c *Coordinator) Complete(customDir, matchID, uploadID, fileName string, partNumbers []int) (string, error) {
	if err := validateUploadID(uploadID); err != nil {
		return "", err
	}
	if len(partNumbers) == 0 {
		return "", ErrPartMissing
	}

	partsDir := c.partsDir(customDir, matchID, uploadID)
	if _, err := os.Stat(partsDir); err != nil {
		if os.IsNotExist(err) {
			return "", ErrUploadNotFound
		}
		return "", fmt.Errorf("stat staging dir: %w", err)
	}

	ordered := append([]int(nil), partNumbers...)
	sort.Ints(ordered)

	for _, n := range ordered {
		if n < 1 {
			return "", ErrInvalidPartNumber
		}
		if _, err := os.Stat(filepath.Join(partsDir, fmt.Sprintf("%s%d", partFilePrefix, n))); err != nil {
			return "", fmt.Errorf("%w: part %d", ErrPartMissing, n)
		}
	}

	matchDir := c.matchDir(customDir, matchID)
	if err := os.MkdirAll(matchDir, 0o755); err != nil {
		return "", fmt.Errorf("create video dir: %w", err)
	}

	finalPath := filepath.Join(matchDir, fmt.Sprintf("video-%d%s", time.Now().Unix(), fileExt(fileName)))
	out, err := os.Create(finalPath)
	if err != nil {
		return "", fmt.Errorf("create video file: %w", err)
	}

	for _, n := range ordered {
		if err := appendPart(out, filepath.Join(partsDir, fmt.Sprintf("%s%d", partFilePrefix, n))); err != nil {
			out.Close()
			os.Remove(finalPath)
			return "", err
		}
	}

	if err := out.Close(); err != nil {
		os.Remove(finalPath)
		return "", fmt.Errorf("close video file: %w", err)
	}

	if err := os.RemoveAll(partsDir); err != nil {
		// The video is assembled; leftover parts are picked up by the
		// stale-staging sweep.
		return finalPath, nil
	}

	return finalPath, nil
}

// SweepStale removes staging directories whose last modification is older
// than the cutoff, reclaiming space from abandoned uploads. Only the
// configured staging dir is swept; custom paths are left alone.
func (c *Coordinator) SweepStale(olderThan time.Time) (int, error) {
	matches, err := filepath.Glob(filepath.Join(c.stagingDir, "match-*", "parts", "*"))
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, dir := range matches {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			continue
		}
		if info.ModTime().Before(olderThan) {
			if err := os.RemoveAll(dir); err == nil {
				removed++
			}
		}
	}
	return removed, nil
}

func appendPart(out io.Writer, partPath string) error {
	in, err := os.Open(partPath)
	if err != nil {
		return fmt.Errorf("open part: %w", err)
	}
	defer in.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("append part: %w", err)
	}
	return nil
}

func fileExt(fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	if !safeExt.MatchString(ext) {
		return ".mp4"
	}
	return ext
}
