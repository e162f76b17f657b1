package service

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"pitchside/api/internal/upload"
)

type fakeMatchStore struct {
	existing   map[string]bool
	videoPaths map[string]string
}

func newFakeMatchStore(ids ...string) *fakeMatchStore {
	existing := map[string]bool{}
	for _, id := range ids {
		existing[id] = true
	}
	return &fakeMatchStore{existing: existing, videoPaths: map[string]string{}}
}

func (s *fakeMatchStore) Exists(_ context.Context, id string) (bool, error) {
	return s.existing[id], nil
}

func (s *fakeMatchStore) SetVideoPath(_ context.Context, id, videoPath string) error {
	s.videoPaths[id] = videoPath
	return nil
}

func newTestUploadService(t *testing.T, matches MatchStore) *UploadService {
	t.Helper()
	coordinator := upload.NewCoordinator(t.TempDir())
	return NewUploadService(coordinator, matches, nil, nil, zerolog.Nop())
}

func TestUploadService_UnknownMatch(t *testing.T) {
	t.Parallel()

	svc := newTestUploadService(t, newFakeMatchStore("m1"))
	ctx := context.Background()

	_, err := svc.Init(ctx, "nope", "video.mp4", 1<<20, 0)
	require.ErrorIs(t, err, ErrMatchNotFound)

	_, err = svc.Status(ctx, "nope", "", "whatever")
	require.ErrorIs(t, err, ErrMatchNotFound)
}

func TestUploadService_FullFlow(t *testing.T) {
	t.Parallel()

	matches := newFakeMatchStore("m1")
	svc := newTestUploadService(t, matches)
	ctx := context.Background()

	plan, err := svc.Init(ctx, "m1", "derby.mp4", 11, 6)
	require.NoError(t, err)
	require.Len(t, plan.Parts, 2)

	_, err = svc.PutPart(ctx, "m1", "", plan.UploadID, 1, strings.NewReader("first "))
	require.NoError(t, err)
	_, err = svc.PutPart(ctx, "m1", "", plan.UploadID, 2, strings.NewReader("half"))
	require.NoError(t, err)

	status, err := svc.Status(ctx, "m1", "", plan.UploadID)
	require.NoError(t, err)
	require.Equal(t, []int{1, 2}, status.UploadedParts)

	result, err := svc.Complete(ctx, "m1", "", plan.UploadID, "derby.mp4", []int{1, 2})
	require.NoError(t, err)
	require.Equal(t, result.VideoPath, matches.videoPaths["m1"])

	assembled, err := os.ReadFile(result.VideoPath)
	require.NoError(t, err)
	require.Equal(t, "first half", string(assembled))
}
