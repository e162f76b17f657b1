package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"pitchside/api/internal/storage"
	"pitchside/api/internal/upload"
)

var ErrMatchNotFound = errors.New("match not found")

// analyzeStream is consumed by the out-of-process video analysis worker.
const analyzeStream = "video:analyze"

// MatchStore is the record-existence collaborator for the upload flow.
type MatchStore interface {
	Exists(ctx context.Context, id string) (bool, error)
	SetVideoPath(ctx context.Context, id, videoPath string) error
}

type UploadService struct {
	coordinator *upload.Coordinator
	matches     MatchStore
	store       *storage.ObjectStore
	queue       *redis.Client
	log         zerolog.Logger
}

// NewUploadService wires the coordinator to the match store. store and
// queue may be nil; archival and analysis events are then skipped.
func NewUploadService(coordinator *upload.Coordinator, matches MatchStore, store *storage.ObjectStore, queue *redis.Client, log zerolog.Logger) *UploadService {
	return &UploadService{
		coordinator: coordinator,
		matches:     matches,
		store:       store,
		queue:       queue,
		log:         log,
	}
}

func (s *UploadService) checkMatch(ctx context.Context, matchID string) error {
	exists, err := s.matches.Exists(ctx, matchID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrMatchNotFound
	}
	return nil
}

func (s *UploadService) Init(ctx context.Context, matchID, fileName string, fileSize, chunkSize int64) (upload.Plan, error) {
	if err := s.checkMatch(ctx, matchID); err != nil {
		return upload.Plan{}, err
	}
	return upload.NewPlan(matchID, fileName, fileSize, chunkSize)
}

func (s *UploadService) PutPart(ctx context.Context, matchID, customDir, uploadID string, partNumber int, r io.Reader) (upload.PartReceipt, error) {
	if err := s.checkMatch(ctx, matchID); err != nil {
		return upload.PartReceipt{}, err
	}
	return s.coordinator.PutPart(customDir, matchID, uploadID, partNumber, r)
}

func (s *UploadService) Status(ctx context.Context, matchID, customDir, uploadID string) (upload.Status, error) {
	if err := s.checkMatch(ctx, matchID); err != nil {
		return upload.Status{}, err
	}
	return s.coordinator.Status(customDir, matchID, uploadID)
}

type CompleteResult struct {
	VideoPath  string
	FileName   string
	ArchiveURL string
}

// Complete assembles the staged parts, records the video path on the match,
// archives the file to object storage when configured and emits an analysis
// event. Archival and event failures are logged, not surfaced; the
// assembled file on disk is the source of truth.
func (s *UploadService) Complete(ctx context.Context, matchID, customDir, uploadID, fileName string, partNumbers []int) (CompleteResult, error) {
	if err := s.checkMatch(ctx, matchID); err != nil {
		return CompleteResult{}, err
	}

	finalPath, err := s.coordinator.Complete(customDir, matchID, uploadID, fileName, partNumbers)
	if err != nil {
		return CompleteResult{}, err
	}

	if err := s.matches.SetVideoPath(ctx, matchID, finalPath); err != nil {
		s.log.Warn().Err(err).Str("match_id", matchID).Msg("match video path update failed")
	}

	finalName := filepath.Base(finalPath)

	archiveURL := ""
	if s.store != nil {
		objectKey := path.Join("matches", matchID, finalName)
		if _, err := s.store.ArchiveVideo(ctx, objectKey, finalPath, "video/mp4"); err != nil {
			s.log.Error().Err(err).Str("match_id", matchID).Msg("video archive failed")
		} else {
			archiveURL = s.store.VideoURL(objectKey)
		}
	}

	if err := s.enqueueAnalysis(ctx, matchID, finalPath); err != nil {
		s.log.Warn().Err(err).Str("match_id", matchID).Msg("enqueue analysis failed")
	}

	return CompleteResult{VideoPath: finalPath, FileName: finalName, ArchiveURL: archiveURL}, nil
}

func (s *UploadService) enqueueAnalysis(ctx context.Context, matchID, videoPath string) error {
	if s.queue == nil {
		return nil
	}
	_, err := s.queue.XAdd(ctx, &redis.XAddArgs{
		Stream: analyzeStream,
		Values: map[string]any{
			"type":      "analyze",
			"matchId":   matchID,
			"videoPath": videoPath,
		},
	}).Result()
	if err != nil {
		return fmt.Errorf("xadd %s: %w", analyzeStream, err)
	}
	return nil
}
