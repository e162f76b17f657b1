package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"pitchside/api/internal/repository"
	"pitchside/api/internal/upload"
)

// Scheduler runs the periodic maintenance jobs: the stale upload sweep that
// reclaims staging space from abandoned uploads, and the expired token sweep.
type Scheduler struct {
	cron        *cron.Cron
	coordinator *upload.Coordinator
	tokens      *repository.TokenRepository
	staleAfter  time.Duration
	log         zerolog.Logger
}

func NewScheduler(coordinator *upload.Coordinator, tokens *repository.TokenRepository, staleAfter time.Duration, log zerolog.Logger) *Scheduler {
	c := cron.New(cron.WithSeconds())
	return &Scheduler{
		cron:        c,
		coordinator: coordinator,
		tokens:      tokens,
		staleAfter:  staleAfter,
		log:         log,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("0 0 */1 * * *", s.sweepStaleUploads); err != nil { // hourly
		return err
	}
	if _, err := s.cron.AddFunc("0 0 0 * * *", s.sweepExpiredTokens); err != nil { // daily
		return err
	}

	s.cron.Start()
	return nil
}

// Stop halts scheduling and waits up to five seconds for a running sweep
// to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
		s.log.Warn().Msg("scheduler stop timed out")
	}
}

func (s *Scheduler) sweepStaleUploads() {
	cutoff := time.Now().Add(-s.staleAfter)
	removed, err := s.coordinator.SweepStale(cutoff)
	if err != nil {
		s.log.Error().Err(err).Msg("stale upload sweep failed")
		return
	}
	if removed > 0 {
		s.log.Info().Int("removed", removed).Msg("stale upload staging dirs removed")
	}
}

func (s *Scheduler) sweepExpiredTokens() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	removed, err := s.tokens.DeleteExpired(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("expired token sweep failed")
		return
	}
	if removed > 0 {
		s.log.Info().Int64("removed", removed).Msg("expired tokens removed")
	}
}
