// Package scheduler runs periodic fixture cache warm-ups.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/lp2m/internal/models"
)

// Refresher re-fetches a league and stores the result in the cache
type Refresher interface {
	Refresh(ctx context.Context, league string) ([]models.Fixture, error)
}

// WarmupResult summarises one warm-up run
type WarmupResult struct {
	Leagues  int
	Fixtures int
	Failed   []string
	Duration time.Duration
}

// Scheduler manages the scheduled warm-up job
type Scheduler struct {
	cron            *cron.Cron
	refresher       Refresher
	leagues         []models.League
	logger          *logrus.Entry
	mu              sync.RWMutex
	isRunning       bool
	jobIDs          []cron.EntryID
	gracefulTimeout time.Duration
	jobTimeout      time.Duration
}

// NewScheduler creates a new scheduler warming the public leagues
func NewScheduler(refresher Refresher, logger *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:            cron.New(cron.WithLocation(time.UTC)),
		refresher:       refresher,
		leagues:         models.PublicLeagues(),
		logger:          logger.WithField("component", "scheduler"),
		jobIDs:          make([]cron.EntryID, 0),
		gracefulTimeout: 30 * time.Second,
		jobTimeout:      2 * time.Minute,
	}
}

// ScheduleWarmup schedules the fixture warm-up with a standard cron expression
func (s *Scheduler) ScheduleWarmup(cronExpression string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	jobFunc := func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)
		defer cancel()
		s.Warmup(ctx)
	}

	entryID, err := s.cron.AddFunc(cronExpression, jobFunc)
	if err != nil {
		return fmt.Errorf("failed to add job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithField("cron", cronExpression).Info("Scheduled fixture warm-up job")

	return nil
}

// Warmup refreshes every public league once. A failing league is logged and
// skipped so one bad upstream reply does not stop the rest.
func (s *Scheduler) Warmup(ctx context.Context) WarmupResult {
	start := time.Now()
	result := WarmupResult{}

	for _, league := range s.leagues {
		if ctx.Err() != nil {
			result.Failed = append(result.Failed, league.Key)
			continue
		}

		fixtures, err := s.refresher.Refresh(ctx, league.Key)
		if err != nil {
			s.logger.WithError(err).WithField("league", league.Key).Warn("Fixture warm-up failed")
			result.Failed = append(result.Failed, league.Key)
			continue
		}
		result.Leagues++
		result.Fixtures += len(fixtures)
	}

	result.Duration = time.Since(start)
	s.logger.WithFields(logrus.Fields{
		"leagues":     result.Leagues,
		"fixtures":    result.Fixtures,
		"failed":      result.Failed,
		"duration_ms": result.Duration.Milliseconds(),
	}).Info("Fixture warm-up completed")

	return result
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}

	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.WithField("jobs", len(s.jobIDs)).Info("Scheduler started")

	return nil
}

// Stop stops the scheduler, waiting for a running job up to the graceful timeout
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	s.isRunning = false
	select {
	case <-s.cron.Stop().Done():
		s.logger.Info("Scheduler stopped")
		return nil
	case <-time.After(s.gracefulTimeout):
		return fmt.Errorf("scheduler stop timed out after %s", s.gracefulTimeout)
	}
}

// IsRunning returns whether the scheduler is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRun returns the time of the next scheduled job run
func (s *Scheduler) GetNextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning || len(s.jobIDs) == 0 {
		return time.Time{}
	}

	nextRun := time.Time{}
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() {
			nextTime := entry.Next
			if nextRun.IsZero() || nextTime.Before(nextRun) {
				nextRun = nextTime
			}
		}
	}

	return nextRun
}
