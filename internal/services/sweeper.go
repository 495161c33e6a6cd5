package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"sgc-backend/internal/models"
)

const (
	sweepPollInterval = 5 * time.Minute
	pendingGrace      = 10 * time.Minute
	processingGrace   = 30 * time.Minute
	sweepBatchSize    = 100
)

type staleJobLister interface {
	ListUnfinished(ctx context.Context, jobType string, createdBefore time.Time, limit int) ([]*models.Job, error)
}

// JobSweeper re-queues contact notification jobs that never reached a worker,
// e.g. because the Redis push failed after the submission was stored.
type JobSweeper struct {
	jobs     staleJobLister
	queue    JobQueue
	logger   *zap.Logger
	interval time.Duration
	stopChan chan struct{}
}

func NewJobSweeper(jobs staleJobLister, queue JobQueue, logger *zap.Logger) *JobSweeper {
	return &JobSweeper{
		jobs:     jobs,
		queue:    queue,
		logger:   logger,
		interval: sweepPollInterval,
		stopChan: make(chan struct{}),
	}
}

func (s *JobSweeper) Start() {
	go s.loop()
	s.logger.Info("job sweeper started", zap.Duration("interval", s.interval))
}

func (s *JobSweeper) Stop() {
	select {
	case <-s.stopChan:
		return
	default:
		close(s.stopChan)
	}
}

func (s *JobSweeper) loop() {
	// Run on startup as well as by interval.
	s.Sweep(context.Background(), time.Now().UTC())

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.Sweep(context.Background(), time.Now().UTC())
		}
	}
}

// Sweep re-queues stale jobs and returns how many were pushed.
func (s *JobSweeper) Sweep(ctx context.Context, now time.Time) int {
	candidates, err := s.jobs.ListUnfinished(ctx, models.JobTypeContactNotification, now.Add(-pendingGrace), sweepBatchSize)
	if err != nil {
		s.logger.Warn("job sweep: failed to list unfinished jobs", zap.Error(err))
		return 0
	}

	requeued := 0
	for _, job := range candidates {
		if !isStale(job, now) {
			continue
		}
		if err := s.queue.Enqueue(ctx, ContactNotificationQueue, job); err != nil {
			s.logger.Warn("job sweep: failed to re-queue", zap.String("job_id", job.ID.String()), zap.Error(err))
			continue
		}
		requeued++
	}

	if requeued > 0 {
		s.logger.Info("job sweep: re-queued stale jobs", zap.Int("count", requeued))
	}
	return requeued
}

// isStale reports whether an unfinished job has waited past its grace period.
// Jobs in processing get longer, since a worker may still hold them.
func isStale(job *models.Job, now time.Time) bool {
	switch job.Status {
	case models.JobStatusPending:
		return now.Sub(job.CreatedAt) >= pendingGrace
	case models.JobStatusProcessing:
		return now.Sub(job.CreatedAt) >= processingGrace
	default:
		return false
	}
}
