package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"sgc-backend/internal/models"
	"sgc-backend/internal/repository"
	"sgc-backend/internal/services"
)

const (
	pollTimeout = 5 * time.Second
	lockTTL     = 5 * time.Minute
)

type contactStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.ContactSubmission, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
}

type jobStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Job, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	UpdateError(ctx context.Context, id uuid.UUID, errMsg string, retryCount int) error
}

type contactNotifier interface {
	SendContactNotification(c *models.ContactSubmission) error
	SendContactAcknowledgement(c *models.ContactSubmission) error
}

// Pool drains the contact notification queue.
type Pool struct {
	redis       *redis.Client
	queue       services.JobQueue
	contacts    contactStore
	jobs        jobStore
	email       contactNotifier
	logger      *zap.Logger
	workerCount int

	// retryAfter schedules a re-queue; replaced in tests.
	retryAfter func(d time.Duration, f func())

	stopChan chan struct{}
	wg       sync.WaitGroup
}

func NewPool(
	redisClient *redis.Client,
	queue services.JobQueue,
	contacts contactStore,
	jobs jobStore,
	email contactNotifier,
	logger *zap.Logger,
	workerCount int,
) *Pool {
	if workerCount < 1 {
		workerCount = 1
	}
	return &Pool{
		redis:       redisClient,
		queue:       queue,
		contacts:    contacts,
		jobs:        jobs,
		email:       email,
		logger:      logger,
		workerCount: workerCount,
		retryAfter: func(d time.Duration, f func()) {
			time.AfterFunc(d, f)
		},
		stopChan: make(chan struct{}),
	}
}

func (p *Pool) Start() {
	for i := 0; i < p.workerCount; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
	p.logger.Info("started notification workers", zap.Int("count", p.workerCount))
}

// Stop signals the workers and waits for in-flight jobs to finish.
func (p *Pool) Stop() {
	close(p.stopChan)
	p.wg.Wait()
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()
	log := p.logger.With(zap.Int("worker", id))

	for {
		select {
		case <-p.stopChan:
			log.Debug("worker shutting down")
			return
		default:
		}

		ctx := context.Background()

		result, err := p.redis.BLPop(ctx, pollTimeout, services.ContactNotificationQueue).Result()
		if err != nil {
			if err != redis.Nil {
				log.Warn("queue poll failed", zap.Error(err))
				time.Sleep(time.Second)
			}
			continue
		}
		if len(result) < 2 {
			continue
		}

		var job models.Job
		if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
			log.Error("failed to parse job", zap.Error(err))
			continue
		}

		lockKey := fmt.Sprintf("job_lock:%s", job.ID.String())
		locked, err := p.redis.SetNX(ctx, lockKey, "1", lockTTL).Result()
		if err != nil || !locked {
			continue
		}

		p.run(ctx, &job)

		p.redis.Del(ctx, lockKey)
	}
}

func (p *Pool) run(ctx context.Context, job *models.Job) {
	// The sweeper may re-queue a job that a backed-up worker later drains twice.
	if current, err := p.jobs.GetByID(ctx, job.ID); err == nil {
		if current.Status == models.JobStatusCompleted || current.Status == models.JobStatusFailed {
			p.logger.Debug("skipping finished job", zap.String("job_id", job.ID.String()), zap.String("status", current.Status))
			return
		}
	}

	p.logger.Info("processing job",
		zap.String("job_id", job.ID.String()),
		zap.String("type", job.Type),
		zap.Int("attempt", job.RetryCount+1),
	)
	p.jobs.UpdateStatus(ctx, job.ID, models.JobStatusProcessing)

	var err error
	switch job.Type {
	case models.JobTypeContactNotification:
		err = p.processContactNotification(ctx, job)
	default:
		err = fmt.Errorf("unknown job type: %s", job.Type)
	}

	if err != nil {
		p.handleFailure(ctx, job, err)
		return
	}
	p.handleSuccess(ctx, job)
}

func (p *Pool) processContactNotification(ctx context.Context, job *models.Job) error {
	submission, err := p.contacts.GetByID(ctx, job.ReferenceID)
	if err != nil {
		return fmt.Errorf("failed to load contact submission %s: %w", job.ReferenceID, err)
	}

	if submission.Status != repository.ContactStatusNotified {
		if err := p.email.SendContactNotification(submission); err != nil {
			return fmt.Errorf("failed to notify sales: %w", err)
		}
		if err := p.contacts.UpdateStatus(ctx, submission.ID, repository.ContactStatusNotified); err != nil {
			return fmt.Errorf("failed to mark submission notified: %w", err)
		}
	}

	// The sales inbox already has the lead; a failed acknowledgement is not retried.
	if err := p.email.SendContactAcknowledgement(submission); err != nil {
		p.logger.Warn("failed to send contact acknowledgement",
			zap.String("submission_id", submission.ID.String()),
			zap.Error(err),
		)
	}
	return nil
}

func (p *Pool) handleSuccess(ctx context.Context, job *models.Job) {
	p.jobs.UpdateStatus(ctx, job.ID, models.JobStatusCompleted)
	p.logger.Info("job completed", zap.String("job_id", job.ID.String()))
}

func (p *Pool) handleFailure(ctx context.Context, job *models.Job, err error) {
	job.RetryCount++
	errMsg := err.Error()

	maxRetries := job.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}

	if job.RetryCount < maxRetries {
		p.logger.Warn("job failed, retrying",
			zap.String("job_id", job.ID.String()),
			zap.Int("attempt", job.RetryCount),
			zap.Error(err),
		)
		p.jobs.UpdateStatus(ctx, job.ID, models.JobStatusPending)
		p.jobs.UpdateError(ctx, job.ID, errMsg, job.RetryCount)

		retry := *job
		backoff := time.Duration(1<<uint(job.RetryCount)) * time.Second
		p.retryAfter(backoff, func() {
			if err := p.queue.Enqueue(context.Background(), services.ContactNotificationQueue, &retry); err != nil {
				p.logger.Error("failed to re-queue job", zap.String("job_id", retry.ID.String()), zap.Error(err))
			}
		})
		return
	}

	p.logger.Error("job failed permanently",
		zap.String("job_id", job.ID.String()),
		zap.Int("attempts", job.RetryCount),
		zap.Error(err),
	)
	p.jobs.UpdateStatus(ctx, job.ID, models.JobStatusFailed)
	p.jobs.UpdateError(ctx, job.ID, errMsg, job.RetryCount)
	if job.Type == models.JobTypeContactNotification {
		p.contacts.UpdateStatus(ctx, job.ReferenceID, repository.ContactStatusFailed)
	}
}
