package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"sgc-backend/internal/models"
)

const ContactNotificationQueue = "queue:contact-notification"

// JobQueue hands background jobs to the worker pool.
type JobQueue interface {
	Enqueue(ctx context.Context, queue string, job *models.Job) error
}

type RedisJobQueue struct {
	redis *redis.Client
}

func NewRedisJobQueue(redisClient *redis.Client) *RedisJobQueue {
	return &RedisJobQueue{redis: redisClient}
}

func (q *RedisJobQueue) Enqueue(ctx context.Context, queue string, job *models.Job) error {
	jobBytes, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to encode job %s: %w", job.ID, err)
	}
	if err := q.redis.LPush(ctx, queue, string(jobBytes)).Err(); err != nil {
		return fmt.Errorf("failed to enqueue job %s on %s: %w", job.ID, queue, err)
	}
	return nil
}
