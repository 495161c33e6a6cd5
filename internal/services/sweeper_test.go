package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"sgc-backend/internal/models"
)

func TestIsStale(t *testing.T) {
	now := time.Date(2026, 2, 16, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		status string
		age    time.Duration
		want   bool
	}{
		{"fresh pending", models.JobStatusPending, 2 * time.Minute, false},
		{"old pending", models.JobStatusPending, 15 * time.Minute, true},
		{"processing inside grace", models.JobStatusProcessing, 15 * time.Minute, false},
		{"processing past grace", models.JobStatusProcessing, time.Hour, true},
		{"completed", models.JobStatusCompleted, 48 * time.Hour, false},
		{"failed", models.JobStatusFailed, 48 * time.Hour, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job := &models.Job{Status: tt.status, CreatedAt: now.Add(-tt.age)}
			if got := isStale(job, now); got != tt.want {
				t.Fatalf("isStale(%s, %s) = %v, want %v", tt.status, tt.age, got, tt.want)
			}
		})
	}
}

type stubLister struct {
	jobs []*models.Job
	err  error
}

func (s *stubLister) ListUnfinished(context.Context, string, time.Time, int) ([]*models.Job, error) {
	return s.jobs, s.err
}

func TestJobSweeper_Sweep(t *testing.T) {
	now := time.Date(2026, 2, 16, 10, 0, 0, 0, time.UTC)
	lister := &stubLister{jobs: []*models.Job{
		{ID: uuid.New(), Status: models.JobStatusPending, CreatedAt: now.Add(-20 * time.Minute)},
		{ID: uuid.New(), Status: models.JobStatusProcessing, CreatedAt: now.Add(-20 * time.Minute)},
		{ID: uuid.New(), Status: models.JobStatusProcessing, CreatedAt: now.Add(-2 * time.Hour)},
	}}
	queue := &stubQueue{}

	n := NewJobSweeper(lister, queue, zap.NewNop()).Sweep(context.Background(), now)
	if n != 2 {
		t.Fatalf("expected 2 re-queued jobs, got %d", n)
	}
	if len(queue.jobs) != 2 || queue.queues[0] != ContactNotificationQueue {
		t.Fatalf("unexpected queue contents: %v", queue.queues)
	}
}

func TestJobSweeper_ListError(t *testing.T) {
	queue := &stubQueue{}
	n := NewJobSweeper(&stubLister{err: errors.New("db down")}, queue, zap.NewNop()).Sweep(context.Background(), time.Now())
	if n != 0 || len(queue.jobs) != 0 {
		t.Fatalf("expected nothing re-queued on list error")
	}
}
