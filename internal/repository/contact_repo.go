package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"sgc-backend/internal/models"
)

const (
	ContactStatusReceived = "received"
	ContactStatusNotified = "notified"
	ContactStatusFailed   = "failed"
)

var ErrNotFound = errors.New("record not found")

type ContactRepo struct {
	pool *pgxpool.Pool
}

func NewContactRepo(pool *pgxpool.Pool) *ContactRepo {
	return &ContactRepo{pool: pool}
}

func (r *ContactRepo) Create(ctx context.Context, c *models.ContactSubmission) error {
	c.ID = uuid.New()
	c.Status = ContactStatusReceived

	query := `INSERT INTO contact_submissions (id, name, email, phone, message, language, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING created_at`

	return r.pool.QueryRow(ctx, query,
		c.ID, c.Name, c.Email, c.Phone, c.Message, string(c.Language), c.Status,
	).Scan(&c.CreatedAt)
}

func (r *ContactRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.ContactSubmission, error) {
	c := &models.ContactSubmission{}
	var lang string
	query := `SELECT id, name, email, phone, message, language, status, created_at, notified_at
		FROM contact_submissions WHERE id = $1`

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.Name, &c.Email, &c.Phone, &c.Message, &lang,
		&c.Status, &c.CreatedAt, &c.NotifiedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	c.Language = models.Language(lang)
	return c, nil
}

func (r *ContactRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	if status == ContactStatusNotified {
		_, err := r.pool.Exec(ctx,
			"UPDATE contact_submissions SET status = $1, notified_at = $2 WHERE id = $3",
			status, time.Now(), id,
		)
		return err
	}
	_, err := r.pool.Exec(ctx, "UPDATE contact_submissions SET status = $1 WHERE id = $2", status, id)
	return err
}
