package models

import (
	"time"

	"github.com/google/uuid"
)

type ContactSubmission struct {
	ID         uuid.UUID  `json:"id"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	Phone      *string    `json:"phone"`
	Message    string     `json:"message"`
	Language   Language   `json:"language"`
	Status     string     `json:"status"` // "received" | "notified" | "failed"
	CreatedAt  time.Time  `json:"created_at"`
	NotifiedAt *time.Time `json:"notified_at"`
}

type ContactRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Message  string `json:"message"`
	Language string `json:"language"`
}

type ContactResponse struct {
	SubmissionID uuid.UUID `json:"submission_id"`
	Title        string    `json:"title"`
	Message      string    `json:"message"`
	BackHome     string    `json:"back_home"`
}
