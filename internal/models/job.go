package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	JobTypeContactNotification = "contact-notification"

	JobStatusPending    = "pending"
	JobStatusProcessing = "processing"
	JobStatusCompleted  = "completed"
	JobStatusFailed     = "failed"
)

type Job struct {
	ID           uuid.UUID  `json:"id"`
	Type         string     `json:"type"` // "contact-notification"
	ReferenceID  uuid.UUID  `json:"reference_id"`
	Status       string     `json:"status"` // "pending" | "processing" | "completed" | "failed"
	RetryCount   int        `json:"retry_count"`
	MaxRetries   int        `json:"max_retries"`
	ErrorMessage *string    `json:"error_message"`
	CreatedAt    time.Time  `json:"created_at"`
	CompletedAt  *time.Time `json:"completed_at"`
}

// WebSocket message types
const (
	WSTypeMessageAppended = "message_appended"
	WSTypeStatusUpdate    = "status_update"
)

type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type MessageAppended struct {
	SessionID uuid.UUID   `json:"session_id"`
	Index     int         `json:"index"`
	Message   ChatMessage `json:"message"`
}

type StatusUpdate struct {
	SessionID            uuid.UUID `json:"session_id"`
	AwaitingResponse     bool      `json:"awaiting_response"`
	CredentialsAvailable bool      `json:"credentials_available"`
}

// API Error response
type APIError struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id"`
}

type ErrorResponse struct {
	Error APIError `json:"error"`
}
