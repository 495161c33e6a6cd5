package models

import "github.com/google/uuid"

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMessage is one turn of a widget conversation. Values are never edited after creation.
type ChatMessage struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// CreateSessionRequest opens the chat widget for a visitor.
type CreateSessionRequest struct {
	Language string `json:"language"`
}

// OpenSessionRequest re-opens an existing widget, optionally switching language.
type OpenSessionRequest struct {
	Language string `json:"language"`
}

// SendMessageRequest is the payload sent when the visitor submits a question.
type SendMessageRequest struct {
	Text     string `json:"text"`
	Language string `json:"language,omitempty"`
}

// SessionResponse is the read view of a conversation handed to the widget.
type SessionResponse struct {
	SessionID            uuid.UUID     `json:"session_id"`
	Token                string        `json:"token,omitempty"`
	Language             Language      `json:"language"`
	Messages             []ChatMessage `json:"messages"`
	AwaitingResponse     bool          `json:"awaiting_response"`
	CredentialsAvailable bool          `json:"credentials_available"`
}

// SendMessageResponse reports whether a send was accepted and how it settled.
type SendMessageResponse struct {
	Accepted bool   `json:"accepted"`
	Outcome  string `json:"outcome,omitempty"` // "succeeded" | "unavailable" | "failed"
	SessionResponse
}
