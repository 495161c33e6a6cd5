package assistant

import "sgc-backend/internal/models"

type OutcomeKind int

const (
	// OutcomeSucceeded: the model answered. Text may still be empty.
	OutcomeSucceeded OutcomeKind = iota + 1
	// OutcomeUnavailable: no credential was configured, nothing was sent.
	OutcomeUnavailable
	// OutcomeFailed: the request to the model failed.
	OutcomeFailed
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSucceeded:
		return "succeeded"
	case OutcomeUnavailable:
		return "unavailable"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome is how a single dispatch to the language model settled.
type Outcome struct {
	Kind OutcomeKind
	Text string
	Err  error
}

func Succeeded(text string) Outcome { return Outcome{Kind: OutcomeSucceeded, Text: text} }
func Unavailable() Outcome          { return Outcome{Kind: OutcomeUnavailable} }
func Failed(err error) Outcome      { return Outcome{Kind: OutcomeFailed, Err: err} }

// Reply turns the outcome into the assistant message recorded for it.
func (o Outcome) Reply(lang models.Language) models.ChatMessage {
	var text string
	switch o.Kind {
	case OutcomeSucceeded:
		text = o.Text
		if text == "" {
			text = FallbackReply(lang)
		}
	case OutcomeUnavailable:
		text = NotConfiguredReply(lang)
	default:
		text = ConnectionErrorReply(lang)
	}
	return models.ChatMessage{Role: models.RoleAssistant, Text: text}
}
