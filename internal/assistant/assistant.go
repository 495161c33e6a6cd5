// Package assistant implements the website chat widget: an append-only
// conversation per visitor and the dispatcher that forwards questions to a
// hosted language model.
package assistant

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"sgc-backend/internal/models"
)

// Generator answers a single-turn prompt using the given API key.
type Generator interface {
	Generate(ctx context.Context, apiKey, prompt string) (string, error)
}

// CredentialSource resolves the language-model API key. An empty key means
// the assistant is not configured.
type CredentialSource interface {
	APIKey() string
}

type CredentialFunc func() string

func (f CredentialFunc) APIKey() string { return f() }

// EnvCredential reads key from the process environment on every call.
func EnvCredential(key string) CredentialSource {
	return CredentialFunc(func() string { return os.Getenv(key) })
}

// StaticCredential always returns apiKey.
func StaticCredential(apiKey string) CredentialSource {
	return CredentialFunc(func() string { return apiKey })
}

type Assistant struct {
	generator   Generator
	credentials CredentialSource
	logger      *zap.Logger
}

func New(generator Generator, credentials CredentialSource, logger *zap.Logger) *Assistant {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Assistant{
		generator:   generator,
		credentials: credentials,
		logger:      logger,
	}
}

// Send records rawText as a user turn in conv and waits for the reply.
//
// Blank input and calls made while conv is awaiting a response are ignored:
// nothing is appended and ok is false. Otherwise exactly one assistant turn
// is appended before Send returns, and conv is idle again.
func (a *Assistant) Send(ctx context.Context, conv *Conversation, rawText string, lang models.Language) (outcome Outcome, ok bool) {
	text := strings.TrimSpace(rawText)
	if text == "" {
		return Outcome{}, false
	}
	if !conv.begin(text) {
		a.logger.Debug("send ignored, response still pending")
		return Outcome{}, false
	}

	outcome = a.dispatch(ctx, text, lang)
	conv.settle(outcome.Reply(lang), outcome.Kind == OutcomeUnavailable)

	return outcome, true
}

func (a *Assistant) dispatch(ctx context.Context, question string, lang models.Language) (outcome Outcome) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("language model generator panicked", zap.Any("panic", r))
			outcome = Failed(fmt.Errorf("generator panic: %v", r))
		}
	}()

	apiKey := ""
	if a.credentials != nil {
		apiKey = strings.TrimSpace(a.credentials.APIKey())
	}
	if apiKey == "" || a.generator == nil {
		a.logger.Warn("language model credential is not configured")
		return Unavailable()
	}

	reply, err := a.generator.Generate(ctx, apiKey, BuildPrompt(question, lang))
	if err != nil {
		a.logger.Error("language model request failed",
			zap.String("language", string(lang)),
			zap.Error(err),
		)
		return Failed(err)
	}

	a.logger.Debug("language model replied",
		zap.String("language", string(lang)),
		zap.Int("reply_length", len(reply)),
	)
	return Succeeded(reply)
}
