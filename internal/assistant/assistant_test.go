package assistant

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sgc-backend/internal/models"
)

type fakeGenerator struct {
	mu      sync.Mutex
	prompts []string
	keys    []string
	reply   string
	err     error
	onCall  func()
}

func (f *fakeGenerator) Generate(ctx context.Context, apiKey, prompt string) (string, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.keys = append(f.keys, apiKey)
	f.mu.Unlock()
	if f.onCall != nil {
		f.onCall()
	}
	return f.reply, f.err
}

func (f *fakeGenerator) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

type blockingGenerator struct {
	calls   atomic.Int32
	started chan struct{}
	release chan struct{}
}

func (g *blockingGenerator) Generate(ctx context.Context, apiKey, prompt string) (string, error) {
	g.calls.Add(1)
	g.started <- struct{}{}
	<-g.release
	return "first answer", nil
}

type panickingGenerator struct{}

func (panickingGenerator) Generate(ctx context.Context, apiKey, prompt string) (string, error) {
	panic("boom")
}

func userMsg(text string) models.ChatMessage {
	return models.ChatMessage{Role: models.RoleUser, Text: text}
}

func assistantMsg(text string) models.ChatMessage {
	return models.ChatMessage{Role: models.RoleAssistant, Text: text}
}

func TestSend_MissingCredential(t *testing.T) {
	gen := &fakeGenerator{reply: "should not be used"}
	a := New(gen, StaticCredential(""), nil)
	conv := NewConversation(nil)

	outcome, ok := a.Send(context.Background(), conv, "Hello", models.LanguageEnglish)
	require.True(t, ok)
	assert.Equal(t, OutcomeUnavailable, outcome.Kind)

	assert.Equal(t, []models.ChatMessage{
		userMsg("Hello"),
		assistantMsg(NotConfiguredReply(models.LanguageEnglish)),
	}, conv.Messages())
	assert.False(t, conv.CredentialsAvailable())
	assert.False(t, conv.IsAwaitingResponse())
	assert.Equal(t, 0, gen.callCount(), "no request may be made without a credential")
}

func TestSend_ReplyIsPassedThroughVerbatim(t *testing.T) {
	gen := &fakeGenerator{reply: "We build websites."}
	a := New(gen, StaticCredential("key-123"), nil)
	conv := NewConversation(nil)

	outcome, ok := a.Send(context.Background(), conv, "What do you do?", models.LanguageVietnamese)
	require.True(t, ok)
	assert.Equal(t, OutcomeSucceeded, outcome.Kind)

	msgs := conv.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, assistantMsg("We build websites."), msgs[1])
	assert.True(t, conv.CredentialsAvailable())
	assert.Equal(t, []string{"key-123"}, gen.keys)
}

func TestSend_EmptyReplyUsesFallback(t *testing.T) {
	gen := &fakeGenerator{reply: ""}
	a := New(gen, StaticCredential("key"), nil)
	conv := NewConversation(nil)

	_, ok := a.Send(context.Background(), conv, "Xin chào", models.LanguageVietnamese)
	require.True(t, ok)

	msgs := conv.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, assistantMsg("Xin lỗi, tôi không thể trả lời lúc này."), msgs[1])
}

func TestSend_TransportErrorIsRecordedNotReturned(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("dial tcp: connection refused")}
	a := New(gen, StaticCredential("key"), nil)
	conv := NewConversation(nil)

	outcome, ok := a.Send(context.Background(), conv, "Hello", models.LanguageEnglish)
	require.True(t, ok)
	assert.Equal(t, OutcomeFailed, outcome.Kind)
	assert.Error(t, outcome.Err)

	msgs := conv.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, assistantMsg("Connection error occurred."), msgs[1])
	assert.False(t, conv.IsAwaitingResponse())
	assert.True(t, conv.CredentialsAvailable())
}

func TestSend_GeneratorPanicSettlesAsFailure(t *testing.T) {
	a := New(panickingGenerator{}, StaticCredential("key"), nil)
	conv := NewConversation(nil)

	outcome, ok := a.Send(context.Background(), conv, "Hello", models.LanguageEnglish)
	require.True(t, ok)
	assert.Equal(t, OutcomeFailed, outcome.Kind)
	assert.False(t, conv.IsAwaitingResponse())
	assert.Equal(t, assistantMsg(ConnectionErrorReply(models.LanguageEnglish)), conv.Messages()[1])
}

func TestSend_BlankInputIsIgnored(t *testing.T) {
	gen := &fakeGenerator{reply: "hi"}
	a := New(gen, StaticCredential("key"), nil)
	conv := NewConversation(nil)
	conv.Open(models.LanguageEnglish)
	before := conv.Messages()

	for _, input := range []string{"", "   ", "\t\n", ""} {
		_, ok := a.Send(context.Background(), conv, input, models.LanguageEnglish)
		assert.False(t, ok, "input %q", input)
	}

	assert.Equal(t, before, conv.Messages())
	assert.Equal(t, 0, gen.callCount())
	assert.False(t, conv.IsAwaitingResponse())
}

func TestSend_TrimsUserText(t *testing.T) {
	gen := &fakeGenerator{reply: "ok"}
	a := New(gen, StaticCredential("key"), nil)
	conv := NewConversation(nil)

	a.Send(context.Background(), conv, "   pricing?  \n", models.LanguageEnglish)

	assert.Equal(t, userMsg("pricing?"), conv.Messages()[0])
	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "User question: pricing?")
}

func TestSend_UserTurnRecordedBeforeRequest(t *testing.T) {
	conv := NewConversation(nil)
	var seen State
	gen := &fakeGenerator{reply: "ok"}
	gen.onCall = func() { seen = conv.Snapshot() }
	a := New(gen, StaticCredential("key"), nil)

	a.Send(context.Background(), conv, "Hello", models.LanguageEnglish)

	assert.Equal(t, []models.ChatMessage{userMsg("Hello")}, seen.Messages)
	assert.True(t, seen.AwaitingResponse)
}

func TestSend_IgnoredWhileAwaitingResponse(t *testing.T) {
	gen := &blockingGenerator{
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	a := New(gen, StaticCredential("key"), nil)
	conv := NewConversation(nil)

	done := make(chan Outcome, 1)
	go func() {
		outcome, _ := a.Send(context.Background(), conv, "first", models.LanguageEnglish)
		done <- outcome
	}()
	<-gen.started

	_, ok := a.Send(context.Background(), conv, "second", models.LanguageEnglish)
	assert.False(t, ok)
	assert.True(t, conv.IsAwaitingResponse())
	assert.Equal(t, []models.ChatMessage{userMsg("first")}, conv.Messages())

	close(gen.release)
	outcome := <-done

	assert.Equal(t, OutcomeSucceeded, outcome.Kind)
	assert.EqualValues(t, 1, gen.calls.Load())
	assert.Equal(t, []models.ChatMessage{
		userMsg("first"),
		assistantMsg("first answer"),
	}, conv.Messages())
	assert.False(t, conv.IsAwaitingResponse())
}

func TestSend_CredentialReadOnEveryAttempt(t *testing.T) {
	var reads atomic.Int32
	key := ""
	creds := CredentialFunc(func() string {
		reads.Add(1)
		return key
	})
	gen := &fakeGenerator{reply: "configured now"}
	a := New(gen, creds, nil)
	conv := NewConversation(nil)

	outcome, _ := a.Send(context.Background(), conv, "one", models.LanguageEnglish)
	assert.Equal(t, OutcomeUnavailable, outcome.Kind)

	key = "late-key"
	outcome, _ = a.Send(context.Background(), conv, "two", models.LanguageEnglish)
	assert.Equal(t, OutcomeSucceeded, outcome.Kind)

	assert.EqualValues(t, 2, reads.Load())
	assert.False(t, conv.CredentialsAvailable(), "the not-configured banner stays up for the session")
}

func TestSend_EveryUserTurnIsAnswered(t *testing.T) {
	gen := &fakeGenerator{}
	key := "key"
	a := New(gen, CredentialFunc(func() string { return key }), nil)
	conv := NewConversation(nil)
	conv.Open(models.LanguageVietnamese)

	steps := []func(){
		func() { gen.reply, gen.err = "answer", nil },
		func() { gen.reply, gen.err = "", nil },
		func() { gen.reply, gen.err = "", errors.New("503") },
		func() { key = "" },
	}
	for i, prepare := range steps {
		prepare()
		_, ok := a.Send(context.Background(), conv, "question", models.LanguageVietnamese)
		require.True(t, ok, "step %d", i)
	}

	users, assistants := 0, 0
	msgs := conv.Messages()
	for _, m := range msgs {
		switch m.Role {
		case models.RoleUser:
			users++
		case models.RoleAssistant:
			assistants++
		}
	}
	assert.Equal(t, 4, users)
	assert.Equal(t, users+1, assistants)
	assert.Equal(t, models.RoleAssistant, msgs[len(msgs)-1].Role)
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt("Do you register domains?", models.LanguageEnglish)

	assert.Contains(t, prompt, "SGC")
	for _, category := range serviceCategories {
		assert.Contains(t, prompt, category)
	}
	assert.Contains(t, prompt, "Answer briefly and professionally.")
	assert.Contains(t, prompt, "Current Language: en.")
	assert.Contains(t, prompt, "\nUser question: Do you register domains?")
}

func TestOutcomeKindString(t *testing.T) {
	assert.Equal(t, "succeeded", OutcomeSucceeded.String())
	assert.Equal(t, "unavailable", OutcomeUnavailable.String())
	assert.Equal(t, "failed", OutcomeFailed.String())
	assert.Equal(t, "unknown", OutcomeKind(0).String())
}
