package assistant

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sgc-backend/internal/models"
)

func TestSessions_CreateAndGet(t *testing.T) {
	var attached []uuid.UUID
	sessions := NewSessions(func(id uuid.UUID) Listener {
		attached = append(attached, id)
		return nil
	})

	s := sessions.Create(models.LanguageEnglish)
	require.NotNil(t, s.Conversation)
	assert.Equal(t, models.LanguageEnglish, s.Language())
	assert.Equal(t, []uuid.UUID{s.ID}, attached)

	got, ok := sessions.Get(s.ID)
	require.True(t, ok)
	assert.Same(t, s, got)

	_, ok = sessions.Get(uuid.New())
	assert.False(t, ok)
}

func TestSessions_ReapIdle(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	sessions := NewSessions(nil)
	sessions.now = func() time.Time { return now }

	stale := sessions.Create(models.LanguageVietnamese)
	busy := sessions.Create(models.LanguageVietnamese)
	require.True(t, busy.Conversation.begin("still waiting"))

	now = now.Add(30 * time.Minute)
	fresh := sessions.Create(models.LanguageEnglish)

	now = now.Add(45 * time.Minute)
	removed := sessions.Reap(time.Hour)

	assert.Equal(t, 1, removed)
	_, ok := sessions.Get(stale.ID)
	assert.False(t, ok)
	_, ok = sessions.Get(busy.ID)
	assert.True(t, ok, "sessions awaiting a reply are never reaped")
	_, ok = sessions.Get(fresh.ID)
	assert.True(t, ok)
	assert.Equal(t, 2, sessions.Len())
}

func TestSessions_GetRefreshesIdleClock(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	sessions := NewSessions(nil)
	sessions.now = func() time.Time { return now }

	s := sessions.Create(models.LanguageEnglish)
	now = now.Add(50 * time.Minute)
	sessions.Get(s.ID)
	now = now.Add(50 * time.Minute)

	assert.Equal(t, 0, sessions.Reap(time.Hour))
}

type blockingListener struct {
	entered chan struct{}
	release chan struct{}
}

func (b *blockingListener) MessageAppended(int, models.ChatMessage) {
	b.entered <- struct{}{}
	<-b.release
}

func (b *blockingListener) StatusChanged(bool, bool) {}

func TestSessions_SlowListenerDoesNotStallOtherSessions(t *testing.T) {
	slow := &blockingListener{entered: make(chan struct{}, 1), release: make(chan struct{})}
	var created int
	sessions := NewSessions(func(uuid.UUID) Listener {
		created++
		if created == 1 {
			return slow
		}
		return nil
	})

	a := sessions.Create(models.LanguageEnglish)
	b := sessions.Create(models.LanguageEnglish)

	go a.Conversation.Open(models.LanguageEnglish)
	<-slow.entered
	defer close(slow.release)

	done := make(chan struct{})
	go func() {
		defer close(done)
		sessions.Reap(time.Hour)
		sessions.Get(b.ID)
		a.Conversation.Snapshot()
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("registry blocked behind a slow listener")
	}
}

func TestSessions_GetDuringReapNeverReturnsOrphan(t *testing.T) {
	for i := 0; i < 200; i++ {
		now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
		sessions := NewSessions(nil)
		sessions.now = func() time.Time { return now }
		s := sessions.Create(models.LanguageEnglish)
		now = now.Add(2 * time.Hour)

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			sessions.Reap(time.Hour)
		}()
		_, ok := sessions.Get(s.ID)
		wg.Wait()

		if ok {
			_, still := sessions.Get(s.ID)
			require.True(t, still, "session returned by Get was reaped afterwards")
		}
	}
}
