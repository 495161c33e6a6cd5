package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"sgc-backend/internal/assistant"
	"sgc-backend/internal/models"
)

const publishTimeout = 5 * time.Second

// ConversationChannel is the pub/sub channel carrying updates for one widget session.
func ConversationChannel(sessionID uuid.UUID) string {
	return fmt.Sprintf("conversation_updates:%s", sessionID.String())
}

// redisPublisher is the slice of the Redis client the publisher needs.
type redisPublisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// ConversationPublisher pushes conversation changes to Redis so the websocket
// hub can forward them to the browser.
type ConversationPublisher struct {
	redis  redisPublisher
	logger *zap.Logger
}

func NewConversationPublisher(redisClient redisPublisher, logger *zap.Logger) *ConversationPublisher {
	return &ConversationPublisher{redis: redisClient, logger: logger}
}

// ForSession returns the listener to attach to a session's conversation.
func (p *ConversationPublisher) ForSession(sessionID uuid.UUID) assistant.Listener {
	return &sessionListener{publisher: p, sessionID: sessionID}
}

// PublishUpdate sends a WebSocket update via Redis pub/sub
func (p *ConversationPublisher) PublishUpdate(ctx context.Context, sessionID uuid.UUID, msg models.WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		p.logger.Error("failed to encode conversation update", zap.Error(err))
		return
	}
	if err := p.redis.Publish(ctx, ConversationChannel(sessionID), string(data)).Err(); err != nil {
		p.logger.Warn("failed to publish conversation update",
			zap.String("session_id", sessionID.String()),
			zap.String("type", msg.Type),
			zap.Error(err),
		)
	}
}

type sessionListener struct {
	publisher *ConversationPublisher
	sessionID uuid.UUID
}

func (l *sessionListener) MessageAppended(index int, msg models.ChatMessage) {
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	l.publisher.PublishUpdate(ctx, l.sessionID, models.WSMessage{
		Type: models.WSTypeMessageAppended,
		Payload: models.MessageAppended{
			SessionID: l.sessionID,
			Index:     index,
			Message:   msg,
		},
	})
}

func (l *sessionListener) StatusChanged(awaitingResponse, credentialsAvailable bool) {
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	l.publisher.PublishUpdate(ctx, l.sessionID, models.WSMessage{
		Type: models.WSTypeStatusUpdate,
		Payload: models.StatusUpdate{
			SessionID:            l.sessionID,
			AwaitingResponse:     awaitingResponse,
			CredentialsAvailable: credentialsAvailable,
		},
	})
}
