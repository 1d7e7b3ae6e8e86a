package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"omegashop/internal/domain"
	"omegashop/internal/errors"
	"omegashop/internal/events"
	"omegashop/internal/infrastructure/metrics"
)

type Repository interface {
	InsertConversation(ctx context.Context, conv domain.Conversation) (int, error)
	FindConversation(ctx context.Context, id int) (*domain.Conversation, error)
	InsertMessage(ctx context.Context, msg domain.Message) (int, error)
	ListMessages(ctx context.Context, conversationID int) ([]domain.Message, error)
	MarkRead(ctx context.Context, conversationID, readerID int) error
}

type ParticipantLookup interface {
	FindByID(ctx context.Context, id int) (*domain.User, error)
}

type ChatService struct {
	repo      Repository
	users     ParticipantLookup
	publisher events.Publisher
	topic     string
	logger    *zap.Logger
	metrics   *metrics.Metrics
}

func NewChatService(repo Repository, users ParticipantLookup, publisher events.Publisher, topic string, logger *zap.Logger, m *metrics.Metrics) *ChatService {
	return &ChatService{
		repo:      repo,
		users:     users,
		publisher: publisher,
		topic:     topic,
		logger:    logger,
		metrics:   m,
	}
}

// StartConversation creates a two-party conversation. The caller must be one
// of the participants.
func (s *ChatService) StartConversation(ctx context.Context, caller *domain.AuthUser, otherUserID int) (*domain.Conversation, error) {
	if otherUserID <= 0 {
		return nil, errors.NewValidationError("user_id must be positive")
	}
	if otherUserID == caller.ID {
		return nil, errors.NewValidationError("cannot start a conversation with yourself")
	}

	if _, err := s.users.FindByID(ctx, otherUserID); err != nil {
		if _, ok := errors.IsNotFoundError(err); ok {
			return nil, errors.NewValidationError("invalid user_id")
		}
		return nil, err
	}

	conv := domain.Conversation{User1ID: caller.ID, User2ID: otherUserID}
	id, err := s.repo.InsertConversation(ctx, conv)
	if err != nil {
		return nil, fmt.Errorf("creating conversation: %w", err)
	}

	created, err := s.repo.FindConversation(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.Info("conversation started",
		zap.Int("conversation_id", created.ID),
		zap.Int("user1_id", created.User1ID),
		zap.Int("user2_id", created.User2ID),
	)

	return created, nil
}

type SendMessageInput struct {
	ConversationID int
	Body           string
	Image          *string
}

// SendMessage persists the message and publishes it to the message topic.
// Publish failures are logged, not returned: the message is already durable.
func (s *ChatService) SendMessage(ctx context.Context, caller *domain.AuthUser, input SendMessageInput) (*domain.Message, error) {
	if strings.TrimSpace(input.Body) == "" && input.Image == nil {
		return nil, errors.NewValidationError("message must have a body or an image")
	}

	conv, err := s.conversationFor(ctx, caller, input.ConversationID)
	if err != nil {
		return nil, err
	}

	msg := domain.Message{
		ConversationID: conv.ID,
		SenderID:       caller.ID,
		Body:           input.Body,
		Image:          input.Image,
	}

	id, err := s.repo.InsertMessage(ctx, msg)
	if err != nil {
		return nil, fmt.Errorf("inserting message: %w", err)
	}
	msg.ID = id

	s.metrics.MessagesSent.Inc()

	key := fmt.Sprintf("%d", conv.ID)
	if err := s.publisher.Publish(ctx, s.topic, key, msg); err != nil {
		s.logger.Warn("publishing message event failed",
			zap.Int("conversation_id", conv.ID),
			zap.Int("message_id", msg.ID),
			zap.Error(err),
		)
	}

	return &msg, nil
}

// ListMessages returns the conversation history oldest first and marks the
// other party's messages as read.
func (s *ChatService) ListMessages(ctx context.Context, caller *domain.AuthUser, conversationID int) ([]domain.Message, error) {
	conv, err := s.conversationFor(ctx, caller, conversationID)
	if err != nil {
		return nil, err
	}

	messages, err := s.repo.ListMessages(ctx, conv.ID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.MarkRead(ctx, conv.ID, caller.ID); err != nil {
		s.logger.Warn("marking messages read failed",
			zap.Int("conversation_id", conv.ID),
			zap.Error(err),
		)
	}

	return messages, nil
}

func (s *ChatService) conversationFor(ctx context.Context, caller *domain.AuthUser, conversationID int) (*domain.Conversation, error) {
	conv, err := s.repo.FindConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	if conv.User1ID != caller.ID && conv.User2ID != caller.ID {
		return nil, errors.NewForbiddenError("not a participant in this conversation")
	}

	return conv, nil
}
