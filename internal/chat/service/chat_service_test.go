package service

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"omegashop/internal/domain"
	apperrors "omegashop/internal/errors"
	"omegashop/internal/events"
	"omegashop/internal/infrastructure/metrics"
)

type mockChatRepo struct {
	insertConversationFunc func(ctx context.Context, conv domain.Conversation) (int, error)
	findConversationFunc   func(ctx context.Context, id int) (*domain.Conversation, error)
	insertMessageFunc      func(ctx context.Context, msg domain.Message) (int, error)
	listMessagesFunc       func(ctx context.Context, conversationID int) ([]domain.Message, error)
	markReadFunc           func(ctx context.Context, conversationID, readerID int) error
}

func (m *mockChatRepo) InsertConversation(ctx context.Context, conv domain.Conversation) (int, error) {
	return m.insertConversationFunc(ctx, conv)
}

func (m *mockChatRepo) FindConversation(ctx context.Context, id int) (*domain.Conversation, error) {
	return m.findConversationFunc(ctx, id)
}

func (m *mockChatRepo) InsertMessage(ctx context.Context, msg domain.Message) (int, error) {
	return m.insertMessageFunc(ctx, msg)
}

func (m *mockChatRepo) ListMessages(ctx context.Context, conversationID int) ([]domain.Message, error) {
	return m.listMessagesFunc(ctx, conversationID)
}

func (m *mockChatRepo) MarkRead(ctx context.Context, conversationID, readerID int) error {
	return m.markReadFunc(ctx, conversationID, readerID)
}

type mockParticipants struct {
	findByIDFunc func(ctx context.Context, id int) (*domain.User, error)
}

func (m *mockParticipants) FindByID(ctx context.Context, id int) (*domain.User, error) {
	return m.findByIDFunc(ctx, id)
}

func caller(id int) *domain.AuthUser {
	return &domain.AuthUser{ID: id, Role: domain.RoleCustomer, Status: domain.UserStatusActive}
}

func conversationBetween(id, user1, user2 int) *domain.Conversation {
	return &domain.Conversation{ID: id, User1ID: user1, User2ID: user2}
}

func newTestChatService(repo Repository, users ParticipantLookup, bus events.Publisher) *ChatService {
	return NewChatService(repo, users, bus, "chat.messages", zap.NewNop(), metrics.New(prometheus.NewRegistry()))
}

func TestChatService_StartConversation(t *testing.T) {
	repo := &mockChatRepo{
		insertConversationFunc: func(_ context.Context, conv domain.Conversation) (int, error) {
			if conv.User1ID != 1 || conv.User2ID != 2 {
				t.Errorf("expected participants 1 and 2, got %d and %d", conv.User1ID, conv.User2ID)
			}
			return 10, nil
		},
		findConversationFunc: func(_ context.Context, id int) (*domain.Conversation, error) {
			return conversationBetween(id, 1, 2), nil
		},
	}
	users := &mockParticipants{
		findByIDFunc: func(_ context.Context, id int) (*domain.User, error) {
			return &domain.User{ID: id}, nil
		},
	}
	svc := newTestChatService(repo, users, events.NewMemoryBus())

	conv, err := svc.StartConversation(context.Background(), caller(1), 2)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if conv.ID != 10 {
		t.Errorf("expected conversation id 10, got %d", conv.ID)
	}
}

func TestChatService_StartConversation_WithSelf(t *testing.T) {
	svc := newTestChatService(&mockChatRepo{}, &mockParticipants{}, events.NewMemoryBus())

	_, err := svc.StartConversation(context.Background(), caller(1), 1)
	if _, ok := apperrors.IsValidationError(err); !ok {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestChatService_StartConversation_UnknownUser(t *testing.T) {
	users := &mockParticipants{
		findByIDFunc: func(_ context.Context, _ int) (*domain.User, error) {
			return nil, apperrors.NewNotFoundError("user not found")
		},
	}
	svc := newTestChatService(&mockChatRepo{}, users, events.NewMemoryBus())

	_, err := svc.StartConversation(context.Background(), caller(1), 99)
	if _, ok := apperrors.IsValidationError(err); !ok {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestChatService_SendMessage_PublishesEvent(t *testing.T) {
	repo := &mockChatRepo{
		findConversationFunc: func(_ context.Context, id int) (*domain.Conversation, error) {
			return conversationBetween(id, 1, 2), nil
		},
		insertMessageFunc: func(_ context.Context, msg domain.Message) (int, error) {
			if msg.SenderID != 1 {
				t.Errorf("expected sender 1, got %d", msg.SenderID)
			}
			return 55, nil
		},
	}
	bus := events.NewMemoryBus()
	svc := newTestChatService(repo, &mockParticipants{}, bus)

	msg, err := svc.SendMessage(context.Background(), caller(1), SendMessageInput{ConversationID: 10, Body: "hello"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if msg.ID != 55 {
		t.Errorf("expected message id 55, got %d", msg.ID)
	}

	published := bus.Events()
	if len(published) != 1 {
		t.Fatalf("expected 1 published event, got %d", len(published))
	}
	if published[0].Topic != "chat.messages" {
		t.Errorf("expected topic chat.messages, got %s", published[0].Topic)
	}
	if published[0].Key != "10" {
		t.Errorf("expected key 10, got %s", published[0].Key)
	}
}

type failingBus struct{}

func (failingBus) Publish(_ context.Context, _, _ string, _ any) error {
	return errors.New("broker unavailable")
}

func TestChatService_SendMessage_PublishFailureIgnored(t *testing.T) {
	repo := &mockChatRepo{
		findConversationFunc: func(_ context.Context, id int) (*domain.Conversation, error) {
			return conversationBetween(id, 1, 2), nil
		},
		insertMessageFunc: func(_ context.Context, _ domain.Message) (int, error) {
			return 55, nil
		},
	}
	svc := newTestChatService(repo, &mockParticipants{}, failingBus{})

	if _, err := svc.SendMessage(context.Background(), caller(1), SendMessageInput{ConversationID: 10, Body: "hello"}); err != nil {
		t.Fatalf("expected no error when publish fails, got %v", err)
	}
}

func TestChatService_SendMessage_NotParticipant(t *testing.T) {
	repo := &mockChatRepo{
		findConversationFunc: func(_ context.Context, id int) (*domain.Conversation, error) {
			return conversationBetween(id, 1, 2), nil
		},
	}
	svc := newTestChatService(repo, &mockParticipants{}, events.NewMemoryBus())

	_, err := svc.SendMessage(context.Background(), caller(3), SendMessageInput{ConversationID: 10, Body: "hello"})
	if _, ok := apperrors.IsForbiddenError(err); !ok {
		t.Errorf("expected forbidden error, got %v", err)
	}
}

func TestChatService_SendMessage_EmptyBody(t *testing.T) {
	svc := newTestChatService(&mockChatRepo{}, &mockParticipants{}, events.NewMemoryBus())

	_, err := svc.SendMessage(context.Background(), caller(1), SendMessageInput{ConversationID: 10, Body: "   "})
	if _, ok := apperrors.IsValidationError(err); !ok {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestChatService_ListMessages_MarksRead(t *testing.T) {
	markedFor := 0
	repo := &mockChatRepo{
		findConversationFunc: func(_ context.Context, id int) (*domain.Conversation, error) {
			return conversationBetween(id, 1, 2), nil
		},
		listMessagesFunc: func(_ context.Context, conversationID int) ([]domain.Message, error) {
			return []domain.Message{
				{ID: 1, ConversationID: conversationID, SenderID: 2, Body: "hi"},
				{ID: 2, ConversationID: conversationID, SenderID: 1, Body: "hello"},
			}, nil
		},
		markReadFunc: func(_ context.Context, _ int, readerID int) error {
			markedFor = readerID
			return nil
		},
	}
	svc := newTestChatService(repo, &mockParticipants{}, events.NewMemoryBus())

	messages, err := svc.ListMessages(context.Background(), caller(1), 10)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(messages) != 2 {
		t.Errorf("expected 2 messages, got %d", len(messages))
	}
	if markedFor != 1 {
		t.Errorf("expected messages marked read for user 1, got %d", markedFor)
	}
}
