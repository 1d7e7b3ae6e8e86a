package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"omegashop/internal/auth"
	"omegashop/internal/chat/service"
	"omegashop/internal/domain"
	apperrors "omegashop/internal/errors"
	"omegashop/internal/httpapi"
)

type ChatUseCase interface {
	StartConversation(ctx context.Context, caller *domain.AuthUser, otherUserID int) (*domain.Conversation, error)
	SendMessage(ctx context.Context, caller *domain.AuthUser, input service.SendMessageInput) (*domain.Message, error)
	ListMessages(ctx context.Context, caller *domain.AuthUser, conversationID int) ([]domain.Message, error)
}

type ChatController struct {
	useCase ChatUseCase
	logger  *zap.Logger
}

func NewChatController(useCase ChatUseCase, logger *zap.Logger) *ChatController {
	return &ChatController{
		useCase: useCase,
		logger:  logger,
	}
}

type StartConversationRequest struct {
	UserID int `json:"userId"`
}

type SendMessageRequest struct {
	Body  string  `json:"body"`
	Image *string `json:"image"`
}

type ConversationResponse struct {
	ID        int       `json:"id"`
	User1ID   int       `json:"user1Id"`
	User2ID   int       `json:"user2Id"`
	CreatedAt time.Time `json:"createdAt"`
}

type MessageResponse struct {
	ID             int       `json:"id"`
	ConversationID int       `json:"conversationId"`
	SenderID       int       `json:"senderId"`
	Body           string    `json:"body"`
	Image          *string   `json:"image,omitempty"`
	IsRead         bool      `json:"isRead"`
	CreatedAt      time.Time `json:"createdAt"`
}

func (c *ChatController) StartConversation(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		httpapi.HandleServiceError(w, logger, traceID, apperrors.NewUnauthorizedError("authentication required"))
		return
	}

	var req StartConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		httpapi.WriteValidationError(w, logger, traceID, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	conv, err := c.useCase.StartConversation(r.Context(), user, req.UserID)
	if err != nil {
		httpapi.HandleServiceError(w, logger, traceID, err)
		return
	}

	httpapi.WriteJSON(w, logger, http.StatusCreated, ConversationResponse{
		ID:        conv.ID,
		User1ID:   conv.User1ID,
		User2ID:   conv.User2ID,
		CreatedAt: conv.CreatedAt,
	})
}

func (c *ChatController) SendMessage(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		httpapi.HandleServiceError(w, logger, traceID, apperrors.NewUnauthorizedError("authentication required"))
		return
	}

	conversationID, ok := parseConversationID(w, r, logger, traceID)
	if !ok {
		return
	}

	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		httpapi.WriteValidationError(w, logger, traceID, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	msg, err := c.useCase.SendMessage(r.Context(), user, service.SendMessageInput{
		ConversationID: conversationID,
		Body:           req.Body,
		Image:          req.Image,
	})
	if err != nil {
		httpapi.HandleServiceError(w, logger, traceID, err)
		return
	}

	httpapi.WriteJSON(w, logger, http.StatusCreated, toMessageResponse(msg))
}

func (c *ChatController) ListMessages(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		httpapi.HandleServiceError(w, logger, traceID, apperrors.NewUnauthorizedError("authentication required"))
		return
	}

	conversationID, ok := parseConversationID(w, r, logger, traceID)
	if !ok {
		return
	}

	messages, err := c.useCase.ListMessages(r.Context(), user, conversationID)
	if err != nil {
		httpapi.HandleServiceError(w, logger, traceID, err)
		return
	}

	responses := make([]MessageResponse, len(messages))
	for i := range messages {
		responses[i] = toMessageResponse(&messages[i])
	}

	httpapi.WriteJSON(w, logger, http.StatusOK, map[string]interface{}{"messages": responses})
}

func parseConversationID(w http.ResponseWriter, r *http.Request, logger *zap.Logger, traceID string) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "conversationId"))
	if err != nil || id <= 0 {
		httpapi.WriteValidationError(w, logger, traceID, "invalid conversationId", apperrors.ValidationDetail{
			Field:   "conversationId",
			Message: "conversationId must be a positive integer",
		})
		return 0, false
	}
	return id, true
}

func toMessageResponse(msg *domain.Message) MessageResponse {
	return MessageResponse{
		ID:             msg.ID,
		ConversationID: msg.ConversationID,
		SenderID:       msg.SenderID,
		Body:           msg.Body,
		Image:          msg.Image,
		IsRead:         msg.IsRead,
		CreatedAt:      msg.CreatedAt,
	}
}
