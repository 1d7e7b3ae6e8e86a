package controller

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"omegashop/internal/agent"
	"omegashop/internal/auth"
	"omegashop/internal/domain"
	apperrors "omegashop/internal/errors"
	"omegashop/internal/httpapi"
)

type AgentUseCase interface {
	Prompt(ctx context.Context, user *domain.AuthUser, prompt string) (*agent.Reply, error)
}

type AgentController struct {
	useCase AgentUseCase
	logger  *zap.Logger
}

func NewAgentController(useCase AgentUseCase, logger *zap.Logger) *AgentController {
	return &AgentController{
		useCase: useCase,
		logger:  logger,
	}
}

type PromptRequest struct {
	Prompt string `json:"prompt"`
}

func (c *AgentController) Prompt(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		httpapi.HandleServiceError(w, logger, traceID, apperrors.NewUnauthorizedError("authentication required"))
		return
	}

	var req PromptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		httpapi.WriteValidationError(w, logger, traceID, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	reply, err := c.useCase.Prompt(r.Context(), user, req.Prompt)
	if err != nil {
		httpapi.HandleServiceError(w, logger, traceID, err)
		return
	}

	httpapi.WriteJSON(w, logger, http.StatusOK, reply)
}
