package controller

import (
	"context"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"omegashop/internal/httpapi"
	"omegashop/internal/user/service"
)

type UserUseCase interface {
	List(ctx context.Context, page, pageSize int) (*service.UserPage, error)
}

type UserController struct {
	useCase UserUseCase
	logger  *zap.Logger
}

func NewUserController(useCase UserUseCase, logger *zap.Logger) *UserController {
	return &UserController{
		useCase: useCase,
		logger:  logger,
	}
}

type UserResponse struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Status string `json:"status"`
}

type UserListResponse struct {
	Users      []UserResponse `json:"users"`
	Page       int            `json:"page"`
	PageSize   int            `json:"pageSize"`
	Total      int            `json:"total"`
	TotalPages int            `json:"totalPages"`
}

// ListUsers is admin-only; the router enforces the role.
func (c *UserController) ListUsers(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	page := queryInt(r, "page", 1)
	pageSize := queryInt(r, "pageSize", 20)

	result, err := c.useCase.List(r.Context(), page, pageSize)
	if err != nil {
		httpapi.HandleServiceError(w, logger, traceID, err)
		return
	}

	resp := UserListResponse{
		Users:      make([]UserResponse, len(result.Users)),
		Page:       result.Page,
		PageSize:   result.PageSize,
		Total:      result.Total,
		TotalPages: result.TotalPages,
	}
	for i, user := range result.Users {
		resp.Users[i] = UserResponse{
			ID:     user.ID,
			Name:   user.Name,
			Email:  user.Email,
			Role:   string(user.Role),
			Status: string(user.Status),
		}
	}

	httpapi.WriteJSON(w, logger, http.StatusOK, resp)
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}
