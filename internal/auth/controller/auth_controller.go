package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"omegashop/internal/auth"
	apperrors "omegashop/internal/errors"
	"omegashop/internal/httpapi"
)

type AuthUseCase interface {
	Signup(ctx context.Context, name, email, password string) error
	Signin(ctx context.Context, email, password string) (*auth.SigninResult, error)
}

type AuthController struct {
	useCase AuthUseCase
	logger  *zap.Logger
}

func NewAuthController(useCase AuthUseCase, logger *zap.Logger) *AuthController {
	return &AuthController{
		useCase: useCase,
		logger:  logger,
	}
}

type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SigninRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SigninResponse struct {
	AccessToken string `json:"accessToken"`
	User        struct {
		ID    int    `json:"id"`
		Role  string `json:"role"`
		Email string `json:"email"`
	} `json:"user"`
}

func (c *AuthController) Signup(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		httpapi.WriteValidationError(w, logger, traceID, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	if err := validateSignupRequest(req); err != nil {
		ve, _ := apperrors.IsValidationError(err)
		httpapi.WriteValidationError(w, logger, traceID, ve.Message, ve.Details...)
		return
	}

	if err := c.useCase.Signup(r.Context(), req.Name, req.Email, req.Password); err != nil {
		httpapi.HandleServiceError(w, logger, traceID, err)
		return
	}

	httpapi.WriteJSON(w, logger, http.StatusCreated, map[string]string{"message": "account created"})
}

func (c *AuthController) Signin(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	var req SigninRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		httpapi.WriteValidationError(w, logger, traceID, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	if req.Email == "" || req.Password == "" {
		httpapi.WriteValidationError(w, logger, traceID, "email and password are required")
		return
	}

	result, err := c.useCase.Signin(r.Context(), req.Email, req.Password)
	if err != nil {
		httpapi.HandleServiceError(w, logger, traceID, err)
		return
	}

	var resp SigninResponse
	resp.AccessToken = result.AccessToken
	resp.User.ID = result.User.ID
	resp.User.Role = string(result.User.Role)
	resp.User.Email = result.User.Email

	httpapi.WriteJSON(w, logger, http.StatusOK, resp)
}

func validateSignupRequest(req SignupRequest) error {
	var details []apperrors.ValidationDetail

	if strings.TrimSpace(req.Name) == "" {
		details = append(details, apperrors.ValidationDetail{
			Field:   "name",
			Message: "name is required",
		})
	}

	if _, err := mail.ParseAddress(req.Email); err != nil {
		details = append(details, apperrors.ValidationDetail{
			Field:   "email",
			Message: "email must be a valid address",
		})
	}

	if len(req.Password) < 8 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "password",
			Message: "password must be at least 8 characters",
		})
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}

	return nil
}
