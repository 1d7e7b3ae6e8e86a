package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"omegashop/internal/auth"
	"omegashop/internal/domain"
	apperrors "omegashop/internal/errors"
	"omegashop/internal/httpapi"
	"omegashop/internal/vendors/service"
)

type VendorUseCase interface {
	Create(ctx context.Context, authorID int, input service.CreateVendorInput) (*domain.Vendor, error)
	GetByID(ctx context.Context, id int) (*domain.Vendor, error)
	Update(ctx context.Context, id int, requester domain.AuthUser, input service.UpdateVendorInput) (*domain.Vendor, error)
	Delete(ctx context.Context, id int, requester domain.AuthUser) error
}

type VendorController struct {
	useCase VendorUseCase
	logger  *zap.Logger
}

func NewVendorController(useCase VendorUseCase, logger *zap.Logger) *VendorController {
	return &VendorController{
		useCase: useCase,
		logger:  logger,
	}
}

type CreateVendorRequest struct {
	Name   string `json:"name"`
	Status string `json:"status"`
}

type UpdateVendorRequest struct {
	Name   *string `json:"name"`
	Status *string `json:"status"`
}

type VendorResponse struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Status    string    `json:"status"`
	AuthorID  int       `json:"authorId"`
	CreatedAt time.Time `json:"createdAt"`
}

func (c *VendorController) CreateVendor(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		httpapi.HandleServiceError(w, logger, traceID, apperrors.NewUnauthorizedError("authentication required"))
		return
	}

	var req CreateVendorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		httpapi.WriteValidationError(w, logger, traceID, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	if strings.TrimSpace(req.Name) == "" {
		httpapi.WriteValidationError(w, logger, traceID, "validation failed", apperrors.ValidationDetail{
			Field:   "name",
			Message: "name is required",
		})
		return
	}

	vendor, err := c.useCase.Create(r.Context(), user.ID, service.CreateVendorInput{
		Name:   req.Name,
		Status: domain.VendorStatus(req.Status),
	})
	if err != nil {
		httpapi.HandleServiceError(w, logger, traceID, err)
		return
	}

	httpapi.WriteJSON(w, logger, http.StatusCreated, toVendorResponse(vendor))
}

func (c *VendorController) GetVendor(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	id, ok := parseVendorID(w, r, logger, traceID)
	if !ok {
		return
	}

	vendor, err := c.useCase.GetByID(r.Context(), id)
	if err != nil {
		httpapi.HandleServiceError(w, logger, traceID, err)
		return
	}

	httpapi.WriteJSON(w, logger, http.StatusOK, toVendorResponse(vendor))
}

func (c *VendorController) UpdateVendor(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		httpapi.HandleServiceError(w, logger, traceID, apperrors.NewUnauthorizedError("authentication required"))
		return
	}

	id, ok := parseVendorID(w, r, logger, traceID)
	if !ok {
		return
	}

	var req UpdateVendorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		httpapi.WriteValidationError(w, logger, traceID, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	input := service.UpdateVendorInput{Name: req.Name}
	if req.Status != nil {
		status := domain.VendorStatus(*req.Status)
		input.Status = &status
	}

	vendor, err := c.useCase.Update(r.Context(), id, *user, input)
	if err != nil {
		httpapi.HandleServiceError(w, logger, traceID, err)
		return
	}

	httpapi.WriteJSON(w, logger, http.StatusOK, toVendorResponse(vendor))
}

func (c *VendorController) DeleteVendor(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		httpapi.HandleServiceError(w, logger, traceID, apperrors.NewUnauthorizedError("authentication required"))
		return
	}

	id, ok := parseVendorID(w, r, logger, traceID)
	if !ok {
		return
	}

	if err := c.useCase.Delete(r.Context(), id, *user); err != nil {
		httpapi.HandleServiceError(w, logger, traceID, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func parseVendorID(w http.ResponseWriter, r *http.Request, logger *zap.Logger, traceID string) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "vendorId"))
	if err != nil || id <= 0 {
		httpapi.WriteValidationError(w, logger, traceID, "invalid vendorId", apperrors.ValidationDetail{
			Field:   "vendorId",
			Message: "vendorId must be a positive integer",
		})
		return 0, false
	}
	return id, true
}

func toVendorResponse(vendor *domain.Vendor) VendorResponse {
	return VendorResponse{
		ID:        vendor.ID,
		Name:      vendor.Name,
		Slug:      vendor.Slug,
		Status:    string(vendor.Status),
		AuthorID:  vendor.AuthorID,
		CreatedAt: vendor.CreatedAt,
	}
}
