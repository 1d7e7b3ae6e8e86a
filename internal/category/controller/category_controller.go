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

	"omegashop/internal/domain"
	apperrors "omegashop/internal/errors"
	"omegashop/internal/httpapi"
)

type CategoryUseCase interface {
	Create(ctx context.Context, name string) (*domain.Category, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Category, error)
	List(ctx context.Context) ([]domain.Category, error)
	Update(ctx context.Context, slug, newName string) (*domain.Category, error)
	Delete(ctx context.Context, id int) error
}

type CategoryController struct {
	useCase CategoryUseCase
	logger  *zap.Logger
}

func NewCategoryController(useCase CategoryUseCase, logger *zap.Logger) *CategoryController {
	return &CategoryController{
		useCase: useCase,
		logger:  logger,
	}
}

type CategoryRequest struct {
	Name string `json:"name"`
}

type CategoryResponse struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"createdAt"`
}

func (c *CategoryController) CreateCategory(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	name, ok := decodeCategoryName(w, r, logger, traceID)
	if !ok {
		return
	}

	category, err := c.useCase.Create(r.Context(), name)
	if err != nil {
		httpapi.HandleServiceError(w, logger, traceID, err)
		return
	}

	httpapi.WriteJSON(w, logger, http.StatusCreated, toCategoryResponse(category))
}

func (c *CategoryController) GetCategory(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	category, err := c.useCase.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		httpapi.HandleServiceError(w, logger, traceID, err)
		return
	}

	httpapi.WriteJSON(w, logger, http.StatusOK, toCategoryResponse(category))
}

func (c *CategoryController) ListCategories(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	categories, err := c.useCase.List(r.Context())
	if err != nil {
		httpapi.HandleServiceError(w, logger, traceID, err)
		return
	}

	responses := make([]CategoryResponse, len(categories))
	for i := range categories {
		responses[i] = toCategoryResponse(&categories[i])
	}

	httpapi.WriteJSON(w, logger, http.StatusOK, map[string]interface{}{"categories": responses})
}

func (c *CategoryController) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	name, ok := decodeCategoryName(w, r, logger, traceID)
	if !ok {
		return
	}

	category, err := c.useCase.Update(r.Context(), chi.URLParam(r, "slug"), name)
	if err != nil {
		httpapi.HandleServiceError(w, logger, traceID, err)
		return
	}

	httpapi.WriteJSON(w, logger, http.StatusOK, toCategoryResponse(category))
}

func (c *CategoryController) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	id, err := strconv.Atoi(chi.URLParam(r, "categoryId"))
	if err != nil || id <= 0 {
		httpapi.WriteValidationError(w, logger, traceID, "invalid categoryId", apperrors.ValidationDetail{
			Field:   "categoryId",
			Message: "categoryId must be a positive integer",
		})
		return
	}

	if err := c.useCase.Delete(r.Context(), id); err != nil {
		httpapi.HandleServiceError(w, logger, traceID, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func decodeCategoryName(w http.ResponseWriter, r *http.Request, logger *zap.Logger, traceID string) (string, bool) {
	var req CategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		httpapi.WriteValidationError(w, logger, traceID, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return "", false
	}

	if strings.TrimSpace(req.Name) == "" {
		httpapi.WriteValidationError(w, logger, traceID, "validation failed", apperrors.ValidationDetail{
			Field:   "name",
			Message: "name is required",
		})
		return "", false
	}

	return req.Name, true
}

func toCategoryResponse(category *domain.Category) CategoryResponse {
	return CategoryResponse{
		ID:        category.ID,
		Name:      category.Name,
		Slug:      category.Slug,
		CreatedAt: category.CreatedAt,
	}
}
