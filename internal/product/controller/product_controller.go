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
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"omegashop/internal/auth"
	"omegashop/internal/domain"
	apperrors "omegashop/internal/errors"
	"omegashop/internal/httpapi"
	"omegashop/internal/product/service"
)

type ProductUseCase interface {
	Create(ctx context.Context, input service.CreateProductInput) (*domain.Product, error)
	Update(ctx context.Context, slug string, requester domain.AuthUser, input service.UpdateProductInput) (*domain.Product, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
	ListByVendor(ctx context.Context, vendorID int) ([]domain.Product, error)
	Delete(ctx context.Context, slug string, requester domain.AuthUser) error
}

type ProductController struct {
	useCase ProductUseCase
	logger  *zap.Logger
}

func NewProductController(useCase ProductUseCase, logger *zap.Logger) *ProductController {
	return &ProductController{
		useCase: useCase,
		logger:  logger,
	}
}

type CreateProductRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       string  `json:"price"`
	OfferPrice  *string `json:"offerPrice"`
	Discount    *string `json:"discount"`
	SKU         string  `json:"sku"`
	Stock       int     `json:"stock"`
	Status      string  `json:"status"`
	VendorID    int     `json:"vendorId"`
	CategoryID  int     `json:"categoryId"`
}

type UpdateProductRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Price       *string `json:"price"`
	OfferPrice  *string `json:"offerPrice"`
	Discount    *string `json:"discount"`
	SKU         *string `json:"sku"`
	Stock       *int    `json:"stock"`
	Status      *string `json:"status"`
	CategoryID  *int    `json:"categoryId"`
}

type ProductResponse struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Price       string    `json:"price"`
	OfferPrice  *string   `json:"offerPrice,omitempty"`
	Discount    *string   `json:"discount,omitempty"`
	SKU         string    `json:"sku"`
	Stock       int       `json:"stock"`
	Status      string    `json:"status"`
	VendorID    int       `json:"vendorId"`
	CategoryID  int       `json:"categoryId"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (c *ProductController) CreateProduct(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	var req CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		httpapi.WriteValidationError(w, logger, traceID, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	input, err := toCreateProductInput(req)
	if err != nil {
		ve, _ := apperrors.IsValidationError(err)
		httpapi.WriteValidationError(w, logger, traceID, ve.Message, ve.Details...)
		return
	}

	product, err := c.useCase.Create(r.Context(), input)
	if err != nil {
		httpapi.HandleServiceError(w, logger, traceID, err)
		return
	}

	httpapi.WriteJSON(w, logger, http.StatusCreated, toProductResponse(product))
}

func (c *ProductController) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		httpapi.HandleServiceError(w, logger, traceID, apperrors.NewUnauthorizedError("authentication required"))
		return
	}

	slug := chi.URLParam(r, "slug")

	var req UpdateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		httpapi.WriteValidationError(w, logger, traceID, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	input, err := toUpdateProductInput(req)
	if err != nil {
		ve, _ := apperrors.IsValidationError(err)
		httpapi.WriteValidationError(w, logger, traceID, ve.Message, ve.Details...)
		return
	}

	product, err := c.useCase.Update(r.Context(), slug, *user, input)
	if err != nil {
		httpapi.HandleServiceError(w, logger, traceID, err)
		return
	}

	httpapi.WriteJSON(w, logger, http.StatusOK, toProductResponse(product))
}

func (c *ProductController) GetProduct(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	product, err := c.useCase.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		httpapi.HandleServiceError(w, logger, traceID, err)
		return
	}

	httpapi.WriteJSON(w, logger, http.StatusOK, toProductResponse(product))
}

func (c *ProductController) ListProducts(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	products, err := c.useCase.List(r.Context())
	if err != nil {
		httpapi.HandleServiceError(w, logger, traceID, err)
		return
	}

	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = toProductResponse(&products[i])
	}

	httpapi.WriteJSON(w, logger, http.StatusOK, map[string]interface{}{"products": responses})
}

// ListVendorProducts returns the catalog of a single vendor.
func (c *ProductController) ListVendorProducts(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	vendorID, err := strconv.Atoi(chi.URLParam(r, "vendorId"))
	if err != nil || vendorID <= 0 {
		httpapi.WriteValidationError(w, logger, traceID, "invalid vendorId", apperrors.ValidationDetail{
			Field:   "vendorId",
			Message: "vendorId must be a positive integer",
		})
		return
	}

	products, err := c.useCase.ListByVendor(r.Context(), vendorID)
	if err != nil {
		httpapi.HandleServiceError(w, logger, traceID, err)
		return
	}

	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = toProductResponse(&products[i])
	}

	httpapi.WriteJSON(w, logger, http.StatusOK, map[string]interface{}{"products": responses})
}

func (c *ProductController) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		httpapi.HandleServiceError(w, logger, traceID, apperrors.NewUnauthorizedError("authentication required"))
		return
	}

	if err := c.useCase.Delete(r.Context(), chi.URLParam(r, "slug"), *user); err != nil {
		httpapi.HandleServiceError(w, logger, traceID, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func toCreateProductInput(req CreateProductRequest) (service.CreateProductInput, error) {
	var details []apperrors.ValidationDetail

	if strings.TrimSpace(req.Name) == "" {
		details = append(details, apperrors.ValidationDetail{
			Field:   "name",
			Message: "name is required",
		})
	}
	if req.VendorID <= 0 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "vendorId",
			Message: "vendorId must be a positive integer",
		})
	}
	if req.CategoryID <= 0 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "categoryId",
			Message: "categoryId must be a positive integer",
		})
	}
	if req.Stock < 0 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "stock",
			Message: "stock must not be negative",
		})
	}

	price := parsePriceValue(req.Price, "price", &details)
	offerPrice := parseOptionalPrice(req.OfferPrice, "offerPrice", &details)
	discount := parseOptionalPrice(req.Discount, "discount", &details)

	if len(details) > 0 {
		return service.CreateProductInput{}, apperrors.NewValidationError("validation failed", details...)
	}

	return service.CreateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       price,
		OfferPrice:  offerPrice,
		Discount:    discount,
		SKU:         req.SKU,
		Stock:       req.Stock,
		Status:      domain.ProductStatus(req.Status),
		VendorID:    req.VendorID,
		CategoryID:  req.CategoryID,
	}, nil
}

func toUpdateProductInput(req UpdateProductRequest) (service.UpdateProductInput, error) {
	var details []apperrors.ValidationDetail

	input := service.UpdateProductInput{
		Name:        req.Name,
		Description: req.Description,
		SKU:         req.SKU,
		Stock:       req.Stock,
		CategoryID:  req.CategoryID,
	}

	if req.Price != nil {
		price := parsePriceValue(*req.Price, "price", &details)
		input.Price = &price
	}
	input.OfferPrice = parseOptionalPrice(req.OfferPrice, "offerPrice", &details)
	input.Discount = parseOptionalPrice(req.Discount, "discount", &details)

	if req.Status != nil {
		status := domain.ProductStatus(*req.Status)
		input.Status = &status
	}
	if req.Stock != nil && *req.Stock < 0 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "stock",
			Message: "stock must not be negative",
		})
	}

	if len(details) > 0 {
		return service.UpdateProductInput{}, apperrors.NewValidationError("validation failed", details...)
	}

	return input, nil
}

func parsePriceValue(raw, field string, details *[]apperrors.ValidationDetail) decimal.Decimal {
	value, err := decimal.NewFromString(raw)
	if err != nil || value.IsNegative() {
		*details = append(*details, apperrors.ValidationDetail{
			Field:   field,
			Message: field + " must be a non-negative decimal",
		})
		return decimal.Zero
	}
	return value
}

func parseOptionalPrice(raw *string, field string, details *[]apperrors.ValidationDetail) *decimal.Decimal {
	if raw == nil {
		return nil
	}
	value := parsePriceValue(*raw, field, details)
	return &value
}

func toProductResponse(p *domain.Product) ProductResponse {
	resp := ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Slug:        p.Slug,
		Description: p.Description,
		Price:       p.Price.StringFixed(2),
		SKU:         p.SKU,
		Stock:       p.Stock,
		Status:      string(p.Status),
		VendorID:    p.VendorID,
		CategoryID:  p.CategoryID,
		CreatedAt:   p.CreatedAt,
	}
	if p.OfferPrice != nil {
		s := p.OfferPrice.StringFixed(2)
		resp.OfferPrice = &s
	}
	if p.Discount != nil {
		s := p.Discount.StringFixed(2)
		resp.Discount = &s
	}
	return resp
}
