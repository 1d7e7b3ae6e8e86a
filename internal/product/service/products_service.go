package service

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"omegashop/internal/domain"
	apperrors "omegashop/internal/errors"
)

// Domains this service registers with the identifier generator.
const (
	SlugDomain = "products.slug"
	SKUDomain  = "products.sku"
)

type Repository interface {
	Insert(ctx context.Context, p domain.Product) (int, error)
	Update(ctx context.Context, p domain.Product) error
	Delete(ctx context.Context, id int) error
	FindBySlug(ctx context.Context, slug string) (*domain.Product, error)
	FindBySKU(ctx context.Context, sku string) (*domain.Product, error)
	FindByIDs(ctx context.Context, ids []int) ([]domain.Product, error)
	FindAll(ctx context.Context) ([]domain.Product, error)
	FindByVendor(ctx context.Context, vendorID int) ([]domain.Product, error)
}

type CategoryLookup interface {
	FindByID(ctx context.Context, id int) (*domain.Category, error)
}

type SlugGenerator interface {
	UniqueSlug(ctx context.Context, seed, domain string) (string, error)
	UniqueShortCode(ctx context.Context, domain string, length int) (string, error)
}

type CreateProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	OfferPrice  *decimal.Decimal
	Discount    *decimal.Decimal
	SKU         string
	Stock       int
	Status      domain.ProductStatus
	VendorID    int
	CategoryID  int
}

type UpdateProductInput struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	OfferPrice  *decimal.Decimal
	Discount    *decimal.Decimal
	SKU         *string
	Stock       *int
	Status      *domain.ProductStatus
	CategoryID  *int
}

type ProductService struct {
	repo       Repository
	categories CategoryLookup
	slugs      SlugGenerator
	logger     *zap.Logger
}

func NewProductService(repo Repository, categories CategoryLookup, slugs SlugGenerator, logger *zap.Logger) *ProductService {
	return &ProductService{
		repo:       repo,
		categories: categories,
		slugs:      slugs,
		logger:     logger,
	}
}

// Create validates the category, enforces SKU uniqueness, assigns a unique
// slug from the product name (generating a short code SKU when none is
// supplied) and persists the product.
func (s *ProductService) Create(ctx context.Context, input CreateProductInput) (*domain.Product, error) {
	if _, err := s.categories.FindByID(ctx, input.CategoryID); err != nil {
		if _, ok := apperrors.IsNotFoundError(err); ok {
			return nil, apperrors.NewValidationError("invalid category_id")
		}
		return nil, err
	}

	sku := input.SKU
	if sku == "" {
		generated, err := s.slugs.UniqueShortCode(ctx, SKUDomain, 0)
		if err != nil {
			return nil, err
		}
		sku = generated
	} else if _, err := s.repo.FindBySKU(ctx, sku); err == nil {
		return nil, apperrors.NewConflictError("sku must be unique")
	} else if _, ok := apperrors.IsNotFoundError(err); !ok {
		return nil, err
	}

	slug, err := s.slugs.UniqueSlug(ctx, input.Name, SlugDomain)
	if err != nil {
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = domain.ProductStatusActive
	}

	product := domain.Product{
		Name:        input.Name,
		Slug:        slug,
		Description: input.Description,
		Price:       input.Price,
		OfferPrice:  input.OfferPrice,
		Discount:    input.Discount,
		SKU:         sku,
		Stock:       input.Stock,
		Status:      status,
		VendorID:    input.VendorID,
		CategoryID:  input.CategoryID,
	}

	id, err := s.repo.Insert(ctx, product)
	if err != nil {
		return nil, err
	}

	s.logger.Info("product created", zap.Int("productId", id), zap.String("slug", slug))

	return s.repo.FindBySlug(ctx, slug)
}

// Update applies the non-nil fields of input to the product identified by
// slug. Only the product's own vendor or an admin may modify it; the vendor
// assignment itself is immutable here.
func (s *ProductService) Update(ctx context.Context, slug string, requester domain.AuthUser, input UpdateProductInput) (*domain.Product, error) {
	product, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	if err := authorizeProductMutation(product, requester); err != nil {
		return nil, err
	}

	if input.CategoryID != nil {
		if _, err := s.categories.FindByID(ctx, *input.CategoryID); err != nil {
			if _, ok := apperrors.IsNotFoundError(err); ok {
				return nil, apperrors.NewValidationError("invalid category_id")
			}
			return nil, err
		}
		product.CategoryID = *input.CategoryID
	}

	if input.SKU != nil && *input.SKU != product.SKU {
		if _, err := s.repo.FindBySKU(ctx, *input.SKU); err == nil {
			return nil, apperrors.NewConflictError("sku must be unique")
		} else if _, ok := apperrors.IsNotFoundError(err); !ok {
			return nil, err
		}
		product.SKU = *input.SKU
	}

	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.OfferPrice != nil {
		product.OfferPrice = input.OfferPrice
	}
	if input.Discount != nil {
		product.Discount = input.Discount
	}
	if input.Stock != nil {
		product.Stock = *input.Stock
	}
	if input.Status != nil {
		product.Status = *input.Status
	}

	if err := s.repo.Update(ctx, *product); err != nil {
		return nil, err
	}

	return s.repo.FindBySlug(ctx, slug)
}

func (s *ProductService) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	return s.repo.FindBySlug(ctx, slug)
}

func (s *ProductService) List(ctx context.Context) ([]domain.Product, error) {
	return s.repo.FindAll(ctx)
}

func (s *ProductService) ListByVendor(ctx context.Context, vendorID int) ([]domain.Product, error) {
	return s.repo.FindByVendor(ctx, vendorID)
}

func (s *ProductService) Delete(ctx context.Context, slug string, requester domain.AuthUser) error {
	product, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		return err
	}
	if err := authorizeProductMutation(product, requester); err != nil {
		return err
	}
	return s.repo.Delete(ctx, product.ID)
}

func authorizeProductMutation(product *domain.Product, requester domain.AuthUser) error {
	switch requester.Role {
	case domain.RoleSuperAdmin, domain.RoleAdmin:
		return nil
	}
	if product.VendorID != requester.ID {
		return apperrors.NewForbiddenError("product belongs to another vendor")
	}
	return nil
}
