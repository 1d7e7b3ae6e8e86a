package service

import (
	"context"

	"go.uber.org/zap"

	"omegashop/internal/domain"
	apperrors "omegashop/internal/errors"
)

const SlugDomain = "categories.slug"

type Repository interface {
	Insert(ctx context.Context, c domain.Category) (int, error)
	Update(ctx context.Context, c domain.Category) error
	Delete(ctx context.Context, id int) error
	FindByID(ctx context.Context, id int) (*domain.Category, error)
	FindBySlug(ctx context.Context, slug string) (*domain.Category, error)
	FindAll(ctx context.Context) ([]domain.Category, error)
}

type ProductCounter interface {
	CountByCategory(ctx context.Context, categoryID int) (int, error)
}

type SlugGenerator interface {
	UniqueSlug(ctx context.Context, seed, domain string) (string, error)
}

type CategoryService struct {
	repo     Repository
	products ProductCounter
	slugs    SlugGenerator
	logger   *zap.Logger
}

func NewCategoryService(repo Repository, products ProductCounter, slugs SlugGenerator, logger *zap.Logger) *CategoryService {
	return &CategoryService{
		repo:     repo,
		products: products,
		slugs:    slugs,
		logger:   logger,
	}
}

func (s *CategoryService) Create(ctx context.Context, name string) (*domain.Category, error) {
	slug, err := s.slugs.UniqueSlug(ctx, name, SlugDomain)
	if err != nil {
		return nil, err
	}

	id, err := s.repo.Insert(ctx, domain.Category{Name: name, Slug: slug})
	if err != nil {
		return nil, err
	}

	s.logger.Info("category created", zap.Int("categoryId", id), zap.String("slug", slug))

	return s.repo.FindByID(ctx, id)
}

func (s *CategoryService) GetBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	return s.repo.FindBySlug(ctx, slug)
}

func (s *CategoryService) List(ctx context.Context) ([]domain.Category, error) {
	return s.repo.FindAll(ctx)
}

// Update renames the category and reslugs it from the new name.
func (s *CategoryService) Update(ctx context.Context, slug, newName string) (*domain.Category, error) {
	category, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	newSlug, err := s.slugs.UniqueSlug(ctx, newName, SlugDomain)
	if err != nil {
		return nil, err
	}

	category.Name = newName
	category.Slug = newSlug
	if err := s.repo.Update(ctx, *category); err != nil {
		return nil, err
	}

	return s.repo.FindByID(ctx, category.ID)
}

// Delete refuses to remove a category that still has products.
func (s *CategoryService) Delete(ctx context.Context, id int) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}

	count, err := s.products.CountByCategory(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperrors.NewValidationError("cannot delete category with associated products")
	}

	return s.repo.Delete(ctx, id)
}
