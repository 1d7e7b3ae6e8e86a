package service

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"omegashop/internal/domain"
	apperrors "omegashop/internal/errors"
)

type mockCategoryRepo struct {
	insertFunc     func(ctx context.Context, c domain.Category) (int, error)
	updateFunc     func(ctx context.Context, c domain.Category) error
	deleteFunc     func(ctx context.Context, id int) error
	findByIDFunc   func(ctx context.Context, id int) (*domain.Category, error)
	findBySlugFunc func(ctx context.Context, slug string) (*domain.Category, error)
	findAllFunc    func(ctx context.Context) ([]domain.Category, error)
}

func (m *mockCategoryRepo) Insert(ctx context.Context, c domain.Category) (int, error) {
	return m.insertFunc(ctx, c)
}

func (m *mockCategoryRepo) Update(ctx context.Context, c domain.Category) error {
	return m.updateFunc(ctx, c)
}

func (m *mockCategoryRepo) Delete(ctx context.Context, id int) error {
	return m.deleteFunc(ctx, id)
}

func (m *mockCategoryRepo) FindByID(ctx context.Context, id int) (*domain.Category, error) {
	return m.findByIDFunc(ctx, id)
}

func (m *mockCategoryRepo) FindBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	return m.findBySlugFunc(ctx, slug)
}

func (m *mockCategoryRepo) FindAll(ctx context.Context) ([]domain.Category, error) {
	return m.findAllFunc(ctx)
}

type mockProductCounter struct {
	count int
	err   error
}

func (m *mockProductCounter) CountByCategory(_ context.Context, _ int) (int, error) {
	return m.count, m.err
}

type staticSlugs struct {
	slug string
}

func (s *staticSlugs) UniqueSlug(_ context.Context, _, _ string) (string, error) {
	return s.slug, nil
}

func TestCategoryService_Create(t *testing.T) {
	var inserted domain.Category
	repo := &mockCategoryRepo{
		insertFunc: func(_ context.Context, c domain.Category) (int, error) {
			inserted = c
			return 3, nil
		},
		findByIDFunc: func(_ context.Context, id int) (*domain.Category, error) {
			inserted.ID = id
			return &inserted, nil
		},
	}
	svc := NewCategoryService(repo, &mockProductCounter{}, &staticSlugs{slug: "summer-sale"}, zap.NewNop())

	category, err := svc.Create(context.Background(), "Summer Sale")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if category.ID != 3 || category.Slug != "summer-sale" {
		t.Errorf("unexpected category %+v", category)
	}
}

func TestCategoryService_Update_Reslugs(t *testing.T) {
	var updated domain.Category
	repo := &mockCategoryRepo{
		findBySlugFunc: func(_ context.Context, slug string) (*domain.Category, error) {
			return &domain.Category{ID: 3, Name: "Summer Sale", Slug: slug}, nil
		},
		updateFunc: func(_ context.Context, c domain.Category) error {
			updated = c
			return nil
		},
		findByIDFunc: func(_ context.Context, id int) (*domain.Category, error) {
			updated.ID = id
			return &updated, nil
		},
	}
	svc := NewCategoryService(repo, &mockProductCounter{}, &staticSlugs{slug: "winter-sale"}, zap.NewNop())

	category, err := svc.Update(context.Background(), "summer-sale", "Winter Sale")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if category.Name != "Winter Sale" || category.Slug != "winter-sale" {
		t.Errorf("expected renamed and reslugged category, got %+v", category)
	}
}

func TestCategoryService_Delete_RefusedWithProducts(t *testing.T) {
	repo := &mockCategoryRepo{
		findByIDFunc: func(_ context.Context, id int) (*domain.Category, error) {
			return &domain.Category{ID: id}, nil
		},
	}
	svc := NewCategoryService(repo, &mockProductCounter{count: 4}, &staticSlugs{}, zap.NewNop())

	err := svc.Delete(context.Background(), 3)
	if _, ok := apperrors.IsValidationError(err); !ok {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestCategoryService_Delete_Empty(t *testing.T) {
	deleted := 0
	repo := &mockCategoryRepo{
		findByIDFunc: func(_ context.Context, id int) (*domain.Category, error) {
			return &domain.Category{ID: id}, nil
		},
		deleteFunc: func(_ context.Context, id int) error {
			deleted = id
			return nil
		},
	}
	svc := NewCategoryService(repo, &mockProductCounter{count: 0}, &staticSlugs{}, zap.NewNop())

	if err := svc.Delete(context.Background(), 3); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if deleted != 3 {
		t.Errorf("expected category 3 deleted, got %d", deleted)
	}
}

func TestCategoryService_Delete_NotFound(t *testing.T) {
	repo := &mockCategoryRepo{
		findByIDFunc: func(_ context.Context, _ int) (*domain.Category, error) {
			return nil, apperrors.NewNotFoundError("category not found")
		},
	}
	svc := NewCategoryService(repo, &mockProductCounter{}, &staticSlugs{}, zap.NewNop())

	err := svc.Delete(context.Background(), 999)
	if _, ok := apperrors.IsNotFoundError(err); !ok {
		t.Errorf("expected not found error, got %v", err)
	}
}
