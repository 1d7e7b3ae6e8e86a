package service

import (
	"context"

	"go.uber.org/zap"

	"omegashop/internal/domain"
	apperrors "omegashop/internal/errors"
)

const SlugDomain = "vendors.slug"

type Repository interface {
	Insert(ctx context.Context, v domain.Vendor) (int, error)
	Update(ctx context.Context, v domain.Vendor) error
	Delete(ctx context.Context, id int) error
	FindByID(ctx context.Context, id int) (*domain.Vendor, error)
}

type SlugGenerator interface {
	UniqueSlug(ctx context.Context, seed, domain string) (string, error)
}

type CreateVendorInput struct {
	Name   string
	Status domain.VendorStatus
}

type UpdateVendorInput struct {
	Name   *string
	Status *domain.VendorStatus
}

type VendorService struct {
	repo   Repository
	slugs  SlugGenerator
	logger *zap.Logger
}

func NewVendorService(repo Repository, slugs SlugGenerator, logger *zap.Logger) *VendorService {
	return &VendorService{
		repo:   repo,
		slugs:  slugs,
		logger: logger,
	}
}

// Create opens a vendor profile for authorID. A vendor can never be created
// in the suspended state.
func (s *VendorService) Create(ctx context.Context, authorID int, input CreateVendorInput) (*domain.Vendor, error) {
	if input.Status == domain.VendorStatusSuspended {
		return nil, apperrors.NewForbiddenError("cannot create vendor with suspended status")
	}

	status := input.Status
	if status == "" {
		status = domain.VendorStatusActive
	}

	slug, err := s.slugs.UniqueSlug(ctx, input.Name, SlugDomain)
	if err != nil {
		return nil, err
	}

	id, err := s.repo.Insert(ctx, domain.Vendor{
		Name:     input.Name,
		Slug:     slug,
		Status:   status,
		AuthorID: authorID,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("vendor created", zap.Int("vendorId", id), zap.String("slug", slug))

	return s.repo.FindByID(ctx, id)
}

func (s *VendorService) GetByID(ctx context.Context, id int) (*domain.Vendor, error) {
	return s.repo.FindByID(ctx, id)
}

// Update modifies a vendor profile. Only the profile's author or an admin may
// touch it, and nobody can move it into the suspended state this way.
func (s *VendorService) Update(ctx context.Context, id int, requester domain.AuthUser, input UpdateVendorInput) (*domain.Vendor, error) {
	if input.Status != nil && *input.Status == domain.VendorStatusSuspended {
		return nil, apperrors.NewForbiddenError("cannot update vendor to suspended status")
	}

	vendor, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := authorizeVendorMutation(vendor, requester); err != nil {
		return nil, err
	}

	if input.Name != nil {
		vendor.Name = *input.Name
	}
	if input.Status != nil {
		vendor.Status = *input.Status
	}

	if err := s.repo.Update(ctx, *vendor); err != nil {
		return nil, err
	}

	return s.repo.FindByID(ctx, id)
}

func (s *VendorService) Delete(ctx context.Context, id int, requester domain.AuthUser) error {
	vendor, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := authorizeVendorMutation(vendor, requester); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("vendor deleted", zap.Int("vendorId", id))
	return nil
}

func authorizeVendorMutation(vendor *domain.Vendor, requester domain.AuthUser) error {
	switch requester.Role {
	case domain.RoleSuperAdmin, domain.RoleAdmin:
		return nil
	}
	if vendor.AuthorID != requester.ID {
		return apperrors.NewForbiddenError("vendor profile belongs to another user")
	}
	return nil
}
