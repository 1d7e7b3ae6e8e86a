package service

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"omegashop/internal/domain"
	apperrors "omegashop/internal/errors"
)

type Repository interface {
	Insert(ctx context.Context, user domain.User) (int, error)
	FindByID(ctx context.Context, id int) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByIDs(ctx context.Context, ids []int) ([]domain.User, error)
	List(ctx context.Context, limit, offset int) ([]domain.User, error)
	Count(ctx context.Context) (int, error)
}

type UserPage struct {
	Users      []domain.AuthUser
	Page       int
	PageSize   int
	Total      int
	TotalPages int
}

type UserService struct {
	repo   Repository
	logger *zap.Logger
}

func NewUserService(repo Repository, logger *zap.Logger) *UserService {
	return &UserService{repo: repo, logger: logger}
}

// Create hashes the password and inserts the user with the given role.
// A duplicate email surfaces as a conflict.
func (s *UserService) Create(ctx context.Context, name, email, password string, role domain.Role) (*domain.User, error) {
	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflictError("user already exists with the email")
	} else if _, ok := apperrors.IsNotFoundError(err); !ok {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.NewInternalError("hashing password", err)
	}

	id, err := s.repo.Insert(ctx, domain.User{
		Name:     name,
		Email:    email,
		Password: string(hashed),
		Role:     role,
		Status:   domain.UserStatusActive,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("user created", zap.Int("userId", id), zap.String("role", string(role)))

	return s.repo.FindByID(ctx, id)
}

// VerifyCredentials returns the matching user when the email exists and the
// password matches its hash. Both failure modes collapse into the same
// message.
func (s *UserService) VerifyCredentials(ctx context.Context, email, password string) (*domain.AuthUser, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if _, ok := apperrors.IsNotFoundError(err); ok {
			return nil, apperrors.NewUnauthorizedError("invalid credentials")
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, apperrors.NewUnauthorizedError("invalid credentials")
	}

	return authUser(user), nil
}

func (s *UserService) GetByID(ctx context.Context, id int) (*domain.AuthUser, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return authUser(user), nil
}

func (s *UserService) FindByIDs(ctx context.Context, ids []int) ([]domain.User, error) {
	return s.repo.FindByIDs(ctx, ids)
}

func (s *UserService) FindByID(ctx context.Context, id int) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *UserService) List(ctx context.Context, page, pageSize int) (*UserPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	users, err := s.repo.List(ctx, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}

	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, err
	}

	sanitized := make([]domain.AuthUser, 0, len(users))
	for i := range users {
		sanitized = append(sanitized, *authUser(&users[i]))
	}

	totalPages := (total + pageSize - 1) / pageSize

	return &UserPage{
		Users:      sanitized,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	}, nil
}

func authUser(user *domain.User) *domain.AuthUser {
	return &domain.AuthUser{
		ID:     user.ID,
		Name:   user.Name,
		Email:  user.Email,
		Role:   user.Role,
		Status: user.Status,
	}
}
