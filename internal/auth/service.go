package auth

import (
	"context"

	"go.uber.org/zap"

	"omegashop/internal/domain"
)

type UserAccounts interface {
	Create(ctx context.Context, name, email, password string, role domain.Role) (*domain.User, error)
	VerifyCredentials(ctx context.Context, email, password string) (*domain.AuthUser, error)
	GetByID(ctx context.Context, id int) (*domain.AuthUser, error)
}

type SigninResult struct {
	User        domain.AuthUser
	AccessToken string
}

type AuthService struct {
	users  UserAccounts
	tokens *TokenIssuer
	logger *zap.Logger
}

func NewAuthService(users UserAccounts, tokens *TokenIssuer, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		logger: logger,
	}
}

// Signup registers a customer account. Privileged roles are assigned out of
// band, never through signup.
func (s *AuthService) Signup(ctx context.Context, name, email, password string) error {
	_, err := s.users.Create(ctx, name, email, password, domain.RoleCustomer)
	return err
}

func (s *AuthService) Signin(ctx context.Context, email, password string) (*SigninResult, error) {
	user, err := s.users.VerifyCredentials(ctx, email, password)
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user signed in", zap.Int("userId", user.ID))

	return &SigninResult{User: *user, AccessToken: token}, nil
}

// ResolveToken verifies the token and loads the identity it belongs to.
func (s *AuthService) ResolveToken(ctx context.Context, raw string) (*domain.AuthUser, error) {
	userID, err := s.tokens.Verify(raw)
	if err != nil {
		return nil, err
	}
	return s.users.GetByID(ctx, userID)
}
