package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"fleet-rental-backend/internal/authz"
	"fleet-rental-backend/internal/domain"
	"fleet-rental-backend/internal/repository"
	"fleet-rental-backend/internal/security"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

type authService struct {
	store  repository.Store
	tokens security.TokenManager
}

func NewAuthService(store repository.Store, tokens security.TokenManager) AuthService {
	return &authService{store: store, tokens: tokens}
}

// Login verifies the password and issues an access token. Unknown
// emails and wrong passwords return the same error so the response
// does not leak which accounts exist.
func (s *authService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	user, err := s.store.Repos().Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	if !user.IsActive {
		return "", nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateAccessToken(user.ID, user.Email, user.Role)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return token, user, nil
}

func (s *authService) CreateUser(ctx context.Context, actor authz.Actor, user *domain.User, password string) error {
	if err := authz.Require(actor, authz.ActionManageUsers); err != nil {
		return err
	}
	if user.Email == "" || len(password) < 8 {
		return fmt.Errorf("email and a password of at least 8 characters are required: %w", domain.ErrInvalidAmount)
	}
	if user.CommissionRatePercent < 0 || user.CommissionRatePercent > 100 {
		return fmt.Errorf("commission rate must be between 0 and 100: %w", domain.ErrInvalidAmount)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = string(hash)
	user.IsActive = true
	if user.Role == "" {
		user.Role = domain.RoleAgent
	}
	return s.store.Repos().Users.Create(ctx, user)
}

func (s *authService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	return s.store.Repos().Users.GetByID(ctx, id)
}

func (s *authService) ListUsers(ctx context.Context, page, pageSize int) ([]domain.User, int, error) {
	return s.store.Repos().Users.List(ctx, page, pageSize)
}
