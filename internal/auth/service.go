package auth

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/simp-lee/jwt"
	"golang.org/x/crypto/bcrypt"

	"github.com/simp-lee/inkwell/internal/domain"
	"github.com/simp-lee/inkwell/internal/pkg"
)

// Service defines the authentication operations shared by the Auth page and
// the JSON API.
type Service interface {
	Login(ctx context.Context, email, password string) (*TokenResponse, error)
	Register(ctx context.Context, name, email, password string) (*domain.User, error)
	Logout(ctx context.Context, token string) error
}

type authService struct {
	tokens      jwt.Service
	users       domain.UserRepository
	tokenExpiry time.Duration
}

// NewService creates an auth Service issuing tokens that live for tokenExpiry.
func NewService(tokens jwt.Service, users domain.UserRepository, tokenExpiry time.Duration) Service {
	return &authService{
		tokens:      tokens,
		users:       users,
		tokenExpiry: tokenExpiry,
	}
}

// Login checks the credentials and issues a session token.
func (s *authService) Login(ctx context.Context, email, password string) (*TokenResponse, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		// Unknown email and wrong password are indistinguishable.
		if domain.IsNotFound(err) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrUnauthorized
	}

	token, err := s.tokens.GenerateToken(strconv.FormatUint(uint64(user.ID), 10), nil, s.tokenExpiry)
	if err != nil {
		return nil, domain.NewAppError(domain.CodeInternal, "failed to generate token", err)
	}
	parsed, err := s.tokens.ParseToken(token)
	if err != nil {
		return nil, domain.NewAppError(domain.CodeInternal, "failed to parse generated token", err)
	}

	return &TokenResponse{
		Token:     token,
		ExpiresAt: parsed.ExpiresAt.Unix(),
		UserID:    user.ID,
		Name:      user.Name,
	}, nil
}

// Register creates a writer account.
func (s *authService) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if err := validateRegisterInput(name, email, password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		// max=72 counts characters; bcrypt's limit is 72 bytes.
		return nil, domain.NewAppError(domain.CodeValidation, "password must be at most 72 bytes", err)
	}
	if err != nil {
		return nil, domain.NewAppError(domain.CodeInternal, "failed to hash password", err)
	}

	user := domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.users.Create(ctx, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Logout revokes token. An empty token is a no-op.
func (s *authService) Logout(_ context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.tokens.RevokeToken(token); err != nil {
		return domain.NewAppError(domain.CodeInternal, "failed to revoke token", err)
	}
	return nil
}

// validateRegisterInput applies RegisterRequest's binding tags to trimmed
// values, so the sign-up form and the API enforce the same rules.
func validateRegisterInput(name, email, password string) error {
	return pkg.Validate(&RegisterRequest{Name: name, Email: email, Password: password})
}
