package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/simp-lee/jwt"
	"golang.org/x/crypto/bcrypt"

	"github.com/simp-lee/inkwell/internal/domain"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeTokens is an in-memory jwt.Service that remembers what it issued.
type fakeTokens struct {
	mu      sync.Mutex
	issued  map[string]*jwt.Token
	revoked map[string]bool
	genErr  error
	seq     int
}

func newFakeTokens() *fakeTokens {
	return &fakeTokens{issued: map[string]*jwt.Token{}, revoked: map[string]bool{}}
}

func (f *fakeTokens) GenerateToken(userID string, _ []string, exp time.Duration) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.genErr != nil {
		return "", f.genErr
	}
	f.seq++
	tok := fmt.Sprintf("token-%d", f.seq)
	f.issued[tok] = &jwt.Token{UserID: userID, ExpiresAt: time.Now().Add(exp)}
	return tok, nil
}

func (f *fakeTokens) ValidateToken(s string) (*jwt.Token, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	tok, ok := f.issued[s]
	switch {
	case !ok:
		return nil, errors.New("malformed token")
	case f.revoked[s]:
		return nil, errors.New("token revoked")
	case time.Now().After(tok.ExpiresAt):
		return nil, errors.New("token expired")
	}
	return tok, nil
}

func (f *fakeTokens) ValidateAndParse(s string) (*jwt.Token, error) { return f.ValidateToken(s) }
func (f *fakeTokens) RefreshToken(string) (string, error)           { return "", errors.New("unsupported") }
func (f *fakeTokens) RefreshTokenExtend(string, time.Duration) (string, error) {
	return "", errors.New("unsupported")
}

func (f *fakeTokens) RevokeToken(s string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.revoked[s] = true
	return nil
}

func (f *fakeTokens) IsTokenRevoked(s string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.revoked[s]
}

func (f *fakeTokens) ParseToken(s string) (*jwt.Token, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if tok, ok := f.issued[s]; ok {
		return tok, nil
	}
	return nil, errors.New("malformed token")
}

func (f *fakeTokens) RevokeAllUserTokens(string) error { return nil }
func (f *fakeTokens) Close()                           {}

func (f *fakeTokens) expire(s string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.issued[s].ExpiresAt = time.Now().Add(-time.Minute)
}

// memUsers is an in-memory domain.UserRepository.
type memUsers struct {
	mu     sync.Mutex
	byID   map[uint]*domain.User
	getErr error
}

func newMemUsers() *memUsers {
	return &memUsers{byID: map[uint]*domain.User{}}
}

func (m *memUsers) Create(_ context.Context, u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.byID {
		if existing.Email == u.Email {
			return domain.NewAppError(domain.CodeAlreadyExists, "email already registered", nil)
		}
	}
	u.ID = uint(len(m.byID) + 1)
	u.CreatedAt = time.Now()
	cp := *u
	m.byID[u.ID] = &cp
	return nil
}

func (m *memUsers) GetByID(_ context.Context, id uint) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	if u, ok := m.byID[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, domain.NewAppError(domain.CodeNotFound, "user not found", nil)
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	for _, u := range m.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.NewAppError(domain.CodeNotFound, "user not found", nil)
}

func (m *memUsers) Update(context.Context, *domain.User) error { return nil }

func (m *memUsers) ListWriters(context.Context, domain.PageRequest) (*domain.PageResult[domain.Writer], error) {
	return &domain.PageResult[domain.Writer]{}, nil
}

// seedWriter stores a writer with the given password and returns it.
func seedWriter(t *testing.T, users *memUsers, name, email, password string) *domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	u := &domain.User{Name: name, Email: email, PasswordHash: string(hash)}
	if err := users.Create(context.Background(), u); err != nil {
		t.Fatalf("seed writer: %v", err)
	}
	return u
}
