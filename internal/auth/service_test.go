package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/vidyastream/backend/internal/models"
)

type mockAccountSource struct {
	mu      sync.Mutex
	byEmail map[string]*models.User
}

func newMockAccountSource() *mockAccountSource {
	return &mockAccountSource{byEmail: make(map[string]*models.User)}
}

func (m *mockAccountSource) GetByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byEmail[email]
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrNotFound, email)
	}
	cp := *u
	return &cp, nil
}

func (m *mockAccountSource) EnsureAdmin(_ context.Context, email, name, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byEmail[email] = &models.User{
		ID:           uuid.New(),
		FirebaseUID:  "admin:" + email,
		Email:        email,
		Name:         name,
		Role:         models.RoleAdmin,
		PasswordHash: &passwordHash,
	}
	return nil
}

func TestAdminLoginRoundTrip(t *testing.T) {
	accounts := newMockAccountSource()
	svc := NewService(accounts, "test-secret")
	ctx := context.Background()

	if err := svc.EnsureAdmin(ctx, "admin@example.com", "Admin", "hunter22"); err != nil {
		t.Fatalf("EnsureAdmin: %v", err)
	}

	token, err := svc.Login(ctx, "admin@example.com", "hunter22")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token == "" {
		t.Fatal("expected a non-empty token")
	}

	id, role, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if role != models.RoleAdmin {
		t.Errorf("role: got %s, want %s", role, models.RoleAdmin)
	}
	admin, _ := accounts.GetByEmail(ctx, "admin@example.com")
	if id != admin.ID {
		t.Errorf("token subject: got %s, want %s", id, admin.ID)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	svc := NewService(newMockAccountSource(), "test-secret")
	ctx := context.Background()

	if err := svc.EnsureAdmin(ctx, "admin@example.com", "Admin", "hunter22"); err != nil {
		t.Fatalf("EnsureAdmin: %v", err)
	}
	if _, err := svc.Login(ctx, "admin@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("got %v, want ErrInvalidCredentials", err)
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc := NewService(newMockAccountSource(), "test-secret")
	if _, err := svc.Login(context.Background(), "nobody@example.com", "x"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("got %v, want ErrInvalidCredentials", err)
	}
}

func TestLogin_NonAdminRejected(t *testing.T) {
	accounts := newMockAccountSource()
	hash := "not-used"
	accounts.byEmail["user@example.com"] = &models.User{
		ID:           uuid.New(),
		Email:        "user@example.com",
		Role:         models.RoleUser,
		PasswordHash: &hash,
	}
	svc := NewService(accounts, "test-secret")

	if _, err := svc.Login(context.Background(), "user@example.com", "x"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("got %v, want ErrInvalidCredentials", err)
	}
}

func TestValidateToken_WrongSecret(t *testing.T) {
	accounts := newMockAccountSource()
	issuer := NewService(accounts, "secret-a")
	verifier := NewService(accounts, "secret-b")
	ctx := context.Background()

	if err := issuer.EnsureAdmin(ctx, "admin@example.com", "Admin", "hunter22"); err != nil {
		t.Fatalf("EnsureAdmin: %v", err)
	}
	token, err := issuer.Login(ctx, "admin@example.com", "hunter22")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if _, _, err := verifier.ValidateToken(token); err == nil {
		t.Error("token signed with another secret should not validate")
	}
}
