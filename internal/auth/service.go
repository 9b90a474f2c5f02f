package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/vidyastream/backend/internal/models"
)

// ErrInvalidCredentials is returned for a bad email/password pair or a
// non-admin account trying to log in.
var ErrInvalidCredentials = errors.New("invalid credentials")

// AccountSource is the user storage surface the auth service needs.
type AccountSource interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	EnsureAdmin(ctx context.Context, email, name, passwordHash string) error
}

type Service interface {
	Login(ctx context.Context, email, password string) (string, error)
	ValidateToken(token string) (uuid.UUID, string, error)
	EnsureAdmin(ctx context.Context, email, name, password string) error
}

type service struct {
	accounts AccountSource
	secret   []byte
}

func NewService(accounts AccountSource, secret string) Service {
	return &service{accounts: accounts, secret: []byte(secret)}
}

var _ Service = (*service)(nil)

type claims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// Login verifies an admin's password and issues a 24h session token.
// End users never log in here; their identity arrives from the external
// provider on the first-login-bonus path.
func (s *service) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	if user.Role != models.RoleAdmin || user.PasswordHash == nil {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	return s.issueToken(user.ID, user.Role)
}

// EnsureAdmin upserts the bootstrap admin account with a bcrypt password hash.
func (s *service) EnsureAdmin(ctx context.Context, email, name, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.accounts.EnsureAdmin(ctx, email, name, string(hash))
}

func (s *service) issueToken(userID uuid.UUID, role string) (string, error) {
	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		Role: role,
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	return tok.SignedString(s.secret)
}

// ValidateToken parses and verifies a session token, returning the account id
// and role.
func (s *service) ValidateToken(token string) (uuid.UUID, string, error) {
	tok, err := jwt.ParseWithClaims(token, &claims{}, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return uuid.Nil, "", err
	}
	c, ok := tok.Claims.(*claims)
	if !ok || !tok.Valid {
		return uuid.Nil, "", fmt.Errorf("invalid token")
	}
	id, err := uuid.Parse(c.Subject)
	if err != nil {
		return uuid.Nil, "", err
	}
	return id, c.Role, nil
}
