package services

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/khanhng/coinfolio/internal/apperrors"
	"github.com/khanhng/coinfolio/internal/models"
	"github.com/khanhng/coinfolio/internal/repositories"
)

const tokenTTL = 24 * time.Hour

type sessionClaims struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type authService struct {
	users  repositories.UserRepository
	secret []byte
	logger *zap.Logger
}

// NewAuthService creates an auth service signing tokens with secret. An empty
// secret falls back to the JWT_SECRET environment variable.
func NewAuthService(users repositories.UserRepository, secret string, logger *zap.Logger) AuthService {
	if secret == "" {
		secret = os.Getenv("JWT_SECRET")
	}
	if secret == "" {
		secret = "dev-secret-change-in-production"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &authService{users: users, secret: []byte(secret), logger: logger}
}

func (s *authService) Signup(ctx context.Context, name, email, password string) (*models.User, string, error) {
	if strings.TrimSpace(password) == "" {
		return nil, "", apperrors.NewValidation("password", "is required")
	}

	user := &models.User{Name: strings.TrimSpace(name), Email: normalizeEmail(email)}
	if err := user.Validate(); err != nil {
		return nil, "", err
	}

	if _, err := s.users.GetByEmail(ctx, user.Email); err == nil {
		return nil, "", apperrors.NewValidation("email", "is already registered")
	} else if !apperrors.IsNotFound(err) {
		return nil, "", fmt.Errorf("failed to check existing user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = string(hash)

	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", err
	}
	s.logger.Info("user signed up", zap.String("user_id", user.ID))

	token, err := s.issueToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, "", apperrors.NewValidation("credentials", "are invalid")
		}
		return nil, "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, "", apperrors.NewValidation("credentials", "are invalid")
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *authService) ResolveSession(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, apperrors.NewAuth("missing bearer token")
	}

	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, apperrors.NewAuth("invalid or expired token")
	}

	user, err := s.users.GetByID(ctx, claims.Subject)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NewAuth("session user not found")
		}
		return nil, err
	}
	return user, nil
}

func (s *authService) issueToken(user *models.User) (string, error) {
	now := time.Now()
	claims := &sessionClaims{
		Name:  user.Name,
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return token, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
