package services

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"couple-space-backend/internal/apperrors"
	"couple-space-backend/internal/models"
)

const jwtExpDays = 365

// UserStore is the persistence contract the user service depends on
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	BindCouple(ctx context.Context, userID, coupleID string) error
	UpdateSettings(ctx context.Context, userID string, displayName, pushToken *string) error
}

// UserService handles user accounts and tokens
type UserService struct {
	users     UserStore
	jwtSecret string
	now       func() time.Time
}

// NewUserService creates a new user service
func NewUserService(users UserStore, jwtSecret string) *UserService {
	return &UserService{
		users:     users,
		jwtSecret: jwtSecret,
		now:       time.Now,
	}
}

// CreateUser creates a new anonymous user with a signed token
func (s *UserService) CreateUser(ctx context.Context, displayName string) (*models.User, error) {
	userID := uuid.New().String()

	token, err := s.GenerateJWT(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	user := &models.User{
		ID:          userID,
		DisplayName: displayName,
		Token:       token,
		CreatedAt:   s.now(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// GetUser retrieves a user by ID
func (s *UserService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	return s.users.GetByID(ctx, userID)
}

// UpdateSettings updates a user's display name and/or push token. Nil
// fields are left unchanged.
func (s *UserService) UpdateSettings(ctx context.Context, userID string, displayName, pushToken *string) (*models.User, error) {
	if displayName != nil && *displayName == "" {
		return nil, apperrors.Validation("display name cannot be empty")
	}
	if err := s.users.UpdateSettings(ctx, userID, displayName, pushToken); err != nil {
		return nil, fmt.Errorf("failed to update settings for user %s: %w", userID, err)
	}
	return s.users.GetByID(ctx, userID)
}

// GenerateJWT generates a JWT token for a user
func (s *UserService) GenerateJWT(userID string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     s.now().AddDate(0, 0, jwtExpDays).Unix(),
		"iat":     s.now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// ValidateJWT validates a JWT token and returns the user ID
func (s *UserService) ValidateJWT(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})

	if err != nil {
		return "", fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return "", fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid token claims")
	}

	userID, ok := claims["user_id"].(string)
	if !ok {
		return "", fmt.Errorf("user_id not found in token")
	}

	return userID, nil
}
