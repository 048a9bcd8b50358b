package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/seedtrial/seedtrial/config"
	"github.com/seedtrial/seedtrial/internal/storage/postgres"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserExists         = errors.New("user with this username already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrWrongTokenType     = errors.New("wrong token type")
)

// Store is the persistence the service needs; *Repository implements it.
type Store interface {
	CreateUser(ctx context.Context, user *User) error
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
}

type Service struct {
	repo   Store
	config *config.JWTConfig
	now    func() time.Time
}

func NewService(repo Store, cfg *config.JWTConfig) *Service {
	return &Service{repo: repo, config: cfg, now: time.Now}
}

type JWTClaims struct {
	UserID    uuid.UUID `json:"user_id"`
	Username  string    `json:"username"`
	TokenType string    `json:"token_type"`
	jwt.RegisteredClaims
}

// CreateUser hashes the password and stores a new principal.
func (s *Service) CreateUser(ctx context.Context, req *CreateUserRequest) (*User, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return nil, fmt.Errorf("username and password are required")
	}

	existing, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &User{
		ID:           uuid.New(),
		Username:     username,
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: string(hash),
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, postgres.ErrUniqueViolation) {
			return nil, ErrUserExists
		}
		return nil, err
	}
	return user, nil
}

// SetPassword replaces the password of an existing user.
func (s *Service) SetPassword(ctx context.Context, username, password string) (*User, error) {
	if password == "" {
		return nil, fmt.Errorf("password is required")
	}
	user, err := s.repo.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Service) Login(ctx context.Context, req *LoginRequest) (*TokenPair, error) {
	user, err := s.repo.GetUserByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	access, err := s.generateToken(user.ID, user.Username, TokenTypeAccess, s.config.ExpirationDuration())
	if err != nil {
		return nil, err
	}
	refresh, err := s.generateToken(user.ID, user.Username, TokenTypeRefresh, s.config.RefreshDuration())
	if err != nil {
		return nil, err
	}

	return &TokenPair{Access: access, Refresh: refresh, User: user}, nil
}

// Refresh exchanges a valid refresh token for a new access token.
func (s *Service) Refresh(ctx context.Context, req *RefreshRequest) (*RefreshResponse, error) {
	claims, err := s.parseToken(req.Refresh, TokenTypeRefresh)
	if err != nil {
		return nil, err
	}

	// The principal may have been removed since the refresh token was issued.
	user, err := s.repo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUnauthorized
	}

	access, err := s.generateToken(user.ID, user.Username, TokenTypeAccess, s.config.ExpirationDuration())
	if err != nil {
		return nil, err
	}
	return &RefreshResponse{Access: access}, nil
}

func (s *Service) GetUserByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repo.GetUserByID(ctx, id)
}

func (s *Service) generateToken(userID uuid.UUID, username, tokenType string, ttl time.Duration) (string, error) {
	now := s.now()
	claims := JWTClaims{
		UserID:    userID,
		Username:  username,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.Secret))
}

// ValidateToken accepts access tokens only.
func (s *Service) ValidateToken(tokenString string) (*JWTClaims, error) {
	return s.parseToken(tokenString, TokenTypeAccess)
}

func (s *Service) parseToken(tokenString, tokenType string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		// Validate the signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.Secret), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		return nil, ErrUnauthorized
	}
	if claims.TokenType != tokenType {
		return nil, fmt.Errorf("%w: %w", ErrUnauthorized, ErrWrongTokenType)
	}
	return claims, nil
}
