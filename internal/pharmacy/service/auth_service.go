package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/zenhealth/pharmacy/internal/config"
	"github.com/zenhealth/pharmacy/internal/pharmacy/entity"
	"github.com/zenhealth/pharmacy/internal/pharmacy/repository"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserInactive       = errors.New("user is inactive")
)

// AuthService issues and revokes access tokens.
type AuthService struct {
	userRepo *repository.UserRepository
	rdb      *redis.Client
	cfg      *config.Config
}

func NewAuthService(userRepo *repository.UserRepository, rdb *redis.Client, cfg *config.Config) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		rdb:      rdb,
		cfg:      cfg,
	}
}

// LoginRequest is a credential submission.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TokenPair is the issued credential set.
type TokenPair struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

// Login verifies credentials and issues a signed token carrying the
// user's roles and permission codes.
func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (*entity.User, *TokenPair, error) {
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if user.Status != entity.UserStatusActive {
		return nil, nil, ErrUserInactive
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	if err := s.userRepo.LoadAccess(ctx, user); err != nil {
		return nil, nil, fmt.Errorf("load access: %w", err)
	}

	tokenPair, err := s.generateToken(user)
	if err != nil {
		return nil, nil, fmt.Errorf("generate token: %w", err)
	}

	// Best effort, login still succeeds if the stamp fails
	_ = s.userRepo.UpdateLastLogin(ctx, user.ID, time.Now())

	return user, tokenPair, nil
}

// Logout revokes a token until its natural expiry.
func (s *AuthService) Logout(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if tokenID == "" {
		return nil
	}
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	return s.rdb.Set(ctx, "auth:revoked:"+tokenID, "1", ttl).Err()
}

// Me returns the authenticated user's profile with access codes.
func (s *AuthService) Me(ctx context.Context, userID string) (*entity.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.LoadAccess(ctx, user); err != nil {
		return nil, fmt.Errorf("load access: %w", err)
	}
	return user, nil
}

// HashPassword produces a bcrypt hash for storage.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (s *AuthService) generateToken(user *entity.User) (*TokenPair, error) {
	now := time.Now()
	expire := s.cfg.JWT.AccessTokenExpire
	if expire <= 0 {
		expire = 24 * time.Hour
	}

	claims := jwt.MapClaims{
		"sub":   user.ID,
		"uid":   user.ID,
		"name":  user.Name,
		"email": user.Email,
		"roles": user.RoleCodes,
		"perms": user.PermissionCodes,
		"iss":   s.cfg.JWT.Issuer,
		"iat":   now.Unix(),
		"exp":   now.Add(expire).Unix(),
		"jti":   uuid.New().String(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWT.Secret))
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken: signed,
		ExpiresIn:   int64(expire.Seconds()),
	}, nil
}
