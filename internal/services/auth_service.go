package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/thereayou/campus-hub/internal/database"
	"github.com/thereayou/campus-hub/internal/models"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidToken       = errors.New("invalid token")
)

type RegisterRequest struct {
	Username string
	Email    string
	Password string
}

type LoginRequest struct {
	Email    string
	Password string
}

type AuthResponse struct {
	User      *models.User
	Token     string
	ExpiresAt time.Time
}

type AuthService struct {
	users   UserStore
	tokens  TokenIssuer
	revoker TokenRevoker
	log     *zap.Logger
	cost    int
}

func NewAuthService(users UserStore, tokens TokenIssuer, revoker TokenRevoker, log *zap.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, revoker: revoker, log: log, cost: bcrypt.DefaultCost}
}

// Register создает пользователя и сразу выдает токен
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Username:     req.Username,
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
		LastSeenAt:   time.Now().UTC(),
	}
	if err := s.users.SaveUser(ctx, user); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("save user: %w", err)
	}

	return s.issue(user)
}

// Login выдаёт JWT и обновляет last_seen
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	user, err := s.users.FindUserByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := s.users.UpdateLastSeen(ctx, user.ID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("update last seen: %w", err)
	}

	return s.issue(user)
}

// Logout ставит токен в черный список до истечения
func (s *AuthService) Logout(ctx context.Context, token string) error {
	_, exp, err := s.tokens.Verify(token)
	if err != nil {
		return ErrInvalidToken
	}
	if err := s.revoker.Revoke(ctx, token, exp); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func (s *AuthService) issue(user *models.User) (*AuthResponse, error) {
	token, exp, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}
	s.log.Debug("token issued", zap.String("user_id", user.ID))
	return &AuthResponse{User: user, Token: token, ExpiresAt: exp}, nil
}
