package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"horizon/coach-api/internal/apperr"
	"horizon/coach-api/internal/config"
	"horizon/coach-api/internal/domain"
	"horizon/coach-api/internal/repository"
)

// --- Error Definitions ---
var (
	ErrUserAlreadyExists    = apperr.New(apperr.KindConflict, "Username already exists.")
	ErrAuthenticationFailed = apperr.New(apperr.KindUnauthorized, "Invalid username or password")
	ErrRefreshTokenMissing  = apperr.New(apperr.KindUnauthorized, "Refresh token not provided")
	ErrInvalidRefreshToken  = apperr.New(apperr.KindUnauthorized, "Invalid or expired refresh token")
	ErrInvalidAccessToken   = apperr.New(apperr.KindForbidden, "Invalid or expired token.")
	ErrCredentialsRequired  = apperr.Validation("Username and password are required")
	ErrInvalidRole          = apperr.Validation("Role must be one of client, user, pt, masterPt.")
	ErrPasswordTooLong      = apperr.Validation("Password must be at most 72 bytes.")
)

const tokenIssuer = "horizon-coach-api"

// maxPasswordBytes is the longest input bcrypt accepts.
const maxPasswordBytes = 72

// TokenPair is the access/refresh token pair returned by login and refresh.
type TokenPair struct {
	AccessToken  string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

// Claims is the payload of both token kinds.
type Claims struct {
	UserID int64       `json:"user_id"`
	Role   domain.Role `json:"role"`
	jwt.RegisteredClaims
}

type AuthService interface {
	Register(ctx context.Context, username, password string, role domain.Role) (*domain.User, error)
	Login(ctx context.Context, username, password string) (*TokenPair, *domain.User, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	VerifyAccessToken(token string) (*Claims, error)
	HashPassword(password string) (string, error)
}

// authService implements the AuthService interface.
type authService struct {
	userRepo      repository.UserRepository
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	// dummyHash is compared against on unknown usernames so both login
	// failure paths cost one bcrypt comparison.
	dummyHash []byte
	logger    *zap.Logger
	now       func() time.Time
}

// NewAuthService creates a new instance of authService. Secrets are validated
// by config.LoadConfig before the service is built.
func NewAuthService(userRepo repository.UserRepository, cfg config.JWTConfig, logger *zap.Logger) (AuthService, error) {
	if cfg.AccessSecret == "" || cfg.RefreshSecret == "" {
		return nil, errors.New("access and refresh secrets are required")
	}
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = 15 * time.Minute
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = 7 * 24 * time.Hour
	}

	dummy, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("prepare dummy hash: %w", err)
	}

	return &authService{
		userRepo:      userRepo,
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		accessTTL:     cfg.AccessTTL,
		refreshTTL:    cfg.RefreshTTL,
		dummyHash:     dummy,
		logger:        logger,
		now:           time.Now,
	}, nil
}

// HashPassword returns the bcrypt digest of password at the default cost.
func (s *authService) HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", ErrPasswordTooLong
	}
	if err != nil {
		return "", apperr.Wrap(apperr.KindInternal, "failed to hash password", err)
	}
	return string(hashed), nil
}

// Register handles new user registration. The role defaults to client.
func (s *authService) Register(ctx context.Context, username, password string, role domain.Role) (*domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrCredentialsRequired
	}
	if role == "" {
		role = domain.RoleClient
	}
	if !role.Valid() {
		return nil, ErrInvalidRole
	}
	if len(password) > maxPasswordBytes {
		return nil, ErrPasswordTooLong
	}

	hashed, err := s.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     username,
		PasswordHash: hashed,
		Role:         role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, translate(err, nil, ErrUserAlreadyExists)
	}

	s.logger.Info("user registered", zap.Int64("user_id", user.ID), zap.String("role", string(role)))
	user.PasswordHash = ""
	return user, nil
}

// Login handles user authentication and token issuance. Unknown usernames and
// wrong passwords fail with the same error.
func (s *authService) Login(ctx context.Context, username, password string) (*TokenPair, *domain.User, error) {
	if username == "" || password == "" {
		return nil, nil, ErrCredentialsRequired
	}

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
			return nil, nil, ErrAuthenticationFailed
		}
		return nil, nil, translate(err, nil, nil)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, ErrAuthenticationFailed
	}

	pair, err := s.issuePair(user)
	if err != nil {
		return nil, nil, err
	}
	user.PasswordHash = ""
	return pair, user, nil
}

// Refresh verifies a refresh token, re-reads its user and rotates both tokens.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	if refreshToken == "" {
		return nil, ErrRefreshTokenMissing
	}
	claims, err := s.parse(refreshToken, s.refreshSecret)
	if err != nil {
		s.logger.Debug("refresh token rejected", zap.Error(err))
		return nil, ErrInvalidRefreshToken
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, translate(err, nil, nil)
	}
	return s.issuePair(user)
}

// VerifyAccessToken checks signature, algorithm and expiry of an access token.
func (s *authService) VerifyAccessToken(token string) (*Claims, error) {
	claims, err := s.parse(token, s.accessSecret)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindForbidden, ErrInvalidAccessToken.Message, err)
	}
	return claims, nil
}

func (s *authService) issuePair(user *domain.User) (*TokenPair, error) {
	access, err := s.sign(user, s.accessSecret, s.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := s.sign(user, s.refreshSecret, s.refreshTTL)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// sign creates an HS256 token for the given user.
func (s *authService) sign(user *domain.User, secret []byte, ttl time.Duration) (string, error) {
	now := s.now()
	claims := &Claims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatInt(user.ID, 10),
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", apperr.Wrap(apperr.KindInternal, "failed to generate authentication token", err)
	}
	return signed, nil
}

func (s *authService) parse(token string, secret []byte) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !parsed.Valid {
		return nil, errors.New("token is not valid")
	}
	return claims, nil
}
