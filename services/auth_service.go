package services

import (
	"ERPAuth/config"
	"ERPAuth/models"
	"ERPAuth/repositories"
	"ERPAuth/utils/logger"
	"ERPAuth/utils/metrics"
	"ERPAuth/utils/validator"
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserExists         = errors.New("user already exists")
	ErrTokenBlacklisted   = errors.New("token is blacklisted")
	ErrInvalidToken       = errors.New("invalid token")
	ErrInvalidRefresh     = errors.New("invalid or expired refresh token")
)

const blacklistPrefix = "erp:blacklist:"

type AuthService struct {
	userRepo      repositories.UserRepository
	tokenRepo     repositories.TokenRepositoryInterface
	policy        *PasswordPolicyService
	lockoutSvc    *AccountLockoutService
	redisClient   *redis.Client
	jwtExpiry     time.Duration
	refreshExpiry time.Duration
	jwtSecret     string
	log           zerolog.Logger
}

func NewAuthService(
	userRepo repositories.UserRepository,
	tokenRepo repositories.TokenRepositoryInterface,
	policy *PasswordPolicyService,
	lockoutSvc *AccountLockoutService,
	redisClient *redis.Client,
	cfg *config.Config,
) *AuthService {
	return &AuthService{
		userRepo:      userRepo,
		tokenRepo:     tokenRepo,
		policy:        policy,
		lockoutSvc:    lockoutSvc,
		redisClient:   redisClient,
		jwtExpiry:     cfg.JWTExpiry,
		refreshExpiry: cfg.RefreshExpiry,
		jwtSecret:     cfg.JWTSecret,
		log:           logger.GetLogger("auth_service"),
	}
}

func (s *AuthService) Register(email, password, firstName, lastName string) error {
	if err := validator.ValidateEmail(email); err != nil {
		return err
	}
	email = validator.NormalizeEmail(email)

	if err := s.policy.Enforce(password); err != nil {
		metrics.RecordAuthAttempt("register", "rejected")
		return err
	}

	existingUser, err := s.userRepo.FindByEmail(email)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return err
	}
	if existingUser != nil {
		metrics.RecordAuthAttempt("register", "duplicate")
		return ErrUserExists
	}

	user := &models.User{
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
	}
	if err := user.HashPassword(password); err != nil {
		return err
	}
	if err := s.userRepo.Create(user); err != nil {
		return err
	}

	metrics.RecordAuthAttempt("register", "success")
	s.log.Info().Uint("user_id", user.ID).Msg("User registered")
	return nil
}

// LoginWithRefresh authenticates the user and issues an access token and a
// refresh token.
func (s *AuthService) LoginWithRefresh(ctx context.Context, email, password, deviceInfo, ip string) (string, string, error) {
	email = validator.NormalizeEmail(email)

	locked, err := s.lockoutSvc.IsLocked(ctx, email)
	if err != nil {
		return "", "", err
	}
	if locked {
		metrics.RecordAuthAttempt("login", "locked")
		return "", "", ErrAccountLocked
	}

	user, err := s.userRepo.FindByEmail(email)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return "", "", err
	}
	// Unknown emails count towards the lockout too.
	if user == nil || !user.CheckPassword(password) {
		metrics.RecordAuthAttempt("login", "failure")
		if err := s.lockoutSvc.RecordFailedAttempt(ctx, email); err != nil && !errors.Is(err, ErrAccountLocked) {
			return "", "", err
		}
		return "", "", ErrInvalidCredentials
	}

	if err := s.lockoutSvc.ResetAttempts(ctx, email); err != nil {
		return "", "", err
	}

	accessToken, err := s.GenerateToken(user.ID, user.Email)
	if err != nil {
		return "", "", err
	}

	refreshToken, err := generateRefreshToken()
	if err != nil {
		return "", "", err
	}

	_, err = s.tokenRepo.CreateRefreshToken(user.ID, refreshToken, time.Now().Add(s.refreshExpiry), deviceInfo, ip)
	if err != nil {
		return "", "", err
	}

	metrics.RecordAuthAttempt("login", "success")
	return accessToken, refreshToken, nil
}

// RefreshToken exchanges a valid refresh token for a new pair. The old
// refresh token is marked used.
func (s *AuthService) RefreshToken(refreshToken, deviceInfo, ip string) (string, string, error) {
	token, err := s.tokenRepo.GetRefreshToken(refreshToken)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return "", "", ErrInvalidRefresh
		}
		return "", "", err
	}
	if !token.IsValid() {
		metrics.RecordAuthAttempt("refresh", "failure")
		return "", "", ErrInvalidRefresh
	}

	user, err := s.userRepo.FindByID(token.UserID)
	if err != nil {
		return "", "", ErrInvalidRefresh
	}

	accessToken, err := s.GenerateToken(user.ID, user.Email)
	if err != nil {
		return "", "", err
	}

	newRefreshToken, err := generateRefreshToken()
	if err != nil {
		return "", "", err
	}

	if _, err := s.tokenRepo.RotateRefreshToken(token, newRefreshToken, time.Now().Add(s.refreshExpiry)); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return "", "", ErrInvalidRefresh
		}
		return "", "", err
	}

	s.log.Debug().Uint("user_id", user.ID).Str("device", deviceInfo).Str("ip", ip).Msg("Refresh token rotated")
	metrics.RecordAuthAttempt("refresh", "success")
	return accessToken, newRefreshToken, nil
}

// Logout blacklists the access token until it expires and revokes the refresh
// token when one is given.
func (s *AuthService) Logout(ctx context.Context, accessToken, refreshToken string) error {
	claims, err := s.ValidateToken(ctx, accessToken)
	if err != nil {
		return err
	}

	if ttl := time.Until(time.Unix(claims.ExpiresAt, 0)); ttl > 0 {
		if err := s.redisClient.Set(ctx, blacklistPrefix+accessToken, true, ttl).Err(); err != nil {
			return fmt.Errorf("failed to blacklist token: %w", err)
		}
	}

	if refreshToken != "" {
		if err := s.tokenRepo.RevokeRefreshToken(refreshToken); err != nil && !errors.Is(err, repositories.ErrNotFound) {
			return err
		}
	}

	s.log.Info().Uint("user_id", claims.UserID).Msg("User logged out")
	return nil
}

func (s *AuthService) ValidateToken(ctx context.Context, tokenString string) (*models.TokenClaims, error) {
	exists, err := s.redisClient.Exists(ctx, blacklistPrefix+tokenString).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to check token blacklist: %w", err)
	}
	if exists == 1 {
		return nil, ErrTokenBlacklisted
	}

	token, err := jwt.ParseWithClaims(tokenString, &models.TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if claims, ok := token.Claims.(*models.TokenClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, ErrInvalidToken
}

// ChangePassword replaces the password of a signed-in user and signs out all
// of their sessions.
func (s *AuthService) ChangePassword(userID uint, currentPassword, newPassword string) error {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return err
	}

	if !user.CheckPassword(currentPassword) {
		metrics.RecordAuthAttempt("password_change", "failure")
		return ErrInvalidCredentials
	}
	if currentPassword == newPassword {
		return ErrPasswordReused
	}
	if err := s.policy.Enforce(newPassword); err != nil {
		metrics.RecordAuthAttempt("password_change", "rejected")
		return err
	}

	if err := user.HashPassword(newPassword); err != nil {
		return err
	}
	if err := s.userRepo.Update(user); err != nil {
		return err
	}
	if err := s.tokenRepo.RevokeAllUserTokens(user.ID); err != nil {
		return err
	}

	metrics.RecordAuthAttempt("password_change", "success")
	s.log.Info().Uint("user_id", user.ID).Msg("Password changed")
	return nil
}

func (s *AuthService) GenerateToken(userID uint, email string) (string, error) {
	now := time.Now()
	claims := &models.TokenClaims{
		UserID: userID,
		Email:  email,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: now.Add(s.jwtExpiry).Unix(),
			IssuedAt:  now.Unix(),
			Issuer:    models.TokenIssuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func (s *AuthService) GetJWTExpiry() time.Duration {
	return s.jwtExpiry
}

func (s *AuthService) GetUserByEmail(email string) (*models.User, error) {
	return s.userRepo.FindByEmail(validator.NormalizeEmail(email))
}

func generateRefreshToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
