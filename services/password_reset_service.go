package services

import (
	"ERPAuth/models"
	"ERPAuth/repositories"
	"ERPAuth/utils/logger"
	"ERPAuth/utils/metrics"
	"ERPAuth/utils/validator"
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/rs/zerolog"
)

var (
	ErrInvalidResetToken = errors.New("invalid reset token")
	ErrResetTokenExpired = errors.New("reset token expired")
	ErrUserNotFound      = errors.New("user not found")
)

type PasswordResetService struct {
	userRepo     repositories.UserRepository
	tokenRepo    repositories.TokenRepositoryInterface
	policy       *PasswordPolicyService
	lockoutSvc   *AccountLockoutService
	emailService EmailService
	tokenTTL     time.Duration
	log          zerolog.Logger
}

func NewPasswordResetService(
	userRepo repositories.UserRepository,
	tokenRepo repositories.TokenRepositoryInterface,
	policy *PasswordPolicyService,
	lockoutSvc *AccountLockoutService,
	emailService EmailService,
	tokenTTL time.Duration,
) *PasswordResetService {
	return &PasswordResetService{
		userRepo:     userRepo,
		tokenRepo:    tokenRepo,
		policy:       policy,
		lockoutSvc:   lockoutSvc,
		emailService: emailService,
		tokenTTL:     tokenTTL,
		log:          logger.GetLogger("password_reset"),
	}
}

// GenerateResetToken creates a reset token for the user with the given email
// and mails it.
func (s *PasswordResetService) GenerateResetToken(email string) (string, error) {
	if err := validator.ValidateEmail(email); err != nil {
		return "", err
	}
	email = validator.NormalizeEmail(email)

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return "", ErrUserNotFound
		}
		return "", err
	}

	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	token := hex.EncodeToString(b)

	user.PasswordResetToken = token
	user.ResetTokenExpiresAt = time.Now().Add(s.tokenTTL)
	if err := s.userRepo.Update(user); err != nil {
		return "", err
	}

	if err := s.emailService.SendPasswordResetEmail(user.Email, token); err != nil {
		s.log.Error().Err(err).Uint("user_id", user.ID).Msg("Failed to send password reset email")
	}

	metrics.RecordAuthAttempt("password_reset_request", "success")
	return token, nil
}

// ValidateResetToken checks if the reset token is valid and not expired
func (s *PasswordResetService) ValidateResetToken(token string) (*models.User, error) {
	if token == "" {
		return nil, ErrInvalidResetToken
	}

	user, err := s.userRepo.FindByResetToken(token)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidResetToken
		}
		return nil, err
	}

	if user.ResetTokenExpiresAt.IsZero() || user.ResetTokenExpiresAt.Before(time.Now()) {
		return nil, ErrResetTokenExpired
	}

	return user, nil
}

// ResetPassword sets a new password from a reset token. The token is single
// use and every session of the user is revoked.
func (s *PasswordResetService) ResetPassword(ctx context.Context, token, newPassword string) error {
	user, err := s.ValidateResetToken(token)
	if err != nil {
		metrics.RecordAuthAttempt("password_reset", "failure")
		return err
	}

	if err := s.policy.Enforce(newPassword); err != nil {
		metrics.RecordAuthAttempt("password_reset", "rejected")
		return err
	}

	if err := user.HashPassword(newPassword); err != nil {
		return err
	}
	user.ClearResetToken()

	if err := s.userRepo.Update(user); err != nil {
		return err
	}
	if err := s.tokenRepo.RevokeAllUserTokens(user.ID); err != nil {
		return err
	}
	if s.lockoutSvc != nil {
		if err := s.lockoutSvc.ResetAttempts(ctx, user.Email); err != nil {
			s.log.Warn().Err(err).Uint("user_id", user.ID).Msg("Failed to clear lockout after password reset")
		}
	}

	metrics.RecordAuthAttempt("password_reset", "success")
	s.log.Info().Uint("user_id", user.ID).Msg("Password reset")
	return nil
}
