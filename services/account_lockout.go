package services

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrAccountLocked = errors.New("account is locked due to too many failed attempts")
)

const (
	failedAttemptsPrefix = "erp:failed_attempts:"
	accountLockedPrefix  = "erp:account_locked:"
)

type LockoutConfig struct {
	MaxAttempts   int
	LockDuration  time.Duration
	AttemptExpiry time.Duration
}

// DefaultLockoutConfig locks an account for 15 minutes after 5 failures in an hour.
func DefaultLockoutConfig() LockoutConfig {
	return LockoutConfig{
		MaxAttempts:   5,
		LockDuration:  15 * time.Minute,
		AttemptExpiry: time.Hour,
	}
}

type AccountLockoutService struct {
	redis         *redis.Client
	maxAttempts   int
	lockDuration  time.Duration
	attemptExpiry time.Duration
}

func NewAccountLockoutService(client *redis.Client, cfg LockoutConfig) *AccountLockoutService {
	return &AccountLockoutService{
		redis:         client,
		maxAttempts:   cfg.MaxAttempts,
		lockDuration:  cfg.LockDuration,
		attemptExpiry: cfg.AttemptExpiry,
	}
}

// RecordFailedAttempt increments the failure counter for email and locks the
// account once the limit is reached.
func (s *AccountLockoutService) RecordFailedAttempt(ctx context.Context, email string) error {
	locked, err := s.IsLocked(ctx, email)
	if err != nil {
		return err
	}
	if locked {
		return ErrAccountLocked
	}

	attemptsKey := failedAttemptsPrefix + email
	pipe := s.redis.TxPipeline()
	incr := pipe.Incr(ctx, attemptsKey)
	pipe.Expire(ctx, attemptsKey, s.attemptExpiry)
	if _, err := pipe.Exec(ctx); err != nil {
		return err
	}

	if incr.Val() >= int64(s.maxAttempts) {
		return s.redis.Set(ctx, accountLockedPrefix+email, true, s.lockDuration).Err()
	}
	return nil
}

// IsLocked checks if an account is currently locked
func (s *AccountLockoutService) IsLocked(ctx context.Context, email string) (bool, error) {
	exists, err := s.redis.Exists(ctx, accountLockedPrefix+email).Result()
	if err != nil {
		return false, err
	}
	return exists == 1, nil
}

// ResetAttempts clears the counter and any lock, e.g. after a successful login
// or a password reset.
func (s *AccountLockoutService) ResetAttempts(ctx context.Context, email string) error {
	return s.redis.Del(ctx, failedAttemptsPrefix+email, accountLockedPrefix+email).Err()
}

// GetRemainingAttempts returns the number of attempts remaining before account lockout
func (s *AccountLockoutService) GetRemainingAttempts(ctx context.Context, email string) (int, error) {
	attempts, err := s.redis.Get(ctx, failedAttemptsPrefix+email).Int()
	if errors.Is(err, redis.Nil) {
		return s.maxAttempts, nil
	}
	if err != nil {
		return 0, err
	}
	return max(s.maxAttempts-attempts, 0), nil
}
