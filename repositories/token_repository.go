package repositories

import (
	"ERPAuth/models"
	"ERPAuth/utils/metrics"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TokenRepositoryInterface interface {
	CreateRefreshToken(userID uint, token string, expiresAt time.Time, deviceInfo, ip string) (*models.RefreshToken, error)
	GetRefreshToken(token string) (*models.RefreshToken, error)
	RotateRefreshToken(currentToken *models.RefreshToken, newToken string, expiresAt time.Time) (*models.RefreshToken, error)
	RevokeRefreshToken(token string) error
	RevokeAllUserTokens(userID uint) error
	CleanupExpiredTokens() error
}

type TokenRepository struct {
	db *gorm.DB
}

func NewTokenRepository(db *gorm.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

// CreateRefreshToken creates a new refresh token for a user
func (r *TokenRepository) CreateRefreshToken(userID uint, token string, expiresAt time.Time, deviceInfo, ip string) (*models.RefreshToken, error) {
	refreshToken := &models.RefreshToken{
		ID:         uuid.New(),
		UserID:     userID,
		Token:      token,
		ExpiresAt:  expiresAt,
		DeviceInfo: deviceInfo,
		IP:         ip,
	}

	err := r.db.Create(refreshToken).Error
	metrics.RecordDatabaseOperation("refresh_token_create", err)
	if err != nil {
		return nil, err
	}
	return refreshToken, nil
}

// GetRefreshToken retrieves a refresh token by its token string
func (r *TokenRepository) GetRefreshToken(token string) (*models.RefreshToken, error) {
	var refreshToken models.RefreshToken
	err := r.db.Where("token = ?", token).First(&refreshToken).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	metrics.RecordDatabaseOperation("refresh_token_get", err)
	if err != nil {
		return nil, err
	}
	return &refreshToken, nil
}

// RotateRefreshToken marks the current token as used and creates its successor
// in one transaction.
func (r *TokenRepository) RotateRefreshToken(currentToken *models.RefreshToken, newToken string, expiresAt time.Time) (*models.RefreshToken, error) {
	next := &models.RefreshToken{
		ID:         uuid.New(),
		UserID:     currentToken.UserID,
		Token:      newToken,
		ExpiresAt:  expiresAt,
		PreviousID: &currentToken.ID,
		DeviceInfo: currentToken.DeviceInfo,
		IP:         currentToken.IP,
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		// Only an unused token may be rotated; a concurrent rotation loses.
		result := tx.Model(&models.RefreshToken{}).
			Where("id = ? AND used = ?", currentToken.ID, false).
			Update("used", true)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Create(next).Error
	})
	metrics.RecordDatabaseOperation("refresh_token_rotate", err)
	if err != nil {
		return nil, err
	}
	return next, nil
}

// RevokeRefreshToken marks a refresh token as revoked
func (r *TokenRepository) RevokeRefreshToken(token string) error {
	result := r.db.Model(&models.RefreshToken{}).
		Where("token = ?", token).
		Update("revoked_at", time.Now())
	metrics.RecordDatabaseOperation("refresh_token_revoke", result.Error)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// RevokeAllUserTokens revokes all refresh tokens for a user
func (r *TokenRepository) RevokeAllUserTokens(userID uint) error {
	err := r.db.Model(&models.RefreshToken{}).
		Where("user_id = ? AND revoked_at IS NULL", userID).
		Update("revoked_at", time.Now()).Error
	metrics.RecordDatabaseOperation("refresh_token_revoke_all", err)
	return err
}

// CleanupExpiredTokens removes expired and used tokens
func (r *TokenRepository) CleanupExpiredTokens() error {
	err := r.db.Where("expires_at < ? OR used = ?", time.Now(), true).
		Delete(&models.RefreshToken{}).Error
	metrics.RecordDatabaseOperation("refresh_token_cleanup", err)
	return err
}
