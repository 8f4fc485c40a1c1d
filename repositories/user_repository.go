package repositories

import (
	"ERPAuth/models"
	"ERPAuth/utils/metrics"
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("record not found")
)

type UserRepository interface {
	Create(user *models.User) error
	FindByEmail(email string) (*models.User, error)
	FindByID(id uint) (*models.User, error)
	Update(user *models.User) error
	Delete(id uint) error
	FindByResetToken(token string) (*models.User, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{
		db: db,
	}
}

func (r *userRepository) Create(user *models.User) error {
	err := r.db.Create(user).Error
	metrics.RecordDatabaseOperation("user_create", err)
	return err
}

func (r *userRepository) FindByEmail(email string) (*models.User, error) {
	return r.first("user_find_by_email", "email = ?", email)
}

func (r *userRepository) FindByID(id uint) (*models.User, error) {
	return r.first("user_find_by_id", "id = ?", id)
}

func (r *userRepository) FindByResetToken(token string) (*models.User, error) {
	return r.first("user_find_by_reset_token", "password_reset_token = ?", token)
}

func (r *userRepository) Update(user *models.User) error {
	err := r.db.Save(user).Error
	metrics.RecordDatabaseOperation("user_update", err)
	return err
}

func (r *userRepository) Delete(id uint) error {
	result := r.db.Delete(&models.User{}, id)
	metrics.RecordDatabaseOperation("user_delete", result.Error)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *userRepository) first(operation, query string, args ...interface{}) (*models.User, error) {
	var user models.User
	err := r.db.Where(query, args...).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		metrics.RecordDatabaseOperation(operation, nil)
		return nil, ErrNotFound
	}
	metrics.RecordDatabaseOperation(operation, err)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
