package models

import (
	"crypto/sha256"
	"encoding/base64"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// bcrypt ignores input beyond 72 bytes and newer versions reject it outright.
const bcryptMaxInput = 72

type User struct {
	ID                  uint           `json:"id" gorm:"primaryKey"`
	Email               string         `json:"email" gorm:"uniqueIndex;size:254;not null"`
	Password            string         `json:"-" gorm:"not null"`
	FirstName           string         `json:"first_name"`
	LastName            string         `json:"last_name"`
	PasswordChangedAt   time.Time      `json:"password_changed_at"`
	PasswordResetToken  string         `json:"-" gorm:"index"`
	ResetTokenExpiresAt time.Time      `json:"-"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
	DeletedAt           gorm.DeletedAt `json:"-" gorm:"index"`
}

// HashPassword hashes the provided password and stores it in the user model
func (u *User) HashPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword(bcryptInput(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	u.PasswordChangedAt = time.Now()
	return nil
}

// CheckPassword checks if the provided password matches the hashed password
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), bcryptInput(password))
	return err == nil
}

// ClearResetToken invalidates any pending password reset.
func (u *User) ClearResetToken() {
	u.PasswordResetToken = ""
	u.ResetTokenExpiresAt = time.Time{}
}

// Long passwords are reduced to a fixed-size digest so every byte counts.
func bcryptInput(password string) []byte {
	if len(password) <= bcryptMaxInput {
		return []byte(password)
	}
	sum := sha256.Sum256([]byte(password))
	return []byte(base64.StdEncoding.EncodeToString(sum[:]))
}
