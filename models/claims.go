package models

import (
	"errors"

	"github.com/golang-jwt/jwt"
)

// TokenIssuer is stamped into every access token.
const TokenIssuer = "erp-auth"

type TokenClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email,omitempty"`
	jwt.StandardClaims
}

// Valid implements the jwt.Claims interface and adds custom validation
func (c *TokenClaims) Valid() error {
	if err := c.StandardClaims.Valid(); err != nil {
		return err
	}

	if c.UserID == 0 {
		return errors.New("missing or invalid user ID")
	}
	if c.ExpiresAt == 0 {
		return errors.New("missing expiry time")
	}
	if c.IssuedAt == 0 {
		return errors.New("missing issued at time")
	}
	if c.Issuer != TokenIssuer {
		return errors.New("unexpected token issuer")
	}

	return nil
}
