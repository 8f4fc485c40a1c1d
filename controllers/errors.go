package controllers

import (
	"ERPAuth/services"
	"ERPAuth/utils/logger"
	"ERPAuth/utils/response"
	"ERPAuth/utils/validator"
	"errors"
	"net/http"
)

// PolicyMessenger renders password policy failures for the client.
type PolicyMessenger interface {
	Messages(kinds []validator.ViolationKind, lang string) []string
	TooLongMessage(lang string) string
}

var badRequestErrors = []error{
	services.ErrPasswordReused,
	services.ErrInvalidResetToken,
	services.ErrResetTokenExpired,
	validator.ErrEmailEmpty,
	validator.ErrEmailInvalid,
	validator.ErrEmailTooLong,
	validator.ErrDomainInvalid,
}

var unauthorizedErrors = []error{
	services.ErrInvalidCredentials,
	services.ErrInvalidToken,
	services.ErrTokenBlacklisted,
	services.ErrInvalidRefresh,
}

// writeError maps a service error to a status code and JSON body. Password
// policy failures are localized from Accept-Language.
func writeError(w http.ResponseWriter, r *http.Request, messages PolicyMessenger, err error) {
	lang := services.ParseLanguage(r.Header.Get("Accept-Language"))

	var policyErr *services.PasswordPolicyError
	switch {
	case errors.As(err, &policyErr):
		response.JSONPolicyError(w, services.ErrPasswordPolicy.Error(),
			services.ViolationNames(policyErr.Violations),
			messages.Messages(policyErr.Violations, lang))
	case errors.Is(err, services.ErrPasswordTooLong):
		response.JSONError(w, messages.TooLongMessage(lang), http.StatusBadRequest)
	case isAny(err, badRequestErrors):
		response.JSONError(w, err.Error(), http.StatusBadRequest)
	case isAny(err, unauthorizedErrors):
		response.JSONError(w, err.Error(), http.StatusUnauthorized)
	case errors.Is(err, services.ErrUserExists):
		response.JSONError(w, err.Error(), http.StatusConflict)
	case errors.Is(err, services.ErrAccountLocked):
		response.JSONError(w, err.Error(), http.StatusLocked)
	default:
		log := logger.GetLogger("http")
		log.Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
		response.JSONError(w, "Internal server error", http.StatusInternalServerError)
	}
}

func isAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
