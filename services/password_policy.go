package services

import (
	"ERPAuth/utils/logger"
	"ERPAuth/utils/metrics"
	"ERPAuth/utils/validator"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
)

var (
	ErrPasswordPolicy  = errors.New("password does not meet the password policy")
	ErrPasswordTooLong = errors.New("password exceeds the maximum length")
	ErrPasswordReused  = errors.New("new password must differ from the current password")
)

// PasswordPolicyError lists every rule a rejected password broke, in
// evaluation order.
type PasswordPolicyError struct {
	Violations []validator.ViolationKind
}

func (e *PasswordPolicyError) Error() string {
	return ErrPasswordPolicy.Error() + ": " + strings.Join(ViolationNames(e.Violations), ", ")
}

func (e *PasswordPolicyError) Is(target error) bool {
	return target == ErrPasswordPolicy
}

// PasswordPolicyService applies the password policy on behalf of account
// flows. It enforces the upper length bound, which the evaluator leaves to
// its caller.
type PasswordPolicyService struct {
	policy validator.PolicyConfig
	log    zerolog.Logger
}

func NewPasswordPolicyService(policy validator.PolicyConfig) *PasswordPolicyService {
	return &PasswordPolicyService{
		policy: policy,
		log:    logger.GetLogger("password_policy"),
	}
}

func (s *PasswordPolicyService) Policy() validator.PolicyConfig {
	return s.policy
}

// Check evaluates password and records the outcome. The password itself is
// never logged.
func (s *PasswordPolicyService) Check(password string) validator.Result {
	result := validator.Evaluate(password, s.policy)
	names := ViolationNames(result.Violations)

	metrics.RecordPasswordEvaluation(result.Valid, names)
	s.log.Debug().
		Bool("valid", result.Valid).
		Strs("violations", names).
		Msg("Password evaluated")

	return result
}

func (s *PasswordPolicyService) ExceedsMaxLength(password string) bool {
	return utf8.RuneCountInString(password) > s.policy.MaxLength
}

// Enforce returns ErrPasswordTooLong, a *PasswordPolicyError, or nil.
func (s *PasswordPolicyService) Enforce(password string) error {
	if s.ExceedsMaxLength(password) {
		return ErrPasswordTooLong
	}

	result := s.Check(password)
	if !result.Valid {
		return &PasswordPolicyError{Violations: result.Violations}
	}
	return nil
}

func ViolationNames(kinds []validator.ViolationKind) []string {
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.String()
	}
	return names
}
