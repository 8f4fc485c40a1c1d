package controllers

import (
	"ERPAuth/services"
	"ERPAuth/utils/response"
	"ERPAuth/utils/validator"
	"encoding/json"
	"net/http"
)

type PasswordPolicy interface {
	PolicyMessenger
	Check(password string) validator.Result
	ExceedsMaxLength(password string) bool
}

type PasswordPolicyController struct {
	policy PasswordPolicy
}

func NewPasswordPolicyController(policy PasswordPolicy) *PasswordPolicyController {
	return &PasswordPolicyController{policy: policy}
}

type PasswordCheckRequest struct {
	Password string `json:"password"`
}

type PasswordCheckResponse struct {
	Valid      bool     `json:"valid"`
	Violations []string `json:"violations"`
	Messages   []string `json:"messages"`
}

// Check reports every rule the password breaks without creating anything.
// An empty password is evaluated like any other.
func (c *PasswordPolicyController) Check(w http.ResponseWriter, r *http.Request) {
	var req PasswordCheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.JSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	lang := services.ParseLanguage(r.Header.Get("Accept-Language"))
	if c.policy.ExceedsMaxLength(req.Password) {
		response.JSONError(w, c.policy.TooLongMessage(lang), http.StatusBadRequest)
		return
	}

	result := c.policy.Check(req.Password)
	response.JSONResponse(w, PasswordCheckResponse{
		Valid:      result.Valid,
		Violations: services.ViolationNames(result.Violations),
		Messages:   c.policy.Messages(result.Violations, lang),
	}, http.StatusOK)
}
