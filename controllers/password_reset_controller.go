package controllers

import (
	"ERPAuth/services"
	"ERPAuth/utils/response"
	"context"
	"errors"
	"net/http"
)

type PasswordResetService interface {
	GenerateResetToken(email string) (string, error)
	ResetPassword(ctx context.Context, token, newPassword string) error
}

type PasswordResetController struct {
	resetService PasswordResetService
	messages     PolicyMessenger
}

func NewPasswordResetController(resetService PasswordResetService, messages PolicyMessenger) *PasswordResetController {
	return &PasswordResetController{
		resetService: resetService,
		messages:     messages,
	}
}

type RequestResetRequest struct {
	Email string `json:"email" validate:"required"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required"`
}

const resetRequestedMessage = "If your email is registered, you will receive a reset link shortly"

// RequestReset mails a reset link. The response is the same whether or not
// the email is registered.
func (c *PasswordResetController) RequestReset(w http.ResponseWriter, r *http.Request) {
	var req RequestResetRequest
	if !decode(w, r, &req) {
		return
	}

	if _, err := c.resetService.GenerateResetToken(req.Email); err != nil && !errors.Is(err, services.ErrUserNotFound) {
		writeError(w, r, c.messages, err)
		return
	}

	response.JSONResponse(w, map[string]string{"message": resetRequestedMessage}, http.StatusOK)
}

// ResetPassword sets a new password from a reset token.
func (c *PasswordResetController) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if !decode(w, r, &req) {
		return
	}

	if err := c.resetService.ResetPassword(r.Context(), req.Token, req.NewPassword); err != nil {
		writeError(w, r, c.messages, err)
		return
	}

	response.JSONResponse(w, map[string]string{"message": "Password reset successfully"}, http.StatusOK)
}
