package controllers

import (
	"ERPAuth/middlewares"
	"ERPAuth/models"
	"ERPAuth/utils/response"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
)

type AuthService interface {
	Register(email, password, firstName, lastName string) error
	LoginWithRefresh(ctx context.Context, email, password, deviceInfo, ip string) (string, string, error)
	Logout(ctx context.Context, accessToken, refreshToken string) error
	RefreshToken(refreshToken, deviceInfo, ip string) (string, string, error)
	ChangePassword(userID uint, currentPassword, newPassword string) error
	GetJWTExpiry() time.Duration
	GetUserByEmail(email string) (*models.User, error)
}

type AuthController struct {
	authService AuthService
	messages    PolicyMessenger
}

func NewAuthController(authService AuthService, messages PolicyMessenger) *AuthController {
	return &AuthController{
		authService: authService,
		messages:    messages,
	}
}

type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	FirstName string `json:"first_name" validate:"max=100"`
	LastName  string `json:"last_name" validate:"max=100"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	TokenResponse
	User *models.User `json:"user"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required"`
}

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}

var validate = validator.New()

// decode reads a JSON body into req and validates it. It writes the 400
// itself and reports whether the handler should continue.
func decode(w http.ResponseWriter, r *http.Request, req interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		response.JSONError(w, "Invalid request body", http.StatusBadRequest)
		return false
	}
	if err := validate.Struct(req); err != nil {
		response.JSONError(w, err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

func (ac *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decode(w, r, &req) {
		return
	}

	if err := ac.authService.Register(req.Email, req.Password, req.FirstName, req.LastName); err != nil {
		writeError(w, r, ac.messages, err)
		return
	}

	response.JSONResponse(w, map[string]string{"message": "User registered successfully"}, http.StatusCreated)
}

func (ac *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decode(w, r, &req) {
		return
	}

	accessToken, refreshToken, err := ac.authService.LoginWithRefresh(r.Context(), req.Email, req.Password, r.Header.Get("User-Agent"), r.RemoteAddr)
	if err != nil {
		writeError(w, r, ac.messages, err)
		return
	}

	user, err := ac.authService.GetUserByEmail(req.Email)
	if err != nil {
		writeError(w, r, ac.messages, err)
		return
	}

	resp := LoginResponse{
		TokenResponse: ac.tokenResponse(accessToken, refreshToken),
		User:          user,
	}
	response.JSONResponse(w, resp, http.StatusOK)
}

func (ac *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	accessToken, ok := middlewares.AccessTokenFromContext(r.Context())
	if !ok {
		response.JSONError(w, "Authorization required", http.StatusUnauthorized)
		return
	}

	var req LogoutRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.JSONError(w, "Invalid request body", http.StatusBadRequest)
			return
		}
	}

	if err := ac.authService.Logout(r.Context(), accessToken, req.RefreshToken); err != nil {
		writeError(w, r, ac.messages, err)
		return
	}

	response.JSONResponse(w, map[string]string{"message": "Successfully logged out"}, http.StatusOK)
}

func (ac *AuthController) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req RefreshTokenRequest
	if !decode(w, r, &req) {
		return
	}

	accessToken, refreshToken, err := ac.authService.RefreshToken(req.RefreshToken, r.Header.Get("User-Agent"), r.RemoteAddr)
	if err != nil {
		writeError(w, r, ac.messages, err)
		return
	}

	response.JSONResponse(w, ac.tokenResponse(accessToken, refreshToken), http.StatusOK)
}

func (ac *AuthController) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := middlewares.UserIDFromContext(r.Context())
	if !ok {
		response.JSONError(w, "Authorization required", http.StatusUnauthorized)
		return
	}

	var req ChangePasswordRequest
	if !decode(w, r, &req) {
		return
	}

	if err := ac.authService.ChangePassword(userID, req.CurrentPassword, req.NewPassword); err != nil {
		writeError(w, r, ac.messages, err)
		return
	}

	response.JSONResponse(w, map[string]string{"message": "Password changed successfully"}, http.StatusOK)
}

func (ac *AuthController) tokenResponse(accessToken, refreshToken string) TokenResponse {
	return TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int(ac.authService.GetJWTExpiry().Seconds()),
	}
}
