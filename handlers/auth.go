package handlers

import (
	"errors"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/Babu-advocates/justforrfunj-79973-sub001/apperrors"
	"github.com/Babu-advocates/justforrfunj-79973-sub001/config"
	"github.com/Babu-advocates/justforrfunj-79973-sub001/database"
	"github.com/Babu-advocates/justforrfunj-79973-sub001/middleware"
	"github.com/Babu-advocates/justforrfunj-79973-sub001/response"
)

const minPasswordLength = 8

type AuthHandler struct {
	config *config.Config
	users  UserStore
}

func NewAuthHandler(cfg *config.Config, users UserStore) *AuthHandler {
	return &AuthHandler{
		config: cfg,
		users:  users,
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string              `json:"token"`
	ExpiresAt time.Time           `json:"expiresAt"`
	Session   *middleware.Session `json:"session"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		response.BindError(w, err)
		return
	}

	user, err := h.users.FindByUsername(r.Context(), req.Username)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			response.Error(w, r, apperrors.InvalidCredentials)
			return
		}
		response.Error(w, r, err)
		return
	}

	if !user.Active {
		response.Error(w, r, apperrors.InvalidCredentials)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		response.Error(w, r, apperrors.InvalidCredentials)
		return
	}

	token, err := middleware.GenerateToken(user, h.config.JWTExpiration)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	middleware.SetTokenCookie(w, token, h.config.JWTExpiration)

	response.Success(w, loginResponse{
		Token:     token,
		ExpiresAt: time.Now().Add(h.config.JWTExpiration),
		Session:   middleware.NewSession(user),
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	middleware.ClearTokenCookie(w)
	response.NoContent(w)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	response.Success(w, middleware.SessionFromContext(r.Context()))
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())
	if session == nil {
		response.Error(w, r, apperrors.Unauthorized)
		return
	}

	var req changePasswordRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		response.BindError(w, err)
		return
	}

	user, err := h.users.FindByID(r.Context(), session.UserID)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		response.Error(w, r, apperrors.InvalidCredentials.WithMessage("Current password is incorrect"))
		return
	}
	if len(req.NewPassword) < minPasswordLength {
		response.Error(w, r, apperrors.WeakPassword)
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	if err := h.users.UpdatePassword(r.Context(), user.ID, string(hashedPassword)); err != nil {
		response.Error(w, r, err)
		return
	}

	user.PasswordHash = string(hashedPassword)
	user.MustChangePassword = false
	token, err := middleware.GenerateToken(user, h.config.JWTExpiration)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	middleware.SetTokenCookie(w, token, h.config.JWTExpiration)

	response.Success(w, loginResponse{
		Token:     token,
		ExpiresAt: time.Now().Add(h.config.JWTExpiration),
		Session:   middleware.NewSession(user),
	})
}
