package transport

import (
	"encoding/json"
	"errors"
	"net/http"

	"lancer-be/internal/auth"
	"lancer-be/internal/user"
	"lancer-be/internal/utils"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type authResponse struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Token  string `json:"token"`
}

type AuthHandler struct {
	users        user.Service
	secureCookie bool
}

func NewAuthHandler(users user.Service, secureCookie bool) *AuthHandler {
	return &AuthHandler{users: users, secureCookie: secureCookie}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var c credentials
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		utils.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	role, err := user.ParseRole(c.Role)
	if err != nil {
		utils.WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	token, u, err := h.users.Register(r.Context(), c.Email, c.Password, role)
	switch {
	case errors.Is(err, user.ErrEmailExists):
		utils.WriteJSONError(w, err.Error(), http.StatusConflict)
		return
	case errors.Is(err, user.ErrWeakPassword), errors.Is(err, user.ErrInvalidEmail):
		utils.WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	case err != nil:
		utils.WriteJSONError(w, "failed to register", http.StatusInternalServerError)
		return
	}

	h.setTokenCookie(w, token)
	utils.WriteJSON(w, http.StatusCreated, authResponse{UserID: u.ID, Email: u.Email, Role: string(u.Role), Token: token})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var c credentials
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		utils.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	token, u, err := h.users.Login(r.Context(), c.Email, c.Password)
	switch {
	case errors.Is(err, user.ErrInvalidCredentials):
		utils.WriteJSONError(w, err.Error(), http.StatusUnauthorized)
		return
	case err != nil:
		utils.WriteJSONError(w, "failed to login", http.StatusInternalServerError)
		return
	}

	h.setTokenCookie(w, token)
	utils.WriteJSON(w, http.StatusOK, authResponse{UserID: u.ID, Email: u.Email, Role: string(u.Role), Token: token})
}

func (h *AuthHandler) setTokenCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.AccessTokenCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(auth.DefaultTokenTTL.Seconds()),
	})
}
