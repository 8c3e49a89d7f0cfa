package handlers

import (
	"net/http"

	"github.com/blockedby/interview-list/internal/logger"
	"github.com/blockedby/interview-list/internal/web"
)

// AuthHandler serves sign-up, sign-in and the current user.
type AuthHandler struct {
	svc AuthService
	log *logger.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(svc AuthService, log *logger.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, log: log.Component("auth_handler")}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignUp creates an account and returns its credential.
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeBody(w, r, &req) {
		return
	}

	cred, err := h.svc.SignUp(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	web.WriteJSON(w, http.StatusCreated, cred)
}

// SignIn returns a credential for valid email and password.
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeBody(w, r, &req) {
		return
	}

	cred, err := h.svc.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, cred)
}

// Me returns the user of the bearer token.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := web.UserFrom(r.Context())
	if !ok {
		web.WriteError(w, http.StatusUnauthorized, web.CodeUnauthenticated, "not signed in")
		return
	}
	web.WriteJSON(w, http.StatusOK, user)
}
