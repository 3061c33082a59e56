package handlers

import (
	"net/http"

	"bharatparcel/logger"
	"bharatparcel/models"
	"bharatparcel/service"

	"github.com/julienschmidt/httprouter"
)

type UserHandler struct {
	responder
	auth service.AuthService
}

func NewUserHandler(auth service.AuthService, log *logger.Logger) *UserHandler {
	return &UserHandler{responder: responder{log: log}, auth: auth}
}

// Signup serves both the public self-signup and the admin-only user creation
// route; the caller, when present, decides which roles may be granted.
func (h *UserHandler) Signup(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var user models.AppUser
	if !h.decode(w, r, &user) {
		return
	}

	created, err := h.auth.Signup(r.Context(), caller(r), &user)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, http.StatusCreated, "User signed up successfully", created)
}

type loginResponse struct {
	Token string          `json:"token"`
	User  *models.AppUser `json:"user"`
}

// Login handler
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var creds struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !h.decode(w, r, &creds) {
		return
	}

	token, user, err := h.auth.Login(r.Context(), creds.Email, creds.Password)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, "Login successful", loginResponse{Token: token, User: user})
}
