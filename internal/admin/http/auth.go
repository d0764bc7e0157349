package http

import (
	"encoding/json"
	"net/http"

	"github.com/ragops/rag-admin/internal/admin/service"
	"github.com/ragops/rag-admin/pkg/httpx"
)

type RegisterHandler struct {
	UserService *service.UserService
}

type registerRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ServeHTTP handles self-service registration.
//
//	@Summary		Register a new account
//	@Description	Creates an account and provisions its tenant resources atomically.
//	@Description	The first account in an empty deployment becomes an administrator.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		registerRequest	true	"Account details"
//	@Success		201		{object}	UserResponse
//	@Failure		400		{object}	map[string]string	"Validation failed"
//	@Failure		409		{object}	map[string]string	"Username or email already taken"
//	@Router			/v1/auth/register [post].
func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	user, err := h.UserService.Register(r.Context(), req.Name, req.Username, req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toUserResponse(user))
}

type LoginHandler struct {
	UserService *service.UserService
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ServeHTTP handles login.
//
//	@Summary		Log in
//	@Description	Verifies credentials and returns a bearer token. Unknown usernames and
//	@Description	wrong passwords fail with the same message.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		loginRequest	true	"Credentials"
//	@Success		200		{object}	TokenResponse
//	@Failure		401		{object}	map[string]string	"Invalid credentials"
//	@Failure		403		{object}	map[string]string	"Account deactivated"
//	@Router			/v1/auth/login [post].
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	token, user, err := h.UserService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		User:        toUserResponse(user),
	})
}
