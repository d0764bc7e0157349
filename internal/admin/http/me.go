package http

import (
	"encoding/json"
	"net/http"

	"github.com/ragops/rag-admin/internal/admin/service"
	"github.com/ragops/rag-admin/pkg/httpx"
)

type MeHandler struct {
	Tenants *service.TenantService
	Users   *service.UserService
}

// HandleGet returns the resolved tenant context for the request.
//
//	@Summary		Get the current tenant context
//	@Description	Resolves the effective tenant (the authenticated user, or the overridden
//	@Description	tenant when an admin impersonates) including its resource bundle.
//	@Description	Pass refresh=true to bypass the cache.
//	@Tags			Users
//	@Security		BearerAuth
//	@Produce		json
//	@Param			refresh	query		bool	false	"Force a cache refresh"
//	@Success		200		{object}	TenantContextResponse
//	@Failure		401		{object}	map[string]string	"Missing or invalid token"
//	@Failure		403		{object}	map[string]string	"Account deactivated or override forbidden"
//	@Failure		404		{object}	map[string]string	"Tenant no longer exists"
//	@Router			/v1/users/me [get].
func (h *MeHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tenantUserID := httpx.TenantUserIDFromContext(ctx)
	if tenantUserID == "" {
		httpx.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	forceRefresh := r.URL.Query().Get("refresh") == "true"

	tc, err := h.Tenants.Resolve(ctx, tenantUserID, forceRefresh)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, toTenantContextResponse(tc, httpx.ImpersonatingFromContext(ctx)))
}

type updateMeRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleUpdate mutates the caller's own profile. Unlike the tenant context
// read, this always targets the authenticated account, never an
// impersonated one; admins edit other accounts through the admin endpoints.
//
//	@Summary	Update own profile
//	@Tags		Users
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		request	body		updateMeRequest	true	"New profile fields; omitted fields are kept"
//	@Success	200		{object}	UserResponse
//	@Failure	400		{object}	map[string]string	"Validation failed"
//	@Failure	401		{object}	map[string]string	"Missing or invalid token"
//	@Failure	409		{object}	map[string]string	"Username or email already taken"
//	@Router		/v1/users/me [put].
func (h *MeHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID := httpx.UserIDFromContext(ctx)
	if userID == "" {
		httpx.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req updateMeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	current, err := h.Users.GetUser(ctx, userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if req.Name == "" {
		req.Name = current.Name
	}
	if req.Username == "" {
		req.Username = current.Username
	}
	if req.Email == "" {
		req.Email = current.Email
	}

	user, err := h.Users.UpdateProfile(ctx, userID, req.Name, req.Username, req.Email)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	if req.Password != "" {
		if err := h.Users.UpdatePassword(ctx, userID, req.Password); err != nil {
			writeServiceError(w, r, err)
			return
		}
	}

	httpx.WriteJSON(w, http.StatusOK, toUserResponse(user))
}
