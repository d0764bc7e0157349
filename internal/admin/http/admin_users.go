package http

import (
	"encoding/json"
	"net/http"

	"github.com/ragops/rag-admin/internal/admin/domain"
	"github.com/ragops/rag-admin/internal/admin/service"
	"github.com/ragops/rag-admin/pkg/httpx"
)

// AdminUsersHandler bundles the admin CRUD endpoints for accounts.
type AdminUsersHandler struct {
	UserService *service.UserService
}

// HandleList lists all accounts.
//
//	@Summary	List users
//	@Tags		Admin
//	@Security	BearerAuth
//	@Produce	json
//	@Success	200	{array}		UserResponse
//	@Failure	403	{object}	map[string]string	"Administrator access required"
//	@Router		/v1/admin/users [get].
func (h *AdminUsersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	users, err := h.UserService.ListUsers(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

type createUserRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// HandleCreate creates an account with an explicit role.
//
//	@Summary	Create a user
//	@Tags		Admin
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		request	body		createUserRequest	true	"Account details"
//	@Success	201		{object}	UserResponse
//	@Failure	400		{object}	map[string]string	"Validation failed"
//	@Failure	409		{object}	map[string]string	"Username or email already taken"
//	@Router		/v1/admin/users [post].
func (h *AdminUsersHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Role == "" {
		req.Role = domain.RoleUser
	}

	user, err := h.UserService.CreateUser(r.Context(), req.Name, req.Username, req.Email, req.Password, req.Role)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toUserResponse(user))
}

// HandleGet fetches one account.
//
//	@Summary	Get a user
//	@Tags		Admin
//	@Security	BearerAuth
//	@Produce	json
//	@Param		id	path		string	true	"User id"
//	@Success	200	{object}	UserResponse
//	@Failure	404	{object}	map[string]string	"User not found"
//	@Router		/v1/admin/users/{id} [get].
func (h *AdminUsersHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	user, err := h.UserService.GetUser(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toUserResponse(user))
}

type updateUserRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Active   *bool  `json:"active"`
}

// HandleUpdate mutates profile fields and, optionally, the active flag.
//
//	@Summary	Update a user
//	@Tags		Admin
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string				true	"User id"
//	@Param		request	body		updateUserRequest	true	"New profile fields"
//	@Success	200		{object}	UserResponse
//	@Failure	404		{object}	map[string]string	"User not found"
//	@Failure	409		{object}	map[string]string	"Username or email already taken"
//	@Router		/v1/admin/users/{id} [put].
func (h *AdminUsersHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("id")

	var req updateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	// Fill omitted fields from the current row so partial updates work.
	current, err := h.UserService.GetUser(r.Context(), userID)
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

	user, err := h.UserService.UpdateProfile(r.Context(), userID, req.Name, req.Username, req.Email)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	if req.Active != nil && *req.Active != user.Active {
		if err := h.UserService.SetActive(r.Context(), userID, *req.Active); err != nil {
			writeServiceError(w, r, err)
			return
		}
		user.Active = *req.Active
	}

	httpx.WriteJSON(w, http.StatusOK, toUserResponse(user))
}

// HandleDelete removes an account. Self-deletion is refused.
//
//	@Summary	Delete a user
//	@Tags		Admin
//	@Security	BearerAuth
//	@Param		id	path	string	true	"User id"
//	@Success	204
//	@Failure	403	{object}	map[string]string	"Cannot delete own account"
//	@Failure	404	{object}	map[string]string	"User not found"
//	@Router		/v1/admin/users/{id} [delete].
func (h *AdminUsersHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	actorID := httpx.UserIDFromContext(r.Context())

	if err := h.UserService.DeleteUser(r.Context(), actorID, r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type updateResourcesRequest struct {
	ResourceID        string `json:"resourceId"`
	DatabaseURI       string `json:"databaseUri"`
	BotEndpoint       string `json:"botEndpoint"`
	SchedulerEndpoint string `json:"schedulerEndpoint"`
	ScraperEndpoint   string `json:"scraperEndpoint"`
	VectorStorePath   string `json:"vectorStorePath"`
}

// HandleUpdateResources overwrites a user's resource assignments. The
// resource id is assigned only if the account never had one.
//
//	@Summary	Update a user's resources
//	@Tags		Admin
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string					true	"User id"
//	@Param		request	body		updateResourcesRequest	true	"Resource assignments"
//	@Success	200		{object}	UserResponse
//	@Failure	400		{object}	map[string]string	"Invalid resource id"
//	@Failure	404		{object}	map[string]string	"User not found"
//	@Failure	409		{object}	map[string]string	"Resource id already taken"
//	@Router		/v1/admin/users/{id}/resources [put].
func (h *AdminUsersHandler) HandleUpdateResources(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("id")

	var req updateResourcesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if _, err := h.UserService.GetUser(r.Context(), userID); err != nil {
		writeServiceError(w, r, err)
		return
	}

	user, err := h.UserService.UpdateResources(r.Context(), userID, domain.ResourceBundle{
		ResourceID:        req.ResourceID,
		DatabaseURI:       req.DatabaseURI,
		BotEndpoint:       req.BotEndpoint,
		SchedulerEndpoint: req.SchedulerEndpoint,
		ScraperEndpoint:   req.ScraperEndpoint,
		VectorStorePath:   req.VectorStorePath,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toUserResponse(user))
}

// HandleBackfill provisions every account with missing resource fields.
//
//	@Summary	Backfill tenant resources
//	@Tags		Admin
//	@Security	BearerAuth
//	@Produce	json
//	@Success	200	{object}	BackfillResponse
//	@Failure	403	{object}	map[string]string	"Administrator access required"
//	@Router		/v1/admin/backfill [post].
func (h *AdminUsersHandler) HandleBackfill(w http.ResponseWriter, r *http.Request) {
	healed, err := h.UserService.Backfill(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, BackfillResponse{Healed: healed})
}
