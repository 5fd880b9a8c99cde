package user

import (
	"net/http"

	"bookworm/internal/entity"
	"bookworm/internal/httpx"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

type goalRequest struct {
	Target *int `json:"target" validate:"required,gte=0,lte=10000"`
}

type favoritesRequest struct {
	GenreIDs []string `json:"genre_ids" validate:"max=50"`
}

type roleRequest struct {
	Role string `json:"role" validate:"required,oneof=user admin"`
}

// SignIn handles POST /auth/session
// @Summary Sign in with an identity-provider token
// @Description Creates the account on first sign-in
// @Tags auth
// @Produce json
// @Success 200 {object} httpx.SuccessResponse{data=entity.User}
// @Success 201 {object} httpx.SuccessResponse{data=entity.User}
// @Failure 401 {object} httpx.ErrorResponse
// @Failure 409 {object} httpx.ErrorResponse
// @Security BearerAuth
// @Router /auth/session [post]
func (h *HTTPHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.IdentityFrom(r)
	if !ok {
		httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required", nil)
		return
	}

	u, created, err := h.service.SignIn(r.Context(), Identity{
		AuthRef:  id.AuthRef,
		Email:    id.Email,
		Name:     id.Name,
		PhotoURL: id.Picture,
	})
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	if created {
		httpx.JSONSuccessCreated(w, r, u)
		return
	}
	httpx.JSONSuccess(w, r, u, nil)
}

// GetCurrentUser handles GET /me
// @Summary Get current user
// @Tags users
// @Produce json
// @Success 200 {object} httpx.SuccessResponse{data=entity.User}
// @Failure 401 {object} httpx.ErrorResponse
// @Security BearerAuth
// @Router /me [get]
func (h *HTTPHandler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.service.Get(r.Context(), httpx.UserIDFrom(r))
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, u, nil)
}

// SetGoal handles PATCH /me/goal
// @Summary Set the yearly reading goal
// @Tags users
// @Accept json
// @Produce json
// @Param request body goalRequest true "Goal"
// @Success 200 {object} httpx.SuccessResponse{data=entity.User}
// @Failure 400 {object} httpx.ErrorResponse
// @Security BearerAuth
// @Router /me/goal [patch]
func (h *HTTPHandler) SetGoal(w http.ResponseWriter, r *http.Request) {
	var req goalRequest
	if !httpx.DecodeJSON(w, r, &req) {
		return
	}
	u, err := h.service.SetGoal(r.Context(), httpx.UserIDFrom(r), *req.Target)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, u, nil)
}

// SetFavoriteGenres handles PUT /me/favorites
// @Summary Replace favorite genres
// @Tags users
// @Accept json
// @Produce json
// @Param request body favoritesRequest true "Genre IDs"
// @Success 200 {object} httpx.SuccessResponse{data=entity.User}
// @Failure 400 {object} httpx.ErrorResponse
// @Security BearerAuth
// @Router /me/favorites [put]
func (h *HTTPHandler) SetFavoriteGenres(w http.ResponseWriter, r *http.Request) {
	var req favoritesRequest
	if !httpx.DecodeJSON(w, r, &req) {
		return
	}
	u, err := h.service.SetFavoriteGenres(r.Context(), httpx.UserIDFrom(r), req.GenreIDs)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, u, nil)
}

// List handles GET /admin/users
// @Summary List users
// @Tags admin
// @Produce json
// @Success 200 {object} httpx.SuccessResponse{data=[]entity.User}
// @Security BearerAuth
// @Router /admin/users [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.List(r.Context())
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, users, map[string]any{"total": len(users)})
}

// SetRole handles PATCH /admin/users/{id}/role
// @Summary Change a user's role
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param request body roleRequest true "Role"
// @Success 200 {object} httpx.SuccessResponse{data=entity.User}
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Security BearerAuth
// @Router /admin/users/{id}/role [patch]
func (h *HTTPHandler) SetRole(w http.ResponseWriter, r *http.Request) {
	var req roleRequest
	if !httpx.DecodeJSON(w, r, &req) {
		return
	}
	u, err := h.service.SetRole(r.Context(), r.PathValue("id"), entity.Role(req.Role))
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, u, nil)
}
