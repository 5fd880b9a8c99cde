package genre

import (
	"net/http"

	"bookworm/internal/httpx"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

type genreRequest struct {
	Name string `json:"name" validate:"notblank,max=100"`
}

// List handles GET /genres and GET /admin/genres
// @Summary List genres
// @Tags genres
// @Produce json
// @Success 200 {object} httpx.SuccessResponse{data=[]entity.Genre}
// @Router /genres [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	genres, err := h.service.List(r.Context())
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, genres, nil)
}

// Create handles POST /admin/genres
// @Summary Create a genre
// @Tags admin
// @Accept json
// @Produce json
// @Param request body genreRequest true "Genre"
// @Success 201 {object} httpx.SuccessResponse{data=entity.Genre}
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 409 {object} httpx.ErrorResponse
// @Security BearerAuth
// @Router /admin/genres [post]
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req genreRequest
	if !httpx.DecodeJSON(w, r, &req) {
		return
	}
	g, err := h.service.Create(r.Context(), req.Name)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccessCreated(w, r, g)
}

// Rename handles PUT /admin/genres/{id}
// @Summary Rename a genre
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "Genre ID"
// @Param request body genreRequest true "Genre"
// @Success 200 {object} httpx.SuccessResponse{data=entity.Genre}
// @Failure 404 {object} httpx.ErrorResponse
// @Failure 409 {object} httpx.ErrorResponse
// @Security BearerAuth
// @Router /admin/genres/{id} [put]
func (h *HTTPHandler) Rename(w http.ResponseWriter, r *http.Request) {
	var req genreRequest
	if !httpx.DecodeJSON(w, r, &req) {
		return
	}
	g, err := h.service.Rename(r.Context(), r.PathValue("id"), req.Name)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, g, nil)
}

// Delete handles DELETE /admin/genres/{id}
// @Summary Delete a genre
// @Tags admin
// @Param id path string true "Genre ID"
// @Success 204 "No Content"
// @Failure 404 {object} httpx.ErrorResponse
// @Security BearerAuth
// @Router /admin/genres/{id} [delete]
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), r.PathValue("id")); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccessNoContent(w)
}
