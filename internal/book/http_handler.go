package book

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

// List handles GET /books
// @Summary List books
// @Description Newest first. search matches title or author, case-insensitively.
// @Tags books
// @Produce json
// @Param search query string false "Title or author substring"
// @Param genre query string false "Genre ID, or All"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size (max 100)"
// @Success 200 {object} httpx.SuccessResponse{data=[]entity.Book}
// @Failure 500 {object} httpx.ErrorResponse
// @Router /books [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page, pageSize := httpx.Page(r)

	books, total, err := h.service.List(r.Context(), Query{
		Search:   query.Get("search"),
		GenreID:  query.Get("genre"),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, books, httpx.PageMeta(page, pageSize, total))
}

// Get handles GET /books/{id}
// @Summary Get a book
// @Tags books
// @Produce json
// @Param id path string true "Book ID"
// @Success 200 {object} httpx.SuccessResponse{data=entity.Book}
// @Failure 404 {object} httpx.ErrorResponse
// @Router /books/{id} [get]
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	b, err := h.service.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, b, nil)
}

// Create handles POST /admin/books
// @Summary Add a book to the catalog
// @Tags admin
// @Accept json
// @Produce json
// @Param request body Input true "Book"
// @Success 201 {object} httpx.SuccessResponse{data=entity.Book}
// @Failure 400 {object} httpx.ErrorResponse
// @Security BearerAuth
// @Router /admin/books [post]
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in Input
	if !httpx.DecodeJSON(w, r, &in) {
		return
	}
	b, err := h.service.Create(r.Context(), in)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccessCreated(w, r, b)
}

// Update handles PUT /admin/books/{id}
// @Summary Edit a book
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "Book ID"
// @Param request body Input true "Book"
// @Success 200 {object} httpx.SuccessResponse{data=entity.Book}
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Security BearerAuth
// @Router /admin/books/{id} [put]
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in Input
	if !httpx.DecodeJSON(w, r, &in) {
		return
	}
	b, err := h.service.Update(r.Context(), r.PathValue("id"), in)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, b, nil)
}

// Delete handles DELETE /admin/books/{id}
// @Summary Remove a book
// @Tags admin
// @Param id path string true "Book ID"
// @Success 204 "No Content"
// @Failure 404 {object} httpx.ErrorResponse
// @Security BearerAuth
// @Router /admin/books/{id} [delete]
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), r.PathValue("id")); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccessNoContent(w)
}
