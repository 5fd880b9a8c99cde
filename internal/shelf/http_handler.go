package shelf

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

type setShelfRequest struct {
	Shelf string `json:"shelf" validate:"required"`
}

type progressRequest struct {
	Progress *int `json:"progress" validate:"required"`
}

type shelfResponse struct {
	BookID string       `json:"book_id"`
	Shelf  entity.Shelf `json:"shelf"`
}

type progressResponse struct {
	BookID   string `json:"book_id"`
	Progress int    `json:"progress"`
}

// GetShelf handles GET /me/shelves/{bookID}
// @Summary Get the shelf holding a book
// @Tags shelves
// @Produce json
// @Param bookID path string true "Book ID"
// @Success 200 {object} httpx.SuccessResponse{data=shelfResponse}
// @Security BearerAuth
// @Router /me/shelves/{bookID} [get]
func (h *HTTPHandler) GetShelf(w http.ResponseWriter, r *http.Request) {
	bookID := r.PathValue("bookID")

	shelf, err := h.service.GetShelfOf(r.Context(), httpx.UserIDFrom(r), bookID)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, shelfResponse{BookID: bookID, Shelf: shelf}, nil)
}

// SetShelf handles PUT /me/shelves/{bookID}
// @Summary Move a book to a shelf
// @Description shelf is one of wantToRead, currentlyReading, read or none
// @Tags shelves
// @Accept json
// @Produce json
// @Param bookID path string true "Book ID"
// @Param request body setShelfRequest true "Target shelf"
// @Success 200 {object} httpx.SuccessResponse{data=entity.Shelves}
// @Failure 400 {object} httpx.ErrorResponse
// @Security BearerAuth
// @Router /me/shelves/{bookID} [put]
func (h *HTTPHandler) SetShelf(w http.ResponseWriter, r *http.Request) {
	var req setShelfRequest
	if !httpx.DecodeJSON(w, r, &req) {
		return
	}
	target, err := entity.ParseShelf(req.Shelf)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	shelves, err := h.service.SetShelf(r.Context(), httpx.UserIDFrom(r), r.PathValue("bookID"), target)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, shelves, nil)
}

// UpdateProgress handles PATCH /me/shelves/{bookID}/progress
// @Summary Update reading progress
// @Description Progress is clamped to 0..100
// @Tags shelves
// @Accept json
// @Produce json
// @Param bookID path string true "Book ID"
// @Param request body progressRequest true "Progress percentage"
// @Success 200 {object} httpx.SuccessResponse{data=progressResponse}
// @Failure 404 {object} httpx.ErrorResponse
// @Security BearerAuth
// @Router /me/shelves/{bookID}/progress [patch]
func (h *HTTPHandler) UpdateProgress(w http.ResponseWriter, r *http.Request) {
	var req progressRequest
	if !httpx.DecodeJSON(w, r, &req) {
		return
	}
	bookID := r.PathValue("bookID")

	stored, err := h.service.UpdateProgress(r.Context(), httpx.UserIDFrom(r), bookID, *req.Progress)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, progressResponse{BookID: bookID, Progress: stored}, nil)
}

// Library handles GET /me/library
// @Summary List the current user's shelves with book details
// @Tags shelves
// @Produce json
// @Success 200 {object} httpx.SuccessResponse{data=Library}
// @Security BearerAuth
// @Router /me/library [get]
func (h *HTTPHandler) Library(w http.ResponseWriter, r *http.Request) {
	lib, err := h.service.Library(r.Context(), httpx.UserIDFrom(r))
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, lib, nil)
}
