package review

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

type submitRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"notblank"`
}

type moderateRequest struct {
	Action string `json:"action" validate:"required"`
}

// Submit handles POST /books/{id}/reviews
// @Summary Submit a review
// @Description The review stays pending until an admin approves it
// @Tags reviews
// @Accept json
// @Produce json
// @Param id path string true "Book ID"
// @Param request body submitRequest true "Review"
// @Success 201 {object} httpx.SuccessResponse{data=entity.Review}
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Failure 409 {object} httpx.ErrorResponse
// @Security BearerAuth
// @Router /books/{id}/reviews [post]
func (h *HTTPHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if !httpx.DecodeJSON(w, r, &req) {
		return
	}

	rv, err := h.service.Submit(r.Context(), httpx.UserIDFrom(r), r.PathValue("id"), req.Rating, req.Comment)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccessCreated(w, r, rv)
}

// ListApproved handles GET /books/{id}/reviews
// @Summary List approved reviews of a book
// @Tags reviews
// @Produce json
// @Param id path string true "Book ID"
// @Success 200 {object} httpx.SuccessResponse{data=[]entity.Review}
// @Failure 404 {object} httpx.ErrorResponse
// @Router /books/{id}/reviews [get]
func (h *HTTPHandler) ListApproved(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.service.ListApproved(r.Context(), r.PathValue("id"))
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, reviews, nil)
}

// ListPending handles GET /admin/reviews
// @Summary List reviews awaiting moderation
// @Tags admin
// @Produce json
// @Success 200 {object} httpx.SuccessResponse{data=[]entity.Review}
// @Security BearerAuth
// @Router /admin/reviews [get]
func (h *HTTPHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.service.ListPending(r.Context())
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, reviews, map[string]any{"total": len(reviews)})
}

// Moderate handles PATCH /admin/reviews/{id}
// @Summary Approve or reject a review
// @Description action is approve or reject. Rejected reviews are deleted.
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "Review ID"
// @Param request body moderateRequest true "Moderation action"
// @Success 200 {object} httpx.SuccessResponse{data=entity.Review}
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Security BearerAuth
// @Router /admin/reviews/{id} [patch]
func (h *HTTPHandler) Moderate(w http.ResponseWriter, r *http.Request) {
	var req moderateRequest
	if !httpx.DecodeJSON(w, r, &req) {
		return
	}
	action, err := entity.ParseModerationAction(req.Action)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	rv, err := h.service.Moderate(r.Context(), r.PathValue("id"), action)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, rv, nil)
}
