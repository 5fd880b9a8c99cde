package stats

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

// UserStats handles GET /me/stats
// @Summary Reading statistics of the current user
// @Tags users
// @Produce json
// @Success 200 {object} httpx.SuccessResponse{data=UserStats}
// @Security BearerAuth
// @Router /me/stats [get]
func (h *HTTPHandler) UserStats(w http.ResponseWriter, r *http.Request) {
	st, err := h.service.UserStats(r.Context(), httpx.UserIDFrom(r))
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, st, nil)
}

// Dashboard handles GET /admin/stats
// @Summary Admin dashboard counters
// @Tags admin
// @Produce json
// @Success 200 {object} httpx.SuccessResponse{data=Dashboard}
// @Security BearerAuth
// @Router /admin/stats [get]
func (h *HTTPHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.service.Dashboard(r.Context())
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, d, nil)
}
