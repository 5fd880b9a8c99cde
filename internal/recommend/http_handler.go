package recommend

import (
	"net/http"
	"strconv"

	"bookworm/internal/httpx"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

// Recommend handles GET /recommendations
// @Summary Recommended books
// @Description Signed-in readers get books from their favourite genre; everyone else gets popular books
// @Tags recommendations
// @Produce json
// @Param limit query int false "Number of books (default 8, max 50)"
// @Success 200 {object} httpx.SuccessResponse{data=Result}
// @Failure 400 {object} httpx.ErrorResponse
// @Router /recommendations [get]
func (h *HTTPHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "limit must be a number", nil)
			return
		}
		limit = n
	}

	res, err := h.service.Recommend(r.Context(), httpx.UserIDFrom(r), limit)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, res, nil)
}
