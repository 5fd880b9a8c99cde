package ingest

import (
	"errors"
	"net/http"

	"bookworm/internal/httpx"
)

type HTTPHandler struct {
	svc *Service
}

func NewHTTPHandler(svc *Service) *HTTPHandler {
	return &HTTPHandler{svc: svc}
}

type importRequest struct {
	Subject string `json:"subject" validate:"notblank,max=100"`
	GenreID string `json:"genre_id" validate:"notblank"`
	Limit   int    `json:"limit" validate:"omitempty,min=1,max=50"`
}

// Import handles POST /admin/books/import
// @Summary Import books from Open Library
// @Description Searches Open Library by subject and adds the books the catalog is missing
// @Tags admin
// @Accept json
// @Produce json
// @Param request body importRequest true "Import request"
// @Success 200 {object} httpx.SuccessResponse{data=Report}
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 502 {object} httpx.ErrorResponse
// @Security BearerAuth
// @Router /admin/books/import [post]
func (h *HTTPHandler) Import(w http.ResponseWriter, r *http.Request) {
	var req importRequest
	if !httpx.DecodeJSON(w, r, &req) {
		return
	}

	report, err := h.svc.Import(r.Context(), Request{Subject: req.Subject, GenreID: req.GenreID, Limit: req.Limit})
	if err != nil {
		if errors.Is(err, ErrSourceUnavailable) {
			httpx.JSONError(w, r, http.StatusBadGateway, "IMPORT_FAILED", "Open Library is unavailable", nil)
			return
		}
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, report, nil)
}
