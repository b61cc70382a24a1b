package http

import (
	"errors"
	"net/http"

	"bikefit/domain"
	"bikefit/service"

	"go.uber.org/zap"
)

type SearchHandler struct {
	service *service.SearchService
	logger  *zap.Logger
}

func NewSearchHandler(service *service.SearchService, logger *zap.Logger) *SearchHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SearchHandler{service: service, logger: logger}
}

// Search serves POST /api/bikes/search.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	var criteria domain.SearchCriteria
	if !decodeBody(w, r, &criteria) {
		return
	}

	res, err := h.service.Search(r.Context(), criteria)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCriteria) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("bike search failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "search failed")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Facets serves GET /api/bikes/facets.
func (h *SearchHandler) Facets(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	facets, err := h.service.Facets(r.Context())
	if err != nil {
		h.logger.Error("listing facets failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not list facets")
		return
	}
	writeJSON(w, http.StatusOK, facets)
}
