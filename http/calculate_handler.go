package http

import (
	"errors"
	"net/http"
	"strconv"

	"bikefit/domain"
	"bikefit/service"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
)

type calculateRequest struct {
	CalculationType string              `json:"calculationType"`
	Data            jsoniter.RawMessage `json:"data"`
}

type CalculateHandler struct {
	service *service.CalculatorService
	logger  *zap.Logger
}

func NewCalculateHandler(service *service.CalculatorService, logger *zap.Logger) *CalculateHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CalculateHandler{service: service, logger: logger}
}

// Calculate serves POST /api/calculate.
func (h *CalculateHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	var req calculateRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := h.service.Calculate(r.Context(), req.CalculationType, req.Data)
	switch {
	case err == nil:
		writeResult(w, result)
	case errors.Is(err, service.ErrUnknownCalculation), errors.Is(err, service.ErrInvalidPayload):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("calculation failed",
			zap.String("kind", req.CalculationType),
			zap.String("request_id", RequestIDFrom(r.Context())),
			zap.Error(err),
		)
		writeError(w, http.StatusInternalServerError, "calculation failed")
	}
}

type historyResponse struct {
	Calculations []historyEntry `json:"calculations"`
}

type historyEntry struct {
	domain.CalculationRecord
	Input  jsoniter.RawMessage `json:"input"`
	Result jsoniter.RawMessage `json:"result"`
}

// History serves GET /api/calculations.
func (h *CalculateHandler) History(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		limit = n
	}

	recs, err := h.service.Recent(r.Context(), limit)
	if err != nil {
		h.logger.Error("listing calculations failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not list calculations")
		return
	}

	resp := historyResponse{Calculations: make([]historyEntry, 0, len(recs))}
	for _, rec := range recs {
		resp.Calculations = append(resp.Calculations, historyEntry{
			CalculationRecord: rec,
			Input:             rec.Input,
			Result:            rec.Result,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}
