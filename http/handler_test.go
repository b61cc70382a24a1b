package http

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"bikefit/domain"
	"bikefit/repository"
	"bikefit/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestRouter(t *testing.T, bikes []domain.BikeRecord) http.Handler {
	t.Helper()
	logger := zaptest.NewLogger(t)
	calc := service.NewCalculatorService(
		service.NewFitService(service.FitOptions{}),
		repository.NewCalculationRepositoryMemory(service.MaxRecentCalculations),
		repository.NewMemoryCache(100, 0),
		logger,
	)
	search := service.NewSearchService(repository.NewBikeRepositoryMemory(bikes), 0, logger)
	return NewRouter(Handlers{
		Calculate: NewCalculateHandler(calc, logger),
		Search:    NewSearchHandler(search, logger),
		Logger:    logger,
	})
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestCalculate_OK(t *testing.T) {
	h := newTestRouter(t, nil)

	w := do(t, h, http.MethodPost, "/api/calculate", `{
		"calculationType": "seatpost",
		"data": {"saddleX": "150", "saddleY": 600, "seatTubeAngle": 73, "seatTubeLength": 500}
	}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
	assert.JSONEq(t, `{
		"success": true,
		"result": {
			"effectiveSTA": 76, "setbackVsSTA": 33, "bbToRail": 627,
			"exposedSeatpost": 127, "bbToSRC": 618,
			"saddleValid": true, "seatTubeAngleUsed": 73
		}
	}`, w.Body.String())
}

func TestCalculate_BadRequests(t *testing.T) {
	h := newTestRouter(t, nil)

	tests := []struct {
		name   string
		method string
		body   string
		status int
	}{
		{"wrong method", http.MethodGet, "", http.StatusMethodNotAllowed},
		{"malformed json", http.MethodPost, `{"calculationType":`, http.StatusBadRequest},
		{"unknown kind", http.MethodPost, `{"calculationType":"wheelbase","data":{}}`, http.StatusBadRequest},
		{"missing kind", http.MethodPost, `{"data":{}}`, http.StatusBadRequest},
		{"data not an object", http.MethodPost, `{"calculationType":"stem","data":[1]}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, tt.method, "/api/calculate", tt.body)
			assert.Equal(t, tt.status, w.Code)
			out := decode(t, w)
			assert.Equal(t, false, out["success"])
			assert.NotEmpty(t, out["error"])
		})
	}
}

func TestCalculate_BodyTooLarge(t *testing.T) {
	h := newTestRouter(t, nil)

	body := `{"calculationType":"stem","data":{"pad":"` + strings.Repeat("x", service.MaxPayloadBytes) + `"}}`
	w := do(t, h, http.MethodPost, "/api/calculate", body)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestCalculate_KeepsCallerRequestID(t *testing.T) {
	h := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/calculate",
		bytes.NewBufferString(`{"calculationType":"stem","data":{"headTubeAngle":73}}`))
	req.Header.Set(RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestHistory(t *testing.T) {
	h := newTestRouter(t, nil)

	for _, kind := range []string{"seatpost", "stem"} {
		w := do(t, h, http.MethodPost, "/api/calculate", fmt.Sprintf(`{"calculationType":%q,"data":{}}`, kind))
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := do(t, h, http.MethodGet, "/api/calculations?limit=1", "")
	require.Equal(t, http.StatusOK, w.Code)
	out := decode(t, w)
	calcs, ok := out["calculations"].([]any)
	require.True(t, ok)
	require.Len(t, calcs, 1)
	latest := calcs[0].(map[string]any)
	assert.Equal(t, "stem", latest["calculationType"])
	assert.IsType(t, map[string]any{}, latest["input"])
	assert.IsType(t, map[string]any{}, latest["result"])

	w = do(t, h, http.MethodGet, "/api/calculations?limit=many", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodPost, "/api/calculations", "")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestBikeSearch(t *testing.T) {
	bikes := []domain.BikeRecord{
		{Brand: "Canyon", Model: "Endurace", Size: "M", Reach: 383, Stack: 562, Material: "carbon"},
		{Brand: "Trek", Model: "Domane", Size: "54", Reach: 378, Stack: 560, Material: "carbon"},
		{Brand: "Surly", Model: "Straggler", Size: "52", Reach: 365, Stack: 580, Material: "steel"},
	}
	h := newTestRouter(t, bikes)

	w := do(t, h, http.MethodPost, "/api/bikes/search", `{"reachTarget": 380, "stackTarget": 560}`)
	require.Equal(t, http.StatusOK, w.Code)
	out := decode(t, w)
	assert.Equal(t, 2.0, out["totalMatches"])
	assert.Equal(t, 2.0, out["returned"])
	results := out["results"].([]any)
	first := results[0].(map[string]any)
	assert.Equal(t, "Trek", first["brand"])
	assert.Equal(t, -2.0, first["reachDiff"])
	assert.Equal(t, 2.0, first["totalDiff"])

	w = do(t, h, http.MethodPost, "/api/bikes/search", `{"reachTarget": 380, "stackTarget": 560, "reachRange": -5}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodPost, "/api/bikes/search", `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBikeSearch_NoMatchesIsEmptyList(t *testing.T) {
	h := newTestRouter(t, nil)

	w := do(t, h, http.MethodPost, "/api/bikes/search", `{"reachTarget": 380, "stackTarget": 560}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"results": [], "totalMatches": 0, "returned": 0}`, w.Body.String())
}

func TestFacets(t *testing.T) {
	h := newTestRouter(t, []domain.BikeRecord{
		{Brand: "Trek", Material: "carbon", Style: "endurance"},
		{Brand: "Canyon", Material: "aluminium"},
	})

	w := do(t, h, http.MethodGet, "/api/bikes/facets", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{
		"brands": ["Canyon", "Trek"],
		"materials": ["aluminium", "carbon"],
		"styles": ["endurance"]
	}`, w.Body.String())

	w = do(t, h, http.MethodDelete, "/api/bikes/facets", "")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestHealthz(t *testing.T) {
	w := do(t, newTestRouter(t, nil), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestRequestMiddleware_RecoversPanics(t *testing.T) {
	h := RequestMiddleware(zaptest.NewLogger(t), http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	w := do(t, h, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
