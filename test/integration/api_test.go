package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/eugenenazirov/change-calculator/internal/api"
	"github.com/eugenenazirov/change-calculator/internal/application"
	"github.com/eugenenazirov/change-calculator/internal/calculator"
	"github.com/eugenenazirov/change-calculator/internal/storage"
)

func newRouter(t *testing.T) http.Handler {
	t.Helper()

	store := storage.NewMemoryStorage()
	calc := calculator.NewDefault()
	handler := api.NewHandler(calc, store)
	logger := zaptest.NewLogger(t)
	return application.BuildRootHandler(api.NewRouter(handler, logger))
}

func performRequest(t *testing.T, handler http.Handler, method, target string, body []byte, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestIntegrationFlow(t *testing.T) {
	handler := newRouter(t)
	jsonHeaders := map[string]string{"Content-Type": "application/json"}

	rec := performRequest(t, handler, http.MethodGet, "/api/health", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from health, got %d", rec.Code)
	}

	rec = performRequest(t, handler, http.MethodGet, "/api/denominations", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from denominations, got %d", rec.Code)
	}

	scenarios := []struct {
		charged, given int64
		want           map[string]int64
	}{
		{100, 100, map[string]int64{}},
		{0, 100, map[string]int64{"100": 1}},
		{50, 100, map[string]int64{"50": 1}},
		{1, 10, map[string]int64{"5": 1, "1": 4}},
		{7, 5000, map[string]int64{"2000": 2, "500": 2, "50": 1, "1": 3}},
	}

	for _, sc := range scenarios {
		payload, _ := json.Marshal(map[string]any{"amountCharged": sc.charged, "amountGiven": sc.given})
		rec = performRequest(t, handler, http.MethodPost, "/api/charge", payload, jsonHeaders)
		if rec.Code != http.StatusOK {
			t.Fatalf("charge(%d, %d): expected 200, got %d", sc.charged, sc.given, rec.Code)
		}

		var response struct {
			Change    map[string]int64 `json:"change"`
			ChangeDue int64            `json:"changeDue"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if response.ChangeDue != sc.given-sc.charged {
			t.Fatalf("charge(%d, %d): unexpected change due %d", sc.charged, sc.given, response.ChangeDue)
		}
		if len(response.Change) != len(sc.want) {
			t.Fatalf("charge(%d, %d): unexpected change %v", sc.charged, sc.given, response.Change)
		}
		for denom, count := range sc.want {
			if response.Change[denom] != count {
				t.Fatalf("charge(%d, %d): expected %s x %d, got %v", sc.charged, sc.given, denom, count, response.Change)
			}
		}
	}

	payload, _ := json.Marshal(map[string]any{"amountCharged": 3, "amountGiven": 2})
	rec = performRequest(t, handler, http.MethodPost, "/api/charge", payload, jsonHeaders)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for insufficient amount, got %d", rec.Code)
	}
}
