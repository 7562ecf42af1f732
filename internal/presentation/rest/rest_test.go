package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobdeve/credit-risk-model/internal/application/usecase"
	"github.com/bobdeve/credit-risk-model/internal/infrastructure/scoring"
)

const validRecord = `{
  "ChannelId": 3,
  "CurrencyCode": "UGX",
  "CountryCode": "256",
  "ProviderId": "ProviderId_6",
  "ProductCategory": "airtime",
  "PricingStrategy": "2",
  "SubscriptionId": "SubscriptionId_1"
}`

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestRouter(t *testing.T, loaded bool, checks map[string]ReadinessCheck) http.Handler {
	t.Helper()

	predict := usecase.NewPredictRisk(nil)
	if loaded {
		m, err := scoring.NewLogisticModel(scoring.LogisticArtifact{
			Categorical: []scoring.CategoricalFeature{
				{Name: "ProductCategory", Levels: map[string]float64{"airtime": 0}},
			},
		})
		require.NoError(t, err)
		predict = usecase.NewPredictRisk(m)
	}

	metrics := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "# metrics\n")
	})
	return NewRouter(testLogger(),
		NewHealthHandler("riskd", testLogger(), checks),
		NewPredictHandler(predict, testLogger()),
		metrics,
	)
}

func TestPredict(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		loaded     bool
	}{
		{name: "valid record", body: validRecord, loaded: true, wantStatus: http.StatusOK},
		{name: "malformed JSON", body: `{"ChannelId":`, loaded: true, wantStatus: http.StatusBadRequest},
		{name: "missing fields", body: `{"CurrencyCode":"UGX"}`, loaded: true, wantStatus: http.StatusBadRequest},
		{name: "model not loaded", body: validRecord, loaded: false, wantStatus: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(t, tt.loaded, nil)
			req := httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		})
	}

	t.Run("returns the probability", func(t *testing.T) {
		router := newTestRouter(t, true, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader(validRecord)))
		require.Equal(t, http.StatusOK, rec.Code)

		var body map[string]float64
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.InDelta(t, 0.5, body["risk_probability"], 1e-12)
	})

	t.Run("lists the missing fields", func(t *testing.T) {
		router := newTestRouter(t, true, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader(`{"CurrencyCode":"UGX"}`)))

		var body ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Contains(t, body.Fields, "ChannelId")
		assert.Contains(t, body.Fields, "SubscriptionId")
		assert.NotContains(t, body.Fields, "CurrencyCode")
	})

	t.Run("GET is not allowed", func(t *testing.T) {
		router := newTestRouter(t, true, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/predict", nil))
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestHealth(t *testing.T) {
	t.Run("healthz", func(t *testing.T) {
		router := newTestRouter(t, true, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		var body HealthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "healthy", body.Status)
		assert.Equal(t, "riskd", body.Service)
	})

	t.Run("readyz with passing checks", func(t *testing.T) {
		router := newTestRouter(t, true, map[string]ReadinessCheck{
			"database": func(context.Context) error { return nil },
		})
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		var body ReadinessResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "ready", body.Status)
		assert.Equal(t, "ok", body.Checks["database"])
	})

	t.Run("readyz with a failing check", func(t *testing.T) {
		router := newTestRouter(t, true, map[string]ReadinessCheck{
			"database": func(context.Context) error { return nil },
			"model":    func(context.Context) error { return errors.New("risk model not loaded") },
		})
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
		var body ReadinessResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "not ready", body.Status)
		assert.Equal(t, "risk model not loaded", body.Checks["model"])
	})
}

func TestMetricsRoute(t *testing.T) {
	router := newTestRouter(t, true, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "# metrics")
}
