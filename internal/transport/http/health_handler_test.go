package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wbreport/internal/services"
	"wbreport/internal/shared/testutil"
)

func TestHealthHandler(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	outputDir := filepath.Join(t.TempDir(), "output")

	ready := services.NewHealthService("v1.0.0-test", outputDir, services.NewAnalysisService(nil, nil, logger), logger)
	notReady := services.NewHealthService("v1.0.0-test", outputDir, nil, logger)

	tests := []struct {
		name       string
		service    *services.HealthService
		path       string
		wantCode   int
		wantStatus string
	}{
		{"health", ready, "/api/health", http.StatusOK, "ok"},
		{"ready", ready, "/api/health/ready", http.StatusOK, "ready"},
		{"not ready", notReady, "/api/health/ready", http.StatusServiceUnavailable, "not_ready"},
		{"live", ready, "/api/health/live", http.StatusOK, "alive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := chi.NewRouter()
			r.Mount("/api/health", NewHealthHandler(tt.service, logger).Routes())

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			require.Equal(t, tt.wantCode, rec.Code)

			var body services.HealthStatus
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantStatus, body.Status)
			assert.Equal(t, "v1.0.0-test", body.Version)
		})
	}
}

func TestHealthHandler_Version(t *testing.T) {
	h := NewHealthHandler(services.NewHealthService("v2", "", nil, nil), nil)

	rec := httptest.NewRecorder()
	h.Version(rec, httptest.NewRequest(http.MethodGet, "/api/version", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "v2", body["version"])
}
