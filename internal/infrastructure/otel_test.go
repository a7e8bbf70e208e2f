package infrastructure

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestInitializeOTel_PrometheusMetrics(t *testing.T) {
	cfg := DefaultOTelConfig()
	cfg.EnableTracing = false

	providers, err := InitializeOTel(cfg, discardLogger())
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	require.NotNil(t, providers.MeterProvider)
	require.NotNil(t, providers.PrometheusHTTP)
	assert.Nil(t, providers.TracerProvider)
	assert.NotNil(t, providers.Tracer)

	metrics, err := CreateAnalysisMetrics(providers.Meter)
	require.NoError(t, err)

	ctx := context.Background()
	RecordAnalysisRun(ctx, metrics, "platform_fees", 2, 120, 50*time.Millisecond, nil)
	RecordSchemaMismatch(ctx, metrics, "cost")

	rec := httptest.NewRecorder()
	providers.PrometheusHTTP.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body := rec.Body.String()
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, body, "analysis_runs_total")
	assert.Contains(t, body, "analysis_schema_mismatch_total")
	assert.Contains(t, body, "go_goroutines")
}

func TestInitializeOTel_TwiceInOneProcess(t *testing.T) {
	for i := 0; i < 2; i++ {
		providers, err := InitializeOTel(DefaultOTelConfig(), discardLogger())
		require.NoError(t, err)
		require.NoError(t, providers.Shutdown(context.Background()))
	}
}

func TestInitializeOTel_UnsupportedExporter(t *testing.T) {
	cfg := DefaultOTelConfig()
	cfg.EnableTracing = true
	cfg.TraceExporter = "jaeger"

	_, err := InitializeOTel(cfg, discardLogger())
	assert.Error(t, err)
}

func TestNoopProviders(t *testing.T) {
	providers := NoopProviders(nil)

	httpMetrics, err := CreateHTTPMetrics(providers.Meter)
	require.NoError(t, err)
	assert.NotNil(t, httpMetrics.RequestsTotal)

	analysisMetrics, err := CreateAnalysisMetrics(providers.Meter)
	require.NoError(t, err)

	ctx, span := providers.Tracer.Start(context.Background(), "noop")
	defer span.End()

	assert.NotPanics(t, func() {
		RecordAnalysisRun(ctx, analysisMetrics, "all_fees", 1, 0, time.Second, errors.New("boom"))
		RecordAnalysisRun(ctx, nil, "all_fees", 1, 0, time.Second, nil)
		RecordError(ctx, errors.New("boom"))
		AddSpanEvent(ctx, "event")
	})
	assert.Empty(t, TraceIDFromContext(ctx))
	assert.NoError(t, providers.Shutdown(context.Background()))
}
