package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthService_Checks(t *testing.T) {
	hs := NewHealthService("1.2.3", t.TempDir(), NewAnalysisService(nil, nil, nil), nil)
	ctx := context.Background()

	health := hs.HealthCheck(ctx)
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, "1.2.3", health.Version)

	ready := hs.ReadinessCheck(ctx)
	assert.Equal(t, "ready", ready.Status)
	require.Contains(t, ready.Services, "analysis")
	assert.Equal(t, "8 fee categories loaded", ready.Services["analysis"].Message)

	live := hs.LivenessCheck(ctx)
	assert.Equal(t, "alive", live.Status)
	assert.Contains(t, live.Runtime, "goroutines")

	assert.Equal(t, "1.2.3", hs.Version()["version"])
}

func TestHealthService_NotReady(t *testing.T) {
	ctx := context.Background()

	hs := NewHealthService("dev", "", nil, nil)
	ready := hs.ReadinessCheck(ctx)
	assert.Equal(t, "not_ready", ready.Status)
	assert.Equal(t, "not_ready", ready.Services["analysis"].Status)

	file := filepath.Join(t.TempDir(), "out")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	hs = NewHealthService("dev", file, NewAnalysisService(nil, nil, nil), nil)
	ready = hs.ReadinessCheck(ctx)
	assert.Equal(t, "not_ready", ready.Status)
	assert.Equal(t, "not_ready", ready.Services["output"].Status)
}

func TestHealthService_MissingOutputDirIsReady(t *testing.T) {
	hs := NewHealthService("dev", filepath.Join(t.TempDir(), "later"), NewAnalysisService(nil, nil, nil), nil)
	assert.Equal(t, "ready", hs.ReadinessCheck(context.Background()).Status)
}
