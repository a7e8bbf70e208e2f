package testutil

import (
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBufferedSlogHandler(t *testing.T) {
	t.Run("captures records and levels", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.Info("loaded", slog.String("key", "value"))
		logger.Warn("cost file missing")
		logger.Error("run failed", slog.Int("code", 500))

		assert.Equal(t, 3, handler.Count())
		assert.True(t, handler.ContainsMessage("loaded"))
		assert.True(t, handler.ContainsAttr("key", "value"))
		assert.Len(t, handler.GetRecordsByLevel(slog.LevelWarn), 1)
		AssertLogContains(t, handler, slog.LevelWarn, "cost file")

		handler.Clear()
		assert.Zero(t, handler.Count())
	})

	t.Run("bound attributes are captured", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.With(slog.String("component", "analysis_service")).
			With(slog.String("run", "r1")).
			Info("done")

		AssertLogAttr(t, handler, "component", "analysis_service")
		AssertLogAttr(t, handler, "run", "r1")
		AssertNoErrors(t, handler)
	})

	t.Run("groups flatten to dotted keys", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.WithGroup("run").Info("done", slog.String("label", "week45"))
		logger.Info("totals", slog.Group("overview", slog.String("net_profit", "137.5")))

		AssertLogAttr(t, handler, "run.label", "week45")
		AssertLogAttr(t, handler, "overview.net_profit", "137.5")
	})

	t.Run("thread safety", func(t *testing.T) {
		logger, handler := NewTestLogger(nil)

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func(n int) {
				defer wg.Done()
				logger.Info("concurrent log", slog.Int("goroutine", n))
			}(i)
		}
		wg.Wait()

		assert.Equal(t, 10, handler.Count())
	})
}
