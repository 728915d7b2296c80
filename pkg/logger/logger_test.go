package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/langsync/pkg/logger"
)

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("text format with run id", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := logger.New(logger.Config{Level: slog.LevelInfo}, &buf, logger.RunIDExtractor())

		ctx := logger.WithRunID(context.Background(), "run-1")
		log.InfoContext(ctx, "merged file", slog.String("path", "pt_BR/auth.php"))
		log.DebugContext(ctx, "hidden")

		out := buf.String()
		require.Contains(t, out, `msg="merged file"`)
		require.Contains(t, out, "path=pt_BR/auth.php")
		require.Contains(t, out, "run_id=run-1")
		require.NotContains(t, out, "hidden")
	})

	t.Run("json format", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := logger.New(logger.Config{Level: slog.LevelDebug, Format: logger.FormatJSON}, &buf)
		log.Debug("sorted", slog.Int("files", 2))

		var rec map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
		require.Equal(t, "sorted", rec["msg"])
		require.Equal(t, "DEBUG", rec["level"])
		require.InDelta(t, 2, rec["files"], 0)
	})

	t.Run("no run id in context", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := logger.New(logger.Config{}, &buf, logger.RunIDExtractor(), nil)
		log.InfoContext(context.Background(), "plain")
		require.NotContains(t, buf.String(), "run_id")
	})

	t.Run("attributes survive WithAttrs and WithGroup", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := logger.New(logger.Config{}, &buf, logger.RunIDExtractor()).
			With(slog.String("language", "fr")).
			WithGroup("merge")

		log.InfoContext(logger.WithRunID(context.Background(), "r2"), "done", slog.Int("added", 3))
		out := buf.String()
		require.Contains(t, out, "language=fr")
		require.Contains(t, out, "merge.added=3")
		require.Contains(t, out, "merge.run_id=r2")
	})
}

func TestNewWithSentry_WithoutDSN(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.NewWithSentry(logger.Config{}, logger.SentryConfig{}, &buf)
	log.Warn("conflict", slog.String("key", "auth.failed"))

	require.Contains(t, buf.String(), "key=auth.failed")
	require.True(t, logger.Flush(0))
}

func TestFormat(t *testing.T) {
	t.Parallel()

	var f logger.Format
	require.NoError(t, f.UnmarshalText([]byte("JSON")))
	require.Equal(t, logger.FormatJSON, f)

	require.ErrorIs(t, f.UnmarshalText([]byte("xml")), logger.ErrInvalidFormat)
	require.NoError(t, logger.Format("").Validate())
}

func TestRunID(t *testing.T) {
	t.Parallel()

	id := logger.NewRunID()
	require.Len(t, id, 36)
	require.NotEqual(t, id, logger.NewRunID())

	_, ok := logger.RunIDFromContext(context.Background())
	require.False(t, ok)

	got, ok := logger.RunIDFromContext(logger.WithRunID(context.Background(), id))
	require.True(t, ok)
	require.Equal(t, id, got)
}

func TestNewNope(t *testing.T) {
	t.Parallel()

	log := logger.NewNope()
	require.False(t, log.Enabled(context.Background(), slog.LevelError))
}
