package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerCarriesContextAttrs(t *testing.T) {
	var buf bytes.Buffer
	log := Logger(&buf, true, slog.LevelDebug)

	ctx := AppendCtx(context.Background(), slog.String("run", "abc"))
	ctx = AppendCtx(ctx, slog.String("file", "lena.png"))
	log.InfoContext(ctx, "compressed", "drop_rate", 0.5)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "compressed", rec["msg"])
	assert.Equal(t, "abc", rec["run"])
	assert.Equal(t, "lena.png", rec["file"])
	assert.Equal(t, 0.5, rec["drop_rate"])
}

func TestAppendCtxDoesNotLeakIntoParent(t *testing.T) {
	parent := AppendCtx(context.Background(), slog.String("a", "1"))
	_ = AppendCtx(parent, slog.String("b", "2"))

	var buf bytes.Buffer
	Logger(&buf, false, slog.LevelInfo).InfoContext(parent, "hello")
	assert.Contains(t, buf.String(), "a=1")
	assert.NotContains(t, buf.String(), "b=2")
}

func TestLoggerLevel(t *testing.T) {
	var buf bytes.Buffer
	log := Logger(&buf, false, slog.LevelWarn)
	log.Info("quiet")
	assert.Empty(t, buf.String())
	log.Warn("loud")
	assert.Contains(t, buf.String(), "loud")
}

func TestParseLevel(t *testing.T) {
	lvl, ok := ParseLevel("debug")
	assert.True(t, ok)
	assert.Equal(t, slog.LevelDebug, lvl)

	lvl, ok = ParseLevel("chatty")
	assert.False(t, ok)
	assert.Equal(t, slog.LevelInfo, lvl)
}

func TestRotatingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fftcompress.log")
	w := RotatingFile(path, 1, 1, 1)
	log := Logger(w, false, slog.LevelInfo)
	log.Info("written")
	require.NoError(t, w.Close())
	assert.FileExists(t, path)
}
