package logger

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithCtxFallsBackToBase(t *testing.T) {
	assert.Same(t, L, WithCtx(context.Background()))
}

func TestSetupSwitchesHandlerByEnv(t *testing.T) {
	t.Cleanup(func() { Setup(os.Stdout, "local") })

	var buf bytes.Buffer
	Setup(&buf, "production")
	L.Debug("hidden")
	L.Info("product created", "product_id", "p1")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"product created"`)
	assert.Same(t, L, slog.Default())

	buf.Reset()
	Setup(&buf, "local")
	L.Debug("visible")
	assert.Contains(t, buf.String(), "msg=visible")
}

func TestInjectLogger(t *testing.T) {
	var buf bytes.Buffer
	reqLog := slog.New(slog.NewTextHandler(&buf, nil)).With("request_id", "abc")

	ctx := InjectLogger(context.Background(), reqLog)
	WithCtx(ctx).Info("hello")

	assert.Contains(t, buf.String(), "request_id=abc")
	assert.Contains(t, buf.String(), "msg=hello")
}

func TestMultiHandlerFansOut(t *testing.T) {
	var a, b bytes.Buffer
	h := NewMultiHandler(
		slog.NewTextHandler(&a, &slog.HandlerOptions{Level: slog.LevelDebug}),
		slog.NewJSONHandler(&b, &slog.HandlerOptions{Level: slog.LevelWarn}),
	)
	log := slog.New(h).With("component", "test")

	log.Debug("only text")
	log.Warn("both")

	assert.Contains(t, a.String(), "only text")
	assert.Contains(t, a.String(), "both")
	assert.NotContains(t, b.String(), "only text")
	assert.Contains(t, b.String(), `"msg":"both"`)
	assert.Contains(t, b.String(), `"component":"test"`)
}
