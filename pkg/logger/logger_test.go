package logger

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	appctx "storedesk/internal/core/context"
)

func TestWithContext_AddsTraceAndUser(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	SetDefault(&Logger{zap.New(core).Sugar()})
	t.Cleanup(func() { SetDefault(nil) })

	ctx := appctx.WithTrace(context.Background(), &appctx.TraceContext{TraceID: "t-1", RequestID: "r-1"})
	ctx = appctx.WithUser(ctx, &appctx.UserContext{UserID: "u-7"})

	Info(ctx, "invoice payment applied", "amount", "150")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "t-1", fields["trace_id"])
	assert.Equal(t, "r-1", fields["request_id"])
	assert.Equal(t, "u-7", fields["user_id"])
	assert.Equal(t, "150", fields["amount"])
}

func TestNew_FileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storedesk.log")
	l, err := New(Config{
		Level:       "debug",
		OutputPaths: []string{"stderr"},
		File:        FileConfig{Path: path, MaxSizeMB: 1},
	})
	require.NoError(t, err)
	l.Infow("started")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"started"`)
}
