package audit

import (
	"context"
	"testing"

	"github.com/dropDatabas3/audiohub/internal/observability/logger"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogUsesContextLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	base := zap.New(core).With(logger.RequestID("req-1"))
	ctx := logger.ToContext(context.Background(), base)

	Log(ctx, UserDeleted, logger.UserID(7), logger.Int64("actor_id", 1))

	entries := logs.All()
	require.Len(t, entries, 1)
	e := entries[0]
	require.Equal(t, "audit", e.LoggerName)
	require.Equal(t, "admin.user_deleted", e.Message)

	fields := e.ContextMap()
	require.Equal(t, "req-1", fields["request_id"])
	require.Equal(t, "7", fields["user_id"])
	require.Equal(t, int64(1), fields["actor_id"])
	require.Equal(t, "admin.user_deleted", fields["event"])
}
