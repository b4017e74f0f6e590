package server

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewRouter_LeavesRoutePrinterAlone(t *testing.T) {
	prev := gin.DebugPrintRouteFunc
	t.Cleanup(func() { gin.DebugPrintRouteFunc = prev })

	gin.DebugPrintRouteFunc = nil
	NewRouter()
	NewRouter()
	assert.Nil(t, gin.DebugPrintRouteFunc)
}

func TestRouteDebugPrinter(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	RouteDebugPrinter(zap.New(core))(http.MethodGet, "/users/:userId", "handler", 5)

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "/users/:userId", fields["path"])
	assert.Equal(t, http.MethodGet, fields["method"])
	assert.EqualValues(t, 5, fields["handlers"])
}

func TestShutdown_SkipsNilServers(t *testing.T) {
	srv := BuildServer(Addr("127.0.0.1", 0), http.NotFoundHandler(), Timeouts{}, zap.NewNop())
	assert.NotPanics(t, func() { Shutdown(context.Background(), zap.NewNop(), nil, srv) })
}
