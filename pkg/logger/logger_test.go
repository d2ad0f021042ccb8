package logger

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"vendor-service/pkg/config"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestInitLogger_ReplacesGlobals(t *testing.T) {
	prev := GetLogger()
	t.Cleanup(func() { SetLogger(prev) })

	InitLogger(&config.Config{Server: config.ServerConfig{Env: "production"}, Log: config.LogConfig{Level: "warn"}})

	assert.Same(t, GetLogger(), zap.L())
	assert.False(t, GetLogger().Core().Enabled(zap.InfoLevel))
	assert.True(t, GetLogger().Core().Enabled(zap.WarnLevel))
}

func TestFromCtx_FallsBackToGlobal(t *testing.T) {
	assert.Same(t, GetLogger(), FromCtx(context.Background()))
}

func TestRequestContext_CarriesEchoLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	scoped := zap.New(core).With(zap.String("request_id", "abc"))

	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	c.Set("logger", scoped)

	FromCtx(RequestContext(c)).Info("hello")

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, "abc", entries[0].ContextMap()["request_id"])
	}
}
