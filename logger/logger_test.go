package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	previous := Log
	Log = zap.New(core)
	t.Cleanup(func() { Log = previous })

	handler := RequestLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/delivery-session/1/started-work", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "request handled", entry.Message)

	fields := entry.ContextMap()
	assert.Equal(t, "/api/delivery-session/1/started-work", fields["uri"])
	assert.Equal(t, http.MethodPut, fields["method"])
	assert.EqualValues(t, http.StatusTeapot, fields["status"])
}

func TestHijackUnsupported(t *testing.T) {
	rw := newResponseWriter(httptest.NewRecorder())
	_, _, err := rw.Hijack()
	assert.Error(t, err)
}

func TestInitialize(t *testing.T) {
	previous := Log
	t.Cleanup(func() { Log = previous })

	require.NoError(t, Initialize("debug", "development"))
	assert.True(t, Log.Core().Enabled(zap.DebugLevel))

	require.NoError(t, Initialize("warn", "production"))
	assert.False(t, Log.Core().Enabled(zap.InfoLevel))

	assert.Error(t, Initialize("loud", "production"))
}
