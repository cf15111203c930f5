package trace

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/trace"
)

func newTestGinContext(t *testing.T) *gin.Context {
	t.Helper()
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request, _ = http.NewRequest("GET", "/", nil)
	return c
}

func TestGetOrGenTraceID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("generates a fresh trace id", func(t *testing.T) {
		c := newTestGinContext(t)
		traceID := GetOrGenTraceID(c)
		assert.NotEmpty(t, traceID)
		assert.NotEqual(t, trace.TraceID{}.String(), traceID)

		stored, exists := c.Get(HeaderRequestID)
		assert.True(t, exists)
		assert.Equal(t, traceID, stored)

		// the generated id is cached, repeat calls return the same one
		assert.Equal(t, traceID, GetOrGenTraceID(c))

		// and the traceparent lands in the request context for log handlers
		gotID, gotParent := GetTraceIDFromContext(c.Request.Context())
		assert.Equal(t, traceID, gotID)
		assert.NotEmpty(t, gotParent)
	})

	t.Run("reuses the gin cached id", func(t *testing.T) {
		c := newTestGinContext(t)
		c.Set(HeaderRequestID, "run-7f3a")
		assert.Equal(t, "run-7f3a", GetOrGenTraceID(c))
	})

	t.Run("extracts from inbound headers", func(t *testing.T) {
		testCases := []struct {
			headerKey       string
			headerValue     string
			expectedTraceID string
		}{
			{HeaderTraceparent, "00-0af7651916cd43dd8448eb211c80319c-b7ad6b7169203331-01", "0af7651916cd43dd8448eb211c80319c"},
			{HeaderRequestID, "req-8812", "req-8812"},
			{HeaderXB3, "b3-trace-id", "b3-trace-id"},
		}

		for _, tc := range testCases {
			t.Run(tc.headerKey, func(t *testing.T) {
				c := newTestGinContext(t)
				c.Request.Header.Set(tc.headerKey, tc.headerValue)
				assert.Equal(t, tc.expectedTraceID, GetOrGenTraceID(c))
			})
		}
	})

	t.Run("malformed traceparent falls through", func(t *testing.T) {
		c := newTestGinContext(t)
		c.Request.Header.Set(HeaderTraceparent, "00-not-a-real-traceparent-value-01")
		c.Request.Header.Set(HeaderRequestID, "req-fallback")
		assert.Equal(t, "req-fallback", GetOrGenTraceID(c))
	})
}

func TestTraceIDFromTraceparent(t *testing.T) {
	assert.Equal(t, "0af7651916cd43dd8448eb211c80319c",
		TraceIDFromTraceparent("00-0af7651916cd43dd8448eb211c80319c-b7ad6b7169203331-01"))
	assert.Empty(t, TraceIDFromTraceparent("garbage"))
	assert.Empty(t, TraceIDFromTraceparent("00-too-many-dashes-in-here-01"))
}

func TestSessionIDContext(t *testing.T) {
	c := newTestGinContext(t)
	ctx := SetSessionIDInContext(c.Request.Context(), "sess-42")
	assert.Equal(t, "sess-42", GetSessionIDFromContext(ctx))
	assert.Empty(t, GetSessionIDFromContext(c.Request.Context()))
}
