package trace

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
)

// Request headers checked for an inbound trace ID, in priority order.
const (
	HeaderRequestID   = "X-Request-ID"
	HeaderTraceparent = "Traceparent"
	HeaderXB3         = "X-B3-TraceId"
	HeaderSessionID   = "X-Session-Id"
)

var traceHeaders = []string{
	HeaderTraceparent,
	HeaderRequestID,
	HeaderXB3,
}

type sessionIDContextKey struct{}

// SetSessionIDInContext stores a client session ID so log lines can
// correlate requests across one pipeline submission.
func SetSessionIDInContext(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionIDContextKey{}, sessionID)
}

func GetSessionIDFromContext(ctx context.Context) string {
	if sessionID, ok := ctx.Value(sessionIDContextKey{}).(string); ok {
		return sessionID
	}
	return ""
}

// traceContextKey keys the traceparent string in a context.Context. A
// private struct type avoids collisions with other packages.
type traceContextKey struct{}

// GetOrGenTraceID resolves the trace ID for a request, generating one
// when neither the headers nor the OpenTelemetry span carry it. The
// resolved traceparent is injected back into the request context so
// downstream log handlers see the same ID.
func GetOrGenTraceID(c *gin.Context) string {
	traceID := GetTraceIDInGinContext(c)
	traceparent := ""
	if traceID == "" {
		traceID, traceparent, _ = GetOrGenTraceIDFromContext(c.Request.Context())
	}
	c.Set(HeaderRequestID, traceID)

	spanCtx := trace.SpanContextFromContext(c.Request.Context())

	// traceID may have come from the gin cache without a traceparent;
	// rebuild one from the live span when possible
	if traceparent == "" && spanCtx.HasTraceID() {
		traceparent = fmt.Sprintf("00-%s-%s-%02x", spanCtx.TraceID().String(), spanCtx.SpanID().String(), spanCtx.TraceFlags())
	}

	if traceparent == "" {
		traceparent = fmt.Sprintf("00-%s-00000000-01", traceID)
	}

	reqCtx := setTraceIDInRequestContext(c.Request.Context(), traceparent)
	c.Request = c.Request.WithContext(reqCtx)

	return traceID
}

// GetTraceIDInGinContext checks the gin key cache, then the otel span,
// then the inbound headers. Returns "" when nothing carries a trace ID.
func GetTraceIDInGinContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	if traceID, ok := c.Get(HeaderRequestID); ok {
		if tid, ok := traceID.(string); ok {
			return tid
		}
	}

	if c.Request == nil || c.Request.Context() == nil {
		return ""
	}
	span := trace.SpanFromContext(c.Request.Context())
	if span.SpanContext().HasTraceID() {
		return span.SpanContext().TraceID().String()
	}

	for _, header := range traceHeaders {
		headerValue := c.Request.Header.Get(header)
		if headerValue == "" {
			continue
		}
		if header == HeaderTraceparent {
			// W3C format: version-traceid-spanid-traceflags
			if traceID := TraceIDFromTraceparent(headerValue); traceID != "" {
				return traceID
			}
			continue
		}
		return headerValue
	}
	return ""
}

// TraceIDFromTraceparent extracts the trace ID field from a W3C
// traceparent header value, or "" when the value is malformed.
func TraceIDFromTraceparent(traceparent string) string {
	parts := strings.Split(traceparent, "-")
	if len(parts) == 4 {
		return parts[1]
	}
	return ""
}

func setTraceIDInRequestContext(ctx context.Context, traceparent string) context.Context {
	return context.WithValue(ctx, traceContextKey{}, traceparent)
}

// GetTraceIDFromContext reads trace info from the context value or the
// OpenTelemetry span. It never generates a new ID.
func GetTraceIDFromContext(ctx context.Context) (traceID, traceParent string) {
	if ctx == nil {
		return "", ""
	}

	// *gin.Context.Value does not reliably delegate struct keys to
	// Request.Context(), so unwrap it first
	if c, ok := ctx.(*gin.Context); ok && c.Request != nil && c.Request.Context() != nil {
		ctx = c.Request.Context()
	}

	if values := ctx.Value(traceContextKey{}); values != nil {
		if traceParent, ok := values.(string); ok {
			return TraceIDFromTraceparent(traceParent), traceParent
		}
	}

	spanCtx := trace.SpanContextFromContext(ctx)
	if spanCtx.HasTraceID() && spanCtx.TraceID().String() != (trace.TraceID{}).String() {
		traceID = spanCtx.TraceID().String()
		spanID := spanCtx.SpanID().String()
		if spanID != (trace.SpanID{}).String() {
			traceParent = fmt.Sprintf("00-%s-%s-%02x", traceID, spanID, spanCtx.TraceFlags())
			return traceID, traceParent
		}
	}

	return "", ""
}

// GetOrGenTraceIDFromContext reads trace info from the context or
// makes fresh IDs. isNew reports whether the IDs were generated here.
func GetOrGenTraceIDFromContext(ctx context.Context) (traceID, traceParent string, isNew bool) {
	traceID, traceParent = GetTraceIDFromContext(ctx)
	if traceID != "" {
		return traceID, traceParent, false
	}

	traceID = strings.ReplaceAll(uuid.New().String(), "-", "")
	spanIDBytes := make([]byte, 8)
	_, _ = rand.Read(spanIDBytes)
	spanID := hex.EncodeToString(spanIDBytes)
	// version 00, sampled flag 01
	traceParent = fmt.Sprintf("00-%s-%s-01", traceID, spanID)

	return traceID, traceParent, true
}
