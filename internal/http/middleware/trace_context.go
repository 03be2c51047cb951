package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/dsaquest-backend/internal/platform/ctxutil"
)

const (
	headerTraceID   = "X-Trace-Id"
	headerRequestID = "X-Request-Id"
)

func AttachTraceContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := strings.TrimSpace(c.GetHeader(headerRequestID))
		if reqID == "" {
			reqID = uuid.New().String()
		}
		traceID := strings.TrimSpace(c.GetHeader(headerTraceID))
		if traceID == "" {
			spanCtx := trace.SpanContextFromContext(c.Request.Context())
			if spanCtx.HasTraceID() {
				traceID = spanCtx.TraceID().String()
			}
		}
		if traceID == "" {
			traceID = uuid.New().String()
		}
		ctx := ctxutil.WithTraceData(c.Request.Context(), &ctxutil.TraceData{
			TraceID:   traceID,
			RequestID: reqID,
		})
		c.Request = c.Request.WithContext(ctx)
		c.Set("trace_id", traceID)
		c.Set("request_id", reqID)
		c.Writer.Header().Set(headerTraceID, traceID)
		c.Writer.Header().Set(headerRequestID, reqID)
		c.Next()
		tagSpan(c, reqID)
	}
}

// tagSpan labels the request span with the caller and lesson once the auth
// middleware and handlers have run.
func tagSpan(c *gin.Context, reqID string) {
	span := trace.SpanFromContext(c.Request.Context())
	if !span.IsRecording() {
		return
	}
	attrs := []attribute.KeyValue{attribute.String("dsaquest.request_id", reqID)}
	if rd := ctxutil.GetRequestData(c.Request.Context()); rd != nil {
		attrs = append(attrs,
			attribute.String("dsaquest.user_id", rd.UserID.String()),
			attribute.String("dsaquest.role", rd.Role),
		)
	}
	if lesson := c.Param("externalId"); lesson != "" {
		attrs = append(attrs, attribute.String("dsaquest.lesson", lesson))
	}
	span.SetAttributes(attrs...)
}
