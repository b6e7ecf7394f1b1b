package middleware

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/trace"
)

// Trace starts a server span per request. With tracing disabled the global provider is a no-op.
func Trace(serviceName string) gin.HandlerFunc {
	return otelgin.Middleware(serviceName)
}

// TraceID echoes the active trace id in X-Trace-ID.
func TraceID() gin.HandlerFunc {
	return func(c *gin.Context) {
		sc := trace.SpanFromContext(c.Request.Context()).SpanContext()
		if sc.IsValid() {
			c.Set("trace_id", sc.TraceID().String())
			c.Header("X-Trace-ID", sc.TraceID().String())
		}
		c.Next()
	}
}
