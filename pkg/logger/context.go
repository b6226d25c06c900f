package logger

import (
	"context"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type contextKey string

const loggerKey contextKey = "logger"

// EchoKey is the echo context key holding the request-scoped logger
const EchoKey = "logger"

// FromContext returns the request-scoped logger carried by ctx, or the global
// logger when ctx has none (background jobs, tests)
func FromContext(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(loggerKey).(*zap.Logger); ok {
		return l
	}
	return GetLogger()
}

// WithContext returns a copy of ctx carrying l
func WithContext(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromEcho returns the logger bound by Bind, which carries the request_id
// field. Falls back to the global logger on routes without that middleware.
func FromEcho(c echo.Context) *zap.Logger {
	if l, ok := c.Get(EchoKey).(*zap.Logger); ok {
		return l
	}
	return GetLogger()
}

// Bind attaches l to the echo context and to the request context, so both
// handlers and the services they call log with the same fields
func Bind(c echo.Context, l *zap.Logger) {
	c.Set(EchoKey, l)
	c.SetRequest(c.Request().WithContext(WithContext(c.Request().Context(), l)))
}
