package middleware

import (
	"log/slog"

	"github.com/labstack/echo/v4"

	deliverycontext "plantcare/internal/delivery/context"
)

// RequestContext stamps each request with an id and a request-scoped logger,
// both reachable from the standard context so the usecase layer can log with
// the request id attached.
type RequestContext struct {
	logger *slog.Logger
}

// NewRequestContext creates the request-context middleware.
func NewRequestContext(logger *slog.Logger) *RequestContext {
	return &RequestContext{logger: logger}
}

// Handle assigns the request id (honouring an inbound X-Request-Id header)
// and injects a logger carrying it.
func (m *RequestContext) Handle(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := c.Request().Header.Get(deliverycontext.HeaderXRequestID)
		if requestID == "" {
			requestID = deliverycontext.GetRequestID(c)
		}
		deliverycontext.SetRequestID(c, requestID)
		c.Response().Header().Set(deliverycontext.HeaderXRequestID, requestID)

		requestLogger := m.logger.With(slog.String("requestID", requestID))

		ctx := c.Request().Context()
		ctx = deliverycontext.WithRequestID(ctx, requestID)
		ctx = deliverycontext.WithLogger(ctx, requestLogger)
		c.SetRequest(c.Request().WithContext(ctx))

		return next(c)
	}
}
