package errors

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// HTTPErrorHandler is the catch-all responder for errors returned by handlers.
// Echo errors keep their status and body; everything else is logged and
// answered with a generic 500.
func HTTPErrorHandler(l *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			l.Warn("error after response was committed",
				zap.String("uri", c.Request().RequestURI),
				zap.Error(err),
			)
			return
		}

		var (
			status int
			body   interface{}
		)

		var he *echo.HTTPError
		switch {
		case errors.As(err, &he):
			status = he.Code
			if msg, ok := he.Message.(string); ok {
				body = ErrorResponse{Error: msg}
			} else {
				body = he.Message
			}
			if status >= http.StatusInternalServerError {
				l.Error("request failed",
					zap.String("uri", c.Request().RequestURI),
					zap.Int("status", status),
					zap.Error(err),
				)
			}
		default:
			httpErr := MapErrorToHTTP(err)
			status = httpErr.StatusCode
			if errors.Is(err, ErrUnauthenticated) || errors.Is(err, ErrConfiguration) {
				// Authentication failures answer with {msg}.
				body = MessageResponse{Msg: httpErr.Message}
			} else {
				body = httpErr.ToErrorResponse()
			}
			if status >= http.StatusInternalServerError {
				l.Error("unhandled error",
					zap.String("method", c.Request().Method),
					zap.String("uri", c.Request().RequestURI),
					zap.Error(err),
				)
			}
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(status)
		} else {
			writeErr = c.JSON(status, body)
		}
		if writeErr != nil {
			l.Error("write error response", zap.Error(writeErr))
		}
	}
}
