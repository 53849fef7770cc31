package server

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
)

const requestIDKey = "request_id"

// RequestLogger assigns every request an id, echoes it in X-Request-ID and
// writes one access log line when the handler returns. A request id supplied
// by the client is kept.
func RequestLogger(logger *log.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			id := c.Request().Header.Get(echo.HeaderXRequestID)
			if id == "" {
				id = uuid.NewString()
			}
			c.Set(requestIDKey, id)
			c.Response().Header().Set(echo.HeaderXRequestID, id)

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			fields := log.Fields{
				requestIDKey: id,
				"method":     c.Request().Method,
				"path":       c.Path(),
				"status":     c.Response().Status,
				"bytes":      c.Response().Size,
				"latency_ms": time.Since(start).Milliseconds(),
			}
			entry := logger.WithFields(fields)
			if err != nil {
				entry.WithError(err).Warn("request failed")
			} else {
				entry.Info("request served")
			}
			return nil
		}
	}
}

// requestLogger returns a logger carrying the request id.
func requestLogger(c echo.Context, logger *log.Logger) *log.Entry {
	id, _ := c.Get(requestIDKey).(string)
	return logger.WithField(requestIDKey, id)
}
