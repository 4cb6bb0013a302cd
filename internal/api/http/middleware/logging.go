package middleware

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/shehanaraph-lab/Finnacle/internal/logger"
)

// Logging logs HTTP requests and results.
type Logging struct {
	logger *logger.Logger
}

// NewLogging creates a new Logging middleware.
func NewLogging(logger *logger.Logger) *Logging {
	return &Logging{logger: logger}
}

// Handle logs method, route, status and duration for each request. Errors are
// rendered through the echo error handler first so the final status is known.
func (l *Logging) Handle(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		req := c.Request()

		l.logger.Debug("HTTP request started",
			"method", req.Method,
			"uri", req.RequestURI,
			"remote_ip", c.RealIP())

		err := next(c)
		if err != nil {
			c.Error(err)
		}

		status := c.Response().Status
		l.logger.Info("HTTP request completed",
			"method", req.Method,
			"route", c.Path(),
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
			"bytes_out", c.Response().Size)

		if status >= 500 && err != nil {
			l.logger.Error("HTTP request failed",
				"method", req.Method,
				"route", c.Path(),
				"error", err.Error(),
				"status", status)
		}

		return nil
	}
}
