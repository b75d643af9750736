package middleware

import (
	"net/http"
	"time"
	"time-tracker-backend/lib/metrics"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

// Metrics records every api call under its route template and logs server errors
func Metrics() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		statusCode := c.Response().StatusCode()
		if err != nil {
			if fErr, ok := err.(*fiber.Error); ok {
				statusCode = fErr.Code
			} else {
				statusCode = http.StatusInternalServerError
			}
		}

		path := c.Path()
		if r := c.Route(); r != nil {
			path = r.Path
		}
		metrics.RecordHTTPRequest(c.Method(), path, statusCode, time.Since(start).Seconds())

		if statusCode >= http.StatusInternalServerError {
			log.
				WithField("code", statusCode).
				WithField("method", c.Method()).
				WithField("path", path).
				Warn(string(c.Response().Body()))
		}
		return err
	}
}
