package fiberlog

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestLogger(t *testing.T) {
	buf := new(bytes.Buffer)
	logger := logrus.New()
	logger.SetOutput(buf)
	logger.SetFormatter(&logrus.JSONFormatter{})

	app := fiber.New()
	app.Use(New(Config{
		Logger: logger,
		Tags:   []string{TagMethod, TagPath, TagRoute, TagStatus, "unknown"},
	}))
	app.Get("/items/:id", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/items/42", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	entry := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "warning", entry["level"])
	require.Equal(t, "GET", entry[TagMethod])
	require.Equal(t, "/items/42", entry[TagPath])
	require.Equal(t, "/items/:id", entry[TagRoute])
	require.EqualValues(t, fiber.StatusNotFound, entry[TagStatus])
	require.NotContains(t, entry, "unknown")
}

func TestTruncate(t *testing.T) {
	require.Equal(t, "short", truncate([]byte("short")))
	long := bytes.Repeat([]byte("a"), maxBodyLen+10)
	require.Len(t, truncate(long), maxBodyLen+3)
}

func TestLoggerSkipsByNext(t *testing.T) {
	buf := new(bytes.Buffer)
	logger := logrus.New()
	logger.SetOutput(buf)

	app := fiber.New()
	app.Use(New(Config{
		Logger: logger,
		Tags:   []string{TagPath},
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/health"
		},
	}))
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/health", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Zero(t, buf.Len())
}
