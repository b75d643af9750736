package controllers

import (
	"strings"
	"time-tracker-backend/middleware"
	"time-tracker-backend/models"
	apimodels "time-tracker-backend/models/api"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type BaseAPIController struct{}

func (c *BaseAPIController) BodyParser(ctx *fiber.Ctx, out interface{}) error {
	if err := ctx.BodyParser(out); err != nil {
		log.WithError(err).Error("error parsing request body")
		return errors.New("unable to read request data")
	}
	return nil
}

func (c *BaseAPIController) GetID(ctx *fiber.Ctx) (string, error) {
	return c.GetIDByKey(ctx, "id")
}

func (c *BaseAPIController) GetIDByKey(ctx *fiber.Ctx, key string) (string, error) {
	id := strings.TrimSpace(ctx.Params(key))
	if id == "" {
		return "", errors.Errorf("%v is not set", key)
	}
	return id, nil
}

func (c *BaseAPIController) GetLogger(ctx *fiber.Ctx) *log.Entry {
	return log.
		WithField("space_id", middleware.GetUserSpace(ctx)).
		WithField("user_id", middleware.GetUserID(ctx)).
		WithField("method", ctx.Method()).
		WithField("path", ctx.Path())
}

// SendError writes the workflow error message as is, anything else becomes a 500 with the fallback message
func (c *BaseAPIController) SendError(ctx *fiber.Ctx, logger *log.Entry, err error, fallback string) error {
	kind := models.KindOf(err)
	if kind == models.ErrKindUpstream {
		logger.WithError(err).Error(fallback)
		return ctx.Status(fiber.StatusInternalServerError).JSON(apimodels.NewError(fallback))
	}
	return ctx.Status(StatusOf(kind)).JSON(apimodels.NewError(err.Error()))
}

func StatusOf(kind models.ErrorKind) int {
	switch kind {
	case models.ErrKindValidation:
		return fiber.StatusBadRequest
	case models.ErrKindForbidden:
		return fiber.StatusForbidden
	case models.ErrKindNotFound:
		return fiber.StatusNotFound
	case models.ErrKindInvalidState:
		return fiber.StatusConflict
	}
	return fiber.StatusInternalServerError
}
