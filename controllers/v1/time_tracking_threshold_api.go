package apiv1

import (
	"time-tracker-backend/controllers"
	ttthresholdhandler "time-tracker-backend/lib/time-tracking/threshold"
	"time-tracker-backend/middleware"
	apimodels "time-tracker-backend/models/api"
	ttapimodels "time-tracker-backend/models/api/timetracking"

	"github.com/gofiber/fiber/v2"
)

type timeTrackingThresholdApiController struct {
	controllers.BaseAPIController
}

func InitTimeTrackingThresholdApiRouters(router fiber.Router) {
	controller := timeTrackingThresholdApiController{}
	router.Get("threshold", controller.get)
	router.Put("threshold", controller.update)
}

// @Summary Workspace threshold
// @Tags Time tracking threshold
// @Param   Authorization	header		string	true	"Authorization token"
// @Param   wsId			path		string	true	"workspace ID"
// @Success 200 {object} ttapimodels.ThresholdView
// @Failure 403 {object} apimodels.ErrorResponse
// @Failure 500 {object} apimodels.ErrorResponse
// @router /api/v1/workspaces/{wsId}/time-tracking/threshold [get]
func (c *timeTrackingThresholdApiController) get(ctx *fiber.Ctx) error {
	resp, err := ttthresholdhandler.Instance.Get(middleware.GetUserSpace(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "error getting threshold")
	}
	return ctx.Status(fiber.StatusOK).JSON(resp)
}

// @Summary Update workspace threshold
// @Tags Time tracking threshold
// @Description threshold is a number of days, null auto-approves every new request
// @Param   Authorization	header		string	true	"Authorization token"
// @Param   wsId			path		string	true	"workspace ID"
// @Param	body body	 ttapimodels.ThresholdData	true	"request body"
// @Success 200 {object} ttapimodels.ThresholdView
// @Failure 400 {object} apimodels.ErrorResponse
// @Failure 403 {object} apimodels.ErrorResponse
// @Failure 500 {object} apimodels.ErrorResponse
// @router /api/v1/workspaces/{wsId}/time-tracking/threshold [put]
func (c *timeTrackingThresholdApiController) update(ctx *fiber.Ctx) error {
	var payload ttapimodels.ThresholdData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := ttthresholdhandler.Instance.Update(middleware.GetUserSpace(ctx), middleware.GetUserID(ctx), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "error updating threshold")
	}
	return ctx.Status(fiber.StatusOK).JSON(resp)
}
