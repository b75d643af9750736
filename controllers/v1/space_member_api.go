package apiv1

import (
	"time-tracker-backend/controllers"
	spaceusershandler "time-tracker-backend/lib/space/users/handler"
	"time-tracker-backend/middleware"
	apimodels "time-tracker-backend/models/api"
	spaceapimodels "time-tracker-backend/models/api/space"

	"github.com/gofiber/fiber/v2"
)

type spaceMemberApiController struct {
	controllers.BaseAPIController
}

func InitSpaceMemberApiRouters(router fiber.Router) {
	controller := spaceMemberApiController{}
	router.Route("members", func(router fiber.Router) {
		router.Get("", controller.list)
		router.Put(":userId", controller.upsert)
	})
}

// @Summary Member profiles
// @Tags Workspace members
// @Param   Authorization	header		string	true	"Authorization token"
// @Param   wsId			path		string	true	"workspace ID"
// @Param   page			query		int		false	"page"
// @Param   limit			query		int		false	"page size"
// @Success 200 {object} spaceapimodels.MemberListView
// @Failure 403 {object} apimodels.ErrorResponse
// @Failure 500 {object} apimodels.ErrorResponse
// @router /api/v1/workspaces/{wsId}/members [get]
func (c *spaceMemberApiController) list(ctx *fiber.Ctx) error {
	var pagination apimodels.Pagination
	if err := ctx.QueryParser(&pagination); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("invalid pagination"))
	}
	resp, err := spaceusershandler.Instance.GetList(middleware.GetUserSpace(ctx), pagination)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "error getting members")
	}
	return ctx.Status(fiber.StatusOK).JSON(resp)
}

// @Summary Sync member profile
// @Tags Workspace members
// @Description Creates or overwrites the profile used for activity snapshots and notifications
// @Param   Authorization	header		string	true	"Authorization token"
// @Param   wsId			path		string	true	"workspace ID"
// @Param   userId			path		string	true	"user ID"
// @Param	body body	 spaceapimodels.MemberData	true	"request body"
// @Success 200 {object} spaceapimodels.MemberView
// @Failure 400 {object} apimodels.ErrorResponse
// @Failure 403 {object} apimodels.ErrorResponse
// @Failure 500 {object} apimodels.ErrorResponse
// @router /api/v1/workspaces/{wsId}/members/{userId} [put]
func (c *spaceMemberApiController) upsert(ctx *fiber.Ctx) error {
	userID, err := c.GetIDByKey(ctx, "userId")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload spaceapimodels.MemberData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := spaceusershandler.Instance.Upsert(middleware.GetUserSpace(ctx), userID, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "error saving member")
	}
	return ctx.Status(fiber.StatusOK).JSON(resp)
}
