package apiv1

import (
	"time-tracker-backend/controllers"
	ttcommenthandler "time-tracker-backend/lib/time-tracking/comment"
	"time-tracker-backend/middleware"
	apimodels "time-tracker-backend/models/api"
	ttapimodels "time-tracker-backend/models/api/timetracking"

	"github.com/gofiber/fiber/v2"
)

type timeTrackingCommentApiController struct {
	controllers.BaseAPIController
}

func InitTimeTrackingCommentApiRouters(router fiber.Router) {
	controller := timeTrackingCommentApiController{}
	router.Route("requests/:id/comments", func(router fiber.Router) {
		router.Get("", controller.list)
		router.Post("", controller.add)
		router.Patch(":commentId", controller.update)
		router.Delete(":commentId", controller.delete)
	})
}

// @Summary Comment list
// @Tags Time tracking comments
// @Description Oldest first, can_edit is true for own comments inside the 15 minute window
// @Param   Authorization	header		string	true	"Authorization token"
// @Param   wsId			path		string	true	"workspace ID"
// @Param   id				path		string	true	"request ID"
// @Success 200 {array} ttapimodels.CommentView
// @Failure 403 {object} apimodels.ErrorResponse
// @Failure 404 {object} apimodels.ErrorResponse
// @Failure 500 {object} apimodels.ErrorResponse
// @router /api/v1/workspaces/{wsId}/time-tracking/requests/{id}/comments [get]
func (c *timeTrackingCommentApiController) list(ctx *fiber.Ctx) error {
	requestID, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := ttcommenthandler.Instance.List(middleware.GetPrincipal(ctx), requestID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "error getting comments")
	}
	return ctx.Status(fiber.StatusOK).JSON(resp)
}

// @Summary Add comment
// @Tags Time tracking comments
// @Param   Authorization	header		string	true	"Authorization token"
// @Param   wsId			path		string	true	"workspace ID"
// @Param   id				path		string	true	"request ID"
// @Param	body body	 ttapimodels.CommentData	true	"request body"
// @Success 200 {object} ttapimodels.CommentView
// @Failure 400 {object} apimodels.ErrorResponse
// @Failure 403 {object} apimodels.ErrorResponse
// @Failure 404 {object} apimodels.ErrorResponse
// @Failure 500 {object} apimodels.ErrorResponse
// @router /api/v1/workspaces/{wsId}/time-tracking/requests/{id}/comments [post]
func (c *timeTrackingCommentApiController) add(ctx *fiber.Ctx) error {
	requestID, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload ttapimodels.CommentData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := ttcommenthandler.Instance.Add(middleware.GetPrincipal(ctx), requestID, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "error adding comment")
	}
	return ctx.Status(fiber.StatusOK).JSON(resp)
}

// @Summary Edit comment
// @Tags Time tracking comments
// @Description Author only, within 15 minutes of posting
// @Param   Authorization	header		string	true	"Authorization token"
// @Param   wsId			path		string	true	"workspace ID"
// @Param   id				path		string	true	"request ID"
// @Param   commentId		path		string	true	"comment ID"
// @Param	body body	 ttapimodels.CommentData	true	"request body"
// @Success 200 {object} ttapimodels.CommentView
// @Failure 400 {object} apimodels.ErrorResponse
// @Failure 403 {object} apimodels.ErrorResponse
// @Failure 404 {object} apimodels.ErrorResponse
// @Failure 409 {object} apimodels.ErrorResponse
// @Failure 500 {object} apimodels.ErrorResponse
// @router /api/v1/workspaces/{wsId}/time-tracking/requests/{id}/comments/{commentId} [patch]
func (c *timeTrackingCommentApiController) update(ctx *fiber.Ctx) error {
	requestID, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	commentID, err := c.GetIDByKey(ctx, "commentId")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload ttapimodels.CommentData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := ttcommenthandler.Instance.Update(middleware.GetPrincipal(ctx), requestID, commentID, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "error updating comment")
	}
	return ctx.Status(fiber.StatusOK).JSON(resp)
}

// @Summary Delete comment
// @Tags Time tracking comments
// @Description Author only, within 15 minutes of posting
// @Param   Authorization	header		string	true	"Authorization token"
// @Param   wsId			path		string	true	"workspace ID"
// @Param   id				path		string	true	"request ID"
// @Param   commentId		path		string	true	"comment ID"
// @Success 200 {object} apimodels.MessageResponse
// @Failure 403 {object} apimodels.ErrorResponse
// @Failure 404 {object} apimodels.ErrorResponse
// @Failure 409 {object} apimodels.ErrorResponse
// @Failure 500 {object} apimodels.ErrorResponse
// @router /api/v1/workspaces/{wsId}/time-tracking/requests/{id}/comments/{commentId} [delete]
func (c *timeTrackingCommentApiController) delete(ctx *fiber.Ctx) error {
	requestID, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	commentID, err := c.GetIDByKey(ctx, "commentId")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	err = ttcommenthandler.Instance.Delete(middleware.GetPrincipal(ctx), requestID, commentID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "error deleting comment")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewMessage("comment deleted"))
}
