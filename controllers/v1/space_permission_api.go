package apiv1

import (
	"time-tracker-backend/controllers"
	"time-tracker-backend/lib/rbac"
	"time-tracker-backend/middleware"
	spaceapimodels "time-tracker-backend/models/api/space"

	"github.com/gofiber/fiber/v2"
)

type spacePermissionApiController struct {
	controllers.BaseAPIController
}

func InitSpacePermissionApiRouters(router fiber.Router) {
	controller := spacePermissionApiController{}
	router.Get("permissions", controller.permissions)
}

// @Summary Permissions of the current role
// @Tags Workspace members
// @Description Lets the client hide actions the caller cannot perform
// @Param   Authorization	header		string	true	"Authorization token"
// @Param   wsId			path		string	true	"workspace ID"
// @Success 200 {object} spaceapimodels.PermissionsView
// @Failure 403 {object} apimodels.ErrorResponse
// @router /api/v1/workspaces/{wsId}/permissions [get]
func (c *spacePermissionApiController) permissions(ctx *fiber.Ctx) error {
	role := middleware.GetSpaceRole(ctx)
	return ctx.Status(fiber.StatusOK).JSON(spaceapimodels.PermissionsView{
		Role:        role,
		Permissions: rbac.Instance.GetPermissions(role),
	})
}
