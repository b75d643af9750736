package apiv1

import (
	"time-tracker-backend/middleware"

	"github.com/gofiber/fiber/v2"
)

// InitWorkspaceRouters mounts every workspace scoped api behind auth, workspace and rbac checks
func InitWorkspaceRouters(api fiber.Router) {
	workspace := api.Group("/workspaces/:wsId",
		middleware.AuthorizationRequired(),
		middleware.SpaceParamRequired(),
		middleware.RbacMiddleware(),
	)

	timeTracking := workspace.Group("/time-tracking")
	InitTimeTrackingRequestApiRouters(timeTracking)
	InitTimeTrackingCommentApiRouters(timeTracking)
	InitTimeTrackingThresholdApiRouters(timeTracking)

	InitSpaceMemberApiRouters(workspace)
	InitSpacePermissionApiRouters(workspace)
}
