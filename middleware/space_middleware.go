package middleware

import (
	"time-tracker-backend/lib/rbac"
	authutils "time-tracker-backend/lib/utils/auth-utils"
	"time-tracker-backend/models"
	apimodels "time-tracker-backend/models/api"

	"github.com/gofiber/fiber/v2"
)

const workspaceParam = "wsId"

func GetUserSpace(ctx *fiber.Ctx) string {
	claims := authutils.GetClaims(ctx)
	if space, ok := claims["space"].(string); ok {
		return space
	}
	return ""
}

func GetUserID(ctx *fiber.Ctx) string {
	claims := authutils.GetClaims(ctx)
	if sub, ok := claims["sub"].(string); ok {
		return sub
	}
	return ""
}

func GetSpaceRole(ctx *fiber.Ctx) models.UserRole {
	claims := authutils.GetClaims(ctx)
	if role, exist := claims["role"]; exist {
		if stringRole, ok := role.(string); ok && stringRole != "" {
			return models.UserRole(stringRole)
		}
	}
	return ""
}

// GetPrincipal builds the caller of a time tracking operation from the token claims
func GetPrincipal(ctx *fiber.Ctx) models.Principal {
	role := GetSpaceRole(ctx)
	return models.Principal{
		UserID:      GetUserID(ctx),
		SpaceID:     GetUserSpace(ctx),
		Role:        role,
		Permissions: rbac.Instance.PermissionsOf(role, models.TimeTrackingModule),
	}
}

// SpaceParamRequired rejects requests addressed to a workspace other than the one in the token
func SpaceParamRequired() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		spaceID := GetUserSpace(ctx)
		if spaceID == "" || ctx.Params(workspaceParam) != spaceID {
			return ctx.Status(fiber.StatusForbidden).JSON(apimodels.NewError("you are not a member of this workspace"))
		}
		return ctx.Next()
	}
}
