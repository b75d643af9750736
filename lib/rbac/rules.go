package rbac

import (
	"time-tracker-backend/models"
)

var (
	AdminRoleSet        = []models.UserRole{models.AdminRole}
	AdminManagerRoleSet = []models.UserRole{models.AdminRole, models.ManagerRole}
	AllRoles            = []models.UserRole{models.AdminRole, models.ManagerRole, models.MemberRole}
)

const timeTrackingPath = "/api/v1/workspaces/{wsId}/time-tracking"

func (i *impl) initRules() {
	i.timeTracking()
	i.members()
	i.workspace()
}

func (i *impl) workspace() {
	// every role may read its own permission map
	i.RegisterRule(models.TimeTrackingModule, models.ViewPermission, AllRoles, "/api/v1/workspaces/{wsId}/permissions [get]", AllowFunc())
}

func (i *impl) timeTracking() {
	// VIEW
	i.RegisterRule(models.TimeTrackingModule, models.ViewPermission, AllRoles, timeTrackingPath+"/requests [get]", nil)
	i.RegisterRule(models.TimeTrackingModule, models.ViewPermission, AllRoles, timeTrackingPath+"/requests/pending [get]", nil)
	i.RegisterRule(models.TimeTrackingModule, models.ViewPermission, AllRoles, timeTrackingPath+"/requests/summary [get]", nil)
	i.RegisterRule(models.TimeTrackingModule, models.ViewPermission, AllRoles, timeTrackingPath+"/requests/export [get]", nil)
	i.RegisterRule(models.TimeTrackingModule, models.ViewPermission, AllRoles, timeTrackingPath+"/requests/{id} [get]", nil)
	i.RegisterRule(models.TimeTrackingModule, models.ViewPermission, AllRoles, timeTrackingPath+"/requests/{id}/activity [get]", nil)
	i.RegisterRule(models.TimeTrackingModule, models.ViewPermission, AllRoles, timeTrackingPath+"/requests/{id}/comments [get]", nil)
	i.RegisterRule(models.TimeTrackingModule, models.ViewPermission, AllRoles, timeTrackingPath+"/threshold [get]", nil)
	// CREATE
	i.RegisterRule(models.TimeTrackingModule, models.CreatePermission, AllRoles, timeTrackingPath+"/requests [post]", nil)
	// EDIT: decisions are checked against the manage permission by the handler
	i.RegisterRule(models.TimeTrackingModule, models.EditPermission, AllRoles, timeTrackingPath+"/requests/{id} [put]", nil)
	i.RegisterRule(models.TimeTrackingModule, models.EditPermission, AllRoles, timeTrackingPath+"/requests/{id} [patch]", nil)
	// COMMENT
	i.RegisterRule(models.TimeTrackingModule, models.CommentPermission, AllRoles, timeTrackingPath+"/requests/{id}/comments [post]", nil)
	i.RegisterRule(models.TimeTrackingModule, models.CommentPermission, AllRoles, timeTrackingPath+"/requests/{id}/comments/{commentId} [patch]", nil)
	i.RegisterRule(models.TimeTrackingModule, models.CommentPermission, AllRoles, timeTrackingPath+"/requests/{id}/comments/{commentId} [delete]", nil)
	// MANAGE
	i.RegisterRule(models.TimeTrackingModule, models.ManageTimeTrackingRequests, AdminManagerRoleSet, timeTrackingPath+"/threshold [put]", nil)
}

func (i *impl) members() {
	// VIEW
	i.RegisterRule(models.MembersModule, models.ViewPermission, AdminRoleSet, "/api/v1/workspaces/{wsId}/members [get]", nil)
	// MANAGE
	i.RegisterRule(models.MembersModule, models.ManagePermission, AdminRoleSet, "/api/v1/workspaces/{wsId}/members/{userId} [put]", nil)
}
