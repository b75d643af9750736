package models

type RbacFunc func(spaceID, userID string, role UserRole, path string) bool

type Module string

const (
	TimeTrackingModule Module = "TIME_TRACKING"
	MembersModule      Module = "MEMBERS"
)

type Permission string

const (
	ViewPermission    Permission = "VIEW"
	CreatePermission  Permission = "CREATE"
	EditPermission    Permission = "EDIT"
	CommentPermission Permission = "COMMENT"
	ManagePermission  Permission = "MANAGE"

	// ManageTimeTrackingRequests allows deciding on requests of other users and changing the workspace threshold
	ManageTimeTrackingRequests Permission = "manage_time_tracking_requests"
)
