package models

import "slices"

// Principal is the authenticated caller of a workspace operation
type Principal struct {
	UserID      string
	SpaceID     string
	Role        UserRole
	Permissions []Permission
}

func (p Principal) Can(permission Permission) bool {
	return slices.Contains(p.Permissions, permission)
}

func (p Principal) CanManageRequests() bool {
	return p.Can(ManageTimeTrackingRequests)
}

// CanView lets reviewers see every request of the workspace and members only their own
func (p Principal) CanView(ownerID string) bool {
	return p.CanManageRequests() || p.UserID == ownerID
}
