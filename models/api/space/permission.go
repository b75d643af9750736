package spaceapimodels

import "time-tracker-backend/models"

type PermissionsView struct {
	Role        models.UserRole                       `json:"role"`
	Permissions map[models.Module][]models.Permission `json:"permissions"`
}
