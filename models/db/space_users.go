package dbmodels

import (
	"strings"
	"time-tracker-backend/models"
)

// SpaceUser is a workspace member profile synced from the identity provider
type SpaceUser struct {
	BaseModel
	SpaceID   string          `gorm:"type:varchar(36);index"`
	FirstName string          `gorm:"type:varchar(150)"`
	LastName  string          `gorm:"type:varchar(150)"`
	Handle    string          `gorm:"type:varchar(100)"`
	AvatarURL string          `gorm:"type:varchar(500)"`
	Email     string          `gorm:"type:varchar(255)"`
	Role      models.UserRole `gorm:"type:varchar(50)"`
	IsActive  bool
}

func (r SpaceUser) GetFullName() string {
	return strings.TrimSpace(r.FirstName + " " + r.LastName)
}

func (r SpaceUser) ToSnapshot() ActorSnapshot {
	name := r.GetFullName()
	if name == "" {
		name = r.Handle
	}
	return ActorSnapshot{
		DisplayName: name,
		Handle:      r.Handle,
		AvatarURL:   r.AvatarURL,
	}
}
