package dbmodels

import (
	"time"
	"time-tracker-backend/models"
)

type TimeTrackingComment struct {
	BaseModel
	RequestID string     `gorm:"type:varchar(36);index"`
	UserID    string     `gorm:"type:varchar(36)"`
	User      *SpaceUser `gorm:"foreignKey:UserID"`
	Content   string
}

// CanBeChangedBy is evaluated on every read and write, the answer changes with time alone
func (c TimeTrackingComment) CanBeChangedBy(userID string, now time.Time) bool {
	if c.UserID != userID {
		return false
	}
	return now.Sub(c.CreatedAt) <= models.CommentEditWindow
}
