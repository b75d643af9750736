package dbmodels

import (
	"time-tracker-backend/models"

	"gorm.io/datatypes"
)

type TimeTrackingActivity struct {
	BaseSpaceModel
	RequestID      string                 `gorm:"type:varchar(36);index"`
	ActionType     models.ActivityAction  `gorm:"type:varchar(50)"`
	ActorID        string                 `gorm:"type:varchar(36)"`
	Actor          ActorSnapshot          `gorm:"embedded;embeddedPrefix:actor_"`
	PreviousStatus *models.ApprovalStatus `gorm:"type:varchar(20)"`
	NewStatus      *models.ApprovalStatus `gorm:"type:varchar(20)"`
	FeedbackReason *string
	ChangedFields  FieldChanges `gorm:"type:jsonb"`
	CommentID      *string      `gorm:"type:varchar(36)"`
	CommentContent *string
	Metadata       datatypes.JSONMap
}
