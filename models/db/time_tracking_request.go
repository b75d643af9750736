package dbmodels

import (
	"time"
	"time-tracker-backend/models"

	"gorm.io/datatypes"
)

type TimeTrackingRequest struct {
	BaseSpaceModel
	UserID         string     `gorm:"type:varchar(36);index"`
	User           *SpaceUser `gorm:"foreignKey:UserID"`
	TaskID         *string    `gorm:"type:varchar(36)"`
	CategoryID     *string    `gorm:"type:varchar(36)"`
	Title          string     `gorm:"type:varchar(255)"`
	Description    string
	StartTime      time.Time
	EndTime        time.Time
	Images         datatypes.JSONSlice[string]
	ApprovalStatus models.ApprovalStatus `gorm:"type:varchar(20);index"`

	// ContentVersion grows with every content edit
	ContentVersion int `gorm:"not null;default:0"`

	ApprovedBy *string `gorm:"type:varchar(36)"`
	ApprovedAt *time.Time

	RejectedBy      *string `gorm:"type:varchar(36)"`
	RejectedAt      *time.Time
	RejectionReason *string

	NeedsInfoRequestedBy *string `gorm:"type:varchar(36)"`
	NeedsInfoRequestedAt *time.Time
	NeedsInfoReason      *string
}

// DecisionConsistent checks that exactly the decision fields matching the status are set
func (r TimeTrackingRequest) DecisionConsistent() bool {
	approved := r.ApprovedBy != nil
	rejected := r.RejectedBy != nil
	needsInfo := r.NeedsInfoRequestedBy != nil
	switch r.ApprovalStatus {
	case models.ApprovalStatusPending:
		return !approved && !rejected && !needsInfo
	case models.ApprovalStatusApproved:
		return approved && !rejected && !needsInfo
	case models.ApprovalStatusRejected:
		return !approved && rejected && !needsInfo
	case models.ApprovalStatusNeedsInfo:
		return !approved && !rejected && needsInfo
	}
	return false
}

func (r TimeTrackingRequest) ImagePaths() []string {
	if r.Images == nil {
		return []string{}
	}
	return []string(r.Images)
}
