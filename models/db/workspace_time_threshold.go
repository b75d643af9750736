package dbmodels

import "time"

type WorkspaceTimeThreshold struct {
	SpaceID                string `gorm:"primaryKey;type:varchar(36)"`
	Threshold              *int   // days, nil means no approval required
	PauseExempt            bool
	ResumeThresholdMinutes *int
	CreatedAt              time.Time
	UpdatedAt              time.Time
}
