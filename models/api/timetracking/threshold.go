package timetrackingapimodels

import (
	"time-tracker-backend/models"
	dbmodels "time-tracker-backend/models/db"
)

type ThresholdData struct {
	Threshold       *int  `json:"threshold"`                  // days, null disables manual approval
	PauseExempt     *bool `json:"pause_exempt,omitempty"`     // keep current value when omitted
	ResumeThreshold *int  `json:"resume_threshold,omitempty"` // minutes, keep current value when omitted
}

func (t ThresholdData) Validate() error {
	if t.Threshold != nil && *t.Threshold < 0 {
		return models.NewValidationError("threshold must be a non-negative number of days")
	}
	if t.ResumeThreshold != nil && *t.ResumeThreshold < 0 {
		return models.NewValidationError("resume threshold must be a non-negative number of minutes")
	}
	return nil
}

type ThresholdView struct {
	Threshold       *int `json:"threshold"`
	PauseExempt     bool `json:"pause_exempt"`
	ResumeThreshold *int `json:"resume_threshold"`
	IsDefault       bool `json:"is_default"` // nothing stored for the workspace yet
}

func ThresholdConvert(rec dbmodels.WorkspaceTimeThreshold) ThresholdView {
	return ThresholdView{
		Threshold:       rec.Threshold,
		PauseExempt:     rec.PauseExempt,
		ResumeThreshold: rec.ResumeThresholdMinutes,
	}
}
