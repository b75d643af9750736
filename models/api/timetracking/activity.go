package timetrackingapimodels

import (
	"time"
	"time-tracker-backend/models"
	dbmodels "time-tracker-backend/models/db"
)

type ActivityView struct {
	ID               string                 `json:"id"`
	RequestID        string                 `json:"request_id"`
	ActionType       models.ActivityAction  `json:"action_type"`
	ActorID          string                 `json:"actor_id"`
	ActorDisplayName string                 `json:"actor_display_name"`
	ActorHandle      string                 `json:"actor_handle"`
	ActorAvatarURL   string                 `json:"actor_avatar_url"`
	PreviousStatus   *models.ApprovalStatus `json:"previous_status"`
	NewStatus        *models.ApprovalStatus `json:"new_status"`
	FeedbackReason   *string                `json:"feedback_reason"`
	ChangedFields    dbmodels.FieldChanges  `json:"changed_fields"`
	CommentID        *string                `json:"comment_id"`
	CommentContent   *string                `json:"comment_content"`
	Metadata         map[string]any         `json:"metadata"`
	CreatedAt        time.Time              `json:"created_at"`
}

func ActivityConvert(rec dbmodels.TimeTrackingActivity) ActivityView {
	displayName := rec.Actor.DisplayName
	if displayName == "" && rec.ActorID == "" {
		displayName = models.SystemUser
	}
	return ActivityView{
		ID:               rec.ID,
		RequestID:        rec.RequestID,
		ActionType:       rec.ActionType,
		ActorID:          rec.ActorID,
		ActorDisplayName: displayName,
		ActorHandle:      rec.Actor.Handle,
		ActorAvatarURL:   rec.Actor.AvatarURL,
		PreviousStatus:   rec.PreviousStatus,
		NewStatus:        rec.NewStatus,
		FeedbackReason:   rec.FeedbackReason,
		ChangedFields:    rec.ChangedFields,
		CommentID:        rec.CommentID,
		CommentContent:   rec.CommentContent,
		Metadata:         rec.Metadata,
		CreatedAt:        rec.CreatedAt,
	}
}

type ActivityListView struct {
	Data  []ActivityView `json:"data"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}
