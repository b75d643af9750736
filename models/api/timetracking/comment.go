package timetrackingapimodels

import (
	"strings"
	"time"
	"time-tracker-backend/models"
	dbmodels "time-tracker-backend/models/db"
)

type CommentData struct {
	Content string `json:"content"`
}

func (c CommentData) Validate() error {
	if strings.TrimSpace(c.Content) == "" {
		return models.NewValidationError("comment content is required")
	}
	return nil
}

type CommentView struct {
	ID        string     `json:"id"`
	RequestID string     `json:"request_id"`
	UserID    string     `json:"user_id"`
	Content   string     `json:"content"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	CanEdit   bool       `json:"can_edit"` // author and still inside the edit window
	User      *ActorView `json:"user,omitempty"`
}

func CommentConvert(rec dbmodels.TimeTrackingComment, actorID string, now time.Time) CommentView {
	return CommentView{
		ID:        rec.ID,
		RequestID: rec.RequestID,
		UserID:    rec.UserID,
		Content:   rec.Content,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
		CanEdit:   rec.CanBeChangedBy(actorID, now),
		User:      ActorConvert(rec.User),
	}
}
