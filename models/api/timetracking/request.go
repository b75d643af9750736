package timetrackingapimodels

import (
	"io"
	"strings"
	"time"
	"time-tracker-backend/models"
	apimodels "time-tracker-backend/models/api"
	dbmodels "time-tracker-backend/models/db"
)

type RequestData struct {
	Title       string    `json:"title"`       // What was worked on
	Description string    `json:"description"` // Optional details
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
}

func (r RequestData) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return models.NewValidationError("title is required")
	}
	if r.StartTime.IsZero() || r.EndTime.IsZero() {
		return models.NewValidationError("start time and end time are required")
	}
	if r.EndTime.Before(r.StartTime) {
		return models.NewValidationError("end time must not be before start time")
	}
	return nil
}

// ImageFile is an uploaded proof-of-work image, Content is read once
type ImageFile struct {
	FileName    string
	ContentType string
	Size        int64
	Content     io.Reader
}

func (f ImageFile) Validate() error {
	if !strings.HasPrefix(strings.ToLower(f.ContentType), "image/") {
		return models.NewValidationError("file %v is not an image", f.FileName)
	}
	if f.Size <= 0 {
		return models.NewValidationError("file %v is empty", f.FileName)
	}
	return nil
}

type RequestCreateData struct {
	RequestData
	TaskID     string
	CategoryID string
	Images     []ImageFile
}

func (r RequestCreateData) Validate() error {
	if err := r.RequestData.Validate(); err != nil {
		return err
	}
	if len(r.Images) > models.MaxRequestImages {
		return models.ErrTooManyImages
	}
	for _, image := range r.Images {
		if err := image.Validate(); err != nil {
			return err
		}
	}
	return nil
}

type RequestEditData struct {
	RequestData
	RemovedImages []string
	NewImages     []ImageFile
}

func (r RequestEditData) Validate() error {
	if err := r.RequestData.Validate(); err != nil {
		return err
	}
	for _, image := range r.NewImages {
		if err := image.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// RequestForm holds the text fields of the multipart create/edit form
type RequestForm struct {
	Title         string   `form:"title"`
	Description   string   `form:"description"`
	StartTime     string   `form:"startTime"`
	EndTime       string   `form:"endTime"`
	TaskID        string   `form:"taskId"`
	CategoryID    string   `form:"categoryId"`
	RemovedImages []string `form:"removedImages"`
}

func (f RequestForm) ToRequestData() (RequestData, error) {
	data := RequestData{
		Title:       strings.TrimSpace(f.Title),
		Description: strings.TrimSpace(f.Description),
	}
	var err error
	if f.StartTime != "" {
		data.StartTime, err = time.Parse(time.RFC3339, f.StartTime)
		if err != nil {
			return data, models.NewValidationError("invalid start time")
		}
	}
	if f.EndTime != "" {
		data.EndTime, err = time.Parse(time.RFC3339, f.EndTime)
		if err != nil {
			return data, models.NewValidationError("invalid end time")
		}
	}
	return data, nil
}

type RequestActionData struct {
	Action          models.RequestAction `json:"action"`            // approve | reject | needs_info | resubmit
	RejectionReason string               `json:"rejection_reason"`  // required for reject
	NeedsInfoReason string               `json:"needs_info_reason"` // required for needs_info
}

func (a RequestActionData) Validate() error {
	if !a.Action.IsValid() {
		return models.NewValidationError("invalid action")
	}
	switch a.Action {
	case models.ActionReject:
		if a.Reason() == "" {
			return models.NewValidationError("rejection reason is required")
		}
	case models.ActionNeedsInfo:
		if a.Reason() == "" {
			return models.NewValidationError("needs info reason is required")
		}
	}
	return nil
}

// Reason returns the trimmed feedback text relevant to the action
func (a RequestActionData) Reason() string {
	switch a.Action {
	case models.ActionReject:
		return strings.TrimSpace(a.RejectionReason)
	case models.ActionNeedsInfo:
		return strings.TrimSpace(a.NeedsInfoReason)
	}
	return ""
}

type RequestFilter struct {
	Page   int
	Limit  int
	Status models.StatusFilter
	UserID string
}

func (f RequestFilter) GetPage() (page, limit int) {
	return apimodels.Pagination{Page: f.Page, Limit: f.Limit}.GetPage()
}

// RequestQuery is the query string of the list and export endpoints
type RequestQuery struct {
	Page   int    `query:"page"`
	Limit  int    `query:"limit"`
	Status string `query:"status"` // pending | approved | rejected | needs_info | all
	UserID string `query:"userId"`
}

func (q RequestQuery) ToFilter() (RequestFilter, error) {
	status, ok := models.ParseStatusFilter(q.Status)
	if !ok {
		return RequestFilter{}, models.NewValidationError("unknown status %q", q.Status)
	}
	return RequestFilter{
		Page:   q.Page,
		Limit:  q.Limit,
		Status: status,
		UserID: strings.TrimSpace(q.UserID),
	}, nil
}

type ActorView struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Handle      string `json:"handle"`
	AvatarURL   string `json:"avatar_url"`
}

func ActorConvert(rec *dbmodels.SpaceUser) *ActorView {
	if rec == nil {
		return nil
	}
	snapshot := rec.ToSnapshot()
	return &ActorView{
		ID:          rec.ID,
		DisplayName: snapshot.DisplayName,
		Handle:      snapshot.Handle,
		AvatarURL:   snapshot.AvatarURL,
	}
}

type RequestView struct {
	ID                   string                `json:"id"`
	WorkspaceID          string                `json:"workspace_id"`
	UserID               string                `json:"user_id"`
	TaskID               *string               `json:"task_id"`
	CategoryID           *string               `json:"category_id"`
	Title                string                `json:"title"`
	Description          string                `json:"description"`
	StartTime            time.Time             `json:"start_time"`
	EndTime              time.Time             `json:"end_time"`
	Images               []string              `json:"images"`
	ImageURLs            []string              `json:"image_urls,omitempty"` // signed, detail view only
	ApprovalStatus       models.ApprovalStatus `json:"approval_status"`
	ApprovedBy           *string               `json:"approved_by"`
	ApprovedAt           *time.Time            `json:"approved_at"`
	RejectedBy           *string               `json:"rejected_by"`
	RejectedAt           *time.Time            `json:"rejected_at"`
	RejectionReason      *string               `json:"rejection_reason"`
	NeedsInfoRequestedBy *string               `json:"needs_info_requested_by"`
	NeedsInfoRequestedAt *time.Time            `json:"needs_info_requested_at"`
	NeedsInfoReason      *string               `json:"needs_info_reason"`
	CreatedAt            time.Time             `json:"created_at"`
	UpdatedAt            time.Time             `json:"updated_at"`
	User                 *ActorView            `json:"user,omitempty"`
}

func RequestConvert(rec dbmodels.TimeTrackingRequest) RequestView {
	return RequestView{
		ID:                   rec.ID,
		WorkspaceID:          rec.SpaceID,
		UserID:               rec.UserID,
		TaskID:               rec.TaskID,
		CategoryID:           rec.CategoryID,
		Title:                rec.Title,
		Description:          rec.Description,
		StartTime:            rec.StartTime,
		EndTime:              rec.EndTime,
		Images:               rec.ImagePaths(),
		ApprovalStatus:       rec.ApprovalStatus,
		ApprovedBy:           rec.ApprovedBy,
		ApprovedAt:           rec.ApprovedAt,
		RejectedBy:           rec.RejectedBy,
		RejectedAt:           rec.RejectedAt,
		RejectionReason:      rec.RejectionReason,
		NeedsInfoRequestedBy: rec.NeedsInfoRequestedBy,
		NeedsInfoRequestedAt: rec.NeedsInfoRequestedAt,
		NeedsInfoReason:      rec.NeedsInfoReason,
		CreatedAt:            rec.CreatedAt,
		UpdatedAt:            rec.UpdatedAt,
		User:                 ActorConvert(rec.User),
	}
}

type RequestListView struct {
	Requests   []RequestView `json:"requests"`
	TotalCount int64         `json:"totalCount"`
	TotalPages int           `json:"totalPages"`
}

// BannerView is the merged pending/needs-info list of the current user
type BannerView struct {
	Requests   []RequestView `json:"requests"`
	TotalCount int64         `json:"totalCount"`
	HasMore    bool          `json:"hasMore"`
}

type SummaryView struct {
	Pending   int64 `json:"pending"`
	Approved  int64 `json:"approved"`
	Rejected  int64 `json:"rejected"`
	NeedsInfo int64 `json:"needs_info"`
	Total     int64 `json:"total"`
}
