package spaceapimodels

import (
	"strings"
	"time-tracker-backend/models"
	dbmodels "time-tracker-backend/models/db"
)

// MemberData is a profile pushed by the identity provider
type MemberData struct {
	FirstName string          `json:"first_name"`
	LastName  string          `json:"last_name"`
	Handle    string          `json:"handle"`     // Unique nickname
	AvatarURL string          `json:"avatar_url"` // Link to the avatar image
	Email     string          `json:"email"`      // Used for decision notifications
	Role      models.UserRole `json:"role"`       // ADMIN, MANAGER or MEMBER
	IsActive  *bool           `json:"is_active"`  // true when omitted
}

func (r MemberData) Validate() error {
	if strings.TrimSpace(r.FirstName) == "" && strings.TrimSpace(r.LastName) == "" && strings.TrimSpace(r.Handle) == "" {
		return models.NewValidationError("name or handle is required")
	}
	if !r.Role.IsValid() {
		return models.NewValidationError("unknown role %q", r.Role)
	}
	return nil
}

func (r MemberData) ToDbModel(spaceID, userID string) dbmodels.SpaceUser {
	isActive := true
	if r.IsActive != nil {
		isActive = *r.IsActive
	}
	rec := dbmodels.SpaceUser{
		SpaceID:   spaceID,
		FirstName: strings.TrimSpace(r.FirstName),
		LastName:  strings.TrimSpace(r.LastName),
		Handle:    strings.TrimSpace(r.Handle),
		AvatarURL: strings.TrimSpace(r.AvatarURL),
		Email:     strings.TrimSpace(r.Email),
		Role:      r.Role,
		IsActive:  isActive,
	}
	rec.ID = userID
	return rec
}

type MemberView struct {
	ID          string          `json:"id"`
	SpaceID     string          `json:"space_id"`
	FirstName   string          `json:"first_name"`
	LastName    string          `json:"last_name"`
	DisplayName string          `json:"display_name"`
	Handle      string          `json:"handle"`
	AvatarURL   string          `json:"avatar_url"`
	Email       string          `json:"email"`
	Role        models.UserRole `json:"role"`
	IsActive    bool            `json:"is_active"`
}

func MemberConvert(rec dbmodels.SpaceUser) MemberView {
	return MemberView{
		ID:          rec.ID,
		SpaceID:     rec.SpaceID,
		FirstName:   rec.FirstName,
		LastName:    rec.LastName,
		DisplayName: rec.ToSnapshot().DisplayName,
		Handle:      rec.Handle,
		AvatarURL:   rec.AvatarURL,
		Email:       rec.Email,
		Role:        rec.Role,
		IsActive:    rec.IsActive,
	}
}

type MemberListView struct {
	Members    []MemberView `json:"members"`
	TotalCount int64        `json:"totalCount"`
	TotalPages int          `json:"totalPages"`
}
