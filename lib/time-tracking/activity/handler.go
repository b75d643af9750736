package ttactivityhandler

import (
	"time"
	"time-tracker-backend/db"
	spaceusersstore "time-tracker-backend/lib/space/users/store"
	ttactivitystore "time-tracker-backend/lib/time-tracking/activity/store"
	"time-tracker-backend/models"
	apimodels "time-tracker-backend/models/api"
	ttapimodels "time-tracker-backend/models/api/timetracking"
	dbmodels "time-tracker-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Provider interface {
	List(spaceID, requestID string, pagination apimodels.Pagination) (ttapimodels.ActivityListView, error)
	Record(entry Entry) error
}

var Instance Provider

func NewHandler() {
	Instance = NewHandlerWithTx(db.DB)
}

// NewHandlerWithTx binds the logger to tx so entries commit or roll back with the mutation they describe
func NewHandlerWithTx(tx *gorm.DB) Provider {
	return impl{
		store:           ttactivitystore.NewInstance(tx),
		spaceUsersStore: spaceusersstore.NewInstance(tx),
	}
}

type impl struct {
	store           ttactivitystore.Provider
	spaceUsersStore spaceusersstore.Provider
}

type Entry struct {
	SpaceID        string
	RequestID      string
	Action         models.ActivityAction
	ActorID        string
	PreviousStatus models.ApprovalStatus
	NewStatus      models.ApprovalStatus
	FeedbackReason string
	ChangedFields  dbmodels.FieldChanges
	CommentID      string
	CommentContent *string
	Metadata       map[string]interface{}
	At             time.Time // zero means the current time
}

func (i impl) Record(entry Entry) error {
	logger := log.
		WithField("space_id", entry.SpaceID).
		WithField("request_id", entry.RequestID).
		WithField("action", entry.Action).
		WithField("actor_id", entry.ActorID)
	rec := dbmodels.TimeTrackingActivity{
		BaseSpaceModel: dbmodels.BaseSpaceModel{
			SpaceID: entry.SpaceID,
		},
		RequestID:      entry.RequestID,
		ActionType:     entry.Action,
		ActorID:        entry.ActorID,
		ChangedFields:  entry.ChangedFields,
		CommentContent: entry.CommentContent,
		Metadata:       entry.Metadata,
	}
	rec.CreatedAt = entry.At
	if entry.PreviousStatus != "" {
		rec.PreviousStatus = &entry.PreviousStatus
	}
	if entry.NewStatus != "" {
		rec.NewStatus = &entry.NewStatus
	}
	if entry.FeedbackReason != "" {
		rec.FeedbackReason = &entry.FeedbackReason
	}
	if entry.CommentID != "" {
		rec.CommentID = &entry.CommentID
	}
	if entry.ActorID != "" {
		actor, err := i.spaceUsersStore.GetByID(entry.SpaceID, entry.ActorID)
		if err != nil {
			logger.WithError(err).Error("failed to load actor profile for activity entry")
			return errors.Wrap(err, "failed to load actor profile")
		}
		if actor != nil {
			rec.Actor = actor.ToSnapshot()
		} else {
			logger.Warn("actor has no profile, activity entry is written without snapshot")
		}
	} else {
		rec.Actor = dbmodels.ActorSnapshot{DisplayName: models.SystemUser}
	}
	_, err := i.store.Create(rec)
	if err != nil {
		logger.WithError(err).Error("failed to write activity entry")
		return errors.Wrap(err, "failed to write activity entry")
	}
	return nil
}

func (i impl) List(spaceID, requestID string, pagination apimodels.Pagination) (ttapimodels.ActivityListView, error) {
	logger := log.
		WithField("space_id", spaceID).
		WithField("request_id", requestID)
	page, limit := pagination.GetPage()
	result := ttapimodels.ActivityListView{
		Data:  []ttapimodels.ActivityView{},
		Page:  page,
		Limit: limit,
	}
	rowCount, err := i.store.ListCount(spaceID, requestID)
	if err != nil {
		logger.WithError(err).Error("failed to count activity entries")
		return result, errors.New("failed to load activity")
	}
	result.Total = rowCount
	if int64((page-1)*limit) >= rowCount {
		return result, nil
	}
	list, err := i.store.List(spaceID, requestID, page, limit)
	if err != nil {
		logger.WithError(err).Error("failed to load activity entries")
		return result, errors.New("failed to load activity")
	}
	for _, rec := range list {
		result.Data = append(result.Data, ttapimodels.ActivityConvert(rec))
	}
	return result, nil
}
