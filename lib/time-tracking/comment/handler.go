package ttcommenthandler

import (
	"strings"
	"time"
	"time-tracker-backend/db"
	"time-tracker-backend/lib/metrics"
	ttactivityhandler "time-tracker-backend/lib/time-tracking/activity"
	ttcommentstore "time-tracker-backend/lib/time-tracking/comment/store"
	ttrequesthandler "time-tracker-backend/lib/time-tracking/request"
	initchecker "time-tracker-backend/lib/utils/init-checker"
	"time-tracker-backend/models"
	ttapimodels "time-tracker-backend/models/api/timetracking"
	dbmodels "time-tracker-backend/models/db"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Provider interface {
	List(principal models.Principal, requestID string) ([]ttapimodels.CommentView, error)
	Add(principal models.Principal, requestID string, data ttapimodels.CommentData) (ttapimodels.CommentView, error)
	Update(principal models.Principal, requestID, commentID string, data ttapimodels.CommentData) (ttapimodels.CommentView, error)
	Delete(principal models.Principal, requestID, commentID string) error
}

var Instance Provider

func NewHandler() {
	instance := impl{
		db:       db.DB,
		store:    ttcommentstore.NewInstance(db.DB),
		requests: ttrequesthandler.Instance,
		now:      time.Now,
	}
	initchecker.CheckInit(
		"requests", instance.requests,
	)
	Instance = instance
}

type impl struct {
	db       *gorm.DB
	store    ttcommentstore.Provider
	requests ttrequesthandler.Provider
	now      func() time.Time
}

func (i impl) getLogger(principal models.Principal, requestID, commentID string) *log.Entry {
	logger := log.
		WithField("space_id", principal.SpaceID).
		WithField("request_id", requestID).
		WithField("user_id", principal.UserID)
	if commentID != "" {
		logger = logger.WithField("comment_id", commentID)
	}
	return logger
}

func (i impl) List(principal models.Principal, requestID string) ([]ttapimodels.CommentView, error) {
	if _, err := i.requests.CheckAccess(principal, requestID); err != nil {
		return nil, err
	}
	list, err := i.store.List(requestID)
	if err != nil {
		i.getLogger(principal, requestID, "").
			WithError(err).
			Error("failed to load comments")
		return nil, errors.New("failed to load comments")
	}
	// can_edit depends on the clock, it is computed on every read
	now := i.now()
	result := make([]ttapimodels.CommentView, 0, len(list))
	for _, rec := range list {
		result = append(result, ttapimodels.CommentConvert(rec, principal.UserID, now))
	}
	return result, nil
}

func (i impl) Add(principal models.Principal, requestID string, data ttapimodels.CommentData) (ttapimodels.CommentView, error) {
	logger := i.getLogger(principal, requestID, "")
	if _, err := i.requests.CheckAccess(principal, requestID); err != nil {
		return ttapimodels.CommentView{}, err
	}
	if err := data.Validate(); err != nil {
		return ttapimodels.CommentView{}, err
	}
	now := i.now()
	content := strings.TrimSpace(data.Content)
	rec := dbmodels.TimeTrackingComment{
		BaseModel: dbmodels.BaseModel{
			ID:        uuid.NewString(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		RequestID: requestID,
		UserID:    principal.UserID,
		Content:   content,
	}
	err := i.db.Transaction(func(tx *gorm.DB) error {
		_, err := ttcommentstore.NewInstance(tx).Create(rec)
		if err != nil {
			logger.WithError(err).Error("failed to create comment")
			return errors.New("failed to create comment")
		}
		return i.record(tx, principal, requestID, models.ActivityCommentAdded, rec.ID, &content, now)
	})
	if err != nil {
		return ttapimodels.CommentView{}, err
	}
	metrics.RecordCommentAction(string(models.ActivityCommentAdded))
	logger.WithField("comment_id", rec.ID).Info("comment added")
	return i.view(principal, requestID, rec.ID, now)
}

func (i impl) Update(principal models.Principal, requestID, commentID string, data ttapimodels.CommentData) (ttapimodels.CommentView, error) {
	logger := i.getLogger(principal, requestID, commentID)
	rec, err := i.getComment(principal, requestID, commentID)
	if err != nil {
		return ttapimodels.CommentView{}, err
	}
	if err = data.Validate(); err != nil {
		return ttapimodels.CommentView{}, err
	}
	now := i.now()
	if err = checkCommentChange(*rec, principal.UserID, now); err != nil {
		return ttapimodels.CommentView{}, err
	}
	content := strings.TrimSpace(data.Content)
	if content == rec.Content {
		return ttapimodels.CommentConvert(*rec, principal.UserID, now), nil
	}
	err = i.db.Transaction(func(tx *gorm.DB) error {
		err := ttcommentstore.NewInstance(tx).Update(requestID, commentID, map[string]interface{}{
			"content":    content,
			"updated_at": now,
		})
		if err != nil {
			logger.WithError(err).Error("failed to update comment")
			return errors.New("failed to update comment")
		}
		return i.record(tx, principal, requestID, models.ActivityCommentUpdated, commentID, &content, now)
	})
	if err != nil {
		return ttapimodels.CommentView{}, err
	}
	metrics.RecordCommentAction(string(models.ActivityCommentUpdated))
	logger.Info("comment updated")
	return i.view(principal, requestID, commentID, now)
}

func (i impl) Delete(principal models.Principal, requestID, commentID string) error {
	logger := i.getLogger(principal, requestID, commentID)
	rec, err := i.getComment(principal, requestID, commentID)
	if err != nil {
		return err
	}
	now := i.now()
	if err = checkCommentChange(*rec, principal.UserID, now); err != nil {
		return err
	}
	err = i.db.Transaction(func(tx *gorm.DB) error {
		err := ttcommentstore.NewInstance(tx).Delete(requestID, commentID)
		if err != nil {
			logger.WithError(err).Error("failed to delete comment")
			return errors.New("failed to delete comment")
		}
		// the activity entry keeps the removed text
		return i.record(tx, principal, requestID, models.ActivityCommentDeleted, commentID, &rec.Content, now)
	})
	if err != nil {
		return err
	}
	metrics.RecordCommentAction(string(models.ActivityCommentDeleted))
	logger.Info("comment deleted")
	return nil
}

// checkCommentChange applies to managers as well, nobody bypasses the edit window
func checkCommentChange(rec dbmodels.TimeTrackingComment, actorID string, now time.Time) error {
	if rec.UserID != actorID {
		return models.ErrNotCommentAuthor
	}
	if !rec.CanBeChangedBy(actorID, now) {
		return models.ErrCommentEditExpired
	}
	return nil
}

func (i impl) record(tx *gorm.DB, principal models.Principal, requestID string, action models.ActivityAction, commentID string, content *string, now time.Time) error {
	return ttactivityhandler.NewHandlerWithTx(tx).Record(ttactivityhandler.Entry{
		SpaceID:        principal.SpaceID,
		RequestID:      requestID,
		Action:         action,
		ActorID:        principal.UserID,
		CommentID:      commentID,
		CommentContent: content,
		At:             now,
	})
}

func (i impl) getComment(principal models.Principal, requestID, commentID string) (*dbmodels.TimeTrackingComment, error) {
	if _, err := i.requests.CheckAccess(principal, requestID); err != nil {
		return nil, err
	}
	rec, err := i.store.GetByID(requestID, commentID)
	if err != nil {
		i.getLogger(principal, requestID, commentID).
			WithError(err).
			Error("failed to load comment")
		return nil, errors.New("failed to load comment")
	}
	if rec == nil {
		return nil, models.ErrCommentNotFound
	}
	return rec, nil
}

func (i impl) view(principal models.Principal, requestID, commentID string, now time.Time) (ttapimodels.CommentView, error) {
	rec, err := i.getComment(principal, requestID, commentID)
	if err != nil {
		return ttapimodels.CommentView{}, err
	}
	return ttapimodels.CommentConvert(*rec, principal.UserID, now), nil
}
