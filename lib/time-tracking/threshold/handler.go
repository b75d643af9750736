package ttthresholdhandler

import (
	"time"
	"time-tracker-backend/config"
	"time-tracker-backend/db"
	ttthresholdstore "time-tracker-backend/lib/time-tracking/threshold/store"
	ttapimodels "time-tracker-backend/models/api/timetracking"
	dbmodels "time-tracker-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Provider interface {
	Get(spaceID string) (ttapimodels.ThresholdView, error)
	Update(spaceID, userID string, data ttapimodels.ThresholdData) (ttapimodels.ThresholdView, error)
	// Resolve returns the threshold in days applied to new requests of the workspace
	Resolve(spaceID string) (*int, error)
}

var Instance Provider

func NewHandler() {
	Instance = NewInstance(db.DB, config.Conf.TimeTracking.DefaultThresholdDays)
}

// NewInstance uses defaultThreshold for workspaces that never stored their own
func NewInstance(DB *gorm.DB, defaultThreshold *int) Provider {
	return impl{
		store:            ttthresholdstore.NewInstance(DB),
		defaultThreshold: defaultThreshold,
		now:              time.Now,
	}
}

type impl struct {
	store            ttthresholdstore.Provider
	defaultThreshold *int
	now              func() time.Time
}

func (i impl) Get(spaceID string) (ttapimodels.ThresholdView, error) {
	rec, err := i.store.Get(spaceID)
	if err != nil {
		log.WithField("space_id", spaceID).
			WithError(err).
			Error("failed to load workspace threshold")
		return ttapimodels.ThresholdView{}, errors.New("failed to load workspace threshold")
	}
	if rec == nil {
		return ttapimodels.ThresholdView{
			Threshold: i.defaultThreshold,
			IsDefault: true,
		}, nil
	}
	return ttapimodels.ThresholdConvert(*rec), nil
}

func (i impl) Resolve(spaceID string) (*int, error) {
	view, err := i.Get(spaceID)
	if err != nil {
		return nil, err
	}
	return view.Threshold, nil
}

func (i impl) Update(spaceID, userID string, data ttapimodels.ThresholdData) (ttapimodels.ThresholdView, error) {
	logger := log.
		WithField("space_id", spaceID).
		WithField("user_id", userID)
	if err := data.Validate(); err != nil {
		return ttapimodels.ThresholdView{}, err
	}
	current, err := i.store.Get(spaceID)
	if err != nil {
		logger.WithError(err).Error("failed to load workspace threshold")
		return ttapimodels.ThresholdView{}, errors.New("failed to update workspace threshold")
	}
	now := i.now()
	rec := dbmodels.WorkspaceTimeThreshold{
		SpaceID:   spaceID,
		CreatedAt: now,
	}
	if current != nil {
		rec = *current
	}
	rec.Threshold = data.Threshold
	if data.PauseExempt != nil {
		rec.PauseExempt = *data.PauseExempt
	}
	if data.ResumeThreshold != nil {
		rec.ResumeThresholdMinutes = data.ResumeThreshold
	}
	rec.UpdatedAt = now
	err = i.store.Save(rec)
	if err != nil {
		logger.WithError(err).Error("failed to save workspace threshold")
		return ttapimodels.ThresholdView{}, errors.New("failed to update workspace threshold")
	}
	logger.
		WithField("threshold", rec.Threshold).
		Info("workspace threshold updated")
	return ttapimodels.ThresholdConvert(rec), nil
}
