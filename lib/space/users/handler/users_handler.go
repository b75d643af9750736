package spaceusershandler

import (
	"time-tracker-backend/db"
	"time-tracker-backend/lib/cache"
	spaceusersstore "time-tracker-backend/lib/space/users/store"
	initchecker "time-tracker-backend/lib/utils/init-checker"
	"time-tracker-backend/models"
	apimodels "time-tracker-backend/models/api"
	spaceapimodels "time-tracker-backend/models/api/space"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Provider interface {
	GetList(spaceID string, pagination apimodels.Pagination) (spaceapimodels.MemberListView, error)
	Upsert(spaceID, userID string, data spaceapimodels.MemberData) (spaceapimodels.MemberView, error)
}

var Instance Provider

func NewHandler() {
	initchecker.CheckInit("cache", cache.Instance)
	Instance = NewInstance(db.DB, cache.Instance)
}

// NewInstance takes the query cache whose request views embed member profiles
func NewInstance(DB *gorm.DB, queryCache cache.Provider) Provider {
	return impl{
		spaceUserStore: spaceusersstore.NewInstance(DB),
		queryCache:     queryCache,
	}
}

type impl struct {
	spaceUserStore spaceusersstore.Provider
	queryCache     cache.Provider
}

func (i impl) GetList(spaceID string, pagination apimodels.Pagination) (spaceapimodels.MemberListView, error) {
	logger := log.WithField("space_id", spaceID)
	page, limit := pagination.GetPage()
	rowCount, err := i.spaceUserStore.ListCount(spaceID)
	if err != nil {
		logger.WithError(err).Error("error counting workspace members")
		return spaceapimodels.MemberListView{}, err
	}
	list, err := i.spaceUserStore.GetList(spaceID, page, limit)
	if err != nil {
		logger.WithError(err).Error("error getting workspace members")
		return spaceapimodels.MemberListView{}, err
	}
	result := spaceapimodels.MemberListView{
		Members:    make([]spaceapimodels.MemberView, 0, len(list)),
		TotalCount: rowCount,
		TotalPages: apimodels.TotalPages(rowCount, limit),
	}
	for _, rec := range list {
		result.Members = append(result.Members, spaceapimodels.MemberConvert(rec))
	}
	return result, nil
}

func (i impl) Upsert(spaceID, userID string, data spaceapimodels.MemberData) (spaceapimodels.MemberView, error) {
	logger := log.
		WithField("space_id", spaceID).
		WithField("user_id", userID)
	if userID == "" {
		return spaceapimodels.MemberView{}, models.NewValidationError("user id is required")
	}
	if err := data.Validate(); err != nil {
		return spaceapimodels.MemberView{}, err
	}
	existing, err := i.spaceUserStore.FindByID(userID)
	if err != nil {
		logger.WithError(err).Error("error getting member profile")
		return spaceapimodels.MemberView{}, err
	}
	if existing != nil && existing.SpaceID != spaceID {
		return spaceapimodels.MemberView{}, models.NewForbiddenError("user belongs to another workspace")
	}
	rec := data.ToDbModel(spaceID, userID)
	if existing != nil {
		rec.CreatedAt = existing.CreatedAt
	}
	_, err = i.spaceUserStore.Save(rec)
	if err != nil {
		logger.WithError(err).Error("error saving member profile")
		return spaceapimodels.MemberView{}, errors.Wrap(err, "error saving member profile")
	}
	i.queryCache.Invalidate(spaceID)
	logger.Info("member profile synced")
	saved, err := i.spaceUserStore.GetByID(spaceID, userID)
	if err != nil || saved == nil {
		return spaceapimodels.MemberView{}, errors.New("member profile not found after save")
	}
	return spaceapimodels.MemberConvert(*saved), nil
}
