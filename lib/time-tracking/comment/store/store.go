package ttcommentstore

import (
	dbmodels "time-tracker-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.TimeTrackingComment) (id string, err error)
	GetByID(requestID, id string) (rec *dbmodels.TimeTrackingComment, err error)
	List(requestID string) (list []dbmodels.TimeTrackingComment, err error)
	Update(requestID, id string, updMap map[string]interface{}) error
	Delete(requestID, id string) error
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.TimeTrackingComment) (id string, err error) {
	err = i.db.
		Omit("User").
		Create(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(requestID, id string) (rec *dbmodels.TimeTrackingComment, err error) {
	err = i.db.
		Model(dbmodels.TimeTrackingComment{}).
		Where("request_id = ?", requestID).
		Where("id = ?", id).
		Preload("User").
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return rec, nil
}

func (i impl) List(requestID string) (list []dbmodels.TimeTrackingComment, err error) {
	list = []dbmodels.TimeTrackingComment{}
	err = i.db.
		Model(dbmodels.TimeTrackingComment{}).
		Where("request_id = ?", requestID).
		Order("created_at, id").
		Preload("User").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) Update(requestID, id string, updMap map[string]interface{}) error {
	return i.db.
		Model(&dbmodels.TimeTrackingComment{}).
		Where("request_id = ?", requestID).
		Where("id = ?", id).
		Updates(updMap).
		Error
}

func (i impl) Delete(requestID, id string) error {
	return i.db.
		Where("request_id = ?", requestID).
		Where("id = ?", id).
		Delete(&dbmodels.TimeTrackingComment{}).
		Error
}
