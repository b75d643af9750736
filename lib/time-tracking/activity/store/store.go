package ttactivitystore

import (
	dbmodels "time-tracker-backend/models/db"

	"gorm.io/gorm"
)

// Provider has no update or delete, activity rows are append-only
type Provider interface {
	Create(rec dbmodels.TimeTrackingActivity) (id string, err error)
	ListCount(spaceID, requestID string) (count int64, err error)
	List(spaceID, requestID string, page, limit int) (list []dbmodels.TimeTrackingActivity, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.TimeTrackingActivity) (id string, err error) {
	err = i.db.
		Create(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) ListCount(spaceID, requestID string) (count int64, err error) {
	var rowCount int64
	err = i.db.
		Model(dbmodels.TimeTrackingActivity{}).
		Where("space_id = ?", spaceID).
		Where("request_id = ?", requestID).
		Count(&rowCount).
		Error
	if err != nil {
		return 0, err
	}
	return rowCount, nil
}

func (i impl) List(spaceID, requestID string, page, limit int) (list []dbmodels.TimeTrackingActivity, err error) {
	list = []dbmodels.TimeTrackingActivity{}
	offset := (page - 1) * limit
	err = i.db.
		Model(dbmodels.TimeTrackingActivity{}).
		Where("space_id = ?", spaceID).
		Where("request_id = ?", requestID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}
