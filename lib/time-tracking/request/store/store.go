package ttrequeststore

import (
	"time-tracker-backend/models"
	dbmodels "time-tracker-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.TimeTrackingRequest) (id string, err error)
	GetByID(spaceID, id string) (rec *dbmodels.TimeTrackingRequest, err error)
	// UpdateIfStatus applies updMap only while the request is in one of the given statuses,
	// updated is false when another writer got there first
	UpdateIfStatus(spaceID, id string, statuses []models.ApprovalStatus, updMap map[string]interface{}) (updated bool, err error)
	// UpdateContent applies updMap only while the request is editable and still at contentVersion, then bumps the version
	UpdateContent(spaceID, id string, statuses []models.ApprovalStatus, contentVersion int, updMap map[string]interface{}) (updated bool, err error)
	ListCount(spaceID string, filter Filter) (count int64, err error)
	List(spaceID string, filter Filter, page, limit int) (list []dbmodels.TimeTrackingRequest, err error)
	CountByStatus(spaceID, userID string) (counts map[models.ApprovalStatus]int64, err error)
}

type Filter struct {
	Statuses []models.ApprovalStatus
	UserID   string
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.TimeTrackingRequest) (id string, err error) {
	err = i.db.
		Omit("User").
		Create(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(spaceID, id string) (rec *dbmodels.TimeTrackingRequest, err error) {
	err = i.db.
		Model(dbmodels.TimeTrackingRequest{}).
		Where("space_id = ?", spaceID).
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

func (i impl) UpdateIfStatus(spaceID, id string, statuses []models.ApprovalStatus, updMap map[string]interface{}) (updated bool, err error) {
	if len(updMap) == 0 {
		return false, nil
	}
	result := i.db.
		Model(&dbmodels.TimeTrackingRequest{}).
		Where("space_id = ?", spaceID).
		Where("id = ?", id).
		Where("approval_status IN ?", statuses).
		Updates(updMap)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (i impl) UpdateContent(spaceID, id string, statuses []models.ApprovalStatus, contentVersion int, updMap map[string]interface{}) (updated bool, err error) {
	if len(updMap) == 0 {
		return false, nil
	}
	values := make(map[string]interface{}, len(updMap)+1)
	for key, value := range updMap {
		values[key] = value
	}
	values["content_version"] = gorm.Expr("content_version + 1")
	result := i.db.
		Model(&dbmodels.TimeTrackingRequest{}).
		Where("space_id = ?", spaceID).
		Where("id = ?", id).
		Where("approval_status IN ?", statuses).
		Where("content_version = ?", contentVersion).
		Updates(values)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (i impl) ListCount(spaceID string, filter Filter) (count int64, err error) {
	var rowCount int64
	tx := i.applyFilter(i.db.Model(dbmodels.TimeTrackingRequest{}), spaceID, filter)
	err = tx.Count(&rowCount).Error
	if err != nil {
		return 0, err
	}
	return rowCount, nil
}

func (i impl) List(spaceID string, filter Filter, page, limit int) (list []dbmodels.TimeTrackingRequest, err error) {
	list = []dbmodels.TimeTrackingRequest{}
	tx := i.applyFilter(i.db.Model(dbmodels.TimeTrackingRequest{}), spaceID, filter)
	if limit > 0 {
		tx = i.setPage(tx, page, limit)
	}
	err = tx.
		Order("created_at DESC, id DESC").
		Preload("User").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) CountByStatus(spaceID, userID string) (counts map[models.ApprovalStatus]int64, err error) {
	type statusCount struct {
		ApprovalStatus models.ApprovalStatus
		Total          int64
	}
	rows := []statusCount{}
	tx := i.applyFilter(i.db.Model(dbmodels.TimeTrackingRequest{}), spaceID, Filter{UserID: userID})
	err = tx.
		Select("approval_status, count(*) as total").
		Group("approval_status").
		Scan(&rows).
		Error
	if err != nil {
		return nil, err
	}
	counts = make(map[models.ApprovalStatus]int64, len(models.ApprovalStatuses))
	for _, row := range rows {
		counts[row.ApprovalStatus] = row.Total
	}
	return counts, nil
}

func (i impl) applyFilter(tx *gorm.DB, spaceID string, filter Filter) *gorm.DB {
	tx = tx.Where("space_id = ?", spaceID)
	if len(filter.Statuses) > 0 {
		tx = tx.Where("approval_status IN ?", filter.Statuses)
	}
	if filter.UserID != "" {
		tx = tx.Where("user_id = ?", filter.UserID)
	}
	return tx
}

func (i impl) setPage(tx *gorm.DB, page, limit int) *gorm.DB {
	offset := (page - 1) * limit
	return tx.Limit(limit).Offset(offset)
}
