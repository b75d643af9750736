package spaceusersstore

import (
	dbmodels "time-tracker-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Provider interface {
	Save(rec dbmodels.SpaceUser) (string, error)
	GetByID(spaceID, userID string) (rec *dbmodels.SpaceUser, err error)
	// FindByID looks the profile up in any workspace
	FindByID(userID string) (rec *dbmodels.SpaceUser, err error)
	GetList(spaceID string, page, limit int) (userList []dbmodels.SpaceUser, err error)
	ListCount(spaceID string) (int64, error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

// Save inserts a profile or overwrites the stored one with the same id
func (i impl) Save(rec dbmodels.SpaceUser) (string, error) {
	err := i.db.
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(spaceID, userID string) (rec *dbmodels.SpaceUser, err error) {
	err = i.db.Model(dbmodels.SpaceUser{}).
		Where("space_id = ?", spaceID).
		Where("id = ?", userID).
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

func (i impl) FindByID(userID string) (rec *dbmodels.SpaceUser, err error) {
	err = i.db.Model(dbmodels.SpaceUser{}).
		Where("id = ?", userID).
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

func (i impl) GetList(spaceID string, page, limit int) (userList []dbmodels.SpaceUser, err error) {
	userList = []dbmodels.SpaceUser{}
	tx := i.db.Model(dbmodels.SpaceUser{}).
		Where("space_id = ?", spaceID)
	tx = i.setPage(tx, page, limit)
	err = tx.
		Order("last_name, first_name, id").
		Find(&userList).
		Error
	if err != nil {
		return nil, err
	}
	return userList, nil
}

func (i impl) ListCount(spaceID string) (int64, error) {
	var rowCount int64
	err := i.db.Model(dbmodels.SpaceUser{}).
		Where("space_id = ?", spaceID).
		Count(&rowCount).
		Error
	return rowCount, err
}

func (i impl) setPage(tx *gorm.DB, page, limit int) *gorm.DB {
	offset := (page - 1) * limit
	return tx.Limit(limit).Offset(offset)
}
