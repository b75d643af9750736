package ttthresholdstore

import (
	dbmodels "time-tracker-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Provider interface {
	Get(spaceID string) (rec *dbmodels.WorkspaceTimeThreshold, err error)
	Save(rec dbmodels.WorkspaceTimeThreshold) error
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Get(spaceID string) (rec *dbmodels.WorkspaceTimeThreshold, err error) {
	err = i.db.
		Model(dbmodels.WorkspaceTimeThreshold{}).
		Where("space_id = ?", spaceID).
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

func (i impl) Save(rec dbmodels.WorkspaceTimeThreshold) error {
	return i.db.
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&rec).
		Error
}
