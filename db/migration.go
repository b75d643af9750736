package db

import (
	dbmodels "time-tracker-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func Migrate(conn *gorm.DB) error {
	log.Info("running migrations")
	if err := conn.AutoMigrate(&dbmodels.SpaceUser{}); err != nil {
		return errors.Wrap(err, "failed to migrate SpaceUser")
	}
	if err := conn.AutoMigrate(&dbmodels.TimeTrackingRequest{}); err != nil {
		return errors.Wrap(err, "failed to migrate TimeTrackingRequest")
	}
	if err := conn.AutoMigrate(&dbmodels.TimeTrackingComment{}); err != nil {
		return errors.Wrap(err, "failed to migrate TimeTrackingComment")
	}
	if err := conn.AutoMigrate(&dbmodels.TimeTrackingActivity{}); err != nil {
		return errors.Wrap(err, "failed to migrate TimeTrackingActivity")
	}
	if err := conn.AutoMigrate(&dbmodels.WorkspaceTimeThreshold{}); err != nil {
		return errors.Wrap(err, "failed to migrate WorkspaceTimeThreshold")
	}
	log.Info("migrations done")
	return nil
}
