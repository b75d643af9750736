package db

import (
	"fmt"

	gorm_logrus "github.com/onrik/gorm-logrus"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

const (
	DriverPostgres = "postgres"
	DriverSqlite   = "sqlite"
)

var DB *gorm.DB

type ConnectParams struct {
	Driver     string
	Host       string
	Port       string
	Database   string
	User       string
	Password   string
	SqlitePath string
	DebugMode  bool
	Migrate    bool
}

func Connect(params ConnectParams) (err error) {
	if DB != nil {
		return nil
	}
	var conn *gorm.DB
	switch params.Driver {
	case DriverSqlite:
		conn, err = OpenSqlite(params.SqlitePath)
	case DriverPostgres, "":
		dbConnString := fmt.Sprintf("host=%s port=%s user=%s dbname=%s sslmode=disable password=%s",
			params.Host, params.Port, params.User, params.Database, params.Password)
		conn, err = gorm.Open(postgres.Open(dbConnString), gormConfig())
	default:
		return errors.Errorf("unknown database driver %q", params.Driver)
	}
	if err != nil {
		return errors.Wrap(err, "failed to connect to database")
	}
	if params.DebugMode {
		conn.Logger = logger.Default.LogMode(logger.Info)
		conn = conn.Debug()
	}
	if params.Migrate {
		if err = Migrate(conn); err != nil {
			return err
		}
	}
	DB = conn
	log.WithField("driver", params.Driver).Info("database connected")
	return nil
}

// OpenSqlite opens a single-connection database file, sqlite allows one writer at a time
func OpenSqlite(path string) (*gorm.DB, error) {
	conn, err := gorm.Open(sqlite.Dialector{
		DriverName: "sqlite",
		DSN:        path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)",
	}, gormConfig())
	if err != nil {
		return nil, err
	}
	sqlDB, err := conn.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	return conn, nil
}

func gormConfig() *gorm.Config {
	return &gorm.Config{
		Logger:                                   gorm_logrus.New(),
		DisableForeignKeyConstraintWhenMigrating: true,
	}
}

func PingDB() error {
	db, err := DB.DB()
	if err != nil {
		return err
	}
	if err = db.Ping(); err != nil {
		return err
	}
	return nil
}
