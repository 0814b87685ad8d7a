package storage

import (
	"fmt"
	"log/slog"

	"github.com/delegasi/delegation-manager/pkg/config"
	"github.com/delegasi/delegation-manager/pkg/model"
	slogGorm "github.com/orandin/slog-gorm"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// NewDatabase opens the database configured by c and migrates the schema. Queries are logged
// through logger and traced using OpenTelemetry.
func NewDatabase(logger *slog.Logger, c config.Database) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch c.Driver {
	case "postgres":
		dialector = postgres.Open(c.Postgresql.DSN())
	case "sqlite":
		// foreign keys are off by default in SQLite
		dialector = sqlite.Open(c.Path + "?_foreign_keys=on")
	default:
		return nil, fmt.Errorf("unsupported database driver: %q", c.Driver)
	}

	databaseConfig := gorm.Config{
		Logger: slogGorm.New(
			slogGorm.WithHandler(logger.Handler()),
			slogGorm.WithTraceAll(),
			slogGorm.SetLogLevel(slogGorm.DefaultLogType, slog.LevelDebug),
		),
		TranslateError: true,
	}

	db, err := gorm.Open(dialector, &databaseConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %v", c.Driver, err)
	}

	if err := db.Use(otelgorm.NewPlugin()); err != nil {
		return nil, fmt.Errorf("failed to register tracing plugin: %v", err)
	}

	if c.Driver == "sqlite" {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get sqlite database: %v", err)
		}
		// SQLite allows a single writer, concurrent writers fail with "database is locked"
		sqlDB.SetMaxOpenConns(1)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate creates or updates the tables of all domain objects.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&model.Division{},
		&model.User{},
		&model.Event{},
		&model.Response{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %v", err)
	}

	return nil
}
