package inttest

import (
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/delegasi/delegation-manager/pkg/config"
	"github.com/delegasi/delegation-manager/pkg/storage"
	_ "github.com/lib/pq" // postgres driver
	"github.com/orlangure/gnomock"
	"github.com/orlangure/gnomock/preset/postgres"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// SetupDB creates a PostgreSQL container. Gorm is connected to the DB and runs the migrations.
func SetupDB(t *testing.T) *gorm.DB {
	t.Helper()

	container, err := gnomock.Start(
		postgres.Preset(
			postgres.WithUser("delegation", "delegation"),
			postgres.WithDatabase("test_delegation"),
		),
	)
	require.NoError(t, err, "failed to start DB")
	t.Cleanup(func() { require.NoError(t, gnomock.Stop(container), "failed to stop DB") })

	db, err := storage.NewDatabase(slog.New(slog.DiscardHandler), config.Database{
		Driver: "postgres",
		Postgresql: config.Postgresql{
			Host:         container.Host,
			Port:         container.DefaultPort(),
			Username:     "delegation",
			Password:     "delegation",
			DatabaseName: "test_delegation",
		},
	})
	require.NoError(t, err, "failed to setup DB")
	return db
}

// SetupSQLite creates a SQLite database in a temporary directory. Gorm is connected to the DB and
// runs the migrations. It does not need Docker so it is used by tests that also run with -short.
func SetupSQLite(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := storage.NewDatabase(slog.New(slog.DiscardHandler), config.Database{
		Driver: "sqlite",
		Path:   filepath.Join(t.TempDir(), "test.db"),
	})
	require.NoError(t, err, "failed to setup DB")

	sqlDB, err := db.DB()
	require.NoError(t, err, "failed to get DB")
	t.Cleanup(func() { require.NoError(t, sqlDB.Close(), "failed to close DB") })
	return db
}
