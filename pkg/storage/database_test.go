package storage_test

import (
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/delegasi/delegation-manager/pkg/config"
	"github.com/delegasi/delegation-manager/pkg/model"
	"github.com/delegasi/delegation-manager/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDatabase_SQLite(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	path := filepath.Join(t.TempDir(), "delegation.db")

	db, err := storage.NewDatabase(logger, config.Database{Driver: "sqlite", Path: path})
	require.NoError(t, err)

	for _, table := range []any{&model.Division{}, &model.User{}, &model.Event{}, &model.Response{}} {
		assert.True(t, db.Migrator().HasTable(table))
	}
}

func TestNewDatabase_UnsupportedDriver(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)

	_, err := storage.NewDatabase(logger, config.Database{Driver: "oracle"})

	require.ErrorContains(t, err, `unsupported database driver: "oracle"`)
}
