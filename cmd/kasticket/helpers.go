package main

import (
	"context"
	"fmt"

	"github.com/kasticket/kasticket/internal/common"
	"github.com/kasticket/kasticket/internal/config"
	"github.com/kasticket/kasticket/internal/storage"
	"github.com/spf13/viper"
)

// openStorage opens the configured database and brings its schema up to
// date. Callers own the returned storage and must Close it.
func openStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		defaultPath, err := config.DefaultDatabasePath()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve database path: %w", err)
		}
		dbPath = defaultPath
	}
	dbPath = config.ExpandPath(dbPath)

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// requireUser resolves the acting user from the --user flag or config.
func requireUser() (string, error) {
	userID := viper.GetString("user")
	if userID == "" {
		userID = viper.GetString("profile.user")
	}
	if userID == "" {
		return "", common.NewUserError("no user specified: pass --user or set profile.user in config", common.ErrMissingConfig)
	}
	return userID, nil
}
