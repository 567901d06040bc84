// Package infrastructure assembles the shared subsystems every domain
// module depends on: lifecycle coordination, structured logging, the
// database pool, and blob storage.
package infrastructure

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/isoguard/isoguard/internal/config"
	"github.com/isoguard/isoguard/pkg/database"
	"github.com/isoguard/isoguard/pkg/lifecycle"
	"github.com/isoguard/isoguard/pkg/storage"
)

// Infrastructure bundles the core subsystems handed to domain modules.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  database.System
	Storage   storage.System
}

// New constructs every subsystem from configuration without starting any
// of them; Start registers their lifecycle hooks.
func New(cfg *config.Config) (*Infrastructure, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	store, err := storage.New(&cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("storage init failed: %w", err)
	}

	return &Infrastructure{
		Lifecycle: lifecycle.New(),
		Logger:    logger,
		Database:  db,
		Storage:   store,
	}, nil
}

// Start registers the database and storage hooks with the lifecycle
// coordinator.
func (i *Infrastructure) Start() error {
	if err := i.Database.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("database start failed: %w", err)
	}
	if err := i.Storage.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("storage start failed: %w", err)
	}
	return nil
}
