// Package store provides the GORM-based persistent store for Storycat.
// It uses the pure-Go SQLite driver and holds four record collections:
// cached stories, favorites, pending (offline-created) stories, and the
// sync queue, plus sync metadata and the auth session.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/story-catalog/storycat/internal/models"
)

// ErrStorageUnavailable indicates the durable medium cannot be opened.
// Callers should degrade to the in-memory session-only store rather
// than crash.
var ErrStorageUnavailable = errors.New("storage unavailable")

// Store wraps the GORM database connection with Storycat-specific
// operations. Each collection is updated independently; cross-collection
// atomicity is not guaranteed and callers must not assume it.
type Store struct {
	*gorm.DB
	path string
}

// Config holds store configuration options.
type Config struct {
	Path        string
	Debug       bool
	MaxIdleConn int
	MaxOpenConn int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig(path string) Config {
	return Config{
		Path:        path,
		Debug:       false,
		MaxIdleConn: 1,
		MaxOpenConn: 1,
	}
}

// New creates a new store and runs migrations. Open failures are wrapped
// with ErrStorageUnavailable.
func New(cfg Config) (*Store, error) {
	dir := filepath.Dir(cfg.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("%w: create store directory: %v", ErrStorageUnavailable, err)
	}

	// DELETE journal mode for simpler transaction handling
	// (WAL mode has visibility issues with the pure-Go SQLite driver)
	dsn := fmt.Sprintf("%s?_pragma=journal_mode(DELETE)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)", cfg.Path)

	return open(dsn, cfg)
}

// NewInMemory creates a session-only store backed by an in-memory
// database. Used as the fallback when durable storage is unavailable.
func NewInMemory() (*Store, error) {
	cfg := DefaultConfig(":memory:")
	return open(":memory:", cfg)
}

func open(dsn string, cfg Config) (*Store, error) {
	logLevel := logger.Silent
	if cfg.Debug {
		logLevel = logger.Info
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                 logger.Default.LogMode(logLevel),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: open database: %v", ErrStorageUnavailable, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("%w: get sql.DB: %v", ErrStorageUnavailable, err)
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConn)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConn)
	sqlDB.SetConnMaxLifetime(time.Hour)

	wrapped := &Store{DB: db, path: cfg.Path}

	if err := wrapped.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	if err := wrapped.seedSyncMeta(); err != nil {
		return nil, fmt.Errorf("seed sync meta: %w", err)
	}

	return wrapped, nil
}

// migrate runs GORM auto-migrations for all models.
func (s *Store) migrate() error {
	return s.AutoMigrate(
		&models.Story{},
		&models.Favorite{},
		&models.PendingStory{},
		&models.SyncQueueItem{},
		&models.SyncMeta{},
		&models.Session{},
	)
}

// seedSyncMeta inserts default sync metadata if not present.
func (s *Store) seedSyncMeta() error {
	defaults := []models.SyncMeta{
		{Key: models.SyncMetaLastFullSync, Value: ""},
		{Key: models.SyncMetaSchemaVersion, Value: "1"},
		{Key: models.SyncMetaTotalStories, Value: "0"},
	}

	for _, meta := range defaults {
		result := s.Where("key = ?", meta.Key).FirstOrCreate(&meta)
		if result.Error != nil {
			return result.Error
		}
	}

	return nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// InMemory returns true if the store is the session-only fallback.
func (s *Store) InMemory() bool {
	return s.path == ":memory:"
}

// Close closes the database connection.
func (s *Store) Close() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Transaction executes a function within a database transaction.
// The callback receives a *Store wrapper that uses the transaction.
func (s *Store) Transaction(fc func(tx *Store) error) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		wrappedTx := &Store{DB: tx, path: s.path}
		return fc(wrappedTx)
	})
}

// GetStats returns aggregate statistics about the store.
func (s *Store) GetStats() (*models.StoreStats, error) {
	var stats models.StoreStats

	if err := s.Model(&models.Story{}).Count(&stats.Stories).Error; err != nil {
		return nil, fmt.Errorf("count stories: %w", err)
	}

	if err := s.Model(&models.Favorite{}).Count(&stats.Favorites).Error; err != nil {
		return nil, fmt.Errorf("count favorites: %w", err)
	}

	if err := s.Model(&models.PendingStory{}).
		Where("synced = ?", false).
		Count(&stats.PendingStories).Error; err != nil {
		return nil, fmt.Errorf("count pending stories: %w", err)
	}

	if err := s.Model(&models.SyncQueueItem{}).Count(&stats.SyncQueue).Error; err != nil {
		return nil, fmt.Errorf("count sync queue: %w", err)
	}

	if info, err := os.Stat(s.path); err == nil {
		stats.CacheSizeBytes = info.Size()
	}

	stats.LastUpdated = time.Now()

	return &stats, nil
}

// ClearAll empties every collection. Sync metadata keeps its seeded keys.
func (s *Store) ClearAll() error {
	for _, model := range []interface{}{
		&models.Story{},
		&models.Favorite{},
		&models.PendingStory{},
		&models.SyncQueueItem{},
	} {
		if err := s.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}
