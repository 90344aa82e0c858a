package db

import (
	"fmt"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/a-korvus/business-management-system/internal/pkg/logger"
)

type SQLiteService struct {
	db  *gorm.DB
	log *logger.Logger
}

// NewSQLiteService opens a SQLite database. SQLite serializes writers, so the
// pool is pinned to one connection; every statement inside a unit of work must
// go through its transaction handle.
func NewSQLiteService(path string, logg *logger.Logger) (*SQLiteService, error) {
	serviceLog := logg.With("service", "SQLiteService")

	path = strings.TrimSpace(path)
	if path == "" {
		path = "file::memory:?cache=shared"
	}
	db, err := gorm.Open(sqlite.Open(path), gormConfig(logg))
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite %q: %w", path, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access SQLite pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := SetupJoinTables(db); err != nil {
		return nil, err
	}

	serviceLog.Info("opened SQLite", "path", path)
	return &SQLiteService{db: db, log: serviceLog}, nil
}

func (s *SQLiteService) DB() *gorm.DB { return s.db }

func (s *SQLiteService) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
