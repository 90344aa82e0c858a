package db

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/a-korvus/business-management-system/internal/pkg/logger"
)

// Config selects and configures the storage engine.
type Config struct {
	Driver     string // postgres|sqlite
	Postgres   PostgresConfig
	SQLitePath string
}

// Open connects to the configured engine and returns the shared pool.
func Open(cfg Config, logg *logger.Logger) (*gorm.DB, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", "postgres", "postgresql":
		svc, err := NewPostgresService(cfg.Postgres, logg)
		if err != nil {
			return nil, err
		}
		return svc.DB(), nil
	case "sqlite", "sqlite3":
		svc, err := NewSQLiteService(cfg.SQLitePath, logg)
		if err != nil {
			return nil, err
		}
		return svc.DB(), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Driver)
	}
}

func gormConfig(logg *logger.Logger) *gorm.Config {
	return &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		NowFunc:                                  func() time.Time { return time.Now().UTC() },
		Logger: gormLogger.New(
			gormWriter{log: logg.With("component", "gorm")},
			gormLogger.Config{
				SlowThreshold:             1 * time.Second,
				LogLevel:                  gormLogger.Warn,
				IgnoreRecordNotFoundError: true,
				Colorful:                  false,
			},
		),
	}
}

// gormWriter routes gorm's printf-style output into the structured logger.
type gormWriter struct {
	log *logger.Logger
}

func (w gormWriter) Printf(format string, args ...interface{}) {
	w.log.Warn(strings.TrimSpace(fmt.Sprintf(format, args...)))
}
