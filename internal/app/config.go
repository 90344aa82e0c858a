package app

import (
	"database/sql"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/a-korvus/business-management-system/internal/data/aggregates"
	"github.com/a-korvus/business-management-system/internal/data/db"
	"github.com/a-korvus/business-management-system/internal/observability"
	"github.com/a-korvus/business-management-system/internal/pkg/envutil"
	"github.com/a-korvus/business-management-system/internal/pkg/logger"
)

type Config struct {
	HTTPAddr        string
	ShutdownTimeout time.Duration
	CORSOrigins     []string

	DB          db.Config
	TxIsolation sql.IsolationLevel

	MetricsEnabled bool
	// MetricsAddr serves /metrics on its own listener when set; otherwise the
	// API router exposes it.
	MetricsAddr string

	Otel observability.OtelConfig
}

// LogMode is read before the logger exists.
func LogMode() string {
	mode := strings.TrimSpace(os.Getenv("LOG_MODE"))
	if mode == "" {
		mode = "development"
	}
	return mode
}

// LoadConfig reads the environment, with CONFIG_FILE supplying defaults for
// any key the environment leaves unset.
func LoadConfig(log *logger.Logger) (Config, error) {
	var file map[string]string
	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		vals, err := envutil.LoadFile(path)
		if err != nil {
			return Config{}, err
		}
		file = vals
		log.Info("Loaded config file", "path", path)
	}
	env := envutil.New(file, log)

	isolation, err := aggregates.ParseIsolation(env.String("TX_ISOLATION", ""))
	if err != nil {
		return Config{}, fmt.Errorf("TX_ISOLATION: %w", err)
	}

	cfg := Config{
		HTTPAddr:        env.String("HTTP_ADDR", ":8080"),
		ShutdownTimeout: env.Duration("SHUTDOWN_TIMEOUT", 15*time.Second),
		CORSOrigins:     env.List("CORS_ORIGINS"),
		DB: db.Config{
			Driver: env.String("DB_DRIVER", "postgres"),
			Postgres: db.PostgresConfig{
				DSN:             env.String("POSTGRES_DSN", ""),
				Host:            env.String("POSTGRES_HOST", "localhost"),
				Port:            env.String("POSTGRES_PORT", "5432"),
				User:            env.String("POSTGRES_USER", "postgres"),
				Password:        env.String("POSTGRES_PASSWORD", ""),
				Name:            env.String("POSTGRES_NAME", "bms"),
				SSLMode:         env.String("POSTGRES_SSLMODE", "disable"),
				MaxOpenConns:    env.Int("POSTGRES_MAX_OPEN_CONNS", 20),
				MaxIdleConns:    env.Int("POSTGRES_MAX_IDLE_CONNS", 5),
				ConnMaxLifetime: env.Duration("POSTGRES_CONN_MAX_LIFETIME", 30*time.Minute),
			},
			SQLitePath: env.String("SQLITE_PATH", ""),
		},
		TxIsolation:    isolation,
		MetricsEnabled: env.Bool("METRICS_ENABLED", false),
		MetricsAddr:    env.String("METRICS_ADDR", ""),
		Otel: observability.OtelConfig{
			Enabled:     env.Bool("OTEL_ENABLED", false),
			ServiceName: env.String("OTEL_SERVICE_NAME", "business-management-system"),
			Environment: env.String("OTEL_ENVIRONMENT", LogMode()),
			Version:     env.String("OTEL_SERVICE_VERSION", ""),
			Endpoint:    env.String("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			Headers:     observability.ParseHeaders(env.String("OTEL_EXPORTER_OTLP_HEADERS", "")),
			Insecure:    env.Bool("OTEL_EXPORTER_OTLP_INSECURE", false),
			SampleRatio: observability.ClampRatio(env.Float("OTEL_SAMPLER_RATIO", 0.1)),
		},
	}
	return cfg, nil
}
