package testutil

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/a-korvus/business-management-system/internal/data/db"
	"github.com/a-korvus/business-management-system/internal/domain/org"
	"github.com/a-korvus/business-management-system/internal/domain/team"
	"github.com/a-korvus/business-management-system/internal/pkg/logger"
)

var errMissingDSN = errors.New("missing TEST_POSTGRES_DSN")

var (
	pgOnce sync.Once
	pgDB   *gorm.DB
	pgErr  error

	logOnce sync.Once
	logg    *logger.Logger
	logErr  error
)

func Logger(tb testing.TB) *logger.Logger {
	tb.Helper()
	logOnce.Do(func() {
		logg, logErr = logger.New("test")
	})
	if logErr != nil {
		tb.Fatalf("failed to init logger: %v", logErr)
	}
	return logg
}

// DB returns a migrated database for one test: the shared PostgreSQL database
// when TEST_POSTGRES_DSN is set, otherwise a private in-memory SQLite database.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()
	if os.Getenv("TEST_POSTGRES_DSN") != "" {
		return Postgres(tb)
	}
	return SQLite(tb)
}

// SQLite opens an isolated in-memory database that lives until the test ends.
// The pool holds a single connection, so statements issued while a unit of
// work is open must use its transaction.
func SQLite(tb testing.TB) *gorm.DB {
	tb.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(tb.Name())
	dsn := fmt.Sprintf("file:%s_%s?mode=memory&cache=shared", name, uuid.NewString()[:8])
	svc, err := db.NewSQLiteService(dsn, Logger(tb))
	if err != nil {
		tb.Fatalf("open sqlite: %v", err)
	}
	tb.Cleanup(func() { _ = svc.Close() })
	if err := db.AutoMigrateAll(svc.DB()); err != nil {
		tb.Fatalf("migrate sqlite: %v", err)
	}
	return svc.DB()
}

// Postgres returns the shared PostgreSQL test database or skips the test.
func Postgres(tb testing.TB) *gorm.DB {
	tb.Helper()

	pgOnce.Do(func() {
		dsn := os.Getenv("TEST_POSTGRES_DSN")
		if dsn == "" {
			pgErr = errMissingDSN
			return
		}

		var err error
		pgDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
			DisableForeignKeyConstraintWhenMigrating: true,
			Logger:                                   gormLogger.Default.LogMode(gormLogger.Silent),
		})
		if err != nil {
			pgErr = err
			return
		}

		if err := db.AutoMigrateAll(pgDB); err != nil {
			pgErr = err
			return
		}
	})

	if errors.Is(pgErr, errMissingDSN) {
		tb.Skip("set TEST_POSTGRES_DSN to run PostgreSQL integration tests")
	}
	if pgErr != nil {
		tb.Fatalf("failed to init test db: %v", pgErr)
	}
	return pgDB
}

func Tx(tb testing.TB, db *gorm.DB) *gorm.DB {
	tb.Helper()
	tx := db.Begin()
	if tx.Error != nil {
		tb.Fatalf("begin tx: %v", tx.Error)
	}
	tb.Cleanup(func() {
		_ = tx.Rollback().Error
	})
	return tx
}

func SeedCommand(tb testing.TB, db *gorm.DB) *org.Command {
	tb.Helper()
	cmd := &org.Command{Name: "command-" + uuid.NewString(), IsActive: true}
	if err := db.Create(cmd).Error; err != nil {
		tb.Fatalf("seed command: %v", err)
	}
	return cmd
}

func SeedUser(tb testing.TB, db *gorm.DB, cmd *org.Command) *org.User {
	tb.Helper()
	u := &org.User{Email: uuid.NewString() + "@example.test", IsActive: true}
	if cmd != nil {
		id := cmd.ID
		u.CommandID = &id
	}
	if err := db.Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

// SeedEvent stores an active GENERAL event with the given participants.
func SeedEvent(tb testing.TB, db *gorm.DB, start, end time.Time, participants ...*org.User) *team.CalendarEvent {
	tb.Helper()
	ev, err := team.NewCalendarEvent("seed", start, end, team.EventTypeGeneral, participants)
	if err != nil {
		tb.Fatalf("seed event: %v", err)
	}
	if err := db.Omit("Participants").Create(ev).Error; err != nil {
		tb.Fatalf("seed event: %v", err)
	}
	for _, u := range participants {
		row := team.EventParticipant{UserID: u.ID, CalendarEventID: ev.ID}
		if err := db.Create(&row).Error; err != nil {
			tb.Fatalf("seed participant: %v", err)
		}
	}
	return ev
}

func SeedTask(tb testing.TB, db *gorm.DB, assignee *org.User, due time.Time, grade *team.TaskGrade) *team.Task {
	tb.Helper()
	task := &team.Task{
		Title:      "task-" + uuid.NewString()[:8],
		Status:     team.TaskOpen,
		Grade:      grade,
		DueDate:    due,
		IsActive:   true,
		CreatorID:  assignee.ID,
		AssigneeID: assignee.ID,
	}
	if err := db.Create(task).Error; err != nil {
		tb.Fatalf("seed task: %v", err)
	}
	return task
}

// Count returns the number of rows in model's table matching the condition.
func Count(tb testing.TB, db *gorm.DB, model interface{}, query string, args ...interface{}) int64 {
	tb.Helper()
	var n int64
	q := db.Model(model)
	if query != "" {
		q = q.Where(query, args...)
	}
	if err := q.Count(&n).Error; err != nil {
		tb.Fatalf("count: %v", err)
	}
	return n
}
