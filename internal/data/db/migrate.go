package db

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/a-korvus/business-management-system/internal/domain/org"
	"github.com/a-korvus/business-management-system/internal/domain/team"
)

// SetupJoinTables registers the explicit join row types so gorm uses the same
// tables for preloads and for direct membership inserts.
func SetupJoinTables(db *gorm.DB) error {
	if err := db.SetupJoinTable(&team.Meeting{}, "Members", &team.MeetingMember{}); err != nil {
		return fmt.Errorf("setup meeting_users join table: %w", err)
	}
	if err := db.SetupJoinTable(&team.CalendarEvent{}, "Participants", &team.EventParticipant{}); err != nil {
		return fmt.Errorf("setup users_calendar_events join table: %w", err)
	}
	return nil
}

func AutoMigrateAll(db *gorm.DB) error {
	if err := SetupJoinTables(db); err != nil {
		return err
	}
	return db.AutoMigrate(
		// =========================
		// Organization
		// =========================
		&org.Command{},
		&org.User{},

		// =========================
		// Team scheduling
		// =========================
		&team.CalendarEvent{},
		&team.Meeting{},
		&team.Task{},
		&team.TaskComment{},
	)
}
