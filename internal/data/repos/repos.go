package repos

import (
	"gorm.io/gorm"

	"github.com/a-korvus/business-management-system/internal/data/repos/org"
	"github.com/a-korvus/business-management-system/internal/data/repos/team"
	"github.com/a-korvus/business-management-system/internal/pkg/logger"
)

type PartnerRepo = org.PartnerRepo
type CommandRepo = org.CommandRepo

type CalendarEventRepo = team.CalendarEventRepo
type MeetingRepo = team.MeetingRepo
type TaskRepo = team.TaskRepo
type TaskCommentRepo = team.TaskCommentRepo

// Set is the fixed family of repositories a unit of work binds to one transaction.
type Set struct {
	Partners     PartnerRepo
	Commands     CommandRepo
	Events       CalendarEventRepo
	Meetings     MeetingRepo
	Tasks        TaskRepo
	TaskComments TaskCommentRepo
}

func NewPartnerRepo(db *gorm.DB, log *logger.Logger) PartnerRepo { return org.NewPartnerRepo(db, log) }
func NewCommandRepo(db *gorm.DB, log *logger.Logger) CommandRepo { return org.NewCommandRepo(db, log) }

func NewCalendarEventRepo(db *gorm.DB, log *logger.Logger) CalendarEventRepo {
	return team.NewCalendarEventRepo(db, log)
}
func NewMeetingRepo(db *gorm.DB, log *logger.Logger) MeetingRepo { return team.NewMeetingRepo(db, log) }
func NewTaskRepo(db *gorm.DB, log *logger.Logger) TaskRepo       { return team.NewTaskRepo(db, log) }
func NewTaskCommentRepo(db *gorm.DB, log *logger.Logger) TaskCommentRepo {
	return team.NewTaskCommentRepo(db, log)
}
