package team

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/a-korvus/business-management-system/internal/domain/team"
	"github.com/a-korvus/business-management-system/internal/pkg/dbctx"
	"github.com/a-korvus/business-management-system/internal/pkg/logger"
)

type MeetingRepo interface {
	Add(dbc dbctx.Context, m *team.Meeting) (*team.Meeting, error)

	GetByID(dbc dbctx.Context, id uuid.UUID) (*team.Meeting, error)
	GetByIDWithDetail(dbc dbctx.Context, id uuid.UUID) (*team.Meeting, error)
	ListAll(dbc dbctx.Context, limit, offset int) ([]*team.Meeting, error)
	CountByCalendarEventID(dbc dbctx.Context, eventID uuid.UUID) (int64, error)

	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
	AppendMembers(dbc dbctx.Context, meetingID uuid.UUID, userIDs []uuid.UUID) error
}

type meetingRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMeetingRepo(db *gorm.DB, baseLog *logger.Logger) MeetingRepo {
	return &meetingRepo{db: db, log: baseLog.With("repo", "MeetingRepo")}
}

// Add inserts the meeting row and its member join rows. The owned calendar
// event must already be persisted.
func (r *meetingRepo) Add(dbc dbctx.Context, m *team.Meeting) (*team.Meeting, error) {
	t, err := dbc.DB(r.db)
	if err != nil {
		return nil, err
	}
	if err := t.Omit(clause.Associations).Create(m).Error; err != nil {
		return nil, err
	}
	if err := insertMembers(t, m.ID, m.MemberIDs()); err != nil {
		return nil, err
	}
	return m, nil
}

func (r *meetingRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*team.Meeting, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	t, err := dbc.DB(r.db)
	if err != nil {
		return nil, err
	}
	var row team.Meeting
	if err := t.Where("id = ?", id).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

// GetByIDWithDetail loads members, the owned event and its participants.
func (r *meetingRepo) GetByIDWithDetail(dbc dbctx.Context, id uuid.UUID) (*team.Meeting, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	t, err := dbc.DB(r.db)
	if err != nil {
		return nil, err
	}
	var row team.Meeting
	err = t.Preload("Members", orderUsers).
		Preload("CalendarEvent").
		Preload("CalendarEvent.Participants", orderUsers).
		Where("id = ?", id).
		Limit(1).
		Find(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *meetingRepo) ListAll(dbc dbctx.Context, limit, offset int) ([]*team.Meeting, error) {
	t, err := dbc.DB(r.db)
	if err != nil {
		return nil, err
	}
	var out []*team.Meeting
	if err := paginate(t.Order("start_time ASC, id ASC"), limit, offset).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *meetingRepo) CountByCalendarEventID(dbc dbctx.Context, eventID uuid.UUID) (int64, error) {
	t, err := dbc.DB(r.db)
	if err != nil {
		return 0, err
	}
	var n int64
	if err := t.Model(&team.Meeting{}).Where("calendar_event_id = ?", eventID).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *meetingRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	if id == uuid.Nil || len(updates) == 0 {
		return nil
	}
	t, err := dbc.DB(r.db)
	if err != nil {
		return err
	}
	return t.Model(&team.Meeting{}).Where("id = ?", id).Updates(updates).Error
}

func (r *meetingRepo) AppendMembers(dbc dbctx.Context, meetingID uuid.UUID, userIDs []uuid.UUID) error {
	t, err := dbc.DB(r.db)
	if err != nil {
		return err
	}
	return insertMembers(t, meetingID, userIDs)
}

func insertMembers(t *gorm.DB, meetingID uuid.UUID, userIDs []uuid.UUID) error {
	ids := dedupe(userIDs)
	if meetingID == uuid.Nil || len(ids) == 0 {
		return nil
	}
	rows := make([]team.MeetingMember, 0, len(ids))
	for _, id := range ids {
		rows = append(rows, team.MeetingMember{MeetingID: meetingID, UserID: id})
	}
	return t.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}
