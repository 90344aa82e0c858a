package team

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/a-korvus/business-management-system/internal/domain/team"
	"github.com/a-korvus/business-management-system/internal/pkg/dbctx"
	"github.com/a-korvus/business-management-system/internal/pkg/logger"
)

type CalendarEventRepo interface {
	Add(dbc dbctx.Context, ev *team.CalendarEvent) (*team.CalendarEvent, error)

	GetByID(dbc dbctx.Context, id uuid.UUID) (*team.CalendarEvent, error)
	GetByIDWithParticipants(dbc dbctx.Context, id uuid.UUID) (*team.CalendarEvent, error)
	ListAll(dbc dbctx.Context, limit, offset int) ([]*team.CalendarEvent, error)
	ListInPeriod(dbc dbctx.Context, p team.Period) ([]*team.CalendarEvent, error)
	ListForParticipantInPeriod(dbc dbctx.Context, userID uuid.UUID, p team.Period) ([]*team.CalendarEvent, error)

	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
	AppendParticipants(dbc dbctx.Context, eventID uuid.UUID, userIDs []uuid.UUID) error

	CheckOverlap(dbc dbctx.Context, start, end time.Time, participantIDs []uuid.UUID, excludingEventID *uuid.UUID) (*uuid.UUID, error)
}

type calendarEventRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCalendarEventRepo(db *gorm.DB, baseLog *logger.Logger) CalendarEventRepo {
	return &calendarEventRepo{db: db, log: baseLog.With("repo", "CalendarEventRepo")}
}

// Add inserts the event row and one join row per loaded participant.
func (r *calendarEventRepo) Add(dbc dbctx.Context, ev *team.CalendarEvent) (*team.CalendarEvent, error) {
	t, err := dbc.DB(r.db)
	if err != nil {
		return nil, err
	}
	if err := t.Omit(clause.Associations).Create(ev).Error; err != nil {
		return nil, err
	}
	if err := insertParticipants(t, ev.ID, participantIDs(ev)); err != nil {
		return nil, err
	}
	return ev, nil
}

func (r *calendarEventRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*team.CalendarEvent, error) {
	return r.get(dbc, id, false)
}

func (r *calendarEventRepo) GetByIDWithParticipants(dbc dbctx.Context, id uuid.UUID) (*team.CalendarEvent, error) {
	return r.get(dbc, id, true)
}

func (r *calendarEventRepo) get(dbc dbctx.Context, id uuid.UUID, withParticipants bool) (*team.CalendarEvent, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	t, err := dbc.DB(r.db)
	if err != nil {
		return nil, err
	}
	if withParticipants {
		t = t.Preload("Participants", orderUsers)
	}
	var row team.CalendarEvent
	if err := t.Where("id = ?", id).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *calendarEventRepo) ListAll(dbc dbctx.Context, limit, offset int) ([]*team.CalendarEvent, error) {
	t, err := dbc.DB(r.db)
	if err != nil {
		return nil, err
	}
	var out []*team.CalendarEvent
	if err := paginate(t.Order("start_time ASC, id ASC"), limit, offset).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ListInPeriod returns active events whose start date and end date both fall
// inside the period.
func (r *calendarEventRepo) ListInPeriod(dbc dbctx.Context, p team.Period) ([]*team.CalendarEvent, error) {
	t, err := dbc.DB(r.db)
	if err != nil {
		return nil, err
	}
	from, to := p.Bounds()
	var out []*team.CalendarEvent
	err = t.Where("is_active = ?", true).
		Where("start_time >= ? AND end_time < ?", from, to).
		Order("start_time ASC, id ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *calendarEventRepo) ListForParticipantInPeriod(dbc dbctx.Context, userID uuid.UUID, p team.Period) ([]*team.CalendarEvent, error) {
	t, err := dbc.DB(r.db)
	if err != nil {
		return nil, err
	}
	from, to := p.Bounds()
	var out []*team.CalendarEvent
	err = t.Preload("Participants", orderUsers).
		Joins("JOIN users_calendar_events uce ON uce.calendar_event_id = calendar_events.id").
		Where("uce.user_id = ?", userID).
		Where("calendar_events.is_active = ?", true).
		Where("calendar_events.start_time >= ? AND calendar_events.end_time < ?", from, to).
		Order("calendar_events.start_time ASC, calendar_events.id ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *calendarEventRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	if id == uuid.Nil || len(updates) == 0 {
		return nil
	}
	t, err := dbc.DB(r.db)
	if err != nil {
		return err
	}
	return t.Model(&team.CalendarEvent{}).Where("id = ?", id).Updates(updates).Error
}

func (r *calendarEventRepo) AppendParticipants(dbc dbctx.Context, eventID uuid.UUID, userIDs []uuid.UUID) error {
	t, err := dbc.DB(r.db)
	if err != nil {
		return err
	}
	return insertParticipants(t, eventID, userIDs)
}

// CheckOverlap returns the earliest active event that shares a participant
// with participantIDs and intersects [start, end). Windows are half-open, so
// touching endpoints never overlap and an empty candidate conflicts with
// nothing. A zero-length existing event still blocks any candidate that
// strictly contains its instant.
func (r *calendarEventRepo) CheckOverlap(dbc dbctx.Context, start, end time.Time, participantIDs []uuid.UUID, excludingEventID *uuid.UUID) (*uuid.UUID, error) {
	ids := dedupe(participantIDs)
	if len(ids) == 0 || !end.After(start) {
		return nil, nil
	}
	t, err := dbc.DB(r.db)
	if err != nil {
		return nil, err
	}
	q := t.Model(&team.CalendarEvent{}).
		Joins("JOIN users_calendar_events uce ON uce.calendar_event_id = calendar_events.id").
		Where("uce.user_id IN ?", ids).
		Where("calendar_events.is_active = ?", true).
		Where("calendar_events.start_time < ? AND calendar_events.end_time > ?", end.UTC(), start.UTC())
	if excludingEventID != nil && *excludingEventID != uuid.Nil {
		q = q.Where("calendar_events.id <> ?", *excludingEventID)
	}
	var hits []uuid.UUID
	err = q.Order("calendar_events.start_time ASC, calendar_events.id ASC").
		Limit(1).
		Pluck("calendar_events.id", &hits).Error
	if err != nil {
		return nil, err
	}
	if len(hits) == 0 {
		return nil, nil
	}
	r.log.Debug("overlap detected", "event_id", hits[0].String(), "participants", len(ids))
	return &hits[0], nil
}

func participantIDs(ev *team.CalendarEvent) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(ev.Participants))
	for _, u := range ev.Participants {
		if u != nil {
			out = append(out, u.ID)
		}
	}
	return out
}

func insertParticipants(t *gorm.DB, eventID uuid.UUID, userIDs []uuid.UUID) error {
	ids := dedupe(userIDs)
	if eventID == uuid.Nil || len(ids) == 0 {
		return nil
	}
	rows := make([]team.EventParticipant, 0, len(ids))
	for _, id := range ids {
		rows = append(rows, team.EventParticipant{UserID: id, CalendarEventID: eventID})
	}
	return t.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}
