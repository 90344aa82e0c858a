package team

import (
	"time"

	"github.com/a-korvus/business-management-system/internal/domain/org"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Meeting owns exactly one CalendarEvent which mirrors its window and members.
type Meeting struct {
	ID          uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	Topic       string        `gorm:"column:topic;size:500;not null" json:"topic"`
	Description *string       `gorm:"column:description" json:"description,omitempty"`
	Status      MeetingStatus `gorm:"column:status;size:16;not null;index" json:"status"`
	StartTime   time.Time     `gorm:"column:start_time;not null;index" json:"start_time"`
	EndTime     time.Time     `gorm:"column:end_time;not null;index" json:"end_time"`
	IsActive    bool          `gorm:"column:is_active;not null;index" json:"is_active"`

	CreatorID       *uuid.UUID `gorm:"type:uuid;column:creator_id;index" json:"creator_id,omitempty"`
	CommandID       uuid.UUID  `gorm:"type:uuid;column:command_id;not null;index" json:"command_id"`
	CalendarEventID uuid.UUID  `gorm:"type:uuid;column:calendar_event_id;not null;uniqueIndex" json:"calendar_event_id"`

	Command       *org.Command   `gorm:"foreignKey:CommandID;constraint:OnDelete:RESTRICT" json:"-"`
	CalendarEvent *CalendarEvent `gorm:"foreignKey:CalendarEventID;constraint:OnDelete:RESTRICT" json:"calendar_event,omitempty"`
	Members       []*org.User    `gorm:"many2many:meeting_users;constraint:OnDelete:CASCADE" json:"members,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Meeting) TableName() string { return "meetings" }

func (m *Meeting) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.StartTime = m.StartTime.UTC()
	m.EndTime = m.EndTime.UTC()
	if m.Status == "" {
		m.Status = MeetingPlanned
	}
	return nil
}

// MeetingMember is a row of the meeting_users join table.
type MeetingMember struct {
	MeetingID uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey"`
}

func (MeetingMember) TableName() string { return "meeting_users" }

type MeetingParams struct {
	Topic       string
	Description *string
	StartTime   time.Time
	EndTime     time.Time
	CreatorID   *uuid.UUID
	CommandID   uuid.UUID
}

// BuildMeetingWithEvent creates a meeting together with the MEETING event it owns.
// Both carry the same window, and the event's participants equal the members.
// Nothing is persisted; ids are assigned so the pair can be written in one unit.
func BuildMeetingWithEvent(p MeetingParams, members []*org.User) (*Meeting, *CalendarEvent, error) {
	if p.CommandID == uuid.Nil {
		return nil, nil, ErrMissingCommand
	}
	event, err := NewCalendarEvent(p.Topic, p.StartTime, p.EndTime, EventTypeMeeting, members)
	if err != nil {
		return nil, nil, err
	}
	meeting := &Meeting{
		ID:              uuid.New(),
		Topic:           p.Topic,
		Description:     p.Description,
		Status:          MeetingPlanned,
		StartTime:       event.StartTime,
		EndTime:         event.EndTime,
		IsActive:        true,
		CreatorID:       p.CreatorID,
		CommandID:       p.CommandID,
		CalendarEventID: event.ID,
		CalendarEvent:   event,
		Members:         append([]*org.User(nil), members...),
	}
	return meeting, event, nil
}

// AddMembers appends users to the meeting and to its loaded event in one step.
func (m *Meeting) AddMembers(users []*org.User) {
	m.Members = append(m.Members, users...)
	if m.CalendarEvent != nil {
		m.CalendarEvent.Participants = append(m.CalendarEvent.Participants, users...)
	}
}

// MemberIDs returns the identities of the loaded members.
func (m *Meeting) MemberIDs() []uuid.UUID {
	return org.IDs(m.Members)
}

// SetWindow moves the meeting and its loaded event together.
func (m *Meeting) SetWindow(start, end time.Time) error {
	if end.Before(start) {
		return ErrInvalidWindow
	}
	m.StartTime, m.EndTime = start.UTC(), end.UTC()
	if m.CalendarEvent != nil {
		m.CalendarEvent.StartTime, m.CalendarEvent.EndTime = m.StartTime, m.EndTime
	}
	return nil
}
