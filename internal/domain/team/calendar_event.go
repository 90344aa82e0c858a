package team

import (
	"time"

	"github.com/a-korvus/business-management-system/internal/domain/org"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CalendarEvent is a time-boxed commitment shared by its participants.
type CalendarEvent struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string    `gorm:"column:title;size:500;not null" json:"title"`
	Description *string   `gorm:"column:description" json:"description,omitempty"`
	StartTime   time.Time `gorm:"column:start_time;not null;index" json:"start_time"`
	EndTime     time.Time `gorm:"column:end_time;not null;index" json:"end_time"`
	EventType   EventType `gorm:"column:event_type;size:16;not null" json:"event_type"`
	AllDay      bool      `gorm:"column:all_day;not null" json:"all_day"`
	IsActive    bool      `gorm:"column:is_active;not null;index" json:"is_active"`

	Participants []*org.User `gorm:"many2many:users_calendar_events;constraint:OnDelete:CASCADE" json:"participants,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (CalendarEvent) TableName() string { return "calendar_events" }

func (e *CalendarEvent) BeforeCreate(*gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	e.StartTime = e.StartTime.UTC()
	e.EndTime = e.EndTime.UTC()
	if e.EventType == "" {
		e.EventType = EventTypeGeneral
	}
	return nil
}

// NewCalendarEvent builds an active event. Participants are copied, never aliased.
func NewCalendarEvent(title string, start, end time.Time, typ EventType, participants []*org.User) (*CalendarEvent, error) {
	if title == "" {
		return nil, ErrEmptyTitle
	}
	if end.Before(start) {
		return nil, ErrInvalidWindow
	}
	if typ == "" {
		typ = EventTypeGeneral
	}
	if !typ.Valid() {
		return nil, ErrInvalidEventType
	}
	return &CalendarEvent{
		ID:           uuid.New(),
		Title:        title,
		StartTime:    start.UTC(),
		EndTime:      end.UTC(),
		EventType:    typ,
		IsActive:     true,
		Participants: append([]*org.User(nil), participants...),
	}, nil
}

// HasParticipant reports whether the loaded participant set contains id.
func (e *CalendarEvent) HasParticipant(id uuid.UUID) bool {
	for _, u := range e.Participants {
		if u != nil && u.ID == id {
			return true
		}
	}
	return false
}

// ParticipantIDs returns the identities of the loaded participants.
func (e *CalendarEvent) ParticipantIDs() []uuid.UUID {
	return org.IDs(e.Participants)
}

// EventParticipant is a row of the users_calendar_events join table.
type EventParticipant struct {
	UserID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	CalendarEventID uuid.UUID `gorm:"type:uuid;primaryKey"`
}

func (EventParticipant) TableName() string { return "users_calendar_events" }
