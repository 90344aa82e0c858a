package calendar

import (
	"strings"
	"testing"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"github.com/a-korvus/business-management-system/internal/domain/org"
	"github.com/a-korvus/business-management-system/internal/domain/team"
)

func TestRenderRoundTrip(t *testing.T) {
	start := time.Date(2031, 3, 4, 9, 0, 0, 0, time.UTC)
	desc := "weekly planning"
	active := &team.CalendarEvent{
		ID:          uuid.New(),
		Title:       "Planning",
		Description: &desc,
		StartTime:   start,
		EndTime:     start.Add(time.Hour),
		EventType:   team.EventTypeMeeting,
		IsActive:    true,
		Participants: []*org.User{
			{ID: uuid.New(), Email: "a@example.com"},
			{ID: uuid.New(), Email: "b@example.com"},
		},
	}
	inactive := &team.CalendarEvent{
		ID:        uuid.New(),
		Title:     "Cancelled",
		StartTime: start,
		EndTime:   start.Add(time.Hour),
		EventType: team.EventTypeGeneral,
	}

	out := Render([]*team.CalendarEvent{active, inactive, nil}, Options{Name: "Team", Now: start})
	if !strings.HasPrefix(out, "BEGIN:VCALENDAR") {
		t.Fatalf("not a calendar:\n%s", out)
	}

	cal, err := ical.ParseCalendar(strings.NewReader(out))
	if err != nil {
		t.Fatalf("ParseCalendar: %v", err)
	}
	events := cal.Events()
	if len(events) != 1 {
		t.Fatalf("events: got %d want 1", len(events))
	}
	ve := events[0]
	if got := ve.Id(); got != EventUID(active) {
		t.Fatalf("uid: got %q want %q", got, EventUID(active))
	}
	if p := ve.GetProperty(ical.ComponentPropertySummary); p == nil || p.Value != "Planning" {
		t.Fatalf("summary: %+v", p)
	}
	if p := ve.GetProperty(ical.ComponentPropertyCategories); p == nil || p.Value != "MEETING" {
		t.Fatalf("categories: %+v", p)
	}
	gotStart, err := ve.GetStartAt()
	if err != nil || !gotStart.Equal(start) {
		t.Fatalf("start: got %v err %v", gotStart, err)
	}
	attendees := ve.Attendees()
	if len(attendees) != 2 {
		t.Fatalf("attendees: got %d want 2", len(attendees))
	}
	if got := attendees[0].Email(); got != "a@example.com" {
		t.Fatalf("attendee email: got %q", got)
	}
	if strings.Contains(out, "mailto:mailto:") {
		t.Fatalf("attendee uri is double-prefixed:\n%s", out)
	}
}

func TestRenderAllDay(t *testing.T) {
	day := time.Date(2031, 5, 1, 0, 0, 0, 0, time.UTC)
	ev := &team.CalendarEvent{
		ID:        uuid.New(),
		Title:     "Offsite",
		StartTime: day,
		EndTime:   day,
		EventType: team.EventTypeGeneral,
		AllDay:    true,
		IsActive:  true,
	}
	out := Render([]*team.CalendarEvent{ev}, Options{Now: day})
	if !strings.Contains(out, "DTSTART;VALUE=DATE:20310501") {
		t.Fatalf("missing all-day start:\n%s", out)
	}
	if !strings.Contains(out, "DTEND;VALUE=DATE:20310502") {
		t.Fatalf("missing exclusive all-day end:\n%s", out)
	}
}

func TestRenderEmpty(t *testing.T) {
	out := Render(nil, Options{})
	if !strings.Contains(out, "PRODID:"+DefaultProductID) {
		t.Fatalf("missing product id:\n%s", out)
	}
	if strings.Contains(out, "BEGIN:VEVENT") {
		t.Fatalf("unexpected event:\n%s", out)
	}
}
