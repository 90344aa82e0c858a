// Package calendar renders calendar events as iCalendar feeds.
package calendar

import (
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/a-korvus/business-management-system/internal/domain/team"
	"github.com/a-korvus/business-management-system/internal/pkg/pointers"
)

const DefaultProductID = "-//a-korvus//business-management-system//EN"

type Options struct {
	ProductID string
	// Name is published as X-WR-CALNAME when set.
	Name string
	// Now stamps DTSTAMP. Zero means time.Now.
	Now time.Time
}

// Render builds a VCALENDAR with one VEVENT per active event, in input order.
func Render(events []*team.CalendarEvent, opts Options) string {
	return Build(events, opts).Serialize()
}

func Build(events []*team.CalendarEvent, opts Options) *ical.Calendar {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	productID := strings.TrimSpace(opts.ProductID)
	if productID == "" {
		productID = DefaultProductID
	}
	cal.SetProductId(productID)
	if name := strings.TrimSpace(opts.Name); name != "" {
		cal.SetXWRCalName(name)
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	for _, e := range events {
		if e == nil || !e.IsActive {
			continue
		}
		addEvent(cal, e, now.UTC())
	}
	return cal
}

func EventUID(e *team.CalendarEvent) string {
	return e.ID.String() + "@business-management-system"
}

func addEvent(cal *ical.Calendar, e *team.CalendarEvent, now time.Time) {
	ve := cal.AddEvent(EventUID(e))
	ve.SetDtStampTime(now)
	if !e.CreatedAt.IsZero() {
		ve.SetCreatedTime(e.CreatedAt.UTC())
	}
	if !e.UpdatedAt.IsZero() {
		ve.SetModifiedAt(e.UpdatedAt.UTC())
	}
	if e.AllDay {
		ve.SetAllDayStartAt(e.StartTime.UTC())
		// DTEND is exclusive for all-day events.
		end := e.EndTime.UTC()
		if !end.After(e.StartTime) {
			end = e.StartTime.UTC().AddDate(0, 0, 1)
		}
		ve.SetAllDayEndAt(end)
	} else {
		ve.SetStartAt(e.StartTime.UTC())
		ve.SetEndAt(e.EndTime.UTC())
	}
	ve.SetSummary(e.Title)
	if desc := pointers.Deref(e.Description); strings.TrimSpace(desc) != "" {
		ve.SetDescription(desc)
	}
	ve.SetProperty(ical.ComponentPropertyCategories, string(e.EventType))
	for _, u := range e.Participants {
		if u == nil || strings.TrimSpace(u.Email) == "" {
			continue
		}
		ve.AddAttendee(u.Email)
	}
}
