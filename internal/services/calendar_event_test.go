package services_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	domainagg "github.com/a-korvus/business-management-system/internal/domain/aggregates"
	"github.com/a-korvus/business-management-system/internal/domain/team"
	"github.com/a-korvus/business-management-system/internal/services"
)

func eventInput(start time.Time, dur time.Duration, participants ...uuid.UUID) services.CreateEventInput {
	return services.CreateEventInput{
		Title:          "focus-" + uuid.NewString()[:8],
		StartTime:      start,
		EndTime:        start.Add(dur),
		ParticipantIDs: participants,
	}
}

func TestCreateEventOverlapIsSymmetric(t *testing.T) {
	f := newFixture(t)
	u1, u2 := f.user(nil), f.user(nil)
	T := base()

	a, err := f.events.Create(f.ctx, eventInput(T.Add(9*time.Hour), 2*time.Hour, u1.ID))
	require.NoError(t, err)
	require.Equal(t, team.EventTypeGeneral, a.EventType)

	// B overlaps A's tail and shares u1.
	_, err = f.events.Create(f.ctx, eventInput(T.Add(10*time.Hour), 2*time.Hour, u2.ID, u1.ID))
	requireCode(t, err, domainagg.CodeConflict)
	id, _ := domainagg.ConflictingEventID(err)
	require.Equal(t, a.ID, id)

	// Move A aside, create B, then propose A's original window again.
	require.NoError(t, f.events.Deactivate(f.ctx, a.ID))
	b, err := f.events.Create(f.ctx, eventInput(T.Add(10*time.Hour), 2*time.Hour, u2.ID, u1.ID))
	require.NoError(t, err)
	_, err = f.events.Create(f.ctx, eventInput(T.Add(9*time.Hour), 2*time.Hour, u1.ID))
	requireCode(t, err, domainagg.CodeConflict)
	id, _ = domainagg.ConflictingEventID(err)
	require.Equal(t, b.ID, id)
}

func TestCreateEventValidation(t *testing.T) {
	f := newFixture(t)
	u := f.user(nil)

	in := eventInput(base(), time.Hour, u.ID)
	in.EventType = team.EventTypeMeeting
	_, err := f.events.Create(f.ctx, in)
	requireCode(t, err, domainagg.CodeValidation)

	in = eventInput(base(), time.Hour, u.ID)
	in.Title = "  "
	_, err = f.events.Create(f.ctx, in)
	requireCode(t, err, domainagg.CodeValidation)

	_, err = f.events.Create(f.ctx, eventInput(base(), time.Hour, u.ID, uuid.New()))
	requireCode(t, err, domainagg.CodeNotFound)

	empty, err := f.events.Create(f.ctx, eventInput(base(), 0))
	require.NoError(t, err, "zero-length window without participants is accepted")
	require.True(t, empty.StartTime.Equal(empty.EndTime))
}

func TestIncludeUserInEvent(t *testing.T) {
	f := newFixture(t)
	cmd := f.command()
	u1, u2, busy := f.user(cmd), f.user(cmd), f.user(cmd)
	T := base()

	ev, err := f.events.Create(f.ctx, eventInput(T.Add(9*time.Hour), time.Hour, u1.ID))
	require.NoError(t, err)
	_, err = f.events.Create(f.ctx, eventInput(T.Add(9*time.Hour+30*time.Minute), time.Hour, busy.ID))
	require.NoError(t, err)

	got, err := f.events.IncludeUser(f.ctx, ev.ID, u2.ID)
	require.NoError(t, err)
	require.True(t, got.HasParticipant(u2.ID))
	commits := f.hooks.CommitCount("calendar_event.include_user")

	_, err = f.events.IncludeUser(f.ctx, ev.ID, u2.ID)
	require.NoError(t, err)
	require.Equal(t, commits, f.hooks.CommitCount("calendar_event.include_user"))

	_, err = f.events.IncludeUser(f.ctx, ev.ID, busy.ID)
	requireCode(t, err, domainagg.CodeConflict)

	_, err = f.events.IncludeUser(f.ctx, ev.ID, uuid.New())
	requireCode(t, err, domainagg.CodeNotFound)
	_, err = f.events.IncludeUser(f.ctx, uuid.New(), u1.ID)
	requireCode(t, err, domainagg.CodeNotFound)

	m, err := f.meetings.Create(f.ctx, meetingInput(u1, cmd, T.Add(20*time.Hour), time.Hour, u1))
	require.NoError(t, err)
	_, err = f.events.IncludeUser(f.ctx, m.CalendarEventID, u2.ID)
	requireCode(t, err, domainagg.CodeValidation)
	requireCode(t, f.events.Deactivate(f.ctx, m.CalendarEventID), domainagg.CodeValidation)
}

func TestListEventsForPeriod(t *testing.T) {
	f := newFixture(t)
	u := f.user(nil)
	T := base()

	inside, err := f.events.Create(f.ctx, eventInput(T.Add(23*time.Hour), 30*time.Minute, u.ID))
	require.NoError(t, err)
	spill, err := f.events.Create(f.ctx, eventInput(T.Add(47*time.Hour), 2*time.Hour, u.ID))
	require.NoError(t, err)
	gone, err := f.events.Create(f.ctx, eventInput(T.Add(2*time.Hour), time.Hour, u.ID))
	require.NoError(t, err)
	require.NoError(t, f.events.Deactivate(f.ctx, gone.ID))

	p, err := team.NewPeriod(T, T.Add(24*time.Hour))
	require.NoError(t, err)
	got, err := f.events.ListForPeriod(f.ctx, p)
	require.NoError(t, err)
	found := map[uuid.UUID]bool{}
	for _, ev := range got {
		found[ev.ID] = true
	}
	require.True(t, found[inside.ID])
	require.False(t, found[spill.ID], "event ending after the period is excluded")
	require.False(t, found[gone.ID], "inactive events are excluded")

	mine, err := f.events.ListForParticipant(f.ctx, u.ID, p)
	require.NoError(t, err)
	require.Len(t, mine, 1)

	_, err = f.events.Get(f.ctx, uuid.New())
	requireCode(t, err, domainagg.CodeNotFound)
	fetched, err := f.events.Get(f.ctx, inside.ID)
	require.NoError(t, err)
	require.True(t, fetched.HasParticipant(u.ID))
}
