package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/a-korvus/business-management-system/internal/data/aggregates"
	"github.com/a-korvus/business-management-system/internal/data/repos/testutil"
	"github.com/a-korvus/business-management-system/internal/domain/org"
	"github.com/a-korvus/business-management-system/internal/domain/team"
	"github.com/a-korvus/business-management-system/internal/scheduling"
)

// At the default isolation level the overlap check is read-decide-write
// without locks: two units that both check before either commits can both
// succeed. This is accepted; TX_ISOLATION=serializable closes it.
func TestConcurrentOverlapRaceIsAccepted(t *testing.T) {
	db := testutil.Postgres(t)
	log := testutil.Logger(t)
	mgr := aggregates.NewManager(aggregates.ManagerDeps{DB: db, Log: log})
	detector := scheduling.NewDetector(log)
	ctx := context.Background()

	u := testutil.SeedUser(t, db, nil)
	start := base().Add(9 * time.Hour)
	w := scheduling.Window{Start: start, End: start.Add(time.Hour)}

	a, err := mgr.Begin(ctx)
	require.NoError(t, err)
	defer a.Rollback()
	b, err := mgr.Begin(ctx)
	require.NoError(t, err)
	defer b.Rollback()

	stage := func(uow *aggregates.UnitOfWork) *team.CalendarEvent {
		hit, err := detector.Check(uow.DBC(), uow.Events(), w, []uuid.UUID{u.ID}, nil)
		require.NoError(t, err)
		require.Nil(t, hit)
		ev, err := team.NewCalendarEvent("race-"+uuid.NewString()[:8], w.Start, w.End, team.EventTypeGeneral, []*org.User{u})
		require.NoError(t, err)
		_, err = uow.Events().Add(uow.DBC(), ev)
		require.NoError(t, err)
		return ev
	}
	evA := stage(a)
	evB := stage(b)
	require.NoError(t, a.Commit())
	require.NoError(t, b.Commit())

	n := testutil.Count(t, db, &team.CalendarEvent{}, "id IN ?", []uuid.UUID{evA.ID, evB.ID})
	require.EqualValues(t, 2, n, "both overlapping events were committed")
}
