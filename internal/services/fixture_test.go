package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/a-korvus/business-management-system/internal/data/aggregates"
	aggtest "github.com/a-korvus/business-management-system/internal/data/aggregates/testutil"
	"github.com/a-korvus/business-management-system/internal/data/repos/testutil"
	domainagg "github.com/a-korvus/business-management-system/internal/domain/aggregates"
	"github.com/a-korvus/business-management-system/internal/domain/org"
	"github.com/a-korvus/business-management-system/internal/domain/team"
	"github.com/a-korvus/business-management-system/internal/pkg/pointers"
	"github.com/a-korvus/business-management-system/internal/scheduling"
	"github.com/a-korvus/business-management-system/internal/services"
)

type fixture struct {
	t     *testing.T
	ctx   context.Context
	db    *gorm.DB
	hooks *aggtest.HooksRecorder
	mgr   *aggregates.Manager

	meetings services.MeetingService
	events   services.CalendarEventService
	tasks    services.TaskService
	comments services.TaskCommentService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	hooks := &aggtest.HooksRecorder{}
	mgr := aggregates.NewManager(aggregates.ManagerDeps{DB: db, Log: log, Hooks: hooks})
	detector := scheduling.NewDetector(log)
	return &fixture{
		t:        t,
		ctx:      context.Background(),
		db:       db,
		hooks:    hooks,
		mgr:      mgr,
		meetings: services.NewMeetingService(log, mgr, detector),
		events:   services.NewCalendarEventService(log, mgr, detector),
		tasks:    services.NewTaskService(log, mgr),
		comments: services.NewTaskCommentService(log, mgr),
	}
}

func (f *fixture) command() *org.Command {
	return testutil.SeedCommand(f.t, f.db)
}

func (f *fixture) user(cmd *org.Command) *org.User {
	return testutil.SeedUser(f.t, f.db, cmd)
}

// base returns a per-test anchor far from other tests' rows, so the suite can
// share one PostgreSQL database.
func base() time.Time {
	d := time.Duration(uuid.New().ID()%50000) * 24 * time.Hour
	return time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC).Add(d)
}

func ids(users ...*org.User) []uuid.UUID {
	return org.IDs(users)
}

func idSet(users []*org.User) map[uuid.UUID]struct{} {
	out := make(map[uuid.UUID]struct{}, len(users))
	for _, u := range users {
		out[u.ID] = struct{}{}
	}
	return out
}

func requireCode(t *testing.T, err error, code domainagg.ErrorCode) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, code, domainagg.CodeOf(err), "error: %v", err)
}

func meetingInput(creator *org.User, cmd *org.Command, start time.Time, dur time.Duration, members ...*org.User) services.CreateMeetingInput {
	return services.CreateMeetingInput{
		Topic:     "sync-" + uuid.NewString()[:8],
		StartTime: start,
		EndTime:   start.Add(dur),
		CreatorID: creator.ID,
		CommandID: cmd.ID,
		MemberIDs: ids(members...),
	}
}

func gradePtr(g team.TaskGrade) *team.TaskGrade { return pointers.Ptr(g) }
