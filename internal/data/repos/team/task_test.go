package team

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/a-korvus/business-management-system/internal/data/repos/testutil"
	"github.com/a-korvus/business-management-system/internal/domain/team"
	"github.com/a-korvus/business-management-system/internal/pkg/dbctx"
	"github.com/a-korvus/business-management-system/internal/pkg/pointers"
)

func TestTaskRepoGradedQueries(t *testing.T) {
	db := testutil.DB(t)
	repo := NewTaskRepo(db, testutil.Logger(t))
	tx := testutil.Tx(t, db)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	day := time.Date(2041, 5, 10, 12, 0, 0, 0, time.UTC)
	cmd := testutil.SeedCommand(t, tx)
	a := testutil.SeedUser(t, tx, cmd)
	b := testutil.SeedUser(t, tx, cmd)
	outsider := testutil.SeedUser(t, tx, nil)

	testutil.SeedTask(t, tx, a, day, pointers.Ptr(team.GradeDoneInitiative))
	testutil.SeedTask(t, tx, a, day.Add(11*time.Hour+59*time.Minute), pointers.Ptr(team.GradeDoneDeadline)) // 23:59 same date
	testutil.SeedTask(t, tx, a, day, nil)
	testutil.SeedTask(t, tx, a, day.AddDate(0, 0, 1), pointers.Ptr(team.GradeFailed))
	inactive := testutil.SeedTask(t, tx, a, day, pointers.Ptr(team.GradeFailed))
	testutil.SeedTask(t, tx, b, day, pointers.Ptr(team.GradeDoneDeadlineOut))
	testutil.SeedTask(t, tx, outsider, day, pointers.Ptr(team.GradeFailed))

	if err := repo.UpdateFields(dbc, inactive.ID, map[string]interface{}{"is_active": false}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}

	p, _ := team.NewPeriod(day, day)
	graded, err := repo.ListGradedInPeriod(dbc, a.ID, p)
	if err != nil {
		t.Fatalf("ListGradedInPeriod: %v", err)
	}
	if len(graded) != 2 {
		t.Fatalf("ListGradedInPeriod: want 2 got %d", len(graded))
	}
	for _, g := range graded {
		if g.AssigneeID != a.ID || g.TaskID == uuid.Nil || g.Title == "" {
			t.Fatalf("unexpected projection: %+v", g)
		}
	}

	assigned, err := repo.ListAssignedInPeriod(dbc, a.ID, p)
	if err != nil || len(assigned) != 3 {
		t.Fatalf("ListAssignedInPeriod: len=%d err=%v", len(assigned), err)
	}

	forCmd, err := repo.ListGradedForCommandInPeriod(dbc, cmd.ID, p)
	if err != nil {
		t.Fatalf("ListGradedForCommandInPeriod: %v", err)
	}
	byAssignee := team.GroupByAssignee(forCmd)
	if len(forCmd) != 3 || len(byAssignee[a.ID]) != 2 || len(byAssignee[b.ID]) != 1 {
		t.Fatalf("ListGradedForCommandInPeriod: total=%d a=%d b=%d", len(forCmd), len(byAssignee[a.ID]), len(byAssignee[b.ID]))
	}
	if _, ok := byAssignee[outsider.ID]; ok {
		t.Fatalf("outsider tasks must not count for the command")
	}
}

func TestTaskRepoWithComments(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	tasks := NewTaskRepo(db, log)
	comments := NewTaskCommentRepo(db, log)
	tx := testutil.Tx(t, db)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	u := testutil.SeedUser(t, tx, nil)
	task := testutil.SeedTask(t, tx, u, t0, nil)

	root, err := comments.Add(dbc, &team.TaskComment{Text: "root", IsActive: true, TaskID: task.ID, CommentatorID: &u.ID})
	if err != nil {
		t.Fatalf("Add root: %v", err)
	}
	reply, err := comments.Add(dbc, &team.TaskComment{Text: "reply", IsActive: true, TaskID: task.ID, ParentCommentID: &root.ID})
	if err != nil {
		t.Fatalf("Add reply: %v", err)
	}
	hidden, err := comments.Add(dbc, &team.TaskComment{Text: "hidden", IsActive: true, TaskID: task.ID})
	if err != nil {
		t.Fatalf("Add hidden: %v", err)
	}
	if err := comments.UpdateFields(dbc, hidden.ID, map[string]interface{}{"is_active": false}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}

	loaded, err := tasks.GetByIDWithComments(dbc, task.ID)
	if err != nil || loaded == nil {
		t.Fatalf("GetByIDWithComments: got=%v err=%v", loaded, err)
	}
	if len(loaded.Comments) != 2 {
		t.Fatalf("active comments: want 2 got %d", len(loaded.Comments))
	}

	parent, children, err := comments.GetByIDWithChildren(dbc, root.ID)
	if err != nil || parent == nil || len(children) != 1 || children[0].ID != reply.ID {
		t.Fatalf("GetByIDWithChildren: parent=%v children=%d err=%v", parent, len(children), err)
	}

	all, err := comments.ListByTask(dbc, task.ID, false)
	if err != nil || len(all) != 3 {
		t.Fatalf("ListByTask(all): len=%d err=%v", len(all), err)
	}
	active, err := comments.ListByTask(dbc, task.ID, true)
	if err != nil || len(active) != 2 {
		t.Fatalf("ListByTask(active): len=%d err=%v", len(active), err)
	}
}
