package team

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func comment(parent *TaskComment, at time.Time) *TaskComment {
	c := &TaskComment{ID: uuid.New(), CreatedAt: at, IsActive: true}
	if parent != nil {
		id := parent.ID
		c.ParentCommentID = &id
	}
	return c
}

func TestBuildCommentTree(t *testing.T) {
	t0 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	root1 := comment(nil, t0)
	root2 := comment(nil, t0.Add(time.Minute))
	reply1 := comment(root1, t0.Add(2*time.Minute))
	reply2 := comment(root1, t0.Add(time.Second))
	nested := comment(reply1, t0.Add(3*time.Minute))
	orphanParent := uuid.New()
	orphan := &TaskComment{ID: uuid.New(), ParentCommentID: &orphanParent, CreatedAt: t0.Add(time.Hour)}

	tree := BuildCommentTree([]*TaskComment{nested, reply1, root2, orphan, reply2, root1})

	if tree.Len() != 6 {
		t.Fatalf("Len: want=6 got=%d", tree.Len())
	}
	roots := tree.Roots()
	if len(roots) != 3 || roots[0] != root1 || roots[1] != root2 || roots[2] != orphan {
		t.Fatalf("roots out of order: %+v", roots)
	}
	kids := tree.Children(root1.ID)
	if len(kids) != 2 || kids[0] != reply2 || kids[1] != reply1 {
		t.Fatalf("children of root1 out of order")
	}
	if got, ok := tree.Get(nested.ID); !ok || got != nested {
		t.Fatalf("Get(nested) failed")
	}

	var order []uuid.UUID
	var depths []int
	tree.Walk(func(c *TaskComment, depth int) {
		order = append(order, c.ID)
		depths = append(depths, depth)
	})
	wantOrder := []uuid.UUID{root1.ID, reply2.ID, reply1.ID, nested.ID, root2.ID, orphan.ID}
	wantDepth := []int{0, 1, 1, 2, 0, 0}
	for i := range wantOrder {
		if order[i] != wantOrder[i] || depths[i] != wantDepth[i] {
			t.Fatalf("walk[%d]: want=(%s,%d) got=(%s,%d)", i, wantOrder[i], wantDepth[i], order[i], depths[i])
		}
	}

	nestedView := tree.Nested()
	if len(nestedView) != 3 || len(nestedView[0].Replies) != 2 || len(nestedView[0].Replies[1].Replies) != 1 {
		t.Fatalf("unexpected nested shape")
	}
}

func TestCommentTreeSelfParentIsRoot(t *testing.T) {
	c := &TaskComment{ID: uuid.New()}
	c.ParentCommentID = &c.ID
	tree := BuildCommentTree([]*TaskComment{c})
	if len(tree.Roots()) != 1 {
		t.Fatalf("self-parented comment should be a root")
	}
	visits := 0
	tree.Walk(func(*TaskComment, int) { visits++ })
	if visits != 1 {
		t.Fatalf("visits: want=1 got=%d", visits)
	}
}
