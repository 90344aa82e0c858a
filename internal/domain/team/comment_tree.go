package team

import (
	"sort"

	"github.com/google/uuid"
)

// CommentTree is an arena over a task's comments: nodes are stored once by id
// and parent/child relations are resolved by lookup.
type CommentTree struct {
	byID     map[uuid.UUID]*TaskComment
	children map[uuid.UUID][]*TaskComment
	roots    []*TaskComment
}

// CommentNode is the nested read model handed to the presentation layer.
type CommentNode struct {
	*TaskComment
	Replies []CommentNode `json:"replies"`
}

// BuildCommentTree indexes comments. A comment whose parent is absent from the
// input is treated as a root.
func BuildCommentTree(comments []*TaskComment) *CommentTree {
	t := &CommentTree{
		byID:     make(map[uuid.UUID]*TaskComment, len(comments)),
		children: make(map[uuid.UUID][]*TaskComment),
	}
	for _, c := range comments {
		if c != nil {
			t.byID[c.ID] = c
		}
	}
	for _, c := range t.byID {
		if c.ParentCommentID != nil {
			if _, ok := t.byID[*c.ParentCommentID]; ok && *c.ParentCommentID != c.ID {
				t.children[*c.ParentCommentID] = append(t.children[*c.ParentCommentID], c)
				continue
			}
		}
		t.roots = append(t.roots, c)
	}
	sortComments(t.roots)
	for id := range t.children {
		sortComments(t.children[id])
	}
	return t
}

func sortComments(cs []*TaskComment) {
	sort.Slice(cs, func(i, j int) bool {
		if !cs[i].CreatedAt.Equal(cs[j].CreatedAt) {
			return cs[i].CreatedAt.Before(cs[j].CreatedAt)
		}
		return cs[i].ID.String() < cs[j].ID.String()
	})
}

func (t *CommentTree) Len() int { return len(t.byID) }

func (t *CommentTree) Roots() []*TaskComment { return t.roots }

func (t *CommentTree) Get(id uuid.UUID) (*TaskComment, bool) {
	c, ok := t.byID[id]
	return c, ok
}

func (t *CommentTree) Children(id uuid.UUID) []*TaskComment { return t.children[id] }

// Walk visits comments depth-first in creation order. Each node is visited at
// most once even if stored parent links form a cycle.
func (t *CommentTree) Walk(fn func(c *TaskComment, depth int)) {
	seen := make(map[uuid.UUID]struct{}, len(t.byID))
	var visit func(c *TaskComment, depth int)
	visit = func(c *TaskComment, depth int) {
		if _, ok := seen[c.ID]; ok {
			return
		}
		seen[c.ID] = struct{}{}
		fn(c, depth)
		for _, child := range t.children[c.ID] {
			visit(child, depth+1)
		}
	}
	for _, r := range t.roots {
		visit(r, 0)
	}
}

// Nested materializes the forest for serialization.
func (t *CommentTree) Nested() []CommentNode {
	seen := make(map[uuid.UUID]struct{}, len(t.byID))
	var build func(c *TaskComment) CommentNode
	build = func(c *TaskComment) CommentNode {
		seen[c.ID] = struct{}{}
		node := CommentNode{TaskComment: c, Replies: []CommentNode{}}
		for _, child := range t.children[c.ID] {
			if _, ok := seen[child.ID]; ok {
				continue
			}
			node.Replies = append(node.Replies, build(child))
		}
		return node
	}
	out := make([]CommentNode, 0, len(t.roots))
	for _, r := range t.roots {
		out = append(out, build(r))
	}
	return out
}
