package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/a-korvus/business-management-system/internal/data/aggregates"
	domainagg "github.com/a-korvus/business-management-system/internal/domain/aggregates"
	"github.com/a-korvus/business-management-system/internal/domain/team"
	"github.com/a-korvus/business-management-system/internal/pkg/logger"
)

type CreateCommentInput struct {
	TaskID          uuid.UUID
	CommentatorID   uuid.UUID
	ParentCommentID *uuid.UUID
	Text            string
}

type TaskCommentService interface {
	Create(ctx context.Context, in CreateCommentInput) (*team.TaskComment, error)
	Update(ctx context.Context, commentID uuid.UUID, text *string) (*team.TaskComment, error)
	Replies(ctx context.Context, commentID uuid.UUID) (*team.TaskComment, []*team.TaskComment, error)
	Thread(ctx context.Context, taskID uuid.UUID) (*team.CommentTree, error)
}

type taskCommentService struct {
	log    *logger.Logger
	runner aggregates.Runner
}

func NewTaskCommentService(log *logger.Logger, runner aggregates.Runner) TaskCommentService {
	return &taskCommentService{log: log.With("service", "TaskCommentService"), runner: runner}
}

// Create requires an active task and commentator. A parent must exist and
// belong to the same task.
func (s *taskCommentService) Create(ctx context.Context, in CreateCommentInput) (*team.TaskComment, error) {
	const op = "task_comment.create"
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, domainagg.Validation(op, "comment text is required")
	}
	var out *team.TaskComment
	err := s.runner.Run(ctx, op, func(uow *aggregates.UnitOfWork) error {
		dbc := uow.DBC()
		if _, err := requireActiveTask(uow, op, in.TaskID); err != nil {
			return err
		}
		if _, err := requireActiveUser(uow, op, in.CommentatorID); err != nil {
			return err
		}
		parentID := in.ParentCommentID
		if parentID != nil && *parentID == uuid.Nil {
			parentID = nil
		}
		if parentID != nil {
			parent, err := uow.TaskComments().GetByID(dbc, *parentID)
			if err != nil {
				return err
			}
			if parent == nil {
				return domainagg.NotFound(op, "comment", *parentID)
			}
			if parent.TaskID != in.TaskID {
				return domainagg.Validation(op, "parent comment belongs to another task")
			}
		}
		commentator := in.CommentatorID
		c := &team.TaskComment{
			Text:            text,
			IsActive:        true,
			TaskID:          in.TaskID,
			CommentatorID:   &commentator,
			ParentCommentID: parentID,
		}
		if _, err := uow.TaskComments().Add(dbc, c); err != nil {
			return err
		}
		if err := uow.Commit(); err != nil {
			return err
		}
		out = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *taskCommentService) Update(ctx context.Context, commentID uuid.UUID, text *string) (*team.TaskComment, error) {
	const op = "task_comment.update"
	var out *team.TaskComment
	err := s.runner.Run(ctx, op, func(uow *aggregates.UnitOfWork) error {
		dbc := uow.DBC()
		c, err := uow.TaskComments().GetByID(dbc, commentID)
		if err != nil {
			return err
		}
		if c == nil {
			return domainagg.NotFound(op, "comment", commentID)
		}
		out = c
		if text == nil {
			return nil
		}
		next := strings.TrimSpace(*text)
		if next == "" {
			return aggregates.ValidationError("comment text is required")
		}
		if next == c.Text {
			return nil
		}
		if err := uow.TaskComments().UpdateFields(dbc, c.ID, map[string]interface{}{"text": next}); err != nil {
			return err
		}
		if err := uow.Refresh(c); err != nil {
			return err
		}
		return uow.Commit()
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Replies returns a comment with its direct children.
func (s *taskCommentService) Replies(ctx context.Context, commentID uuid.UUID) (*team.TaskComment, []*team.TaskComment, error) {
	const op = "task_comment.replies"
	var (
		comment  *team.TaskComment
		children []*team.TaskComment
	)
	err := s.runner.Run(ctx, op, func(uow *aggregates.UnitOfWork) error {
		var err error
		comment, children, err = uow.TaskComments().GetByIDWithChildren(uow.DBC(), commentID)
		if err != nil {
			return err
		}
		if comment == nil {
			return domainagg.NotFound(op, "comment", commentID)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return comment, children, nil
}

// Thread loads the task's active comments as an id-indexed tree.
func (s *taskCommentService) Thread(ctx context.Context, taskID uuid.UUID) (*team.CommentTree, error) {
	const op = "task_comment.thread"
	var out *team.CommentTree
	err := s.runner.Run(ctx, op, func(uow *aggregates.UnitOfWork) error {
		if _, err := requireActiveTask(uow, op, taskID); err != nil {
			return err
		}
		comments, err := uow.TaskComments().ListByTask(uow.DBC(), taskID, true)
		if err != nil {
			return err
		}
		out = team.BuildCommentTree(comments)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
