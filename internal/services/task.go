package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/a-korvus/business-management-system/internal/data/aggregates"
	domainagg "github.com/a-korvus/business-management-system/internal/domain/aggregates"
	"github.com/a-korvus/business-management-system/internal/domain/team"
	"github.com/a-korvus/business-management-system/internal/pkg/logger"
	"github.com/a-korvus/business-management-system/internal/pkg/pointers"
)

type CreateTaskInput struct {
	Title           string
	Description     *string
	DueDate         time.Time
	CreatorID       uuid.UUID
	AssigneeID      uuid.UUID
	CalendarEventID *uuid.UUID
}

// TaskPatch carries only the fields the caller wants changed.
type TaskPatch struct {
	Title           *string
	Description     *string
	Status          *team.TaskStatus
	Grade           *team.TaskGrade
	DueDate         *time.Time
	AssigneeID      *uuid.UUID
	CalendarEventID *uuid.UUID
}

type TaskService interface {
	domainagg.Aggregate

	Create(ctx context.Context, in CreateTaskInput) (*team.Task, error)
	Update(ctx context.Context, taskID uuid.UUID, patch TaskPatch) (*team.Task, error)
	Deactivate(ctx context.Context, taskID uuid.UUID) error
	GetWithComments(ctx context.Context, taskID uuid.UUID) (*team.Task, error)

	ListAssigned(ctx context.Context, assigneeID uuid.UUID, p team.Period) ([]*team.Task, error)
	ListGrades(ctx context.Context, assigneeID uuid.UUID, p team.Period) ([]team.GradedTask, error)
	AvgGrade(ctx context.Context, assigneeID uuid.UUID, p team.Period) (*float64, error)
	AvgGradeForCommand(ctx context.Context, commandID uuid.UUID, p team.Period) (*float64, error)
	AvgGradeForUsersCommand(ctx context.Context, userID uuid.UUID, p team.Period) (*float64, error)
}

type taskService struct {
	log    *logger.Logger
	runner aggregates.Runner
}

func NewTaskService(log *logger.Logger, runner aggregates.Runner) TaskService {
	return &taskService{log: log.With("service", "TaskService"), runner: runner}
}

func (s *taskService) Contract() domainagg.Contract {
	return domainagg.Contract{
		Name:             "task",
		WriteTxOwnership: domainagg.WriteTxOwnedByAggregate,
		ReadPolicy:       domainagg.ReadPolicyTableRepoQueries,
		Invariants:       []string{domainagg.InvariantGradedTasksOnly},
	}
}

func (s *taskService) Create(ctx context.Context, in CreateTaskInput) (*team.Task, error) {
	const op = "task.create"
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, aggregates.MapError(op, team.ErrEmptyTitle)
	}
	var out *team.Task
	err := s.runner.Run(ctx, op, func(uow *aggregates.UnitOfWork) error {
		dbc := uow.DBC()
		if _, err := requireUser(uow, op, in.CreatorID); err != nil {
			return err
		}
		if _, err := requireUser(uow, op, in.AssigneeID); err != nil {
			return err
		}
		if err := requireEvent(uow, op, in.CalendarEventID); err != nil {
			return err
		}
		eventID := in.CalendarEventID
		if eventID != nil && *eventID == uuid.Nil {
			eventID = nil
		}
		task := &team.Task{
			Title:           title,
			Description:     in.Description,
			Status:          team.TaskOpen,
			DueDate:         in.DueDate.UTC(),
			IsActive:        true,
			CreatorID:       in.CreatorID,
			AssigneeID:      in.AssigneeID,
			CalendarEventID: eventID,
		}
		if _, err := uow.Tasks().Add(dbc, task); err != nil {
			return err
		}
		if err := uow.Commit(); err != nil {
			return err
		}
		out = task
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Update writes only fields whose value differs from the stored one. An
// all-equal patch returns the task without a write.
func (s *taskService) Update(ctx context.Context, taskID uuid.UUID, patch TaskPatch) (*team.Task, error) {
	const op = "task.update"
	var out *team.Task
	err := s.runner.Run(ctx, op, func(uow *aggregates.UnitOfWork) error {
		dbc := uow.DBC()
		task, err := requireActiveTask(uow, op, taskID)
		if err != nil {
			return err
		}
		out = task

		updates := map[string]interface{}{}
		if patch.Title != nil {
			title := strings.TrimSpace(*patch.Title)
			if title == "" {
				return team.ErrEmptyTitle
			}
			if title != task.Title {
				updates["title"] = title
			}
		}
		if patch.Description != nil && pointers.Deref(task.Description) != *patch.Description {
			updates["description"] = *patch.Description
		}
		if patch.Status != nil && *patch.Status != task.Status {
			if !patch.Status.Valid() {
				return aggregates.ValidationError("unknown task status " + string(*patch.Status))
			}
			updates["status"] = string(*patch.Status)
		}
		if patch.Grade != nil && (task.Grade == nil || *task.Grade != *patch.Grade) {
			if !patch.Grade.Valid() {
				return aggregates.ValidationError("unknown task grade " + string(*patch.Grade))
			}
			updates["grade"] = string(*patch.Grade)
		}
		if patch.DueDate != nil && !patch.DueDate.Equal(task.DueDate) {
			updates["due_date"] = patch.DueDate.UTC()
		}
		if patch.AssigneeID != nil && *patch.AssigneeID != task.AssigneeID {
			if _, err := requireUser(uow, op, *patch.AssigneeID); err != nil {
				return err
			}
			updates["assignee_id"] = *patch.AssigneeID
		}
		if patch.CalendarEventID != nil {
			switch {
			case *patch.CalendarEventID == uuid.Nil:
				// uuid.Nil clears the reference.
				if task.CalendarEventID != nil {
					updates["calendar_event_id"] = nil
				}
			case task.CalendarEventID == nil || *task.CalendarEventID != *patch.CalendarEventID:
				if err := requireEvent(uow, op, patch.CalendarEventID); err != nil {
					return err
				}
				updates["calendar_event_id"] = *patch.CalendarEventID
			}
		}

		if len(updates) == 0 {
			return nil
		}
		if err := uow.Tasks().UpdateFields(dbc, task.ID, updates); err != nil {
			return err
		}
		if err := uow.Refresh(task); err != nil {
			return err
		}
		return uow.Commit()
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *taskService) Deactivate(ctx context.Context, taskID uuid.UUID) error {
	const op = "task.deactivate"
	return s.runner.Run(ctx, op, func(uow *aggregates.UnitOfWork) error {
		task, err := requireActiveTask(uow, op, taskID)
		if err != nil {
			return err
		}
		if err := uow.Tasks().UpdateFields(uow.DBC(), task.ID, map[string]interface{}{"is_active": false}); err != nil {
			return err
		}
		return uow.Commit()
	})
}

// GetWithComments returns an active task with its active comments.
func (s *taskService) GetWithComments(ctx context.Context, taskID uuid.UUID) (*team.Task, error) {
	const op = "task.get_with_comments"
	var out *team.Task
	err := s.runner.Run(ctx, op, func(uow *aggregates.UnitOfWork) error {
		task, err := uow.Tasks().GetByIDWithComments(uow.DBC(), taskID)
		if err != nil {
			return err
		}
		if task == nil || !task.IsActive {
			return domainagg.NotFound(op, "task", taskID)
		}
		out = task
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *taskService) ListAssigned(ctx context.Context, assigneeID uuid.UUID, p team.Period) ([]*team.Task, error) {
	const op = "task.list_assigned"
	var out []*team.Task
	err := s.runner.Run(ctx, op, func(uow *aggregates.UnitOfWork) error {
		if _, err := requireUser(uow, op, assigneeID); err != nil {
			return err
		}
		var err error
		out, err = uow.Tasks().ListAssignedInPeriod(uow.DBC(), assigneeID, p)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListGrades returns the assignee's graded tasks in the period. Ungraded
// tasks are not listed.
func (s *taskService) ListGrades(ctx context.Context, assigneeID uuid.UUID, p team.Period) ([]team.GradedTask, error) {
	const op = "task.list_grades"
	var out []team.GradedTask
	err := s.runner.Run(ctx, op, func(uow *aggregates.UnitOfWork) error {
		if _, err := requireUser(uow, op, assigneeID); err != nil {
			return err
		}
		var err error
		out, err = uow.Tasks().ListGradedInPeriod(uow.DBC(), assigneeID, p)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *taskService) AvgGrade(ctx context.Context, assigneeID uuid.UUID, p team.Period) (*float64, error) {
	const op = "task.avg_grade"
	var out *float64
	err := s.runner.Run(ctx, op, func(uow *aggregates.UnitOfWork) error {
		if _, err := requireUser(uow, op, assigneeID); err != nil {
			return err
		}
		graded, err := uow.Tasks().ListGradedInPeriod(uow.DBC(), assigneeID, p)
		if err != nil {
			return err
		}
		grades := make([]team.TaskGrade, 0, len(graded))
		for _, g := range graded {
			grades = append(grades, g.Grade)
		}
		out = team.AverageGrade(grades)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// AvgGradeForCommand is the mean of each assignee's own average, so that one
// prolific member does not dominate the figure.
func (s *taskService) AvgGradeForCommand(ctx context.Context, commandID uuid.UUID, p team.Period) (*float64, error) {
	const op = "task.avg_grade_command"
	var out *float64
	err := s.runner.Run(ctx, op, func(uow *aggregates.UnitOfWork) error {
		if _, err := requireCommand(uow, op, commandID); err != nil {
			return err
		}
		var err error
		out, err = commandAverage(uow, commandID, p)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// AvgGradeForUsersCommand resolves the user's current command first. A user
// without a command has no figure.
func (s *taskService) AvgGradeForUsersCommand(ctx context.Context, userID uuid.UUID, p team.Period) (*float64, error) {
	const op = "task.avg_grade_users_command"
	var out *float64
	err := s.runner.Run(ctx, op, func(uow *aggregates.UnitOfWork) error {
		if _, err := requireUser(uow, op, userID); err != nil {
			return err
		}
		commandID, err := uow.Partners().GetCommandOf(uow.DBC(), userID)
		if err != nil || commandID == nil {
			return err
		}
		out, err = commandAverage(uow, *commandID, p)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func commandAverage(uow *aggregates.UnitOfWork, commandID uuid.UUID, p team.Period) (*float64, error) {
	graded, err := uow.Tasks().ListGradedForCommandInPeriod(uow.DBC(), commandID, p)
	if err != nil {
		return nil, err
	}
	return team.CommandAverage(team.GroupByAssignee(graded)), nil
}

func requireActiveTask(uow *aggregates.UnitOfWork, op string, id uuid.UUID) (*team.Task, error) {
	task, err := uow.Tasks().GetByID(uow.DBC(), id)
	if err != nil {
		return nil, err
	}
	if task == nil || !task.IsActive {
		return nil, domainagg.NotFound(op, "task", id)
	}
	return task, nil
}

func requireEvent(uow *aggregates.UnitOfWork, op string, id *uuid.UUID) error {
	if id == nil || *id == uuid.Nil {
		return nil
	}
	ev, err := uow.Events().GetByID(uow.DBC(), *id)
	if err != nil {
		return err
	}
	if ev == nil {
		return domainagg.NotFound(op, "calendar event", *id)
	}
	return nil
}
