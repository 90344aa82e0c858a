package team

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/a-korvus/business-management-system/internal/domain/team"
	"github.com/a-korvus/business-management-system/internal/pkg/dbctx"
	"github.com/a-korvus/business-management-system/internal/pkg/logger"
)

type TaskRepo interface {
	Add(dbc dbctx.Context, task *team.Task) (*team.Task, error)

	GetByID(dbc dbctx.Context, id uuid.UUID) (*team.Task, error)
	GetByIDWithComments(dbc dbctx.Context, id uuid.UUID) (*team.Task, error)
	ListAll(dbc dbctx.Context, limit, offset int) ([]*team.Task, error)
	ListAssignedInPeriod(dbc dbctx.Context, assigneeID uuid.UUID, p team.Period) ([]*team.Task, error)

	ListGradedInPeriod(dbc dbctx.Context, assigneeID uuid.UUID, p team.Period) ([]team.GradedTask, error)
	ListGradedForCommandInPeriod(dbc dbctx.Context, commandID uuid.UUID, p team.Period) ([]team.GradedTask, error)

	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
}

type taskRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTaskRepo(db *gorm.DB, baseLog *logger.Logger) TaskRepo {
	return &taskRepo{db: db, log: baseLog.With("repo", "TaskRepo")}
}

func (r *taskRepo) Add(dbc dbctx.Context, task *team.Task) (*team.Task, error) {
	t, err := dbc.DB(r.db)
	if err != nil {
		return nil, err
	}
	if err := t.Omit(clause.Associations).Create(task).Error; err != nil {
		return nil, err
	}
	return task, nil
}

func (r *taskRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*team.Task, error) {
	return r.get(dbc, id, false)
}

// GetByIDWithComments loads the task with its active comments in creation order.
func (r *taskRepo) GetByIDWithComments(dbc dbctx.Context, id uuid.UUID) (*team.Task, error) {
	return r.get(dbc, id, true)
}

func (r *taskRepo) get(dbc dbctx.Context, id uuid.UUID, withComments bool) (*team.Task, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	t, err := dbc.DB(r.db)
	if err != nil {
		return nil, err
	}
	if withComments {
		t = t.Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_active = ?", true).Order("created_at ASC, id ASC")
		})
	}
	var row team.Task
	if err := t.Where("id = ?", id).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *taskRepo) ListAll(dbc dbctx.Context, limit, offset int) ([]*team.Task, error) {
	t, err := dbc.DB(r.db)
	if err != nil {
		return nil, err
	}
	var out []*team.Task
	if err := paginate(t.Order("due_date ASC, id ASC"), limit, offset).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *taskRepo) ListAssignedInPeriod(dbc dbctx.Context, assigneeID uuid.UUID, p team.Period) ([]*team.Task, error) {
	t, err := dbc.DB(r.db)
	if err != nil {
		return nil, err
	}
	from, to := p.Bounds()
	var out []*team.Task
	err = t.Where("assignee_id = ? AND is_active = ?", assigneeID, true).
		Where("due_date >= ? AND due_date < ?", from, to).
		Order("due_date ASC, id ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListGradedInPeriod returns the assignee's active graded tasks due inside the period.
func (r *taskRepo) ListGradedInPeriod(dbc dbctx.Context, assigneeID uuid.UUID, p team.Period) ([]team.GradedTask, error) {
	t, err := dbc.DB(r.db)
	if err != nil {
		return nil, err
	}
	return r.graded(t.Where("tasks.assignee_id = ?", assigneeID), p)
}

// ListGradedForCommandInPeriod is ListGradedInPeriod over every assignee
// currently in the command.
func (r *taskRepo) ListGradedForCommandInPeriod(dbc dbctx.Context, commandID uuid.UUID, p team.Period) ([]team.GradedTask, error) {
	t, err := dbc.DB(r.db)
	if err != nil {
		return nil, err
	}
	q := t.Joins("JOIN users ON users.id = tasks.assignee_id").
		Where("users.command_id = ?", commandID)
	return r.graded(q, p)
}

func (r *taskRepo) graded(q *gorm.DB, p team.Period) ([]team.GradedTask, error) {
	from, to := p.Bounds()
	var out []team.GradedTask
	err := q.Model(&team.Task{}).
		Select("tasks.id AS task_id, tasks.title AS title, tasks.assignee_id AS assignee_id, tasks.grade AS grade").
		Where("tasks.is_active = ? AND tasks.grade IS NOT NULL", true).
		Where("tasks.due_date >= ? AND tasks.due_date < ?", from, to).
		Order("tasks.due_date ASC, tasks.id ASC").
		Scan(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *taskRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	if id == uuid.Nil || len(updates) == 0 {
		return nil
	}
	t, err := dbc.DB(r.db)
	if err != nil {
		return err
	}
	return t.Model(&team.Task{}).Where("id = ?", id).Updates(updates).Error
}
