package team

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/a-korvus/business-management-system/internal/domain/team"
	"github.com/a-korvus/business-management-system/internal/pkg/dbctx"
	"github.com/a-korvus/business-management-system/internal/pkg/logger"
)

type TaskCommentRepo interface {
	Add(dbc dbctx.Context, c *team.TaskComment) (*team.TaskComment, error)

	GetByID(dbc dbctx.Context, id uuid.UUID) (*team.TaskComment, error)
	GetByIDWithChildren(dbc dbctx.Context, id uuid.UUID) (*team.TaskComment, []*team.TaskComment, error)
	ListByTask(dbc dbctx.Context, taskID uuid.UUID, activeOnly bool) ([]*team.TaskComment, error)

	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
}

type taskCommentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTaskCommentRepo(db *gorm.DB, baseLog *logger.Logger) TaskCommentRepo {
	return &taskCommentRepo{db: db, log: baseLog.With("repo", "TaskCommentRepo")}
}

func (r *taskCommentRepo) Add(dbc dbctx.Context, c *team.TaskComment) (*team.TaskComment, error) {
	t, err := dbc.DB(r.db)
	if err != nil {
		return nil, err
	}
	if err := t.Create(c).Error; err != nil {
		return nil, err
	}
	return c, nil
}

func (r *taskCommentRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*team.TaskComment, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	t, err := dbc.DB(r.db)
	if err != nil {
		return nil, err
	}
	var row team.TaskComment
	if err := t.Where("id = ?", id).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

// GetByIDWithChildren returns the comment and its direct replies.
func (r *taskCommentRepo) GetByIDWithChildren(dbc dbctx.Context, id uuid.UUID) (*team.TaskComment, []*team.TaskComment, error) {
	c, err := r.GetByID(dbc, id)
	if err != nil || c == nil {
		return nil, nil, err
	}
	t, err := dbc.DB(r.db)
	if err != nil {
		return nil, nil, err
	}
	var children []*team.TaskComment
	err = t.Where("parent_comment_id = ?", id).
		Order("created_at ASC, id ASC").
		Find(&children).Error
	if err != nil {
		return nil, nil, err
	}
	return c, children, nil
}

func (r *taskCommentRepo) ListByTask(dbc dbctx.Context, taskID uuid.UUID, activeOnly bool) ([]*team.TaskComment, error) {
	t, err := dbc.DB(r.db)
	if err != nil {
		return nil, err
	}
	q := t.Where("task_id = ?", taskID)
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var out []*team.TaskComment
	if err := q.Order("created_at ASC, id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *taskCommentRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	if id == uuid.Nil || len(updates) == 0 {
		return nil
	}
	t, err := dbc.DB(r.db)
	if err != nil {
		return err
	}
	return t.Model(&team.TaskComment{}).Where("id = ?", id).Updates(updates).Error
}
