package org

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/a-korvus/business-management-system/internal/domain/org"
	"github.com/a-korvus/business-management-system/internal/pkg/dbctx"
	"github.com/a-korvus/business-management-system/internal/pkg/logger"
)

type CommandRepo interface {
	Add(dbc dbctx.Context, cmd *org.Command) (*org.Command, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*org.Command, error)
	ListAll(dbc dbctx.Context, limit, offset int) ([]*org.Command, error)
}

type commandRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCommandRepo(db *gorm.DB, baseLog *logger.Logger) CommandRepo {
	return &commandRepo{db: db, log: baseLog.With("repo", "CommandRepo")}
}

func (r *commandRepo) Add(dbc dbctx.Context, cmd *org.Command) (*org.Command, error) {
	t, err := dbc.DB(r.db)
	if err != nil {
		return nil, err
	}
	if err := t.Create(cmd).Error; err != nil {
		return nil, err
	}
	return cmd, nil
}

func (r *commandRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*org.Command, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	t, err := dbc.DB(r.db)
	if err != nil {
		return nil, err
	}
	var row org.Command
	if err := t.Where("id = ?", id).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *commandRepo) ListAll(dbc dbctx.Context, limit, offset int) ([]*org.Command, error) {
	t, err := dbc.DB(r.db)
	if err != nil {
		return nil, err
	}
	q := t.Order("name ASC, id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}
	var out []*org.Command
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
