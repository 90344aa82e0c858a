package org

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/a-korvus/business-management-system/internal/domain/org"
	"github.com/a-korvus/business-management-system/internal/pkg/dbctx"
	"github.com/a-korvus/business-management-system/internal/pkg/logger"
)

// PartnerRepo is the read-side gateway to users owned by the accounts service.
type PartnerRepo interface {
	GetByID(dbc dbctx.Context, id uuid.UUID) (*org.User, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*org.User, error)
	GetCommandOf(dbc dbctx.Context, userID uuid.UUID) (*uuid.UUID, error)
	UsersShareCommand(dbc dbctx.Context, userIDs []uuid.UUID, commandID uuid.UUID) (bool, error)
	ResolveUsers(dbc dbctx.Context, userIDs []uuid.UUID) ([]*org.User, error)
}

type partnerRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPartnerRepo(db *gorm.DB, baseLog *logger.Logger) PartnerRepo {
	return &partnerRepo{db: db, log: baseLog.With("repo", "PartnerRepo")}
}

func (r *partnerRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*org.User, error) {
	t, err := dbc.DB(r.db)
	if err != nil {
		return nil, err
	}
	var out []*org.User
	if len(ids) == 0 {
		return out, nil
	}
	if err := t.Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *partnerRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*org.User, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	rows, err := r.GetByIDs(dbc, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *partnerRepo) GetCommandOf(dbc dbctx.Context, userID uuid.UUID) (*uuid.UUID, error) {
	u, err := r.GetByID(dbc, userID)
	if err != nil || u == nil {
		return nil, err
	}
	return u.CommandID, nil
}

// UsersShareCommand is true iff every distinct id is an active member of
// commandID. An empty input is never a match.
func (r *partnerRepo) UsersShareCommand(dbc dbctx.Context, userIDs []uuid.UUID, commandID uuid.UUID) (bool, error) {
	ids := org.DedupeIDs(userIDs)
	if len(ids) == 0 || commandID == uuid.Nil {
		return false, nil
	}
	t, err := dbc.DB(r.db)
	if err != nil {
		return false, err
	}
	var n int64
	err = t.Model(&org.User{}).
		Where("id IN ? AND command_id = ? AND is_active = ?", ids, commandID, true).
		Count(&n).Error
	if err != nil {
		return false, err
	}
	return n == int64(len(ids)), nil
}

// ResolveUsers loads the users for ids, de-duplicated, in input order.
// Unknown ids are skipped.
func (r *partnerRepo) ResolveUsers(dbc dbctx.Context, userIDs []uuid.UUID) ([]*org.User, error) {
	ids := org.DedupeIDs(userIDs)
	rows, err := r.GetByIDs(dbc, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*org.User, len(rows))
	for _, u := range rows {
		byID[u.ID] = u
	}
	out := make([]*org.User, 0, len(rows))
	for _, id := range ids {
		if u, ok := byID[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}
