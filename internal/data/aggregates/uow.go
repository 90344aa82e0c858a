package aggregates

import (
	"context"
	"reflect"
	"sync"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/a-korvus/business-management-system/internal/data/repos"
	"github.com/a-korvus/business-management-system/internal/pkg/dbctx"
	"github.com/a-korvus/business-management-system/internal/pkg/logger"
)

// ErrNoActiveTx is returned by every call made on a unit of work that was
// never opened or is already committed or rolled back.
var ErrNoActiveTx = dbctx.ErrNoActiveTx

// UnitOfWork owns one transaction and the repositories bound to it.
// It is not safe for concurrent use and must not outlive the call that opened it.
type UnitOfWork struct {
	ctx   context.Context
	op    string
	tx    *gorm.DB
	log   *logger.Logger
	hooks Hooks

	closed    bool
	committed bool

	once  sync.Once
	repos repos.Set
}

func newUnitOfWork(ctx context.Context, op string, tx *gorm.DB, log *logger.Logger, hooks Hooks) *UnitOfWork {
	return &UnitOfWork{ctx: ctx, op: op, tx: tx, log: log, hooks: hooks}
}

// Active reports whether the transaction is still open.
func (u *UnitOfWork) Active() bool {
	return u != nil && u.tx != nil && !u.closed
}

// Committed reports whether Commit succeeded.
func (u *UnitOfWork) Committed() bool {
	return u != nil && u.committed
}

// DBC returns the context repositories need. Once the unit is closed the
// transaction is gone and repository calls fail with ErrNoActiveTx.
func (u *UnitOfWork) DBC() dbctx.Context {
	if u == nil {
		return dbctx.Background()
	}
	if !u.Active() {
		return dbctx.Context{Ctx: u.ctx}
	}
	return dbctx.Context{Ctx: u.ctx, Tx: u.tx}
}

func (u *UnitOfWork) bind() *repos.Set {
	u.once.Do(func() {
		// Repos get no pool of their own: every statement goes through DBC().Tx.
		u.repos = repos.Set{
			Partners:     repos.NewPartnerRepo(nil, u.log),
			Commands:     repos.NewCommandRepo(nil, u.log),
			Events:       repos.NewCalendarEventRepo(nil, u.log),
			Meetings:     repos.NewMeetingRepo(nil, u.log),
			Tasks:        repos.NewTaskRepo(nil, u.log),
			TaskComments: repos.NewTaskCommentRepo(nil, u.log),
		}
	})
	return &u.repos
}

func (u *UnitOfWork) Partners() repos.PartnerRepo         { return u.bind().Partners }
func (u *UnitOfWork) Commands() repos.CommandRepo         { return u.bind().Commands }
func (u *UnitOfWork) Events() repos.CalendarEventRepo     { return u.bind().Events }
func (u *UnitOfWork) Meetings() repos.MeetingRepo         { return u.bind().Meetings }
func (u *UnitOfWork) Tasks() repos.TaskRepo               { return u.bind().Tasks }
func (u *UnitOfWork) TaskComments() repos.TaskCommentRepo { return u.bind().TaskComments }

// Commit persists every pending write. A failed commit is rolled back and the
// commit error returned.
func (u *UnitOfWork) Commit() error {
	if !u.Active() {
		return ErrNoActiveTx
	}
	u.closed = true
	if err := u.tx.Commit().Error; err != nil {
		_ = u.tx.Rollback().Error
		u.log.Warn("commit failed, rolled back", "op", u.op, "error", err)
		return err
	}
	u.committed = true
	u.hooks.IncCommit(u.op)
	return nil
}

// Rollback discards pending writes. It is a no-op on a closed unit.
func (u *UnitOfWork) Rollback() error {
	if !u.Active() {
		return nil
	}
	u.closed = true
	return u.tx.Rollback().Error
}

// Refresh re-reads entity by its ID through the transaction, so that
// defaults and timestamps written earlier in the unit become visible. With
// fields set only those columns are reloaded.
func (u *UnitOfWork) Refresh(entity interface{}, fields ...string) error {
	if !u.Active() {
		return ErrNoActiveTx
	}
	id := primaryID(entity)
	if id == uuid.Nil {
		return ValidationError("refresh requires an entity with an id")
	}
	q := u.tx.WithContext(u.ctx)
	if len(fields) > 0 {
		q = q.Select(fields)
	}
	return q.Take(entity, "id = ?", id).Error
}

func primaryID(entity interface{}) uuid.UUID {
	v := reflect.ValueOf(entity)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return uuid.Nil
	}
	v = v.Elem()
	if v.Kind() != reflect.Struct {
		return uuid.Nil
	}
	f := v.FieldByName("ID")
	if !f.IsValid() {
		return uuid.Nil
	}
	id, _ := f.Interface().(uuid.UUID)
	return id
}
