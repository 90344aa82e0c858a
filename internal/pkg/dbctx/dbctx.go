package dbctx

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// Context bundles a request context with an optional GORM transaction.
type Context struct {
	Ctx context.Context
	Tx  *gorm.DB
}

// Background returns a Context without a transaction.
func Background() Context {
	return Context{Ctx: context.Background()}
}

// Context returns the request context, never nil.
func (c Context) Context() context.Context {
	if c.Ctx == nil {
		return context.Background()
	}
	return c.Ctx
}

// ErrNoActiveTx is returned when a statement is issued without a transaction
// and without a fallback pool.
var ErrNoActiveTx = errors.New("no active transaction")

// DB returns the transaction when present, otherwise fallback, scoped to the
// request context.
func (c Context) DB(fallback *gorm.DB) (*gorm.DB, error) {
	t := c.Tx
	if t == nil {
		t = fallback
	}
	if t == nil {
		return nil, ErrNoActiveTx
	}
	return t.WithContext(c.Context()), nil
}
