package aggregates

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	domainagg "github.com/a-korvus/business-management-system/internal/domain/aggregates"
	"github.com/a-korvus/business-management-system/internal/domain/team"
)

func TestMapError_Validation(t *testing.T) {
	err := MapError("op", ValidationError("bad input"))
	if !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("expected validation code, got %q (%v)", domainagg.CodeOf(err), err)
	}
}

func TestMapError_DomainValidation(t *testing.T) {
	for _, in := range []error{team.ErrInvalidWindow, team.ErrEmptyTitle, team.ErrInvalidPeriod, fmt.Errorf("build: %w", team.ErrMissingCommand)} {
		err := MapError("op", in)
		if !domainagg.IsCode(err, domainagg.CodeValidation) {
			t.Fatalf("%v: expected validation code, got %q", in, domainagg.CodeOf(err))
		}
	}
}

func TestMapError_Conflict(t *testing.T) {
	err := MapError("op", ConflictError("stale"))
	if !domainagg.IsCode(err, domainagg.CodeConflict) {
		t.Fatalf("expected conflict code, got %q (%v)", domainagg.CodeOf(err), err)
	}
}

func TestMapError_NotFound(t *testing.T) {
	err := MapError("op", gorm.ErrRecordNotFound)
	if !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("expected not_found code, got %q (%v)", domainagg.CodeOf(err), err)
	}
}

func TestMapError_TxState(t *testing.T) {
	for _, in := range []error{ErrNoActiveTx, sql.ErrTxDone, fmt.Errorf("repo: %w", ErrNoActiveTx)} {
		err := MapError("op", in)
		if !domainagg.IsCode(err, domainagg.CodeTxState) {
			t.Fatalf("%v: expected tx_state code, got %q", in, domainagg.CodeOf(err))
		}
	}
}

func TestMapError_ContextIsRetryable(t *testing.T) {
	err := MapError("op", context.Canceled)
	if !domainagg.IsCode(err, domainagg.CodeRetryable) {
		t.Fatalf("expected retryable code, got %q", domainagg.CodeOf(err))
	}
}

func TestMapError_PgCodes(t *testing.T) {
	cases := map[string]domainagg.ErrorCode{
		"23505": domainagg.CodeConflict,
		"23P01": domainagg.CodeConflict,
		"23503": domainagg.CodePreconditionFailed,
		"40001": domainagg.CodeRetryable,
		"40P01": domainagg.CodeRetryable,
		"55P03": domainagg.CodeRetryable,
	}
	for code, want := range cases {
		err := MapError("op", fmt.Errorf("exec: %w", &pgconn.PgError{Code: code}))
		if got := domainagg.CodeOf(err); got != want {
			t.Fatalf("pg %s: want=%q got=%q", code, want, got)
		}
	}
}

func TestMapError_SQLiteMessages(t *testing.T) {
	if got := domainagg.CodeOf(MapError("op", errors.New("UNIQUE constraint failed: commands.name"))); got != domainagg.CodeConflict {
		t.Fatalf("unique: got %q", got)
	}
	if got := domainagg.CodeOf(MapError("op", errors.New("database is locked"))); got != domainagg.CodeRetryable {
		t.Fatalf("locked: got %q", got)
	}
	if got := domainagg.CodeOf(MapError("op", errors.New("boom"))); got != domainagg.CodeInternal {
		t.Fatalf("default: got %q", got)
	}
}

func TestMapError_PassthroughAggregateError(t *testing.T) {
	in := domainagg.NewError(domainagg.CodeRetryable, "op", "retry", errors.New("boom"))
	out := MapError("other", in)
	if out != in {
		t.Fatalf("expected passthrough aggregate error")
	}
}

func TestMapError_Nil(t *testing.T) {
	if MapError("op", nil) != nil {
		t.Fatalf("nil must stay nil")
	}
}
