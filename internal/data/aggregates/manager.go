package aggregates

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	domainagg "github.com/a-korvus/business-management-system/internal/domain/aggregates"
	"github.com/a-korvus/business-management-system/internal/pkg/logger"
)

// Runner opens one unit of work per call. Services depend on this interface.
type Runner interface {
	Run(ctx context.Context, op string, fn func(uow *UnitOfWork) error) error
}

type ManagerDeps struct {
	DB        *gorm.DB
	Log       *logger.Logger
	Hooks     Hooks
	Isolation sql.IsolationLevel
	Tracer    trace.Tracer
}

func (d ManagerDeps) withDefaults() ManagerDeps {
	if d.Hooks == nil {
		d.Hooks = noopHooks{}
	}
	if d.Log == nil {
		d.Log = logger.Nop()
	}
	if d.Tracer == nil {
		d.Tracer = otel.Tracer("business-management-system/aggregates")
	}
	return d
}

// Manager is the unit-of-work factory. It holds no transactional state; each
// Begin or Run gets its own transaction.
type Manager struct {
	deps ManagerDeps
	log  *logger.Logger
}

var _ Runner = (*Manager)(nil)

func NewManager(deps ManagerDeps) *Manager {
	deps = deps.withDefaults()
	return &Manager{deps: deps, log: deps.Log.With("component", "UnitOfWork")}
}

// ParseIsolation maps a config value such as "serializable" or
// "repeatable_read" to a database/sql isolation level. Empty means default.
func ParseIsolation(raw string) (sql.IsolationLevel, error) {
	switch strings.ReplaceAll(strings.ToLower(strings.TrimSpace(raw)), "-", "_") {
	case "", "default":
		return sql.LevelDefault, nil
	case "read_committed":
		return sql.LevelReadCommitted, nil
	case "repeatable_read":
		return sql.LevelRepeatableRead, nil
	case "serializable":
		return sql.LevelSerializable, nil
	default:
		return sql.LevelDefault, fmt.Errorf("unknown transaction isolation %q", raw)
	}
}

// Begin opens a transaction and returns the unit bound to it.
func (m *Manager) Begin(ctx context.Context) (*UnitOfWork, error) {
	return m.begin(ctx, "uow")
}

func (m *Manager) begin(ctx context.Context, op string) (*UnitOfWork, error) {
	if m == nil || m.deps.DB == nil {
		return nil, domainagg.NewError(domainagg.CodeInternal, op, "unit of work manager has nil db", nil)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	var opts []*sql.TxOptions
	if m.deps.Isolation != sql.LevelDefault {
		opts = append(opts, &sql.TxOptions{Isolation: m.deps.Isolation})
	}
	tx := m.deps.DB.WithContext(ctx).Begin(opts...)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return newUnitOfWork(ctx, op, tx, m.log, m.deps.Hooks), nil
}

// Run scopes fn to one unit of work. fn persists its writes by calling
// uow.Commit; whatever is still uncommitted when fn returns, fails, panics or
// outlives ctx is rolled back. The returned error is mapped through MapError.
func (m *Manager) Run(ctx context.Context, op string, fn func(uow *UnitOfWork) error) (err error) {
	start := time.Now()
	op = strings.TrimSpace(op)
	if op == "" {
		op = "aggregate.write"
	}
	if ctx == nil {
		ctx = context.Background()
	}
	deps := m.deps.withDefaults()
	ctx, span := deps.Tracer.Start(ctx, op, trace.WithAttributes(attribute.String("aggregate.op", op)))
	defer span.End()

	uow, err := m.begin(ctx, op)
	if err != nil {
		return m.finish(span, op, start, err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = uow.Rollback()
			_ = m.finish(span, op, start, fmt.Errorf("panic in unit of work: %v", p))
			panic(p)
		}
	}()

	if fn != nil {
		err = fn(uow)
	}
	if err == nil && !uow.Committed() {
		err = ctx.Err()
	}
	if rbErr := uow.Rollback(); rbErr != nil && err == nil {
		err = rbErr
	}
	return m.finish(span, op, start, err)
}

func (m *Manager) finish(span trace.Span, op string, start time.Time, err error) error {
	hooks := m.deps.withDefaults().Hooks
	mapped := MapError(op, err)

	status := "success"
	if mapped != nil {
		status = aggregateErrorStatus(mapped)
		switch domainagg.CodeOf(mapped) {
		case domainagg.CodeConflict:
			hooks.IncConflict(op)
		case domainagg.CodeRetryable:
			hooks.IncRetry(op)
		}
		span.RecordError(mapped)
		span.SetStatus(codes.Error, status)
		if status == string(domainagg.CodeInternal) || status == string(domainagg.CodeTxState) {
			m.log.Error("unit of work failed", "op", op, "code", status, "error", mapped)
		} else {
			m.log.Debug("unit of work rejected", "op", op, "code", status, "error", mapped)
		}
	}
	span.SetAttributes(attribute.String("aggregate.status", status))
	hooks.ObserveOperation(op, status, time.Since(start))
	return mapped
}

func aggregateErrorStatus(err error) string {
	if err == nil {
		return "success"
	}
	code := strings.TrimSpace(string(domainagg.CodeOf(err)))
	if code == "" {
		code = strings.TrimSpace(string(domainagg.CodeOf(MapError("aggregate.status", err))))
	}
	if code == "" {
		return "failure"
	}
	return code
}
