package observability

import (
	"context"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/a-korvus/business-management-system/internal/pkg/logger"
)

type Metrics struct {
	apiRequests *CounterVec
	apiLatency  *HistogramVec
	apiInflight *Gauge
	apiReqTotal *Counter
	apiReqError *Counter

	aggregateOps       *CounterVec
	aggregateLatency   *HistogramVec
	aggregateConflicts *CounterVec
	aggregateRetries   *CounterVec
	aggregateCommits   *CounterVec

	dbStats *GaugeVec
}

var (
	initOnce sync.Once
	instance *Metrics
)

func Current() *Metrics {
	return instance
}

// Init builds the process-wide registry once. It returns nil when metrics
// are disabled, and every method is a no-op on a nil receiver.
func Init(log *logger.Logger, enabled bool) *Metrics {
	if !enabled {
		return nil
	}
	initOnce.Do(func() {
		instance = New()
		if log != nil {
			log.Info("Observability metrics enabled")
		}
	})
	return instance
}

// New returns an unshared registry.
func New() *Metrics {
	return &Metrics{
		apiRequests: NewCounterVec("bms_api_requests_total", "Total API requests by method/route/status.", []string{"method", "route", "status"}),
		apiLatency: NewHistogramVec(
			"bms_api_request_duration_seconds",
			"API request latency in seconds by method/route/status.",
			[]string{"method", "route", "status"},
			[]float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		),
		apiInflight: NewGauge("bms_api_inflight_requests", "In-flight API requests."),
		apiReqTotal: NewCounter("bms_api_requests_total_all", "Total API requests (all)."),
		apiReqError: NewCounter("bms_api_requests_error_total", "Total API requests with 5xx status."),

		aggregateOps: NewCounterVec("bms_uow_operations_total", "Unit-of-work operations by op/status.", []string{"op", "status"}),
		aggregateLatency: NewHistogramVec(
			"bms_uow_operation_duration_seconds",
			"Unit-of-work duration in seconds by op/status.",
			[]string{"op", "status"},
			[]float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2},
		),
		aggregateConflicts: NewCounterVec("bms_uow_conflicts_total", "Rejected units of work with a conflict, including overlaps.", []string{"op"}),
		aggregateRetries:   NewCounterVec("bms_uow_retryable_total", "Units of work failed with a retryable error.", []string{"op"}),
		aggregateCommits:   NewCounterVec("bms_uow_commits_total", "Committed units of work by op.", []string{"op"}),

		dbStats: NewGaugeVec("bms_db_pool_stats", "Database connection pool stats.", []string{"metric"}),
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return http.HandlerFunc(m.WriteHTTP)
}

func (m *Metrics) WriteHTTP(w http.ResponseWriter, r *http.Request) {
	if m == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	_ = m.WritePrometheus(w)
}

func (m *Metrics) WritePrometheus(w io.Writer) error {
	if m == nil {
		return nil
	}
	writers := []interface{ WritePrometheus(io.Writer) error }{
		m.apiRequests, m.apiLatency, m.apiInflight, m.apiReqTotal, m.apiReqError,
		m.aggregateOps, m.aggregateLatency, m.aggregateConflicts, m.aggregateRetries, m.aggregateCommits,
		m.dbStats,
	}
	for _, mw := range writers {
		if err := mw.WritePrometheus(w); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	if method == "" {
		method = "UNKNOWN"
	}
	if route == "" {
		route = "unknown"
	}
	if status == "" {
		status = "0"
	}
	m.apiRequests.Inc(method, route, status)
	m.apiLatency.Observe(dur.Seconds(), method, route, status)
	m.apiReqTotal.Inc()
	if isServerErrorStatus(status) {
		m.apiReqError.Inc()
	}
}

func (m *Metrics) ApiInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Inc()
}

func (m *Metrics) ApiInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Dec()
}

func (m *Metrics) ObserveAggregateOperation(op, status string, dur time.Duration) {
	if m == nil {
		return
	}
	op, status = orUnknown(op), orUnknown(status)
	m.aggregateOps.Inc(op, status)
	m.aggregateLatency.Observe(dur.Seconds(), op, status)
}

func (m *Metrics) IncAggregateConflict(op string) {
	if m == nil {
		return
	}
	m.aggregateConflicts.Inc(orUnknown(op))
}

func (m *Metrics) IncAggregateRetry(op string) {
	if m == nil {
		return
	}
	m.aggregateRetries.Inc(orUnknown(op))
}

func (m *Metrics) IncAggregateCommit(op string) {
	if m == nil {
		return
	}
	m.aggregateCommits.Inc(orUnknown(op))
}

// AggregateCount reports how many operations op finished with status.
func (m *Metrics) AggregateCount(op, status string) float64 {
	if m == nil {
		return 0
	}
	return m.aggregateOps.Value(op, status)
}

// StartDBCollector samples pool stats until ctx is done.
func (m *Metrics) StartDBCollector(ctx context.Context, log *logger.Logger, db *gorm.DB, interval time.Duration) {
	if m == nil || db == nil {
		return
	}
	if interval <= 0 {
		interval = 10 * time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				sqlDB, err := db.DB()
				if err != nil {
					if log != nil {
						log.Warn("metrics: db stats unavailable", "error", err)
					}
					continue
				}
				stats := sqlDB.Stats()
				m.dbStats.Set(float64(stats.OpenConnections), "open_connections")
				m.dbStats.Set(float64(stats.InUse), "in_use")
				m.dbStats.Set(float64(stats.Idle), "idle")
				m.dbStats.Set(float64(stats.WaitCount), "wait_count")
				m.dbStats.Set(stats.WaitDuration.Seconds(), "wait_duration_seconds")
				m.dbStats.Set(float64(stats.MaxOpenConnections), "max_open_connections")
			}
		}
	}()
}

func orUnknown(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "unknown"
	}
	return s
}
