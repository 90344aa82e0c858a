package observability

import (
	"bytes"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestMetricsNilReceiverIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveAPI("GET", "/x", "200", time.Millisecond)
	m.ObserveAggregateOperation("op", "success", time.Millisecond)
	m.IncAggregateConflict("op")
	m.IncAggregateRetry("op")
	m.IncAggregateCommit("op")
	m.ApiInflightInc()
	m.ApiInflightDec()
	if got := m.AggregateCount("op", "success"); got != 0 {
		t.Fatalf("AggregateCount on nil: got %v", got)
	}
	var buf bytes.Buffer
	if err := m.WritePrometheus(&buf); err != nil || buf.Len() != 0 {
		t.Fatalf("WritePrometheus on nil: err=%v len=%d", err, buf.Len())
	}
}

func TestAggregateMetricsExposition(t *testing.T) {
	m := New()
	m.ObserveAggregateOperation("meeting.create", "success", 20*time.Millisecond)
	m.ObserveAggregateOperation("meeting.create", "success", 30*time.Millisecond)
	m.ObserveAggregateOperation("meeting.create", "conflict", 5*time.Millisecond)
	m.IncAggregateConflict("meeting.create")
	m.IncAggregateCommit("meeting.create")
	m.IncAggregateCommit("meeting.create")

	if got := m.AggregateCount("meeting.create", "success"); got != 2 {
		t.Fatalf("success count: got %v want 2", got)
	}

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body := rec.Body.String()
	for _, want := range []string{
		`bms_uow_operations_total{op="meeting.create",status="success"} 2`,
		`bms_uow_operations_total{op="meeting.create",status="conflict"} 1`,
		`bms_uow_conflicts_total{op="meeting.create"} 1`,
		`bms_uow_commits_total{op="meeting.create"} 2`,
		`# TYPE bms_uow_operation_duration_seconds histogram`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("exposition missing %q\n%s", want, body)
		}
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Fatalf("content type: %q", ct)
	}
}

func TestObserveAPICountsServerErrors(t *testing.T) {
	m := New()
	m.ObserveAPI("GET", "/api/team/meetings/:id", "200", time.Millisecond)
	m.ObserveAPI("POST", "/api/team/meetings", "500", time.Millisecond)
	m.ObserveAPI("", "", "", time.Millisecond)

	if got := m.apiReqTotal.Value(); got != 3 {
		t.Fatalf("total: got %v want 3", got)
	}
	if got := m.apiReqError.Value(); got != 1 {
		t.Fatalf("errors: got %v want 1", got)
	}
	if got := m.apiRequests.Value("UNKNOWN", "unknown", "0"); got != 1 {
		t.Fatalf("defaulted labels: got %v want 1", got)
	}
}

func TestParseHeaders(t *testing.T) {
	got := ParseHeaders(" a=1, b = 2 ,broken,=x,c=")
	if len(got) != 2 || got["a"] != "1" || got["b"] != "2" {
		t.Fatalf("ParseHeaders: %#v", got)
	}
	if ParseHeaders("") != nil {
		t.Fatalf("empty input should give nil")
	}
}

func TestClampRatio(t *testing.T) {
	for _, tc := range []struct{ in, want float64 }{{-1, 0}, {0.25, 0.25}, {3, 1}} {
		if got := ClampRatio(tc.in); got != tc.want {
			t.Fatalf("ClampRatio(%v) = %v want %v", tc.in, got, tc.want)
		}
	}
}
