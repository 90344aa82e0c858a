package testutil

import (
	"sync"
	"time"

	"github.com/a-korvus/business-management-system/internal/data/aggregates"
)

// HooksRecorder captures unit-of-work hook signals in tests.
type HooksRecorder struct {
	mu sync.Mutex

	Operations []OperationEvent
	Conflicts  []string
	Retries    []string
	Commits    []string
}

type OperationEvent struct {
	Name     string
	Status   string
	Duration time.Duration
}

var _ aggregates.Hooks = (*HooksRecorder)(nil)

func (h *HooksRecorder) ObserveOperation(name, status string, dur time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Operations = append(h.Operations, OperationEvent{
		Name:     name,
		Status:   status,
		Duration: dur,
	})
}

func (h *HooksRecorder) IncConflict(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Conflicts = append(h.Conflicts, name)
}

func (h *HooksRecorder) IncRetry(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Retries = append(h.Retries, name)
}

func (h *HooksRecorder) IncCommit(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Commits = append(h.Commits, name)
}

// CommitCount returns how many commits were recorded for op.
func (h *HooksRecorder) CommitCount(op string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, c := range h.Commits {
		if c == op {
			n++
		}
	}
	return n
}

// LastStatus returns the status of the most recent operation named op.
func (h *HooksRecorder) LastStatus(op string) string {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i := len(h.Operations) - 1; i >= 0; i-- {
		if h.Operations[i].Name == op {
			return h.Operations[i].Status
		}
	}
	return ""
}

// Reset clears every recorded signal.
func (h *HooksRecorder) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Operations, h.Conflicts, h.Retries, h.Commits = nil, nil, nil, nil
}
