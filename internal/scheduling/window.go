package scheduling

import (
	"time"

	"github.com/a-korvus/business-management-system/internal/domain/team"
)

// Window is a half-open time interval [Start, End) in UTC.
type Window struct {
	Start time.Time
	End   time.Time
}

// NewWindow rejects windows that end before they start.
func NewWindow(start, end time.Time) (Window, error) {
	if end.Before(start) {
		return Window{}, team.ErrInvalidWindow
	}
	return Window{Start: start.UTC(), End: end.UTC()}, nil
}

// Empty reports a zero-length window. Empty windows overlap nothing.
func (w Window) Empty() bool {
	return !w.End.After(w.Start)
}

// Overlaps reports whether the candidate w conflicts with existing, mirroring
// the storage predicate existing.start < w.end AND existing.end > w.start.
// Touching endpoints do not overlap. An empty candidate conflicts with
// nothing, while an empty existing window inside w still does.
func (w Window) Overlaps(existing Window) bool {
	if w.Empty() {
		return false
	}
	return existing.Start.Before(w.End) && existing.End.After(w.Start)
}

func (w Window) Duration() time.Duration {
	return w.End.Sub(w.Start)
}
