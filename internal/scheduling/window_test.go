package scheduling

import (
	"testing"
	"time"
)

func at(h, m int) time.Time {
	return time.Date(2025, 6, 2, h, m, 0, 0, time.UTC)
}

func mustWindow(t *testing.T, start, end time.Time) Window {
	t.Helper()
	w, err := NewWindow(start, end)
	if err != nil {
		t.Fatalf("NewWindow: %v", err)
	}
	return w
}

func TestNewWindowRejectsInvertedRange(t *testing.T) {
	if _, err := NewWindow(at(11, 0), at(10, 0)); err == nil {
		t.Fatalf("expected error for end before start")
	}
	w := mustWindow(t, at(10, 0), at(10, 0))
	if !w.Empty() {
		t.Fatalf("zero-length window should be empty")
	}
}

func TestNewWindowNormalisesToUTC(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*3600)
	w := mustWindow(t, time.Date(2025, 6, 2, 13, 0, 0, 0, loc), time.Date(2025, 6, 2, 14, 0, 0, 0, loc))
	if w.Start.Location() != time.UTC || !w.Start.Equal(at(10, 0)) {
		t.Fatalf("start not normalised: %v", w.Start)
	}
	if w.Duration() != time.Hour {
		t.Fatalf("duration = %v", w.Duration())
	}
}

func TestOverlaps(t *testing.T) {
	base := mustWindow(t, at(10, 0), at(11, 0))
	cases := []struct {
		name  string
		other Window
		want  bool
	}{
		{"inside", mustWindow(t, at(10, 15), at(10, 45)), true},
		{"covering", mustWindow(t, at(9, 0), at(12, 0)), true},
		{"tail", mustWindow(t, at(10, 30), at(11, 30)), true},
		{"head", mustWindow(t, at(9, 30), at(10, 30)), true},
		{"touching end", mustWindow(t, at(11, 0), at(12, 0)), false},
		{"touching start", mustWindow(t, at(9, 0), at(10, 0)), false},
		{"disjoint", mustWindow(t, at(13, 0), at(14, 0)), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := base.Overlaps(tc.other); got != tc.want {
				t.Fatalf("base.Overlaps = %v, want %v", got, tc.want)
			}
			if got := tc.other.Overlaps(base); got != tc.want {
				t.Fatalf("overlap is not symmetric for %s", tc.name)
			}
		})
	}
}

func TestOverlapsZeroLength(t *testing.T) {
	base := mustWindow(t, at(10, 0), at(11, 0))
	instant := mustWindow(t, at(10, 30), at(10, 30))
	if instant.Overlaps(base) {
		t.Fatalf("an empty candidate must not conflict")
	}
	if !base.Overlaps(instant) {
		t.Fatalf("an empty existing window inside the candidate must conflict")
	}
	if base.Overlaps(mustWindow(t, at(10, 0), at(10, 0))) {
		t.Fatalf("an empty existing window on the start boundary must not conflict")
	}
	if base.Overlaps(mustWindow(t, at(11, 0), at(11, 0))) {
		t.Fatalf("an empty existing window on the end boundary must not conflict")
	}
}
