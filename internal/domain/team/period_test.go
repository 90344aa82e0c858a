package team

import (
	"errors"
	"testing"
	"time"
)

func TestPeriodBoundsAreInclusiveByDate(t *testing.T) {
	p, err := NewPeriod(
		time.Date(2025, 2, 1, 15, 30, 0, 0, time.UTC),
		time.Date(2025, 2, 3, 1, 0, 0, 0, time.UTC),
	)
	if err != nil {
		t.Fatalf("NewPeriod: %v", err)
	}
	from, to := p.Bounds()
	if !from.Equal(time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)) || !to.Equal(time.Date(2025, 2, 4, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("bounds: got [%v, %v)", from, to)
	}
	if !p.Contains(time.Date(2025, 2, 3, 23, 59, 59, 0, time.UTC)) {
		t.Fatalf("last second of end date must be inside")
	}
	if p.Contains(time.Date(2025, 2, 4, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("next midnight must be outside")
	}
	if p.Contains(time.Date(2025, 1, 31, 23, 59, 59, 0, time.UTC)) {
		t.Fatalf("day before start must be outside")
	}
}

func TestPeriodUsesUTCDate(t *testing.T) {
	// 01:00 at UTC+3 is still the previous day in UTC.
	loc := time.FixedZone("UTC+3", 3*3600)
	p, err := NewPeriod(time.Date(2025, 2, 2, 1, 0, 0, 0, loc), time.Date(2025, 2, 2, 1, 0, 0, 0, loc))
	if err != nil {
		t.Fatalf("NewPeriod: %v", err)
	}
	if p.Start.Day() != 1 || p.End.Day() != 1 {
		t.Fatalf("expected UTC date 1st, got %v..%v", p.Start, p.End)
	}
}

func TestPeriodRejectsInvertedRange(t *testing.T) {
	_, err := NewPeriod(time.Date(2025, 2, 2, 0, 0, 0, 0, time.UTC), time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC))
	if !errors.Is(err, ErrInvalidPeriod) {
		t.Fatalf("want ErrInvalidPeriod got %v", err)
	}
}
