package scheduling

import (
	"time"

	"github.com/google/uuid"

	"github.com/a-korvus/business-management-system/internal/domain/org"
	"github.com/a-korvus/business-management-system/internal/pkg/dbctx"
	"github.com/a-korvus/business-management-system/internal/pkg/logger"
)

// EventQuerier is the slice of the calendar event repository the detector needs.
type EventQuerier interface {
	CheckOverlap(dbc dbctx.Context, start, end time.Time, participantIDs []uuid.UUID, excludingEventID *uuid.UUID) (*uuid.UUID, error)
}

// Detector decides whether a candidate window collides with an active event of
// any of the given participants. It holds no state between calls and must be
// given the querier bound to the caller's unit of work.
type Detector struct {
	log *logger.Logger
}

func NewDetector(log *logger.Logger) *Detector {
	if log == nil {
		log = logger.Nop()
	}
	return &Detector{log: log.With("component", "OverlapDetector")}
}

// Check returns the id of the earliest conflicting event, or nil. exclude is
// skipped so that an event never conflicts with itself.
func (d *Detector) Check(dbc dbctx.Context, events EventQuerier, w Window, participantIDs []uuid.UUID, exclude *uuid.UUID) (*uuid.UUID, error) {
	ids := org.DedupeIDs(participantIDs)
	if len(ids) == 0 || w.Empty() {
		return nil, nil
	}
	hit, err := events.CheckOverlap(dbc, w.Start, w.End, ids, exclude)
	if err != nil {
		return nil, err
	}
	if hit != nil && d != nil {
		d.log.Debug("candidate window rejected", "event_id", hit.String(), "participants", len(ids))
	}
	return hit, nil
}
