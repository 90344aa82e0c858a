package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/a-korvus/business-management-system/internal/data/aggregates"
	domainagg "github.com/a-korvus/business-management-system/internal/domain/aggregates"
	"github.com/a-korvus/business-management-system/internal/domain/team"
	"github.com/a-korvus/business-management-system/internal/pkg/logger"
	"github.com/a-korvus/business-management-system/internal/scheduling"
)

type CreateEventInput struct {
	Title          string
	Description    *string
	StartTime      time.Time
	EndTime        time.Time
	EventType      team.EventType
	AllDay         bool
	ParticipantIDs []uuid.UUID
}

type CalendarEventService interface {
	domainagg.Aggregate

	Create(ctx context.Context, in CreateEventInput) (*team.CalendarEvent, error)
	Get(ctx context.Context, eventID uuid.UUID) (*team.CalendarEvent, error)
	ListForPeriod(ctx context.Context, p team.Period) ([]*team.CalendarEvent, error)
	ListForParticipant(ctx context.Context, userID uuid.UUID, p team.Period) ([]*team.CalendarEvent, error)
	IncludeUser(ctx context.Context, eventID, userID uuid.UUID) (*team.CalendarEvent, error)
	Deactivate(ctx context.Context, eventID uuid.UUID) error
}

type calendarEventService struct {
	log      *logger.Logger
	runner   aggregates.Runner
	detector *scheduling.Detector
}

func NewCalendarEventService(log *logger.Logger, runner aggregates.Runner, detector *scheduling.Detector) CalendarEventService {
	if detector == nil {
		detector = scheduling.NewDetector(log)
	}
	return &calendarEventService{
		log:      log.With("service", "CalendarEventService"),
		runner:   runner,
		detector: detector,
	}
}

func (s *calendarEventService) Contract() domainagg.Contract {
	return domainagg.Contract{
		Name:             "calendar_event",
		WriteTxOwnership: domainagg.WriteTxOwnedByAggregate,
		ReadPolicy:       domainagg.ReadPolicyTableRepoQueries,
		Invariants:       []string{domainagg.InvariantNoParticipantOverlap},
	}
}

// Create stores an ad-hoc event. MEETING events only come into existence
// together with their meeting.
func (s *calendarEventService) Create(ctx context.Context, in CreateEventInput) (*team.CalendarEvent, error) {
	const op = "calendar_event.create"
	if in.EventType == team.EventTypeMeeting {
		return nil, domainagg.Validation(op, "meeting events are created with their meeting")
	}
	var out *team.CalendarEvent
	err := s.runner.Run(ctx, op, func(uow *aggregates.UnitOfWork) error {
		dbc := uow.DBC()
		participants, err := resolveAll(uow, op, in.ParticipantIDs)
		if err != nil {
			return err
		}
		ev, err := team.NewCalendarEvent(strings.TrimSpace(in.Title), in.StartTime, in.EndTime, in.EventType, participants)
		if err != nil {
			return err
		}
		ev.Description = in.Description
		ev.AllDay = in.AllDay
		if _, err := uow.Events().Add(dbc, ev); err != nil {
			return err
		}
		w := scheduling.Window{Start: ev.StartTime, End: ev.EndTime}
		hit, err := s.detector.Check(dbc, uow.Events(), w, ev.ParticipantIDs(), &ev.ID)
		if err != nil {
			return err
		}
		if hit != nil {
			return domainagg.NewOverlapError(op, *hit)
		}
		if err := uow.Commit(); err != nil {
			return err
		}
		out = ev
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *calendarEventService) Get(ctx context.Context, eventID uuid.UUID) (*team.CalendarEvent, error) {
	const op = "calendar_event.get"
	var out *team.CalendarEvent
	err := s.runner.Run(ctx, op, func(uow *aggregates.UnitOfWork) error {
		ev, err := uow.Events().GetByIDWithParticipants(uow.DBC(), eventID)
		if err != nil {
			return err
		}
		if ev == nil {
			return domainagg.NotFound(op, "calendar event", eventID)
		}
		out = ev
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *calendarEventService) ListForPeriod(ctx context.Context, p team.Period) ([]*team.CalendarEvent, error) {
	var out []*team.CalendarEvent
	err := s.runner.Run(ctx, "calendar_event.list_for_period", func(uow *aggregates.UnitOfWork) error {
		var err error
		out, err = uow.Events().ListInPeriod(uow.DBC(), p)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *calendarEventService) ListForParticipant(ctx context.Context, userID uuid.UUID, p team.Period) ([]*team.CalendarEvent, error) {
	const op = "calendar_event.list_for_participant"
	var out []*team.CalendarEvent
	err := s.runner.Run(ctx, op, func(uow *aggregates.UnitOfWork) error {
		if _, err := requireUser(uow, op, userID); err != nil {
			return err
		}
		var err error
		out, err = uow.Events().ListForParticipantInPeriod(uow.DBC(), userID, p)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// IncludeUser adds one participant to an ad-hoc event. A user who already
// participates is a no-op.
func (s *calendarEventService) IncludeUser(ctx context.Context, eventID, userID uuid.UUID) (*team.CalendarEvent, error) {
	const op = "calendar_event.include_user"
	var out *team.CalendarEvent
	err := s.runner.Run(ctx, op, func(uow *aggregates.UnitOfWork) error {
		dbc := uow.DBC()
		user, err := requireUser(uow, op, userID)
		if err != nil {
			return err
		}
		ev, err := uow.Events().GetByIDWithParticipants(dbc, eventID)
		if err != nil {
			return err
		}
		if ev == nil {
			return domainagg.NotFound(op, "calendar event", eventID)
		}
		out = ev
		if ev.HasParticipant(userID) {
			return nil
		}
		if err := s.rejectMeetingOwned(uow, op, ev.ID); err != nil {
			return err
		}

		w := scheduling.Window{Start: ev.StartTime, End: ev.EndTime}
		hit, err := s.detector.Check(dbc, uow.Events(), w, []uuid.UUID{userID}, &ev.ID)
		if err != nil {
			return err
		}
		if hit != nil {
			return domainagg.NewOverlapError(op, *hit)
		}
		if err := uow.Events().AppendParticipants(dbc, ev.ID, []uuid.UUID{userID}); err != nil {
			return err
		}
		ev.Participants = append(ev.Participants, user)
		return uow.Commit()
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Deactivate soft-deletes an ad-hoc event. Meeting events follow their meeting.
func (s *calendarEventService) Deactivate(ctx context.Context, eventID uuid.UUID) error {
	const op = "calendar_event.deactivate"
	return s.runner.Run(ctx, op, func(uow *aggregates.UnitOfWork) error {
		dbc := uow.DBC()
		ev, err := uow.Events().GetByID(dbc, eventID)
		if err != nil {
			return err
		}
		if ev == nil {
			return domainagg.NotFound(op, "calendar event", eventID)
		}
		if err := s.rejectMeetingOwned(uow, op, ev.ID); err != nil {
			return err
		}
		if !ev.IsActive {
			return nil
		}
		if err := uow.Events().UpdateFields(dbc, ev.ID, map[string]interface{}{"is_active": false}); err != nil {
			return err
		}
		return uow.Commit()
	})
}

func (s *calendarEventService) rejectMeetingOwned(uow *aggregates.UnitOfWork, op string, eventID uuid.UUID) error {
	n, err := uow.Meetings().CountByCalendarEventID(uow.DBC(), eventID)
	if err != nil {
		return err
	}
	if n > 0 {
		return domainagg.Validation(op, "calendar event is owned by a meeting")
	}
	return nil
}
