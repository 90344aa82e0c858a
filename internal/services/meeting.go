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
	"github.com/a-korvus/business-management-system/internal/pkg/pointers"
	"github.com/a-korvus/business-management-system/internal/scheduling"
)

type CreateMeetingInput struct {
	Topic       string
	Description *string
	StartTime   time.Time
	EndTime     time.Time
	CreatorID   uuid.UUID
	CommandID   uuid.UUID
	MemberIDs   []uuid.UUID
}

// MeetingPatch carries only the fields the caller wants changed.
type MeetingPatch struct {
	Topic       *string
	Description *string
	Status      *team.MeetingStatus
	StartTime   *time.Time
	EndTime     *time.Time
}

type MeetingService interface {
	domainagg.Aggregate

	Create(ctx context.Context, in CreateMeetingInput) (*team.Meeting, error)
	IncludeUsers(ctx context.Context, meetingID uuid.UUID, userIDs []uuid.UUID) (*team.Meeting, error)
	Update(ctx context.Context, meetingID uuid.UUID, patch MeetingPatch) (*team.Meeting, error)
	Deactivate(ctx context.Context, meetingID uuid.UUID) error

	Get(ctx context.Context, meetingID uuid.UUID) (*team.Meeting, error)
	GetDetail(ctx context.Context, meetingID uuid.UUID) (*team.Meeting, error)
}

type meetingService struct {
	log      *logger.Logger
	runner   aggregates.Runner
	detector *scheduling.Detector
	cas      aggregates.CASGuard
}

func NewMeetingService(log *logger.Logger, runner aggregates.Runner, detector *scheduling.Detector) MeetingService {
	if detector == nil {
		detector = scheduling.NewDetector(log)
	}
	return &meetingService{
		log:      log.With("service", "MeetingService"),
		runner:   runner,
		detector: detector,
	}
}

func (s *meetingService) Contract() domainagg.Contract {
	return domainagg.Contract{
		Name:             "meeting",
		WriteTxOwnership: domainagg.WriteTxOwnedByAggregate,
		ReadPolicy:       domainagg.ReadPolicyInvariantScoped,
		Invariants: []string{
			domainagg.InvariantMeetingMirrorsEvent,
			domainagg.InvariantMembersShareCommand,
			domainagg.InvariantNoParticipantOverlap,
		},
	}
}

// Create persists a meeting and the MEETING event it owns, or nothing at all.
func (s *meetingService) Create(ctx context.Context, in CreateMeetingInput) (*team.Meeting, error) {
	const op = "meeting.create"
	var out *team.Meeting
	err := s.runner.Run(ctx, op, func(uow *aggregates.UnitOfWork) error {
		dbc := uow.DBC()
		if _, err := requireUser(uow, op, in.CreatorID); err != nil {
			return err
		}
		if _, err := requireCommand(uow, op, in.CommandID); err != nil {
			return err
		}
		ok, err := uow.Partners().UsersShareCommand(dbc, in.MemberIDs, in.CommandID)
		if err != nil {
			return err
		}
		if !ok {
			return domainagg.Validation(op, "members don't belong to the same command")
		}
		members, err := uow.Partners().ResolveUsers(dbc, in.MemberIDs)
		if err != nil {
			return err
		}

		creatorID := in.CreatorID
		meeting, event, err := team.BuildMeetingWithEvent(team.MeetingParams{
			Topic:       strings.TrimSpace(in.Topic),
			Description: in.Description,
			StartTime:   in.StartTime,
			EndTime:     in.EndTime,
			CreatorID:   &creatorID,
			CommandID:   in.CommandID,
		}, members)
		if err != nil {
			return err
		}
		if _, err := uow.Events().Add(dbc, event); err != nil {
			return err
		}
		if _, err := uow.Meetings().Add(dbc, meeting); err != nil {
			return err
		}

		w := scheduling.Window{Start: event.StartTime, End: event.EndTime}
		hit, err := s.detector.Check(dbc, uow.Events(), w, meeting.MemberIDs(), &event.ID)
		if err != nil {
			return err
		}
		if hit != nil {
			return domainagg.NewOverlapError(op, *hit)
		}
		if err := uow.Commit(); err != nil {
			return err
		}
		out = meeting
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("meeting created", "meeting_id", out.ID.String(), "calendar_event_id", out.CalendarEventID.String(), "members", len(out.Members))
	return out, nil
}

// IncludeUsers adds only the ids that are not members yet. When nothing is
// new the meeting is returned unchanged and no write is issued.
func (s *meetingService) IncludeUsers(ctx context.Context, meetingID uuid.UUID, userIDs []uuid.UUID) (*team.Meeting, error) {
	const op = "meeting.include_users"
	var out *team.Meeting
	err := s.runner.Run(ctx, op, func(uow *aggregates.UnitOfWork) error {
		dbc := uow.DBC()
		m, err := uow.Meetings().GetByIDWithDetail(dbc, meetingID)
		if err != nil {
			return err
		}
		if m == nil {
			return domainagg.NotFound(op, "meeting", meetingID)
		}
		out = m

		added := newIDs(userIDs, m.MemberIDs())
		if len(added) == 0 {
			return nil
		}

		w := scheduling.Window{Start: m.StartTime, End: m.EndTime}
		hit, err := s.detector.Check(dbc, uow.Events(), w, added, &m.CalendarEventID)
		if err != nil {
			return err
		}
		if hit != nil {
			return domainagg.NewOverlapError(op, *hit)
		}
		ok, err := uow.Partners().UsersShareCommand(dbc, added, m.CommandID)
		if err != nil {
			return err
		}
		if !ok {
			return domainagg.Validation(op, "members don't belong to the same command")
		}
		users, err := uow.Partners().ResolveUsers(dbc, added)
		if err != nil {
			return err
		}
		if err := uow.Meetings().AppendMembers(dbc, m.ID, added); err != nil {
			return err
		}
		if err := uow.Events().AppendParticipants(dbc, m.CalendarEventID, added); err != nil {
			return err
		}
		m.AddMembers(users)
		return uow.Commit()
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Update applies the patch field by field. Status moves through a
// compare-and-set on the stored status; cancelling also deactivates the owned
// event. A time change is mirrored onto the owned event and is not re-checked
// for overlap.
func (s *meetingService) Update(ctx context.Context, meetingID uuid.UUID, patch MeetingPatch) (*team.Meeting, error) {
	const op = "meeting.update"
	var out *team.Meeting
	err := s.runner.Run(ctx, op, func(uow *aggregates.UnitOfWork) error {
		dbc := uow.DBC()
		m, err := uow.Meetings().GetByID(dbc, meetingID)
		if err != nil {
			return err
		}
		if m == nil {
			return domainagg.NotFound(op, "meeting", meetingID)
		}
		out = m

		updates := map[string]interface{}{}
		eventUpdates := map[string]interface{}{}

		if patch.Topic != nil {
			topic := strings.TrimSpace(*patch.Topic)
			if topic == "" {
				return team.ErrEmptyTitle
			}
			if topic != m.Topic {
				updates["topic"] = topic
				eventUpdates["title"] = topic
			}
		}
		if patch.Description != nil && pointers.Deref(m.Description) != *patch.Description {
			updates["description"] = *patch.Description
		}
		if patch.StartTime != nil || patch.EndTime != nil {
			start, end := m.StartTime, m.EndTime
			if patch.StartTime != nil {
				start = *patch.StartTime
			}
			if patch.EndTime != nil {
				end = *patch.EndTime
			}
			if !start.Equal(m.StartTime) || !end.Equal(m.EndTime) {
				if err := m.SetWindow(start, end); err != nil {
					return err
				}
				updates["start_time"], updates["end_time"] = m.StartTime, m.EndTime
				eventUpdates["start_time"], eventUpdates["end_time"] = m.StartTime, m.EndTime
			}
		}

		statusChanged := false
		if patch.Status != nil && *patch.Status != m.Status {
			if err := aggregates.RequireMeetingTransition(m.Status, *patch.Status); err != nil {
				return err
			}
			ok, err := s.cas.UpdateByStatus(dbc, "meetings", m.ID, []string{string(m.Status)}, map[string]any{
				"status":     string(*patch.Status),
				"updated_at": time.Now().UTC(),
			})
			if err != nil {
				return err
			}
			if err := aggregates.RequireCASSuccess(ok, "meeting status changed concurrently"); err != nil {
				return err
			}
			statusChanged = true
			if *patch.Status == team.MeetingCancelled {
				eventUpdates["is_active"] = false
			}
		}

		if len(updates) == 0 && !statusChanged {
			return nil
		}
		if err := uow.Meetings().UpdateFields(dbc, m.ID, updates); err != nil {
			return err
		}
		if err := uow.Events().UpdateFields(dbc, m.CalendarEventID, eventUpdates); err != nil {
			return err
		}
		if err := uow.Refresh(m); err != nil {
			return err
		}
		return uow.Commit()
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Deactivate soft-deletes the meeting and its event. Already inactive
// meetings are left untouched.
func (s *meetingService) Deactivate(ctx context.Context, meetingID uuid.UUID) error {
	const op = "meeting.deactivate"
	return s.runner.Run(ctx, op, func(uow *aggregates.UnitOfWork) error {
		dbc := uow.DBC()
		m, err := uow.Meetings().GetByID(dbc, meetingID)
		if err != nil {
			return err
		}
		if m == nil {
			return domainagg.NotFound(op, "meeting", meetingID)
		}
		if !m.IsActive {
			return nil
		}
		off := map[string]interface{}{"is_active": false}
		if err := uow.Meetings().UpdateFields(dbc, m.ID, off); err != nil {
			return err
		}
		if err := uow.Events().UpdateFields(dbc, m.CalendarEventID, off); err != nil {
			return err
		}
		return uow.Commit()
	})
}

func (s *meetingService) Get(ctx context.Context, meetingID uuid.UUID) (*team.Meeting, error) {
	return s.load(ctx, "meeting.get", meetingID, false)
}

// GetDetail loads members, the owned event and its participants.
func (s *meetingService) GetDetail(ctx context.Context, meetingID uuid.UUID) (*team.Meeting, error) {
	return s.load(ctx, "meeting.get_detail", meetingID, true)
}

func (s *meetingService) load(ctx context.Context, op string, meetingID uuid.UUID, detail bool) (*team.Meeting, error) {
	var out *team.Meeting
	err := s.runner.Run(ctx, op, func(uow *aggregates.UnitOfWork) error {
		var err error
		if detail {
			out, err = uow.Meetings().GetByIDWithDetail(uow.DBC(), meetingID)
		} else {
			out, err = uow.Meetings().GetByID(uow.DBC(), meetingID)
		}
		if err != nil {
			return err
		}
		if out == nil {
			return domainagg.NotFound(op, "meeting", meetingID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
