package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/a-korvus/business-management-system/internal/calendar"
	"github.com/a-korvus/business-management-system/internal/domain/team"
	"github.com/a-korvus/business-management-system/internal/http/response"
	"github.com/a-korvus/business-management-system/internal/services"
)

type EventHandler struct {
	events services.CalendarEventService
}

func NewEventHandler(events services.CalendarEventService) *EventHandler {
	return &EventHandler{events: events}
}

type createEventRequest struct {
	Title          string      `json:"title"`
	Description    *string     `json:"description"`
	StartTime      time.Time   `json:"start_time"`
	EndTime        time.Time   `json:"end_time"`
	EventType      string      `json:"event_type"`
	AllDay         bool        `json:"all_day"`
	ParticipantIDs []uuid.UUID `json:"participant_ids"`
}

type includeUserRequest struct {
	UserID uuid.UUID `json:"user_id"`
}

// POST /api/team/events
func (h *EventHandler) Create(c *gin.Context) {
	var req createEventRequest
	if !bindJSON(c, &req) {
		return
	}
	ev, err := h.events.Create(c.Request.Context(), services.CreateEventInput{
		Title:          req.Title,
		Description:    req.Description,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		EventType:      team.ParseEnum[team.EventType](req.EventType),
		AllDay:         req.AllDay,
		ParticipantIDs: req.ParticipantIDs,
	})
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"event": ev})
}

// GET /api/team/events/:id
func (h *EventHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id", "invalid_event_id")
	if !ok {
		return
	}
	ev, err := h.events.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"event": ev})
}

// GET /api/team/events?start=&end=
func (h *EventHandler) ListForPeriod(c *gin.Context) {
	p, ok := queryPeriod(c)
	if !ok {
		return
	}
	events, err := h.events.ListForPeriod(c.Request.Context(), p)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"events": events})
}

// GET /api/team/users/:id/events?start=&end=
func (h *EventHandler) ListForUser(c *gin.Context) {
	userID, ok := pathID(c, "id", "invalid_user_id")
	if !ok {
		return
	}
	p, ok := queryPeriod(c)
	if !ok {
		return
	}
	events, err := h.events.ListForParticipant(c.Request.Context(), userID, p)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"events": events})
}

// GET /api/team/events/ics?user_id=&start=&end=
// user_id defaults to the caller.
func (h *EventHandler) ExportICS(c *gin.Context) {
	var userID uuid.UUID
	if raw := strings.TrimSpace(c.Query("user_id")); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_user_id", err)
			return
		}
		userID = id
	} else {
		id, ok := caller(c)
		if !ok {
			return
		}
		userID = id
	}
	p, ok := queryPeriod(c)
	if !ok {
		return
	}
	events, err := h.events.ListForParticipant(c.Request.Context(), userID, p)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	body := calendar.Render(events, calendar.Options{Name: "Team calendar"})
	c.Header("Content-Disposition", `attachment; filename="calendar.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(body))
}

// POST /api/team/events/:id/participants
func (h *EventHandler) IncludeUser(c *gin.Context) {
	id, ok := pathID(c, "id", "invalid_event_id")
	if !ok {
		return
	}
	var req includeUserRequest
	if !bindJSON(c, &req) {
		return
	}
	ev, err := h.events.IncludeUser(c.Request.Context(), id, req.UserID)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"event": ev})
}

// DELETE /api/team/events/:id
func (h *EventHandler) Deactivate(c *gin.Context) {
	id, ok := pathID(c, "id", "invalid_event_id")
	if !ok {
		return
	}
	if err := h.events.Deactivate(c.Request.Context(), id); err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondNoContent(c)
}
