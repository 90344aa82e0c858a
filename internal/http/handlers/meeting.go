package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/a-korvus/business-management-system/internal/domain/team"
	"github.com/a-korvus/business-management-system/internal/http/response"
	"github.com/a-korvus/business-management-system/internal/services"
)

type MeetingHandler struct {
	meetings services.MeetingService
}

func NewMeetingHandler(meetings services.MeetingService) *MeetingHandler {
	return &MeetingHandler{meetings: meetings}
}

type createMeetingRequest struct {
	Topic       string      `json:"topic"`
	Description *string     `json:"description"`
	StartTime   time.Time   `json:"start_time"`
	EndTime     time.Time   `json:"end_time"`
	CommandID   uuid.UUID   `json:"command_id"`
	MemberIDs   []uuid.UUID `json:"member_ids"`
}

type updateMeetingRequest struct {
	Topic       *string    `json:"topic"`
	Description *string    `json:"description"`
	Status      *string    `json:"status"`
	StartTime   *time.Time `json:"start_time"`
	EndTime     *time.Time `json:"end_time"`
}

type includeUsersRequest struct {
	UserIDs []uuid.UUID `json:"user_ids"`
}

// POST /api/team/meetings
func (h *MeetingHandler) Create(c *gin.Context) {
	creatorID, ok := caller(c)
	if !ok {
		return
	}
	var req createMeetingRequest
	if !bindJSON(c, &req) {
		return
	}
	m, err := h.meetings.Create(c.Request.Context(), services.CreateMeetingInput{
		Topic:       req.Topic,
		Description: req.Description,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		CreatorID:   creatorID,
		CommandID:   req.CommandID,
		MemberIDs:   req.MemberIDs,
	})
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"meeting": m})
}

// GET /api/team/meetings/:id?detail=true
func (h *MeetingHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id", "invalid_meeting_id")
	if !ok {
		return
	}
	get := h.meetings.Get
	if detail, _ := strconv.ParseBool(c.Query("detail")); detail {
		get = h.meetings.GetDetail
	}
	m, err := get(c.Request.Context(), id)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"meeting": m})
}

// PATCH /api/team/meetings/:id
func (h *MeetingHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id", "invalid_meeting_id")
	if !ok {
		return
	}
	var req updateMeetingRequest
	if !bindJSON(c, &req) {
		return
	}
	patch := services.MeetingPatch{
		Topic:       req.Topic,
		Description: req.Description,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
	}
	if req.Status != nil {
		st := team.ParseEnum[team.MeetingStatus](*req.Status)
		patch.Status = &st
	}
	m, err := h.meetings.Update(c.Request.Context(), id, patch)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"meeting": m})
}

// POST /api/team/meetings/:id/members
func (h *MeetingHandler) IncludeUsers(c *gin.Context) {
	id, ok := pathID(c, "id", "invalid_meeting_id")
	if !ok {
		return
	}
	var req includeUsersRequest
	if !bindJSON(c, &req) {
		return
	}
	m, err := h.meetings.IncludeUsers(c.Request.Context(), id, req.UserIDs)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"meeting": m})
}

// DELETE /api/team/meetings/:id
func (h *MeetingHandler) Deactivate(c *gin.Context) {
	id, ok := pathID(c, "id", "invalid_meeting_id")
	if !ok {
		return
	}
	if err := h.meetings.Deactivate(c.Request.Context(), id); err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondNoContent(c)
}
