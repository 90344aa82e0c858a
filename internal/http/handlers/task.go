package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/a-korvus/business-management-system/internal/domain/team"
	"github.com/a-korvus/business-management-system/internal/http/response"
	"github.com/a-korvus/business-management-system/internal/services"
)

type TaskHandler struct {
	tasks services.TaskService
}

func NewTaskHandler(tasks services.TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

type createTaskRequest struct {
	Title           string     `json:"title"`
	Description     *string    `json:"description"`
	DueDate         time.Time  `json:"due_date"`
	AssigneeID      uuid.UUID  `json:"assignee_id"`
	CalendarEventID *uuid.UUID `json:"calendar_event_id"`
}

type updateTaskRequest struct {
	Title           *string    `json:"title"`
	Description     *string    `json:"description"`
	Status          *string    `json:"status"`
	Grade           *string    `json:"grade"`
	DueDate         *time.Time `json:"due_date"`
	AssigneeID      *uuid.UUID `json:"assignee_id"`
	CalendarEventID *uuid.UUID `json:"calendar_event_id"`
}

// POST /api/team/tasks
func (h *TaskHandler) Create(c *gin.Context) {
	creatorID, ok := caller(c)
	if !ok {
		return
	}
	var req createTaskRequest
	if !bindJSON(c, &req) {
		return
	}
	task, err := h.tasks.Create(c.Request.Context(), services.CreateTaskInput{
		Title:           req.Title,
		Description:     req.Description,
		DueDate:         req.DueDate,
		CreatorID:       creatorID,
		AssigneeID:      req.AssigneeID,
		CalendarEventID: req.CalendarEventID,
	})
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"task": task})
}

// GET /api/team/tasks/:id
func (h *TaskHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id", "invalid_task_id")
	if !ok {
		return
	}
	task, err := h.tasks.GetWithComments(c.Request.Context(), id)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"task": task})
}

// PATCH /api/team/tasks/:id
func (h *TaskHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id", "invalid_task_id")
	if !ok {
		return
	}
	var req updateTaskRequest
	if !bindJSON(c, &req) {
		return
	}
	patch := services.TaskPatch{
		Title:           req.Title,
		Description:     req.Description,
		DueDate:         req.DueDate,
		AssigneeID:      req.AssigneeID,
		CalendarEventID: req.CalendarEventID,
	}
	if req.Status != nil {
		st := team.ParseEnum[team.TaskStatus](*req.Status)
		patch.Status = &st
	}
	if req.Grade != nil {
		g := team.ParseEnum[team.TaskGrade](*req.Grade)
		patch.Grade = &g
	}
	task, err := h.tasks.Update(c.Request.Context(), id, patch)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"task": task})
}

// DELETE /api/team/tasks/:id
func (h *TaskHandler) Deactivate(c *gin.Context) {
	id, ok := pathID(c, "id", "invalid_task_id")
	if !ok {
		return
	}
	if err := h.tasks.Deactivate(c.Request.Context(), id); err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondNoContent(c)
}

// GET /api/team/users/:id/tasks?start=&end=
func (h *TaskHandler) ListAssigned(c *gin.Context) {
	userID, ok := pathID(c, "id", "invalid_user_id")
	if !ok {
		return
	}
	p, ok := queryPeriod(c)
	if !ok {
		return
	}
	tasks, err := h.tasks.ListAssigned(c.Request.Context(), userID, p)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"tasks": tasks})
}

// GET /api/team/users/:id/grades?start=&end=
func (h *TaskHandler) Grades(c *gin.Context) {
	userID, ok := pathID(c, "id", "invalid_user_id")
	if !ok {
		return
	}
	p, ok := queryPeriod(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	grades, err := h.tasks.ListGrades(ctx, userID, p)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	avg, err := h.tasks.AvgGrade(ctx, userID, p)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	commandAvg, err := h.tasks.AvgGradeForUsersCommand(ctx, userID, p)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"grades":            grades,
		"avg_grade":         avg,
		"command_avg_grade": commandAvg,
	})
}

// GET /api/team/commands/:id/grade?start=&end=
func (h *TaskHandler) CommandGrade(c *gin.Context) {
	commandID, ok := pathID(c, "id", "invalid_command_id")
	if !ok {
		return
	}
	p, ok := queryPeriod(c)
	if !ok {
		return
	}
	avg, err := h.tasks.AvgGradeForCommand(c.Request.Context(), commandID, p)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"command_id": commandID, "avg_grade": avg})
}
