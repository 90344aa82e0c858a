package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/a-korvus/business-management-system/internal/http/response"
	"github.com/a-korvus/business-management-system/internal/services"
)

type CommentHandler struct {
	comments services.TaskCommentService
}

func NewCommentHandler(comments services.TaskCommentService) *CommentHandler {
	return &CommentHandler{comments: comments}
}

type createCommentRequest struct {
	Text            string     `json:"text"`
	ParentCommentID *uuid.UUID `json:"parent_comment_id"`
}

type updateCommentRequest struct {
	Text *string `json:"text"`
}

// POST /api/team/tasks/:id/comments
func (h *CommentHandler) Create(c *gin.Context) {
	taskID, ok := pathID(c, "id", "invalid_task_id")
	if !ok {
		return
	}
	commentatorID, ok := caller(c)
	if !ok {
		return
	}
	var req createCommentRequest
	if !bindJSON(c, &req) {
		return
	}
	comment, err := h.comments.Create(c.Request.Context(), services.CreateCommentInput{
		TaskID:          taskID,
		CommentatorID:   commentatorID,
		ParentCommentID: req.ParentCommentID,
		Text:            req.Text,
	})
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"comment": comment})
}

// GET /api/team/tasks/:id/comments
func (h *CommentHandler) Thread(c *gin.Context) {
	taskID, ok := pathID(c, "id", "invalid_task_id")
	if !ok {
		return
	}
	tree, err := h.comments.Thread(c.Request.Context(), taskID)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"comments": tree.Nested()})
}

// PATCH /api/team/comments/:id
func (h *CommentHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id", "invalid_comment_id")
	if !ok {
		return
	}
	var req updateCommentRequest
	if !bindJSON(c, &req) {
		return
	}
	comment, err := h.comments.Update(c.Request.Context(), id, req.Text)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"comment": comment})
}

// GET /api/team/comments/:id/replies
func (h *CommentHandler) Replies(c *gin.Context) {
	id, ok := pathID(c, "id", "invalid_comment_id")
	if !ok {
		return
	}
	comment, replies, err := h.comments.Replies(c.Request.Context(), id)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"comment": comment, "replies": replies})
}
