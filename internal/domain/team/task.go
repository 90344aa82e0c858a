package team

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Task struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string     `gorm:"column:title;size:500;not null" json:"title"`
	Description *string    `gorm:"column:description" json:"description,omitempty"`
	Status      TaskStatus `gorm:"column:status;size:16;not null;index" json:"status"`
	Grade       *TaskGrade `gorm:"column:grade;size:32;index" json:"grade,omitempty"`
	DueDate     time.Time  `gorm:"column:due_date;not null;index" json:"due_date"`
	IsActive    bool       `gorm:"column:is_active;not null;index" json:"is_active"`

	CreatorID       uuid.UUID  `gorm:"type:uuid;column:creator_id;not null;index" json:"creator_id"`
	AssigneeID      uuid.UUID  `gorm:"type:uuid;column:assignee_id;not null;index" json:"assignee_id"`
	CalendarEventID *uuid.UUID `gorm:"type:uuid;column:calendar_event_id;index" json:"calendar_event_id,omitempty"`

	Comments []*TaskComment `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE" json:"comments,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Task) TableName() string { return "tasks" }

func (t *Task) BeforeCreate(*gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	t.DueDate = t.DueDate.UTC()
	if t.Status == "" {
		t.Status = TaskOpen
	}
	return nil
}

// TaskComment is one node of a per-task comment forest. Parent links are ids
// only; CommentTree resolves them.
type TaskComment struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Text     string    `gorm:"column:text;size:5000;not null" json:"text"`
	IsActive bool      `gorm:"column:is_active;not null;index" json:"is_active"`

	TaskID          uuid.UUID  `gorm:"type:uuid;column:task_id;not null;index" json:"task_id"`
	CommentatorID   *uuid.UUID `gorm:"type:uuid;column:commentator_id;index" json:"commentator_id,omitempty"`
	ParentCommentID *uuid.UUID `gorm:"type:uuid;column:parent_comment_id;index" json:"parent_comment_id,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (TaskComment) TableName() string { return "task_comments" }

func (c *TaskComment) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
