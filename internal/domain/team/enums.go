package team

import "strings"

type EventType string

const (
	EventTypeTask    EventType = "TASK"
	EventTypeMeeting EventType = "MEETING"
	EventTypeGeneral EventType = "GENERAL"
)

func (t EventType) Valid() bool {
	switch t {
	case EventTypeTask, EventTypeMeeting, EventTypeGeneral:
		return true
	}
	return false
}

type MeetingStatus string

const (
	MeetingPlanned   MeetingStatus = "PLANNED"
	MeetingCompleted MeetingStatus = "COMPLETED"
	MeetingCancelled MeetingStatus = "CANCELLED"
)

func (s MeetingStatus) Valid() bool {
	switch s {
	case MeetingPlanned, MeetingCompleted, MeetingCancelled:
		return true
	}
	return false
}

// Terminal statuses accept no further transitions.
func (s MeetingStatus) Terminal() bool {
	return s == MeetingCompleted || s == MeetingCancelled
}

// CanTransitionTo reports whether a meeting may move from s to next.
// Staying in the same status is always allowed.
func (s MeetingStatus) CanTransitionTo(next MeetingStatus) bool {
	if !next.Valid() {
		return false
	}
	if s == next {
		return true
	}
	return s == MeetingPlanned && next.Terminal()
}

type TaskStatus string

const (
	TaskOpen       TaskStatus = "OPEN"
	TaskInProgress TaskStatus = "IN_PROGRESS"
	TaskDone       TaskStatus = "DONE"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskOpen, TaskInProgress, TaskDone:
		return true
	}
	return false
}

// TaskGrade is stored by name. Its numeric weight lives in GradeScale only.
type TaskGrade string

const (
	GradeFailed          TaskGrade = "FAILED"
	GradeDoneDeadlineOut TaskGrade = "DONE_DEADLINE_OUT"
	GradeDoneDeadline    TaskGrade = "DONE_DEADLINE"
	GradeDoneInitiative  TaskGrade = "DONE_INITIATIVE"
)

func (g TaskGrade) Valid() bool {
	_, ok := GradeScale[g]
	return ok
}

// ParseEnum normalizes user input ("done_deadline", " Planned ") to the stored form.
func ParseEnum[T ~string](raw string) T {
	return T(strings.ToUpper(strings.TrimSpace(raw)))
}
