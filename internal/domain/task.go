package domain

import "time"

// TaskStatus is the completion state of a task.
type TaskStatus string

// Task statuses.
const (
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusCompleted TaskStatus = "completed"
)

// IsValid checks if the task status is valid.
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusPending, TaskStatusCompleted:
		return true
	}
	return false
}

// Task is a unit of work, optionally assigned to an employee.
//
// AssignedTo is the effective assignee display name: the current name of the
// employee referenced by AssigneeID when set, otherwise the stored free text.
type Task struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	AssignedTo  *string    `json:"assigned_to"`
	AssigneeID  *int64     `json:"assignee_id,omitempty"`
	Status      TaskStatus `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TaskPatch holds the fields of a partial task update. Nil means unchanged.
// An empty AssignedTo clears the assignment.
type TaskPatch struct {
	Status      *TaskStatus
	Title       *string
	Description *string
	AssignedTo  *string
}

// IsEmpty reports whether the patch changes nothing.
func (p TaskPatch) IsEmpty() bool {
	return p.Status == nil && !p.TouchesDetails()
}

// TouchesDetails reports whether the patch changes title, description or assignment.
func (p TaskPatch) TouchesDetails() bool {
	return p.Title != nil || p.Description != nil || p.AssignedTo != nil
}

// DashboardStats aggregates task and employee counts.
type DashboardStats struct {
	TotalTasks     int64 `json:"totalTasks"`
	CompletedTasks int64 `json:"completedTasks"`
	PendingTasks   int64 `json:"pendingTasks"`
	CompletionRate int64 `json:"completionRate"`
	TotalEmployees int64 `json:"totalEmployees"`
}
