package tasks

import (
	"context"

	"github.com/bissquit/taskboard/internal/access"
	"github.com/bissquit/taskboard/internal/domain"
)

// Repository defines the interface for task data operations.
//
// Tasks returned by the repository carry the effective assignee name: the
// current name of the referenced employee when AssigneeID is set.
type Repository interface {
	ListTasks(ctx context.Context, filter access.TaskFilter) ([]domain.Task, error)
	GetTask(ctx context.Context, id int64) (*domain.Task, error)
	// CreateTask inserts a task, linking it to the employee whose name
	// matches AssignedTo when one exists.
	CreateTask(ctx context.Context, task *domain.Task) error
	// UpdateTask applies every non-nil patch field in one transaction.
	UpdateTask(ctx context.Context, id int64, patch domain.TaskPatch) error
	DeleteTask(ctx context.Context, id int64) error
}
