// Package tasks provides task listing and management.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bissquit/taskboard/internal/access"
	"github.com/bissquit/taskboard/internal/domain"
	"github.com/bissquit/taskboard/internal/pkg/ctxlog"
	"github.com/bissquit/taskboard/internal/pkg/metrics"
)

// Service implements task business logic.
type Service struct {
	repo Repository
}

// NewService creates a new tasks service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateTaskInput holds data for creating a task.
type CreateTaskInput struct {
	Title       string
	Description string
	AssignedTo  *string
	Status      domain.TaskStatus
}

// List returns the tasks visible to caller, newest first.
func (s *Service) List(ctx context.Context, caller domain.Caller, req access.TaskListRequest) ([]domain.Task, error) {
	if caller.Role == "" {
		return nil, access.ErrUnauthenticated
	}
	if req.Status != nil && !req.Status.IsValid() {
		return nil, ErrInvalidStatus
	}

	filter := access.ScopeTaskList(caller, req)
	tasks, err := s.repo.ListTasks(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// Get returns a single task. Tasks the caller may not see are reported as
// ErrTaskNotFound.
func (s *Service) Get(ctx context.Context, caller domain.Caller, id int64) (*domain.Task, error) {
	if caller.Role == "" {
		return nil, access.ErrUnauthenticated
	}

	task, err := s.repo.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if !access.CanViewTask(caller, task.AssignedTo) {
		return nil, ErrTaskNotFound
	}
	return task, nil
}

// Create adds a task. Admin only.
func (s *Service) Create(ctx context.Context, caller domain.Caller, input CreateTaskInput) (*domain.Task, error) {
	if err := access.AuthorizeTaskCreate(caller); err != nil {
		metrics.AccessDenied.WithLabelValues("task_create").Inc()
		return nil, err
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	assignee := normalizeAssignee(input.AssignedTo)
	if domain.TooLong(title) || (assignee != nil && domain.TooLong(*assignee)) {
		return nil, ErrFieldTooLong
	}

	status := input.Status
	if status == "" {
		status = domain.TaskStatusPending
	}
	if !status.IsValid() {
		return nil, ErrInvalidStatus
	}

	task := &domain.Task{
		Title:       title,
		Description: input.Description,
		AssignedTo:  assignee,
		Status:      status,
	}
	if err := s.repo.CreateTask(ctx, task); err != nil {
		return nil, err
	}

	metrics.TaskOperations.WithLabelValues("create").Inc()
	ctxlog.FromContext(ctx).Info("task created", "task_id", task.ID, "assignee_id", task.AssigneeID)
	return task, nil
}

// Update applies a partial update to a task.
//
// Any authenticated caller may change the status; other fields need admin.
func (s *Service) Update(ctx context.Context, caller domain.Caller, id int64, patch domain.TaskPatch) error {
	if err := access.AuthorizeTaskUpdate(caller, patch); err != nil {
		if !errors.Is(err, access.ErrNoFields) {
			metrics.AccessDenied.WithLabelValues("task_update").Inc()
		}
		return err
	}

	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return ErrTitleRequired
		}
		if domain.TooLong(title) {
			return ErrFieldTooLong
		}
		patch.Title = &title
	}
	if patch.Status != nil && !patch.Status.IsValid() {
		return ErrInvalidStatus
	}
	if patch.AssignedTo != nil {
		name := domain.NormalizeName(*patch.AssignedTo)
		if domain.TooLong(name) {
			return ErrFieldTooLong
		}
		patch.AssignedTo = &name
	}

	if err := s.repo.UpdateTask(ctx, id, patch); err != nil {
		return err
	}

	metrics.TaskOperations.WithLabelValues("update").Inc()
	ctxlog.FromContext(ctx).Info("task updated",
		"task_id", id,
		"status_changed", patch.Status != nil,
		"details_changed", patch.TouchesDetails(),
	)
	return nil
}

// Delete removes a task. Admin only.
func (s *Service) Delete(ctx context.Context, caller domain.Caller, id int64) error {
	if err := access.AuthorizeTaskDelete(caller); err != nil {
		metrics.AccessDenied.WithLabelValues("task_delete").Inc()
		return err
	}

	if err := s.repo.DeleteTask(ctx, id); err != nil {
		return err
	}

	metrics.TaskOperations.WithLabelValues("delete").Inc()
	ctxlog.FromContext(ctx).Info("task deleted", "task_id", id)
	return nil
}

// normalizeAssignee maps blank names to no assignment.
func normalizeAssignee(name *string) *string {
	if name == nil {
		return nil
	}
	n := domain.NormalizeName(*name)
	if n == "" {
		return nil
	}
	return &n
}
