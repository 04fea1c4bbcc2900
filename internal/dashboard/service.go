// Package dashboard aggregates task and employee counts for admins.
package dashboard

import (
	"context"
	"fmt"
	"math"

	"github.com/bissquit/taskboard/internal/access"
	"github.com/bissquit/taskboard/internal/domain"
	"github.com/bissquit/taskboard/internal/pkg/ctxlog"
	"github.com/bissquit/taskboard/internal/pkg/metrics"
)

// TaskCounter reads task totals (implemented by the tasks repository).
type TaskCounter interface {
	CountTasks(ctx context.Context) (total, completed int64, err error)
}

// EmployeeCounter reads the employee total (implemented by the employees repository).
type EmployeeCounter interface {
	CountEmployees(ctx context.Context) (int64, error)
}

// Service computes dashboard statistics.
type Service struct {
	tasks     TaskCounter
	employees EmployeeCounter
}

// NewService creates a new dashboard service.
func NewService(tasks TaskCounter, employees EmployeeCounter) *Service {
	return &Service{tasks: tasks, employees: employees}
}

// Stats returns the dashboard statistics. Admin only.
//
// A failed task count fails the call. A failed employee count is logged and
// reported as zero.
func (s *Service) Stats(ctx context.Context, caller domain.Caller) (*domain.DashboardStats, error) {
	if err := access.AuthorizeDashboard(caller); err != nil {
		metrics.AccessDenied.WithLabelValues("dashboard").Inc()
		return nil, err
	}

	total, completed, err := s.tasks.CountTasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("count tasks: %w", err)
	}

	employees, err := s.employees.CountEmployees(ctx)
	if err != nil {
		ctxlog.FromContext(ctx).Warn("employee count unavailable", "error", err)
		employees = 0
	}

	return &domain.DashboardStats{
		TotalTasks:     total,
		CompletedTasks: completed,
		PendingTasks:   total - completed,
		CompletionRate: CompletionRate(total, completed),
		TotalEmployees: employees,
	}, nil
}

// CompletionRate returns completed/total as a whole percentage, 0 when total is 0.
func CompletionRate(total, completed int64) int64 {
	if total == 0 {
		return 0
	}
	return int64(math.Round(float64(completed) * 100 / float64(total)))
}
