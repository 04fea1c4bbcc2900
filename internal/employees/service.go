// Package employees provides employee management. Every operation is admin only.
package employees

import (
	"context"
	"strings"

	"github.com/bissquit/taskboard/internal/access"
	"github.com/bissquit/taskboard/internal/domain"
	"github.com/bissquit/taskboard/internal/pkg/ctxlog"
	"github.com/bissquit/taskboard/internal/pkg/metrics"
)

// Service implements employee business logic.
type Service struct {
	repo Repository
}

// NewService creates a new employees service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateEmployeeInput holds data for creating an employee.
type CreateEmployeeInput struct {
	Name     string
	Email    string
	Position string
}

func (s *Service) authorize(caller domain.Caller, op string) error {
	if err := access.AuthorizeEmployeeManage(caller); err != nil {
		metrics.AccessDenied.WithLabelValues(op).Inc()
		return err
	}
	return nil
}

// List returns all employees ordered by name.
func (s *Service) List(ctx context.Context, caller domain.Caller) ([]domain.Employee, error) {
	if err := s.authorize(caller, "employee_list"); err != nil {
		return nil, err
	}
	return s.repo.ListEmployees(ctx)
}

// Get returns a single employee.
func (s *Service) Get(ctx context.Context, caller domain.Caller, id int64) (*domain.Employee, error) {
	if err := s.authorize(caller, "employee_get"); err != nil {
		return nil, err
	}
	return s.repo.GetEmployee(ctx, id)
}

// Create adds an employee. Position defaults to domain.DefaultPosition.
func (s *Service) Create(ctx context.Context, caller domain.Caller, input CreateEmployeeInput) (*domain.Employee, error) {
	if err := s.authorize(caller, "employee_create"); err != nil {
		return nil, err
	}

	employee := &domain.Employee{
		Name:     domain.NormalizeName(input.Name),
		Email:    domain.NormalizeEmail(input.Email),
		Position: strings.TrimSpace(input.Position),
	}
	if employee.Name == "" || employee.Email == "" {
		return nil, ErrMissingFields
	}
	if employee.Position == "" {
		employee.Position = domain.DefaultPosition
	}

	if err := s.repo.CreateEmployee(ctx, employee); err != nil {
		return nil, err
	}

	ctxlog.FromContext(ctx).Info("employee created", "employee_id", employee.ID)
	return employee, nil
}

// Update applies a partial update. A rename is visible in task listings
// immediately.
func (s *Service) Update(ctx context.Context, caller domain.Caller, id int64, patch domain.EmployeePatch) error {
	if err := s.authorize(caller, "employee_update"); err != nil {
		return err
	}
	if patch.IsEmpty() {
		return access.ErrNoFields
	}

	if patch.Name != nil {
		name := domain.NormalizeName(*patch.Name)
		if name == "" {
			return ErrMissingFields
		}
		patch.Name = &name
	}
	if patch.Email != nil {
		email := domain.NormalizeEmail(*patch.Email)
		if email == "" {
			return ErrMissingFields
		}
		patch.Email = &email
	}
	if patch.Position != nil {
		position := strings.TrimSpace(*patch.Position)
		if position == "" {
			position = domain.DefaultPosition
		}
		patch.Position = &position
	}

	if err := s.repo.UpdateEmployee(ctx, id, patch); err != nil {
		return err
	}

	ctxlog.FromContext(ctx).Info("employee updated", "employee_id", id, "renamed", patch.Name != nil)
	return nil
}

// Delete removes an employee. Assigned tasks keep the last known name.
func (s *Service) Delete(ctx context.Context, caller domain.Caller, id int64) error {
	if err := s.authorize(caller, "employee_delete"); err != nil {
		return err
	}
	if err := s.repo.DeleteEmployee(ctx, id); err != nil {
		return err
	}

	ctxlog.FromContext(ctx).Info("employee deleted", "employee_id", id)
	return nil
}
