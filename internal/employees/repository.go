package employees

import (
	"context"

	"github.com/bissquit/taskboard/internal/domain"
)

// Repository defines the interface for employee data operations.
// Duplicate emails are reported as ErrEmailExists.
type Repository interface {
	ListEmployees(ctx context.Context) ([]domain.Employee, error)
	GetEmployee(ctx context.Context, id int64) (*domain.Employee, error)
	CreateEmployee(ctx context.Context, employee *domain.Employee) error
	UpdateEmployee(ctx context.Context, id int64, patch domain.EmployeePatch) error
	DeleteEmployee(ctx context.Context, id int64) error
}
