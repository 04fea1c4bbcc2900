// Package postgres provides PostgreSQL implementation of the employees repository.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/bissquit/taskboard/internal/domain"
	"github.com/bissquit/taskboard/internal/employees"
	pgutil "github.com/bissquit/taskboard/internal/pkg/postgres"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const employeeColumns = `id, name, email, position, created_at, updated_at`

const (
	lockEmployee = `SELECT id FROM employees WHERE id = $1 FOR UPDATE`

	updateEmployeeName = `UPDATE employees SET name = $2, updated_at = NOW() WHERE id = $1`

	updateEmployeeEmail = `UPDATE employees SET email = $2, updated_at = NOW() WHERE id = $1`

	updateEmployeePosition = `UPDATE employees SET position = $2, updated_at = NOW() WHERE id = $1`

	// Keeps the stored name of linked tasks current so it survives deletion.
	syncAssignedName = `UPDATE tasks SET assigned_to = $2 WHERE assignee_id = $1`

	// Links tasks assigned by free-text name before the employee existed.
	linkTasksByName = `UPDATE tasks SET assignee_id = $1 WHERE assignee_id IS NULL AND assigned_to = $2`
)

// Repository implements employees.Repository using PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// ListEmployees returns all employees ordered by name.
func (r *Repository) ListEmployees(ctx context.Context) ([]domain.Employee, error) {
	rows, err := r.db.Query(ctx, `SELECT `+employeeColumns+` FROM employees ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	defer rows.Close()

	result := make([]domain.Employee, 0)
	for rows.Next() {
		employee, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("scan employee: %w", err)
		}
		result = append(result, *employee)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate employees: %w", err)
	}
	return result, nil
}

// GetEmployee retrieves an employee by id.
func (r *Repository) GetEmployee(ctx context.Context, id int64) (*domain.Employee, error) {
	employee, err := scanEmployee(r.db.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, employees.ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("get employee: %w", err)
	}
	return employee, nil
}

// CreateEmployee inserts an employee and links unlinked tasks already
// assigned to its name.
func (r *Repository) CreateEmployee(ctx context.Context, employee *domain.Employee) error {
	query := `
		INSERT INTO employees (name, email, position)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`
	err := pgutil.InTx(ctx, r.db, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, query,
			employee.Name,
			employee.Email,
			employee.Position,
		).Scan(&employee.ID, &employee.CreatedAt, &employee.UpdatedAt)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, linkTasksByName, employee.ID, employee.Name); err != nil {
			return fmt.Errorf("link tasks: %w", err)
		}
		return nil
	})
	if err != nil {
		if pgutil.IsUniqueViolation(err) {
			return employees.ErrEmailExists
		}
		return fmt.Errorf("create employee: %w", err)
	}
	return nil
}

// UpdateEmployee applies the non-nil fields of patch atomically.
func (r *Repository) UpdateEmployee(ctx context.Context, id int64, patch domain.EmployeePatch) error {
	err := pgutil.InTx(ctx, r.db, func(tx pgx.Tx) error {
		var locked int64
		if err := tx.QueryRow(ctx, lockEmployee, id).Scan(&locked); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return employees.ErrEmployeeNotFound
			}
			return fmt.Errorf("lock employee: %w", err)
		}

		if patch.Name != nil {
			if _, err := tx.Exec(ctx, updateEmployeeName, id, *patch.Name); err != nil {
				return fmt.Errorf("update employee name: %w", err)
			}
			if _, err := tx.Exec(ctx, syncAssignedName, id, *patch.Name); err != nil {
				return fmt.Errorf("sync task assignee names: %w", err)
			}
			if _, err := tx.Exec(ctx, linkTasksByName, id, *patch.Name); err != nil {
				return fmt.Errorf("link tasks: %w", err)
			}
		}
		if patch.Email != nil {
			if _, err := tx.Exec(ctx, updateEmployeeEmail, id, *patch.Email); err != nil {
				return fmt.Errorf("update employee email: %w", err)
			}
		}
		if patch.Position != nil {
			if _, err := tx.Exec(ctx, updateEmployeePosition, id, *patch.Position); err != nil {
				return fmt.Errorf("update employee position: %w", err)
			}
		}
		return nil
	})
	if pgutil.IsUniqueViolation(err) {
		return employees.ErrEmailExists
	}
	return err
}

// DeleteEmployee deletes an employee by id. Linked tasks are detached by the
// ON DELETE SET NULL foreign key and keep their stored name.
func (r *Repository) DeleteEmployee(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete employee: %w", err)
	}
	if result.RowsAffected() == 0 {
		return employees.ErrEmployeeNotFound
	}
	return nil
}

// CountEmployees returns the number of employees.
func (r *Repository) CountEmployees(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM employees`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count employees: %w", err)
	}
	return count, nil
}

func scanEmployee(row pgx.Row) (*domain.Employee, error) {
	var e domain.Employee
	err := row.Scan(
		&e.ID,
		&e.Name,
		&e.Email,
		&e.Position,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

var _ employees.Repository = (*Repository)(nil)
