// Package postgres provides PostgreSQL implementation of the tasks repository.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/bissquit/taskboard/internal/access"
	"github.com/bissquit/taskboard/internal/domain"
	pgutil "github.com/bissquit/taskboard/internal/pkg/postgres"
	"github.com/bissquit/taskboard/internal/tasks"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// selectTasks resolves the effective assignee name through the employee link.
const selectTasks = `
	SELECT t.id, t.title, t.description, COALESCE(e.name, t.assigned_to), t.assignee_id,
	       t.status, t.created_at, t.updated_at
	FROM tasks t
	LEFT JOIN employees e ON e.id = t.assignee_id
`

// Per-field update statements. A patch runs the ones it needs in a single
// transaction.
const (
	lockTask = `SELECT id FROM tasks WHERE id = $1 FOR UPDATE`

	updateTaskStatus = `UPDATE tasks SET status = $2, updated_at = NOW() WHERE id = $1`

	updateTaskTitle = `UPDATE tasks SET title = $2, updated_at = NOW() WHERE id = $1`

	updateTaskDescription = `UPDATE tasks SET description = $2, updated_at = NOW() WHERE id = $1`

	updateTaskAssignee = `
		UPDATE tasks
		SET assigned_to = NULLIF($2::text, ''),
		    assignee_id = (SELECT id FROM employees WHERE name = NULLIF($2::text, '') ORDER BY id LIMIT 1),
		    updated_at = NOW()
		WHERE id = $1
	`
)

// Repository implements tasks.Repository using PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// ListTasks returns tasks matching filter, newest first.
func (r *Repository) ListTasks(ctx context.Context, filter access.TaskFilter) ([]domain.Task, error) {
	query := selectTasks + `
		WHERE ($1::text IS NULL OR COALESCE(e.name, t.assigned_to) = $1::text)
		  AND ($2::text IS NULL OR t.status = $2::text)
		ORDER BY t.created_at DESC, t.id DESC
	`

	var status *string
	if filter.Status != nil {
		s := string(*filter.Status)
		status = &s
	}

	rows, err := r.db.Query(ctx, query, filter.AssignedTo, status)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	result := make([]domain.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		result = append(result, *task)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}
	return result, nil
}

// GetTask retrieves a task by id.
func (r *Repository) GetTask(ctx context.Context, id int64) (*domain.Task, error) {
	task, err := scanTask(r.db.QueryRow(ctx, selectTasks+` WHERE t.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, tasks.ErrTaskNotFound
		}
		return nil, fmt.Errorf("get task: %w", err)
	}
	return task, nil
}

// CreateTask inserts a task and links it to the employee named by AssignedTo, if any.
func (r *Repository) CreateTask(ctx context.Context, task *domain.Task) error {
	query := `
		INSERT INTO tasks (title, description, assigned_to, assignee_id, status)
		VALUES ($1, $2, $3::text, (SELECT id FROM employees WHERE name = $3::text ORDER BY id LIMIT 1), $4)
		RETURNING id, assignee_id, created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		task.Title,
		task.Description,
		task.AssignedTo,
		string(task.Status),
	).Scan(&task.ID, &task.AssigneeID, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

// UpdateTask applies the non-nil fields of patch atomically.
func (r *Repository) UpdateTask(ctx context.Context, id int64, patch domain.TaskPatch) error {
	return pgutil.InTx(ctx, r.db, func(tx pgx.Tx) error {
		var locked int64
		if err := tx.QueryRow(ctx, lockTask, id).Scan(&locked); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return tasks.ErrTaskNotFound
			}
			return fmt.Errorf("lock task: %w", err)
		}

		if patch.Status != nil {
			if _, err := tx.Exec(ctx, updateTaskStatus, id, string(*patch.Status)); err != nil {
				return fmt.Errorf("update task status: %w", err)
			}
		}
		if patch.Title != nil {
			if _, err := tx.Exec(ctx, updateTaskTitle, id, *patch.Title); err != nil {
				return fmt.Errorf("update task title: %w", err)
			}
		}
		if patch.Description != nil {
			if _, err := tx.Exec(ctx, updateTaskDescription, id, *patch.Description); err != nil {
				return fmt.Errorf("update task description: %w", err)
			}
		}
		if patch.AssignedTo != nil {
			if _, err := tx.Exec(ctx, updateTaskAssignee, id, *patch.AssignedTo); err != nil {
				return fmt.Errorf("update task assignee: %w", err)
			}
		}
		return nil
	})
}

// DeleteTask deletes a task by id.
func (r *Repository) DeleteTask(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if result.RowsAffected() == 0 {
		return tasks.ErrTaskNotFound
	}
	return nil
}

// CountTasks returns the total number of tasks and how many are completed.
func (r *Repository) CountTasks(ctx context.Context) (total, completed int64, err error) {
	query := `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE status = $1)
		FROM tasks
	`
	if err := r.db.QueryRow(ctx, query, string(domain.TaskStatusCompleted)).Scan(&total, &completed); err != nil {
		return 0, 0, fmt.Errorf("count tasks: %w", err)
	}
	return total, completed, nil
}

func scanTask(row pgx.Row) (*domain.Task, error) {
	var t domain.Task
	var status string
	err := row.Scan(
		&t.ID,
		&t.Title,
		&t.Description,
		&t.AssignedTo,
		&t.AssigneeID,
		&status,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	t.Status = domain.TaskStatus(status)
	return &t, nil
}

var _ tasks.Repository = (*Repository)(nil)
