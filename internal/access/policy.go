// Package access decides which task and employee operations a caller may
// perform and how task listings are scoped. It performs no I/O.
package access

import (
	"errors"

	"github.com/bissquit/taskboard/internal/domain"
)

// Policy errors.
var (
	ErrUnauthenticated  = errors.New("unauthorized")
	ErrForbidden        = errors.New("access denied")
	ErrDetailsAdminOnly = errors.New("only admins can update task details")
	ErrNoFields         = errors.New("no fields to update")
)

// TaskListRequest is the filter a caller asks for when listing tasks.
type TaskListRequest struct {
	AssignedTo *string
	Status     *domain.TaskStatus
}

// TaskFilter is the filter the store must apply. Results are ordered newest first.
type TaskFilter struct {
	AssignedTo *string
	Status     *domain.TaskStatus
}

// ScopeTaskList turns a list request into the filter the store applies.
// Non-admins are always restricted to tasks assigned to their own display
// name, whatever they asked for.
func ScopeTaskList(caller domain.Caller, req TaskListRequest) TaskFilter {
	filter := TaskFilter{Status: req.Status}

	if caller.IsAdmin() {
		if req.AssignedTo != nil && *req.AssignedTo != "" {
			name := domain.NormalizeName(*req.AssignedTo)
			filter.AssignedTo = &name
		}
		return filter
	}

	name := domain.NormalizeName(caller.Name)
	filter.AssignedTo = &name
	return filter
}

// CanViewTask reports whether caller may read a single task with the given
// effective assignee.
func CanViewTask(caller domain.Caller, assignedTo *string) bool {
	if caller.IsAdmin() {
		return true
	}
	return assignedTo != nil && *assignedTo == domain.NormalizeName(caller.Name)
}

// AuthorizeTaskCreate allows admins only.
func AuthorizeTaskCreate(caller domain.Caller) error {
	return requireAdmin(caller)
}

// AuthorizeTaskUpdate checks a task patch against the caller's role.
//
// Any authenticated caller may change status. Touching title, description or
// assignment requires admin. The decision depends only on which fields are
// present; task ownership is not consulted.
func AuthorizeTaskUpdate(caller domain.Caller, patch domain.TaskPatch) error {
	if caller.Role == "" {
		return ErrUnauthenticated
	}
	if patch.TouchesDetails() && !caller.IsAdmin() {
		return ErrDetailsAdminOnly
	}
	if patch.IsEmpty() {
		return ErrNoFields
	}
	return nil
}

// AuthorizeTaskDelete allows admins only.
func AuthorizeTaskDelete(caller domain.Caller) error {
	return requireAdmin(caller)
}

// AuthorizeEmployeeManage covers list, create, update and delete of employees.
func AuthorizeEmployeeManage(caller domain.Caller) error {
	return requireAdmin(caller)
}

// AuthorizeDashboard allows admins only.
func AuthorizeDashboard(caller domain.Caller) error {
	return requireAdmin(caller)
}

// AuthorizeAccountManage covers listing accounts and changing roles.
func AuthorizeAccountManage(caller domain.Caller) error {
	return requireAdmin(caller)
}

func requireAdmin(caller domain.Caller) error {
	if caller.Role == "" {
		return ErrUnauthenticated
	}
	if !caller.IsAdmin() {
		return ErrForbidden
	}
	return nil
}
