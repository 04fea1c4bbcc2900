//go:build integration

package integration

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/bissquit/taskboard/internal/domain"
	"github.com/bissquit/taskboard/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmployees_CRUD(t *testing.T) {
	admin := loginAdmin(t)
	email := testutil.RandomEmail()

	resp, err := admin.POST("/api/employees", map[string]string{"name": "Judy", "email": email})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created struct {
		Message  string          `json:"message"`
		ID       int64           `json:"id"`
		Employee domain.Employee `json:"employee"`
	}
	testutil.DecodeJSON(t, resp, &created)
	assert.Equal(t, "Employee Added Successfully", created.Message)
	assert.Equal(t, domain.DefaultPosition, created.Employee.Position)

	resp, err = admin.POST("/api/employees", map[string]string{"name": "Judy Clone", "email": email})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Email already exists", testutil.Message(t, resp))

	resp, err = admin.PUT(employeePath(created.ID), map[string]string{"position": "Engineer"})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Employee Updated Successfully", testutil.Message(t, resp))

	resp, err = admin.GET(employeePath(created.ID))
	require.NoError(t, err)
	var got domain.Employee
	testutil.DecodeJSON(t, resp, &got)
	assert.Equal(t, "Engineer", got.Position)
	assert.Equal(t, "Judy", got.Name)

	resp, err = admin.DELETE(employeePath(created.ID))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Employee Deleted Successfully", testutil.Message(t, resp))

	resp, err = admin.DELETE(employeePath(created.ID))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Employee not found", testutil.Message(t, resp))
}

func TestEmployees_UpdateDuplicateEmail(t *testing.T) {
	admin := loginAdmin(t)
	first := createEmployee(t, admin, testutil.RandomName("Ken"))
	second := createEmployee(t, admin, testutil.RandomName("Liz"))

	resp, err := admin.PUT(employeePath(second.ID), map[string]string{"email": first.Email})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Email already exists", testutil.Message(t, resp))
}

func TestEmployees_AdminOnly(t *testing.T) {
	user := registerUser(t, testutil.RandomName("Mia"))

	resp, err := user.GET("/api/employees")
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	_ = resp.Body.Close()

	resp, err = user.POST("/api/employees", map[string]string{"name": "X", "email": testutil.RandomEmail()})
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestEmployees_RenameReflectedInTasks(t *testing.T) {
	admin := loginAdmin(t)
	oldName := testutil.RandomName("Nina")
	newName := testutil.RandomName("Nina Renamed")
	employee := createEmployee(t, admin, oldName)

	task := createTask(t, admin, map[string]interface{}{"title": "Linked", "assigned_to": oldName})
	require.NotNil(t, task.AssigneeID)
	assert.Equal(t, employee.ID, *task.AssigneeID)

	resp, err := admin.PUT(employeePath(employee.ID), map[string]string{"name": newName})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	assert.Empty(t, listTasks(t, admin, "assigned_to="+url.QueryEscape(oldName)))
	renamed := listTasks(t, admin, "assigned_to="+url.QueryEscape(newName))
	require.Len(t, renamed, 1)
	assert.Equal(t, task.ID, renamed[0].ID)

	// Deleting the employee detaches the task but keeps the last known name.
	resp, err = admin.DELETE(employeePath(employee.ID))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	orphaned := listTasks(t, admin, "assigned_to="+url.QueryEscape(newName))
	require.Len(t, orphaned, 1)
	assert.Nil(t, orphaned[0].AssigneeID)
}

func TestEmployees_CreateLinksEarlierTasks(t *testing.T) {
	admin := loginAdmin(t)
	name := testutil.RandomName("Omar")
	newName := testutil.RandomName("Omar Renamed")

	task := createTask(t, admin, map[string]interface{}{"title": "Assigned early", "assigned_to": name})
	assert.Nil(t, task.AssigneeID)

	employee := createEmployee(t, admin, name)

	linked := listTasks(t, admin, "assigned_to="+url.QueryEscape(name))
	require.Len(t, linked, 1)
	require.NotNil(t, linked[0].AssigneeID)
	assert.Equal(t, employee.ID, *linked[0].AssigneeID)

	resp, err := admin.PUT(employeePath(employee.ID), map[string]string{"name": newName})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	renamed := listTasks(t, admin, "assigned_to="+url.QueryEscape(newName))
	require.Len(t, renamed, 1)
	assert.Equal(t, task.ID, renamed[0].ID)
}
