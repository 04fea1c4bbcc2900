//go:build integration

package integration

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/bissquit/taskboard/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTasks_NonAdminSeesOnlyOwnTasks(t *testing.T) {
	admin := loginAdmin(t)
	bobName := testutil.RandomName("Bob")
	carolName := testutil.RandomName("Carol")
	bob := registerUser(t, bobName)

	createTask(t, admin, map[string]interface{}{"title": "Bob 1", "assigned_to": bobName})
	createTask(t, admin, map[string]interface{}{"title": "Carol 1", "assigned_to": carolName})
	createTask(t, admin, map[string]interface{}{"title": "Bob 2", "assigned_to": bobName})
	createTask(t, admin, map[string]interface{}{"title": "Nobody"})

	for _, query := range []string{
		"",
		"assigned_to=" + url.QueryEscape(carolName),
		"assigned_to=",
		"status=pending",
	} {
		tasks := listTasks(t, bob, query)
		for _, task := range tasks {
			require.NotNil(t, task.AssignedTo, "query %q", query)
			assert.Equal(t, bobName, *task.AssignedTo, "query %q", query)
		}
		assert.Equal(t, []string{"Bob 2", "Bob 1"}, titles(tasks), "query %q", query)
	}
}

func TestTasks_AdminFilter(t *testing.T) {
	admin := loginAdmin(t)
	name := testutil.RandomName("Dave")

	createTask(t, admin, map[string]interface{}{"title": "D1", "assigned_to": name})
	createTask(t, admin, map[string]interface{}{"title": "Other", "assigned_to": testutil.RandomName("Else")})
	createTask(t, admin, map[string]interface{}{"title": "D2", "assigned_to": name, "status": "completed"})

	assert.Equal(t, []string{"D2", "D1"}, titles(listTasks(t, admin, "assigned_to="+url.QueryEscape(name))))
	assert.Equal(t, []string{"D2"}, titles(listTasks(t, admin, "assigned_to="+url.QueryEscape(name)+"&status=completed")))

	all := listTasks(t, admin, "")
	assert.GreaterOrEqual(t, len(all), 3)

	resp, err := admin.GET("/api/tasks?status=archived")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestTasks_CreateDefaults(t *testing.T) {
	admin := loginAdmin(t)

	task := createTask(t, admin, map[string]interface{}{"title": "Defaults"})

	assert.Equal(t, "", task.Description)
	assert.Nil(t, task.AssignedTo)
	assert.Equal(t, "pending", string(task.Status))
	assert.False(t, task.CreatedAt.IsZero())
}

func TestTasks_CreateRequiresAdminAndTitle(t *testing.T) {
	admin := loginAdmin(t)
	user := registerUser(t, testutil.RandomName("Erin"))

	resp, err := user.POST("/api/tasks", map[string]string{"title": "Nope"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	_ = resp.Body.Close()

	resp, err = admin.POST("/api/tasks", map[string]string{"description": "no title"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Title is required", testutil.Message(t, resp))
}

func TestTasks_StatusUpdateByNonAdmin(t *testing.T) {
	admin := loginAdmin(t)
	name := testutil.RandomName("Frank")
	frank := registerUser(t, name)
	task := createTask(t, admin, map[string]interface{}{"title": "Ship it", "assigned_to": name})

	resp, err := frank.PUT(taskPath(task.ID), map[string]string{"status": "completed"})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Task Updated Successfully", testutil.Message(t, resp))

	resp, err = frank.PUT(taskPath(task.ID), map[string]string{"status": "pending", "title": "Renamed"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "only admins can update task details", testutil.Message(t, resp))

	resp, err = frank.GET(taskPath(task.ID))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got struct {
		Title  string `json:"title"`
		Status string `json:"status"`
	}
	testutil.DecodeJSON(t, resp, &got)
	assert.Equal(t, "Ship it", got.Title)
	assert.Equal(t, "completed", got.Status, "rejected patch must not apply its status either")
}

func TestTasks_EmptyUpdate(t *testing.T) {
	admin := loginAdmin(t)
	task := createTask(t, admin, map[string]interface{}{"title": "Static"})

	resp, err := admin.PUT(taskPath(task.ID), map[string]string{})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "no fields to update", testutil.Message(t, resp))
}

func TestTasks_AdminUpdatesDetails(t *testing.T) {
	admin := loginAdmin(t)
	task := createTask(t, admin, map[string]interface{}{"title": "Draft", "assigned_to": "Someone"})

	resp, err := admin.PUT(taskPath(task.ID), map[string]interface{}{
		"title":       "Final",
		"description": "polished",
		"assigned_to": nil,
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	resp, err = admin.GET(taskPath(task.ID))
	require.NoError(t, err)
	var got struct {
		Title       string  `json:"title"`
		Description string  `json:"description"`
		AssignedTo  *string `json:"assigned_to"`
	}
	testutil.DecodeJSON(t, resp, &got)
	assert.Equal(t, "Final", got.Title)
	assert.Equal(t, "polished", got.Description)
	assert.Nil(t, got.AssignedTo)
}

func TestTasks_GetHiddenFromOtherUsers(t *testing.T) {
	admin := loginAdmin(t)
	other := registerUser(t, testutil.RandomName("Grace"))
	task := createTask(t, admin, map[string]interface{}{"title": "Private", "assigned_to": testutil.RandomName("Heidi")})

	resp, err := other.GET(taskPath(task.ID))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestTasks_NotFound(t *testing.T) {
	admin := loginAdmin(t)
	const missing = int64(987654321)

	resp, err := admin.PUT(taskPath(missing), map[string]string{"status": "completed"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Task not found", testutil.Message(t, resp))

	resp, err = admin.DELETE(taskPath(missing))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Task not found", testutil.Message(t, resp))
}

func TestTasks_Delete(t *testing.T) {
	admin := loginAdmin(t)
	user := registerUser(t, testutil.RandomName("Ivan"))
	task := createTask(t, admin, map[string]interface{}{"title": "Temporary"})

	resp, err := user.DELETE(taskPath(task.ID))
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	_ = resp.Body.Close()

	resp, err = admin.DELETE(taskPath(task.ID))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Task Deleted Successfully", testutil.Message(t, resp))

	resp, err = admin.GET(taskPath(task.ID))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	_ = resp.Body.Close()
}
