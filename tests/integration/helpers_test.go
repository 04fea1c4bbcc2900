//go:build integration

package integration

import (
	"context"
	"net/http"
	"strconv"
	"testing"

	"github.com/bissquit/taskboard/internal/domain"
	"github.com/bissquit/taskboard/internal/testutil"
	"github.com/stretchr/testify/require"
)

// loginAdmin returns a client authenticated as the seeded admin.
func loginAdmin(t *testing.T) *testutil.Client {
	t.Helper()
	client, _ := newTestClient(t).Login(t, adminEmail, adminPassword)
	return client
}

// registerUser creates a regular account with a unique email and returns a
// client authenticated as it.
func registerUser(t *testing.T, name string) *testutil.Client {
	t.Helper()
	client, resp := newTestClient(t).Register(t, name, testutil.RandomEmail(), "password123", "")
	require.Equal(t, "user", resp.User.Role)
	return client
}

// createTask creates a task as admin and returns it.
func createTask(t *testing.T, admin *testutil.Client, payload map[string]interface{}) domain.Task {
	t.Helper()

	resp, err := admin.POST("/api/tasks", payload)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var result struct {
		Message string      `json:"message"`
		ID      int64       `json:"id"`
		Task    domain.Task `json:"task"`
	}
	testutil.DecodeJSON(t, resp, &result)
	require.Equal(t, "Task Added Successfully", result.Message)
	require.Equal(t, result.ID, result.Task.ID)
	return result.Task
}

// createEmployee creates an employee as admin and returns it.
func createEmployee(t *testing.T, admin *testutil.Client, name string) domain.Employee {
	t.Helper()

	resp, err := admin.POST("/api/employees", map[string]string{
		"name":  name,
		"email": testutil.RandomEmail(),
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var result struct {
		Employee domain.Employee `json:"employee"`
	}
	testutil.DecodeJSON(t, resp, &result)
	return result.Employee
}

// listTasks lists tasks with an optional raw query string.
func listTasks(t *testing.T, client *testutil.Client, query string) []domain.Task {
	t.Helper()

	path := "/api/tasks"
	if query != "" {
		path += "?" + query
	}
	resp, err := client.GET(path)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var tasks []domain.Task
	testutil.DecodeJSON(t, resp, &tasks)
	return tasks
}

func taskPath(id int64) string {
	return "/api/tasks/" + strconv.FormatInt(id, 10)
}

func employeePath(id int64) string {
	return "/api/employees/" + strconv.FormatInt(id, 10)
}

func titles(tasks []domain.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, task.Title)
	}
	return out
}

// resetTasks deletes every task so aggregate assertions are deterministic.
func resetTasks(t *testing.T) {
	t.Helper()
	_, err := testDB.Exec(context.Background(), `TRUNCATE tasks RESTART IDENTITY`)
	require.NoError(t, err)
}

// demoteAdmins turns every admin into a user for the duration of the test,
// so the next admin registration is treated as the first one.
func demoteAdmins(t *testing.T) {
	t.Helper()
	ctx := context.Background()

	rows, err := testDB.Query(ctx, `UPDATE accounts SET role = 'user' WHERE role = 'admin' RETURNING id`)
	require.NoError(t, err)
	var demoted []int64
	for rows.Next() {
		var id int64
		require.NoError(t, rows.Scan(&id))
		demoted = append(demoted, id)
	}
	rows.Close()
	require.NoError(t, rows.Err())

	t.Cleanup(func() {
		_, err := testDB.Exec(context.Background(), `UPDATE accounts SET role = 'admin' WHERE id = ANY($1)`, demoted)
		require.NoError(t, err)
	})
}
