package tasks

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/bissquit/taskboard/internal/domain"
	"github.com/bissquit/taskboard/internal/pkg/httputil"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(svc *Service, caller domain.Caller) http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(httputil.WithCaller(req.Context(), caller)))
		})
	})
	NewHandler(svc).RegisterRoutes(r)
	return r
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func message(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	msg, _ := body["message"].(string)
	return msg
}

func TestHandler_CreateTask(t *testing.T) {
	svc := NewService(newMockRepository())
	router := newTestRouter(svc, admin)

	rec := do(t, router, http.MethodPost, "/tasks", `{"title":"Write report","assigned_to":"Alice"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp CreateTaskResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Task Added Successfully", resp.Message)
	assert.Equal(t, resp.ID, resp.Task.ID)
	assert.Equal(t, domain.TaskStatusPending, resp.Task.Status)
	assert.Equal(t, "Alice", *resp.Task.AssignedTo)

	rec = do(t, router, http.MethodPost, "/tasks", `{"description":"no title"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Title is required", message(t, rec))

	rec = do(t, router, http.MethodPost, "/tasks", `{"title":"T","status":"done"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, newTestRouter(svc, alice), http.MethodPost, "/tasks", `{"title":"T"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "access denied", message(t, rec))
}

func TestHandler_RejectsOverlongFields(t *testing.T) {
	svc := NewService(newMockRepository())
	router := newTestRouter(svc, admin)
	task := seed(t, svc, "T1", nil)
	path := "/tasks/" + strconv.FormatInt(task.ID, 10)
	long := strings.Repeat("x", 256)

	tests := []struct {
		name    string
		method  string
		path    string
		body    string
		wantMsg string
	}{
		{"create title", http.MethodPost, "/tasks", `{"title":"` + long + `"}`, "invalid Title: max"},
		{"create assignee", http.MethodPost, "/tasks", `{"title":"T","assigned_to":"` + long + `"}`, "invalid AssignedTo: max"},
		{"update title", http.MethodPut, path, `{"title":"` + long + `"}`, "invalid Title: max"},
		{"update assignee", http.MethodPut, path, `{"assigned_to":"` + long + `"}`, ErrFieldTooLong.Error()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, router, tt.method, tt.path, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.wantMsg, message(t, rec))
		})
	}
}

func TestHandler_ListTasks(t *testing.T) {
	svc := NewService(newMockRepository())
	seed(t, svc, "Mine", strPtr("Alice"))
	seed(t, svc, "Other", strPtr("Bob"))

	rec := do(t, newTestRouter(svc, alice), http.MethodGet, "/tasks?assigned_to=Bob", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got []domain.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Mine", got[0].Title)

	rec = do(t, newTestRouter(svc, admin), http.MethodGet, "/tasks?status=bogus", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_UpdateTask(t *testing.T) {
	svc := NewService(newMockRepository())
	task := seed(t, svc, "T1", strPtr("Alice"))
	path := "/tasks/" + strconv.FormatInt(task.ID, 10)

	rec := do(t, newTestRouter(svc, alice), http.MethodPut, path, `{"status":"completed"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Task Updated Successfully", message(t, rec))

	rec = do(t, newTestRouter(svc, alice), http.MethodPut, path, `{"title":"Hacked"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "only admins can update task details", message(t, rec))

	rec = do(t, newTestRouter(svc, admin), http.MethodPut, path, `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "no fields to update", message(t, rec))

	rec = do(t, newTestRouter(svc, admin), http.MethodPut, path, `{"assigned_to":null}`)
	require.Equal(t, http.StatusOK, rec.Code)
	got, err := svc.Get(t.Context(), admin, task.ID)
	require.NoError(t, err)
	assert.Nil(t, got.AssignedTo)

	rec = do(t, newTestRouter(svc, admin), http.MethodPut, path, `{"assigned_to":5}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, newTestRouter(svc, admin), http.MethodPut, "/tasks/999", `{"status":"pending"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Task not found", message(t, rec))
}

func TestHandler_DeleteTask(t *testing.T) {
	svc := NewService(newMockRepository())
	task := seed(t, svc, "T1", nil)
	path := "/tasks/" + strconv.FormatInt(task.ID, 10)

	rec := do(t, newTestRouter(svc, alice), http.MethodDelete, path, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(t, newTestRouter(svc, admin), http.MethodDelete, path, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Task Deleted Successfully", message(t, rec))

	rec = do(t, newTestRouter(svc, admin), http.MethodDelete, path, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, newTestRouter(svc, admin), http.MethodDelete, "/tasks/abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
