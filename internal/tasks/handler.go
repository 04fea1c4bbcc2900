package tasks

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/bissquit/taskboard/internal/access"
	"github.com/bissquit/taskboard/internal/domain"
	"github.com/bissquit/taskboard/internal/pkg/httputil"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// Handler handles HTTP requests for the tasks module.
type Handler struct {
	service   *Service
	validator *validator.Validate
}

// NewHandler creates a new tasks handler.
func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(),
	}
}

// RegisterRoutes registers task routes. All of them require authentication;
// per-operation role checks happen in the service.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/tasks", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

// CreateTaskRequest represents the request body for creating a task.
type CreateTaskRequest struct {
	Title       string  `json:"title" validate:"max=255"`
	Description string  `json:"description"`
	AssignedTo  *string `json:"assigned_to" validate:"omitempty,max=255"`
	Status      string  `json:"status" validate:"omitempty,oneof=pending completed"`
}

// UpdateTaskRequest represents the request body for a partial task update.
// AssignedTo set to null or "" clears the assignment.
type UpdateTaskRequest struct {
	Status      *string         `json:"status" validate:"omitempty,oneof=pending completed"`
	Title       *string         `json:"title" validate:"omitempty,max=255"`
	Description *string         `json:"description"`
	AssignedTo  json.RawMessage `json:"assigned_to"`
}

// ToPatch converts the request to a domain patch.
func (r *UpdateTaskRequest) ToPatch() (domain.TaskPatch, bool) {
	patch := domain.TaskPatch{
		Title:       r.Title,
		Description: r.Description,
	}
	if r.Status != nil {
		status := domain.TaskStatus(*r.Status)
		patch.Status = &status
	}

	if len(r.AssignedTo) > 0 {
		var name string
		if !bytes.Equal(r.AssignedTo, []byte("null")) {
			if err := json.Unmarshal(r.AssignedTo, &name); err != nil {
				return domain.TaskPatch{}, false
			}
		}
		patch.AssignedTo = &name
	}
	return patch, true
}

// CreateTaskResponse is returned after a task is created.
type CreateTaskResponse struct {
	Message string       `json:"message"`
	ID      int64        `json:"id"`
	Task    *domain.Task `json:"task"`
}

// List handles GET /tasks.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	var req access.TaskListRequest
	if v := r.URL.Query().Get("status"); v != "" {
		status := domain.TaskStatus(v)
		req.Status = &status
	}
	if v := r.URL.Query().Get("assigned_to"); v != "" {
		req.AssignedTo = &v
	}

	tasks, err := h.service.List(r.Context(), httputil.GetCaller(r.Context()), req)
	if err != nil {
		h.handleServiceError(w, r, err, "error fetching tasks")
		return
	}

	httputil.JSON(w, http.StatusOK, tasks)
}

// Get handles GET /tasks/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.IDParam(w, r, "id")
	if !ok {
		return
	}

	task, err := h.service.Get(r.Context(), httputil.GetCaller(r.Context()), id)
	if err != nil {
		h.handleServiceError(w, r, err, "error fetching task")
		return
	}

	httputil.JSON(w, http.StatusOK, task)
}

// Create handles POST /tasks.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateTaskRequest
	if !httputil.DecodeJSON(w, r, &req) {
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	task, err := h.service.Create(r.Context(), httputil.GetCaller(r.Context()), CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		AssignedTo:  req.AssignedTo,
		Status:      domain.TaskStatus(req.Status),
	})
	if err != nil {
		h.handleServiceError(w, r, err, "error adding task")
		return
	}

	httputil.JSON(w, http.StatusCreated, CreateTaskResponse{
		Message: "Task Added Successfully",
		ID:      task.ID,
		Task:    task,
	})
}

// Update handles PUT /tasks/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.IDParam(w, r, "id")
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if !httputil.DecodeJSON(w, r, &req) {
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	patch, ok := req.ToPatch()
	if !ok {
		httputil.Error(w, http.StatusBadRequest, "invalid assigned_to")
		return
	}

	if err := h.service.Update(r.Context(), httputil.GetCaller(r.Context()), id, patch); err != nil {
		h.handleServiceError(w, r, err, "error updating task")
		return
	}

	httputil.Message(w, http.StatusOK, "Task Updated Successfully")
}

// Delete handles DELETE /tasks/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.IDParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), httputil.GetCaller(r.Context()), id); err != nil {
		h.handleServiceError(w, r, err, "error deleting task")
		return
	}

	httputil.Message(w, http.StatusOK, "Task Deleted Successfully")
}

func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	httputil.HandleError(r.Context(), w, err, fallback, []httputil.ErrorMapping{
		{Error: ErrTaskNotFound, Status: http.StatusNotFound, Message: "Task not found"},
		{Error: ErrTitleRequired, Status: http.StatusBadRequest, Message: "Title is required"},
		{Error: ErrInvalidStatus, Status: http.StatusBadRequest},
		{Error: ErrFieldTooLong, Status: http.StatusBadRequest},
		{Error: access.ErrNoFields, Status: http.StatusBadRequest},
		{Error: access.ErrDetailsAdminOnly, Status: http.StatusForbidden},
		{Error: access.ErrForbidden, Status: http.StatusForbidden},
		{Error: access.ErrUnauthenticated, Status: http.StatusUnauthorized},
	})
}
