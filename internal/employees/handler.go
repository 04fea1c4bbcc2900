package employees

import (
	"net/http"

	"github.com/bissquit/taskboard/internal/access"
	"github.com/bissquit/taskboard/internal/domain"
	"github.com/bissquit/taskboard/internal/pkg/httputil"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// Handler handles HTTP requests for the employees module.
type Handler struct {
	service   *Service
	validator *validator.Validate
}

// NewHandler creates a new employees handler.
func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(),
	}
}

// RegisterRoutes registers employee routes (admin only).
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/employees", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

// CreateEmployeeRequest represents the request body for creating an employee.
type CreateEmployeeRequest struct {
	Name     string `json:"name" validate:"max=255"`
	Email    string `json:"email" validate:"omitempty,email,max=255"`
	Position string `json:"position" validate:"max=255"`
}

// UpdateEmployeeRequest represents the request body for a partial employee update.
type UpdateEmployeeRequest struct {
	Name     *string `json:"name" validate:"omitempty,max=255"`
	Email    *string `json:"email" validate:"omitempty,email,max=255"`
	Position *string `json:"position" validate:"omitempty,max=255"`
}

// CreateEmployeeResponse is returned after an employee is created.
type CreateEmployeeResponse struct {
	Message  string           `json:"message"`
	ID       int64            `json:"id"`
	Employee *domain.Employee `json:"employee"`
}

// List handles GET /employees.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	employees, err := h.service.List(r.Context(), httputil.GetCaller(r.Context()))
	if err != nil {
		h.handleServiceError(w, r, err, "error fetching employees")
		return
	}
	httputil.JSON(w, http.StatusOK, employees)
}

// Get handles GET /employees/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.IDParam(w, r, "id")
	if !ok {
		return
	}

	employee, err := h.service.Get(r.Context(), httputil.GetCaller(r.Context()), id)
	if err != nil {
		h.handleServiceError(w, r, err, "error fetching employee")
		return
	}
	httputil.JSON(w, http.StatusOK, employee)
}

// Create handles POST /employees.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateEmployeeRequest
	if !httputil.DecodeJSON(w, r, &req) {
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	employee, err := h.service.Create(r.Context(), httputil.GetCaller(r.Context()), CreateEmployeeInput(req))
	if err != nil {
		h.handleServiceError(w, r, err, "error adding employee")
		return
	}

	httputil.JSON(w, http.StatusCreated, CreateEmployeeResponse{
		Message:  "Employee Added Successfully",
		ID:       employee.ID,
		Employee: employee,
	})
}

// Update handles PUT /employees/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.IDParam(w, r, "id")
	if !ok {
		return
	}

	var req UpdateEmployeeRequest
	if !httputil.DecodeJSON(w, r, &req) {
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	err := h.service.Update(r.Context(), httputil.GetCaller(r.Context()), id, domain.EmployeePatch(req))
	if err != nil {
		h.handleServiceError(w, r, err, "error updating employee")
		return
	}

	httputil.Message(w, http.StatusOK, "Employee Updated Successfully")
}

// Delete handles DELETE /employees/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.IDParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), httputil.GetCaller(r.Context()), id); err != nil {
		h.handleServiceError(w, r, err, "error deleting employee")
		return
	}

	httputil.Message(w, http.StatusOK, "Employee Deleted Successfully")
}

func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	httputil.HandleError(r.Context(), w, err, fallback, []httputil.ErrorMapping{
		{Error: ErrEmployeeNotFound, Status: http.StatusNotFound, Message: "Employee not found"},
		{Error: ErrMissingFields, Status: http.StatusBadRequest, Message: "Name and email are required"},
		{Error: ErrEmailExists, Status: http.StatusBadRequest, Message: "Email already exists"},
		{Error: access.ErrNoFields, Status: http.StatusBadRequest},
		{Error: access.ErrForbidden, Status: http.StatusForbidden},
		{Error: access.ErrUnauthenticated, Status: http.StatusUnauthorized},
	})
}
