package identity

import (
	"errors"
	"net/http"

	"github.com/bissquit/taskboard/internal/access"
	"github.com/bissquit/taskboard/internal/domain"
	"github.com/bissquit/taskboard/internal/pkg/httputil"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// Handler handles HTTP requests for the identity module.
type Handler struct {
	service   *Service
	validator *validator.Validate
}

// NewHandler creates a new identity handler.
func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(),
	}
}

// RegisterRoutes registers public auth routes. The router is expected to run
// httputil.OptionalAuthMiddleware so an admin can register other admins.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
	})
}

// RegisterProtectedRoutes registers routes that require authentication.
func (h *Handler) RegisterProtectedRoutes(r chi.Router) {
	r.Get("/auth/me", h.Me)
}

// RegisterAdminRoutes registers account management routes (admin only).
func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Get("/users", h.ListAccounts)
	r.Put("/users/{id}/role", h.SetRole)
}

// RegisterRequest represents registration request body.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"omitempty,oneof=user admin"`
}

// LoginRequest represents login request body.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SetRoleRequest represents a role change request body.
type SetRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=user admin"`
}

// AccountResponse is the public view of an account.
type AccountResponse struct {
	ID    int64       `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Message string          `json:"message"`
	Token   string          `json:"token"`
	User    AccountResponse `json:"user"`
}

func toAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{ID: a.ID, Name: a.Name, Email: a.Email, Role: a.Role}
}

// Register handles POST /auth/register.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !httputil.DecodeJSON(w, r, &req) {
		return
	}

	if err := h.validator.Struct(req); err != nil {
		if hasRequiredFailure(err) {
			httputil.Error(w, http.StatusBadRequest, "Name, email, and password are required")
			return
		}
		httputil.ValidationError(w, err)
		return
	}

	var requester *domain.Caller
	if caller, ok := httputil.CallerFrom(r.Context()); ok {
		requester = &caller
	}

	result, err := h.service.Register(r.Context(), RegisterInput(req), requester)
	if err != nil {
		h.handleServiceError(w, r, err, "registration failed")
		return
	}

	httputil.JSON(w, http.StatusOK, AuthResponse{
		Message: "User Registered Successfully",
		Token:   result.Token,
		User:    toAccountResponse(result.Account),
	})
}

// Login handles POST /auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !httputil.DecodeJSON(w, r, &req) {
		return
	}

	result, err := h.service.Login(r.Context(), LoginInput(req))
	if err != nil {
		h.handleServiceError(w, r, err, "login failed")
		return
	}

	httputil.JSON(w, http.StatusOK, AuthResponse{
		Message: "Login Success",
		Token:   result.Token,
		User:    toAccountResponse(result.Account),
	})
}

// Me handles GET /auth/me.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	caller, ok := httputil.CallerFrom(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	account, err := h.service.GetAccount(r.Context(), caller.AccountID)
	if err != nil {
		h.handleServiceError(w, r, err, "error fetching account")
		return
	}

	httputil.JSON(w, http.StatusOK, toAccountResponse(account))
}

// ListAccounts handles GET /users.
func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.service.ListAccounts(r.Context(), httputil.GetCaller(r.Context()))
	if err != nil {
		h.handleServiceError(w, r, err, "error fetching accounts")
		return
	}

	resp := make([]AccountResponse, 0, len(accounts))
	for i := range accounts {
		resp = append(resp, toAccountResponse(&accounts[i]))
	}
	httputil.JSON(w, http.StatusOK, resp)
}

// SetRole handles PUT /users/{id}/role.
func (h *Handler) SetRole(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.IDParam(w, r, "id")
	if !ok {
		return
	}

	var req SetRoleRequest
	if !httputil.DecodeJSON(w, r, &req) {
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	account, err := h.service.SetRole(r.Context(), httputil.GetCaller(r.Context()), id, domain.Role(req.Role))
	if err != nil {
		h.handleServiceError(w, r, err, "error updating role")
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]interface{}{
		"message": "Role Updated Successfully",
		"user":    toAccountResponse(account),
	})
}

func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	httputil.HandleError(r.Context(), w, err, fallback, []httputil.ErrorMapping{
		{Error: ErrMissingFields, Status: http.StatusBadRequest, Message: "Name, email, and password are required"},
		{Error: ErrEmailExists, Status: http.StatusBadRequest, Message: "Email already exists"},
		{Error: ErrInvalidCredentials, Status: http.StatusBadRequest, Message: "Invalid Credentials"},
		{Error: ErrInvalidRole, Status: http.StatusBadRequest},
		{Error: ErrPasswordTooLong, Status: http.StatusBadRequest},
		{Error: ErrFieldTooLong, Status: http.StatusBadRequest},
		{Error: ErrCannotDemoteSelf, Status: http.StatusBadRequest},
		{Error: ErrAdminRoleForbidden, Status: http.StatusForbidden},
		{Error: ErrAccountNotFound, Status: http.StatusNotFound, Message: "User not found"},
		{Error: ErrInvalidToken, Status: http.StatusUnauthorized},
		{Error: access.ErrUnauthenticated, Status: http.StatusUnauthorized},
		{Error: access.ErrForbidden, Status: http.StatusForbidden},
	})
}

func hasRequiredFailure(err error) bool {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return false
	}
	for _, e := range validationErrors {
		if e.Tag() == "required" {
			return true
		}
	}
	return false
}
