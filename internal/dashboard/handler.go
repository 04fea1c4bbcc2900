package dashboard

import (
	"net/http"

	"github.com/bissquit/taskboard/internal/access"
	"github.com/bissquit/taskboard/internal/pkg/httputil"
	"github.com/go-chi/chi/v5"
)

// Handler handles HTTP requests for the dashboard.
type Handler struct {
	service *Service
}

// NewHandler creates a new dashboard handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the dashboard route.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/dashboard", h.Stats)
}

// Stats handles GET /dashboard.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context(), httputil.GetCaller(r.Context()))
	if err != nil {
		httputil.HandleError(r.Context(), w, err, "error fetching dashboard stats", []httputil.ErrorMapping{
			{Error: access.ErrForbidden, Status: http.StatusForbidden},
			{Error: access.ErrUnauthenticated, Status: http.StatusUnauthorized},
		})
		return
	}
	httputil.JSON(w, http.StatusOK, stats)
}
