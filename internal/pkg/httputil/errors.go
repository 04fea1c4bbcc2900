package httputil

import (
	"context"
	"errors"
	"net/http"

	"github.com/bissquit/taskboard/internal/pkg/ctxlog"
)

// ErrorMapping defines how a domain error maps to an HTTP response.
type ErrorMapping struct {
	Error   error
	Status  int
	Message string // if empty, uses err.Error()
}

// HandleError maps a domain error to an HTTP response using provided mappings.
// Unmapped errors are persistence failures: they are logged and surfaced as
// 500 with "<fallback>: <err>".
func HandleError(ctx context.Context, w http.ResponseWriter, err error, fallback string, mappings []ErrorMapping) {
	for _, m := range mappings {
		if errors.Is(err, m.Error) {
			msg := m.Message
			if msg == "" {
				msg = m.Error.Error()
			}
			Error(w, m.Status, msg)
			return
		}
	}
	ctxlog.FromContext(ctx).Error(fallback, "error", err)
	Error(w, http.StatusInternalServerError, fallback+": "+err.Error())
}
