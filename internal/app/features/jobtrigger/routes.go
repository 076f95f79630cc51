// internal/app/features/jobtrigger/routes.go
package jobtrigger

import (
	"github.com/dalemusser/daycarehub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes returns a subrouter for on-demand job runs. Only super-admins may use it.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireSuperAdmin)
	r.Post("/{name}", h.Run)
	return r
}
