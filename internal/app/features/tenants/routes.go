// internal/app/features/tenants/routes.go
package tenants

import (
	"github.com/dalemusser/daycarehub/internal/app/system/callable"
	"github.com/go-chi/chi/v5"
)

// Mount registers the tenant-creation callables on r.
func Mount(r chi.Router, h *Handler) {
	r.Post("/createSchool", callable.Handler("createSchool", h.Log, h.CreateSchool))
	r.Post("/createOrganization", callable.Handler("createOrganization", h.Log, h.CreateOrganization))
}
