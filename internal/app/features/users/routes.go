// internal/app/features/users/routes.go
package users

import (
	"github.com/dalemusser/daycarehub/internal/app/system/callable"
	"github.com/go-chi/chi/v5"
)

// Mount registers the admin provisioning callables on r
// (typically the "/callable" subrouter from bootstrap).
func Mount(r chi.Router, h *Handler) {
	r.Post("/adminCreateUser", callable.Handler("adminCreateUser", h.Log, h.CreateUser))
	r.Post("/adminUpdateUser", callable.Handler("adminUpdateUser", h.Log, h.UpdateUser))
}
