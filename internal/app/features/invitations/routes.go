// internal/app/features/invitations/routes.go
package invitations

import (
	"github.com/dalemusser/daycarehub/internal/app/system/callable"
	"github.com/dalemusser/daycarehub/internal/app/system/ratelimit"
	"github.com/go-chi/chi/v5"
)

// Mount registers the invitation callables on r. acceptInvitation needs no
// caller identity, so it is throttled per client IP instead.
func Mount(r chi.Router, h *Handler) {
	r.Post("/createInvitation", callable.Handler("createInvitation", h.Log, h.CreateInvitation))
	r.With(ratelimit.PerIP(h.AcceptLimiter, "acceptInvitation", h.Log)).
		Post("/acceptInvitation", callable.Handler("acceptInvitation", h.Log, h.AcceptInvitation))
}
