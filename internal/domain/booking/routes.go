package booking

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gracecourt/gracecourt-api/internal/domain/user"
	"github.com/gracecourt/gracecourt-api/internal/middleware"
)

// Routes returns booking router. createMiddleware wraps the public create
// endpoint (optional auth, rate limiting).
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler, createMiddleware ...func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.With(createMiddleware...).Post("/", h.Create)

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)

		r.With(middleware.RequirePermission(user.PermBookingView)).Get("/", h.List)
		r.With(middleware.RequirePermission(user.PermBookingViewOwn)).Get("/mine", h.ListMine)
		r.Get("/{id}", h.GetByID)

		r.With(middleware.RequirePermission(user.PermBookingApprove)).Post("/{id}/approve", h.Approve)
		r.With(middleware.RequirePermission(user.PermBookingApprove)).Post("/{id}/complete", h.Complete)
		r.With(middleware.RequirePermission(user.PermBookingCancel)).Post("/{id}/cancel", h.Cancel)
	})

	return r
}
