package room

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gracecourt/gracecourt-api/internal/domain/user"
	"github.com/gracecourt/gracecourt-api/internal/middleware"
)

// Routes returns the /rooms router
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/{id}", h.GetByID)

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.With(middleware.RequirePermission(user.PermPropertyUpdate)).Patch("/{id}", h.Update)
		r.With(middleware.RequirePermission(user.PermPropertyDelete)).Delete("/{id}", h.Delete)
	})

	return r
}

// PropertyRoutes returns the router mounted at /properties/{id}/rooms
func (h *Handler) PropertyRoutes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ListByProperty)
	r.With(authMiddleware, middleware.RequirePermission(user.PermPropertyUpdate)).Post("/", h.Create)

	return r
}
