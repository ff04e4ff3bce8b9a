package property

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gracecourt/gracecourt-api/internal/domain/user"
	"github.com/gracecourt/gracecourt-api/internal/middleware"
)

// Routes returns property router
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	// Public routes
	r.Get("/", h.List)
	r.Get("/{id}", h.GetByID)

	// Staff routes
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.With(middleware.RequirePermission(user.PermPropertyCreate)).Post("/", h.Create)
		r.With(middleware.RequirePermission(user.PermPropertyUpdate)).Put("/{id}", h.Replace)
		r.With(middleware.RequirePermission(user.PermPropertyUpdate)).Patch("/{id}", h.Patch)
		r.With(middleware.RequirePermission(user.PermPropertyUpdate)).Post("/{id}/images", h.UploadImages)
		r.With(middleware.RequirePermission(user.PermPropertyDelete)).Delete("/{id}", h.Delete)
	})

	return r
}
