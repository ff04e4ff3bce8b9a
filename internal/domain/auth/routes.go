package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gracecourt/gracecourt-api/internal/domain/user"
	"github.com/gracecourt/gracecourt-api/internal/middleware"
)

// Routes returns auth router. publicMiddleware wraps signup and signin.
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler, publicMiddleware ...func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	// Public routes (no auth required)
	r.With(publicMiddleware...).Post("/signup", h.Signup)
	r.With(publicMiddleware...).Post("/signin", h.Signin)

	// Protected routes (auth required)
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/me", h.Me)
		r.With(middleware.RequirePermission(user.PermUserManage)).Patch("/users/{id}/role", h.SetRole)
	})

	return r
}
