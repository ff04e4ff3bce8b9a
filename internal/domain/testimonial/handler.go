package testimonial

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/gracecourt/gracecourt-api/internal/domain/user"
	"github.com/gracecourt/gracecourt-api/internal/middleware"
	"github.com/gracecourt/gracecourt-api/internal/pkg/errorhandler"
	"github.com/gracecourt/gracecourt-api/internal/pkg/response"
	"github.com/gracecourt/gracecourt-api/internal/pkg/validator"
)

// Handler handles testimonial HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates testimonial handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns testimonial router. createMiddleware wraps the public
// submission endpoint.
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler, createMiddleware ...func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ListPublic)
	r.With(createMiddleware...).Post("/", h.Create)

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.With(middleware.RequirePermission(user.PermTestimonialApprove)).Get("/all", h.ListAll)
		r.With(middleware.RequirePermission(user.PermTestimonialApprove)).Patch("/{id}/approve", h.Approve)
		r.With(middleware.RequirePermission(user.PermTestimonialApprove)).Patch("/{id}/visibility", h.SetVisibility)
		r.With(middleware.RequirePermission(user.PermTestimonialDelete)).Delete("/{id}", h.Delete)
	})

	return r
}

// Create handles POST /testimonials
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	t, err := h.service.Create(r.Context(), &req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	response.Created(w, t)
}

// ListPublic handles GET /testimonials
func (h *Handler) ListPublic(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListPublic(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	response.OK(w, nonNil(items))
}

// ListAll handles GET /testimonials/all
func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListAll(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	response.OK(w, nonNil(items))
}

// Approve handles PATCH /testimonials/{id}/approve
func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	t, err := h.service.Approve(r.Context(), id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	response.OK(w, t)
}

// SetVisibility handles PATCH /testimonials/{id}/visibility
func (h *Handler) SetVisibility(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var req VisibilityRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}
	t, err := h.service.SetHidden(r.Context(), id, *req.Hidden)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	response.OK(w, t)
}

// Delete handles DELETE /testimonials/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.handleError(w, r, err)
		return
	}
	response.NoContent(w)
}

func nonNil(items []*Testimonial) []*Testimonial {
	if items == nil {
		return []*Testimonial{}
	}
	return items
}

func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid testimonial ID")
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, ErrTestimonialNotFound) {
		response.NotFound(w, "Testimonial not found")
		return
	}
	errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred", err)
}
