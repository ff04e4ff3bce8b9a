package booking

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/gracecourt/gracecourt-api/internal/domain/availability"
	"github.com/gracecourt/gracecourt-api/internal/domain/user"
	"github.com/gracecourt/gracecourt-api/internal/middleware"
	"github.com/gracecourt/gracecourt-api/internal/pkg/errorhandler"
	"github.com/gracecourt/gracecourt-api/internal/pkg/response"
	"github.com/gracecourt/gracecourt-api/internal/pkg/validator"
)

// Handler handles booking HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates booking handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func actorFrom(r *http.Request) Actor {
	return Actor{
		UserID: middleware.GetUserID(r.Context()),
		Role:   user.Role(middleware.GetRole(r.Context())),
	}
}

// Create handles POST /bookings
// @Summary Request a booking
// @Tags Booking
// @Accept json
// @Produce json
// @Param request body CreateBookingRequest true "Booking request"
// @Success 201 {object} response.Response{data=BookingResponse}
// @Failure 409 {object} response.Response
// @Router /bookings [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	b, err := h.service.Create(r.Context(), actorFrom(r), &req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	response.Created(w, ResponseFromEntity(b))
}

// List handles GET /bookings
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filter, ok := parseFilter(w, r)
	if !ok {
		return
	}
	items, total, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	filter = normalizeFilter(filter)
	response.WithMeta(w, ResponsesFromEntities(items), response.NewMeta(total, filter.Page, filter.Limit))
}

// ListMine handles GET /bookings/mine
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	filter, ok := parseFilter(w, r)
	if !ok {
		return
	}
	items, total, err := h.service.ListMine(r.Context(), actorFrom(r), filter)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	filter = normalizeFilter(filter)
	response.WithMeta(w, ResponsesFromEntities(items), response.NewMeta(total, filter.Page, filter.Limit))
}

// GetByID handles GET /bookings/{id}
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	b, err := h.service.GetByID(r.Context(), actorFrom(r), id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	response.OK(w, ResponseFromEntity(b))
}

// Approve handles POST /bookings/{id}/approve
func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.Approve)
}

// Cancel handles POST /bookings/{id}/cancel
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.Cancel)
}

// Complete handles POST /bookings/{id}/complete
func (h *Handler) Complete(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.Complete)
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, id uuid.UUID) (*Booking, error)) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	b, err := fn(r.Context(), id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	response.OK(w, ResponseFromEntity(b))
}

func parseFilter(w http.ResponseWriter, r *http.Request) (ListFilter, bool) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	filter := ListFilter{Status: Status(q.Get("status")), Page: page, Limit: limit}

	switch filter.Status {
	case "", StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
	default:
		response.BadRequest(w, "status must be one of: pending, confirmed, cancelled, completed")
		return filter, false
	}

	if raw := q.Get("property_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(w, "Invalid property ID")
			return filter, false
		}
		filter.PropertyID = id
	}
	return filter, true
}

func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid booking ID")
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	var missingErr *availability.MissingParameterError
	switch {
	case errors.As(err, &missingErr):
		response.ErrorWithDetails(w, http.StatusBadRequest, "MISSING_PARAMETER", err.Error(),
			map[string]string{missingErr.Field: "This field is required"})
	case errors.Is(err, availability.ErrInvalidDateRange):
		response.Error(w, http.StatusBadRequest, "INVALID_DATE_RANGE", "Check-out date must be after check-in date")
	case errors.Is(err, availability.ErrInvalidDate):
		response.Error(w, http.StatusBadRequest, "INVALID_DATE", "Dates must be YYYY-MM-DD")
	case errors.Is(err, ErrGuestDetailsRequired):
		response.BadRequest(w, "Guest name and email are required")
	case errors.Is(err, ErrBookingNotFound):
		response.NotFound(w, "Booking not found")
	case errors.Is(err, ErrPropertyNotFound):
		response.NotFound(w, "Property not found")
	case errors.Is(err, ErrRoomNotFound):
		response.NotFound(w, "Room not found")
	case errors.Is(err, ErrRoomNotInProperty):
		response.Error(w, http.StatusUnprocessableEntity, "ROOM_PROPERTY_MISMATCH", "Room does not belong to this property")
	case errors.Is(err, ErrRoomUnavailable):
		response.Error(w, http.StatusConflict, "ROOM_UNAVAILABLE", "Room is not available for the selected dates")
	case errors.Is(err, ErrRoomNotBookable), errors.Is(err, ErrPropertyInactive):
		response.Conflict(w, err.Error())
	case errors.Is(err, ErrInvalidTransition):
		response.Error(w, http.StatusConflict, "INVALID_TRANSITION", "Booking cannot move to that status")
	case errors.Is(err, ErrManualNotAllowed), errors.Is(err, ErrForbidden):
		response.Forbidden(w, err.Error())
	case errors.Is(err, availability.ErrStoreUnavailable):
		errorhandler.HandleError(r.Context(), w, http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "Availability is temporarily unavailable", err)
	default:
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred", err)
	}
}
