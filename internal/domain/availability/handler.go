package availability

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/gracecourt/gracecourt-api/internal/domain/property"
	"github.com/gracecourt/gracecourt-api/internal/domain/room"
	"github.com/gracecourt/gracecourt-api/internal/pkg/errorhandler"
	"github.com/gracecourt/gracecourt-api/internal/pkg/response"
)

// RoomReader looks up a room; (nil, nil) means not found.
type RoomReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*room.Room, error)
}

// Handler exposes availability over HTTP
type Handler struct {
	checker *Checker
	rooms   RoomReader
}

// NewHandler creates availability handler
func NewHandler(checker *Checker, rooms RoomReader) *Handler {
	return &Handler{checker: checker, rooms: rooms}
}

// RoomAvailabilityResponse answers GET /rooms/{id}/availability
type RoomAvailabilityResponse struct {
	RoomID    uuid.UUID `json:"room_id"`
	CheckIn   string    `json:"check_in"`
	CheckOut  string    `json:"check_out"`
	Nights    int       `json:"nights"`
	Available bool      `json:"available"`
}

// SearchProperties handles GET /properties/search
func (h *Handler) SearchProperties(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	params := SearchParams{Location: q.Get("location")}

	var err error
	if params.CheckIn, err = dateParam(q.Get("checkIn"), q.Get("check_in")); err != nil {
		h.handleError(w, r, err)
		return
	}
	if params.CheckOut, err = dateParam(q.Get("checkOut"), q.Get("check_out")); err != nil {
		h.handleError(w, r, err)
		return
	}

	if guests := strings.TrimSpace(firstNonEmpty(q.Get("guests"), q.Get("guestCount"))); guests != "" {
		params.GuestCount, err = strconv.Atoi(guests)
		if err != nil {
			response.BadRequest(w, "guests must be a whole number")
			return
		}
	}

	items, err := h.checker.FindAvailableProperties(r.Context(), params)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	response.OK(w, property.ResponsesFromEntities(items))
}

// RoomAvailability handles GET /rooms/{id}/availability
func (h *Handler) RoomAvailability(w http.ResponseWriter, r *http.Request) {
	roomID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid room ID")
		return
	}

	q := r.URL.Query()
	checkIn, err := dateParam(q.Get("checkIn"), q.Get("check_in"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	checkOut, err := dateParam(q.Get("checkOut"), q.Get("check_out"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	if err := (DateRange{CheckIn: checkIn, CheckOut: checkOut}).Validate(); err != nil {
		h.handleError(w, r, err)
		return
	}

	rm, err := h.rooms.GetByID(r.Context(), roomID)
	if err != nil {
		h.handleError(w, r, storeUnavailable("room lookup", err))
		return
	}
	if rm == nil {
		response.NotFound(w, "Room not found")
		return
	}

	conflict, err := h.checker.HasConflict(r.Context(), ConflictQuery{RoomID: roomID, CheckIn: checkIn, CheckOut: checkOut})
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	response.OK(w, RoomAvailabilityResponse{
		RoomID:    roomID,
		CheckIn:   checkIn.Format(dateLayout),
		CheckOut:  checkOut.Format(dateLayout),
		Nights:    DateRange{CheckIn: checkIn, CheckOut: checkOut}.Nights(),
		Available: !conflict && rm.Available,
	})
}

// dateParam parses the first non-empty value; an absent date stays zero
// so validation reports it as missing.
func dateParam(values ...string) (time.Time, error) {
	v := firstNonEmpty(values...)
	if v == "" {
		return time.Time{}, nil
	}
	return ParseDate(v)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func (h *Handler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	var missingErr *MissingParameterError
	switch {
	case errors.As(err, &missingErr):
		response.ErrorWithDetails(w, http.StatusBadRequest, "MISSING_PARAMETER", err.Error(),
			map[string]string{missingErr.Field: "This field is required"})
	case errors.Is(err, ErrInvalidDateRange):
		response.Error(w, http.StatusBadRequest, "INVALID_DATE_RANGE", "Check-out date must be after check-in date")
	case errors.Is(err, ErrInvalidDate):
		response.Error(w, http.StatusBadRequest, "INVALID_DATE", "Dates must be YYYY-MM-DD")
	case errors.Is(err, ErrInvalidGuestCount):
		response.Error(w, http.StatusBadRequest, "INVALID_GUEST_COUNT", "Guest count must be at least 1")
	case errors.Is(err, ErrStoreUnavailable):
		errorhandler.HandleError(r.Context(), w, http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "Availability is temporarily unavailable", err)
	default:
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred", err)
	}
}
