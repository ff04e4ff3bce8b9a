package property

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/gracecourt/gracecourt-api/internal/pkg/errorhandler"
	"github.com/gracecourt/gracecourt-api/internal/pkg/response"
	"github.com/gracecourt/gracecourt-api/internal/pkg/validator"
)

const maxUploadMemory = 32 << 20

// Handler handles property HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates property handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Create handles POST /properties
// @Summary Create a property listing
// @Tags Property
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreatePropertyRequest true "Property"
// @Success 201 {object} response.Response{data=PropertyResponse}
// @Failure 400,403,409,422,500 {object} response.Response
// @Router /properties [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreatePropertyRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	p, err := h.service.Create(r.Context(), &req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	response.Created(w, ResponseFromEntity(p))
}

// List handles GET /properties
// @Summary List properties
// @Tags Property
// @Produce json
// @Param status query string false "active or inactive"
// @Param location query string false "Location substring"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Response{data=[]PropertyResponse}
// @Router /properties [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	filter := ListFilter{
		Status:   Status(q.Get("status")),
		Location: q.Get("location"),
		Page:     page,
		Limit:    limit,
	}
	if filter.Status != "" && filter.Status != StatusActive && filter.Status != StatusInactive {
		response.BadRequest(w, "status must be active or inactive")
		return
	}

	items, total, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	response.WithMeta(w, ResponsesFromEntities(items), response.NewMeta(total, page, limit))
}

// GetByID handles GET /properties/{id}
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	p, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	response.OK(w, ResponseFromEntity(p))
}

// Replace handles PUT /properties/{id}
func (h *Handler) Replace(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var req CreatePropertyRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	p, err := h.service.Replace(r.Context(), id, &req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	response.OK(w, ResponseFromEntity(p))
}

// Patch handles PATCH /properties/{id}
func (h *Handler) Patch(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var req UpdatePropertyRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	p, err := h.service.Patch(r.Context(), id, &req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	response.OK(w, ResponseFromEntity(p))
}

// Delete handles DELETE /properties/{id}
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

// UploadImages handles POST /properties/{id}/images (multipart field "images")
func (h *Handler) UploadImages(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		response.BadRequest(w, "Invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	headers := r.MultipartForm.File["images"]
	files := make([]io.Reader, 0, len(headers))
	opened := make([]multipart.File, 0, len(headers))
	defer func() {
		for _, f := range opened {
			f.Close()
		}
	}()
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			response.BadRequest(w, "Could not read uploaded file")
			return
		}
		opened = append(opened, f)
		files = append(files, f)
	}

	p, err := h.service.UploadImages(r.Context(), id, files)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	response.OK(w, ResponseFromEntity(p))
}

func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid property ID")
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrPropertyNotFound):
		response.NotFound(w, "Property not found")
	case errors.Is(err, ErrNameTaken):
		response.Conflict(w, "A property with this name already exists")
	case errors.Is(err, ErrPropertyInUse):
		response.Conflict(w, "Property has bookings and cannot be deleted")
	case errors.Is(err, ErrNoImages), errors.Is(err, ErrTooManyImages), errors.Is(err, ErrInvalidImage):
		response.BadRequest(w, err.Error())
	default:
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred", err)
	}
}
