package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"integration-hub/internal/domain/entity"
	"integration-hub/internal/infrastructure/tabular"
	"integration-hub/internal/usecase"
	"integration-hub/pkg/logger"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// BookingHandler serves the hotel booking endpoints
type BookingHandler struct {
	service *usecase.BookingService
	logger  logger.Logger
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(service *usecase.BookingService, logger logger.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		logger:  logger,
	}
}

// Register adds the booking routes
func (h *BookingHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /bookings", h.list)
	mux.HandleFunc("POST /bookings", h.create)
	mux.HandleFunc("GET /bookings/{id}", h.get)
	mux.HandleFunc("PUT /bookings/{id}", h.update)
}

func (h *BookingHandler) list(w http.ResponseWriter, r *http.Request) {
	criteria, err := parseCriteria(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	res, err := h.service.List(criteria)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// parseCriteria reads page, size, the hotel and is_canceled filters and the
// comma-separated field list
func parseCriteria(r *http.Request) (tabular.Criteria, error) {
	q := r.URL.Query()
	criteria := tabular.Criteria{
		Filters: map[string]any{},
		Page:    1,
		Size:    defaultPageSize,
	}

	var err error
	if v := q.Get("page"); v != "" {
		if criteria.Page, err = strconv.Atoi(v); err != nil || criteria.Page < 1 {
			return criteria, fmt.Errorf("%w: page must be an integer >= 1", entity.ErrInvalidPayload)
		}
	}
	if v := q.Get("size"); v != "" {
		if criteria.Size, err = strconv.Atoi(v); err != nil || criteria.Size < 1 || criteria.Size > maxPageSize {
			return criteria, fmt.Errorf("%w: size must be an integer between 1 and %d", entity.ErrInvalidPayload, maxPageSize)
		}
	}

	if v := q.Get("hotel"); v != "" {
		criteria.Filters["hotel"] = v
	}
	if v := q.Get("is_canceled"); v != "" {
		canceled, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return criteria, fmt.Errorf("%w: is_canceled must be an integer", entity.ErrInvalidPayload)
		}
		criteria.Filters["is_canceled"] = canceled
	}

	if v := q.Get("fields"); v != "" {
		for _, f := range strings.Split(v, ",") {
			if f = strings.TrimSpace(f); f != "" {
				criteria.Fields = append(criteria.Fields, f)
			}
		}
	}
	return criteria, nil
}

func (h *BookingHandler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	rec, err := h.service.Get(id)
	if err != nil {
		h.writeBookingError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *BookingHandler) create(w http.ResponseWriter, r *http.Request) {
	var payload entity.BookingCreate
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, h.logger, err)
		return
	}

	rec, err := h.service.Create(&payload)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *BookingHandler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	var payload entity.BookingUpdate
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, h.logger, err)
		return
	}

	rec, err := h.service.Update(id, &payload)
	if err != nil {
		h.writeBookingError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *BookingHandler) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "id must be an integer")
		return 0, false
	}
	return id, true
}

func (h *BookingHandler) writeBookingError(w http.ResponseWriter, err error) {
	if errors.Is(err, tabular.ErrNotFound) {
		writeDetail(w, http.StatusNotFound, "Booking not found")
		return
	}
	writeError(w, h.logger, err)
}
