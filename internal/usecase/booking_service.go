package usecase

import (
	"errors"
	"fmt"

	"integration-hub/internal/domain/entity"
	"integration-hub/internal/domain/repository"
	"integration-hub/internal/infrastructure/tabular"
	"integration-hub/pkg/logger"
	"integration-hub/pkg/metrics"
)

// BookingService converts booking payloads to store records and records
// store metrics
type BookingService struct {
	store   repository.BookingStore
	metrics *metrics.Metrics
	logger  logger.Logger
}

// NewBookingService creates a new booking service
func NewBookingService(store repository.BookingStore, metrics *metrics.Metrics, logger logger.Logger) *BookingService {
	s := &BookingService{
		store:   store,
		metrics: metrics,
		logger:  logger,
	}
	s.metrics.StoreRecords.Set(float64(store.Len()))
	return s
}

// List returns one page of bookings matching criteria
func (s *BookingService) List(criteria tabular.Criteria) (*tabular.PagedResult, error) {
	res, err := s.store.Query(criteria)
	s.observe("query", err)
	return res, err
}

// Get returns the booking with id
func (s *BookingService) Get(id int64) (tabular.Record, error) {
	rec, err := s.store.Get(id)
	s.observe("get", err)
	return rec, err
}

// Create validates the payload and stores it as a new booking
func (s *BookingService) Create(payload *entity.BookingCreate) (tabular.Record, error) {
	if err := payload.Validate(); err != nil {
		err = fmt.Errorf("%w: %w", entity.ErrInvalidPayload, err)
		s.observe("create", err)
		return tabular.Record{}, err
	}

	rec := s.store.Create(payload.ToRecord())
	s.observe("create", nil)
	s.metrics.StoreRecords.Set(float64(s.store.Len()))

	id, _ := rec.ID()
	s.logger.Info("Booking created", "id", id)
	return rec, nil
}

// Update applies the non-null fields of payload to booking id
func (s *BookingService) Update(id int64, payload *entity.BookingUpdate) (tabular.Record, error) {
	rec, err := s.store.Update(id, payload.ToRecord())
	s.observe("update", err)
	if err != nil {
		return tabular.Record{}, err
	}

	s.logger.Info("Booking updated", "id", id)
	return rec, nil
}

func (s *BookingService) observe(operation string, err error) {
	result := "ok"
	switch {
	case err == nil:
	case errors.Is(err, tabular.ErrNotFound):
		result = "not_found"
	case errors.Is(err, tabular.ErrInvalidArgument), errors.Is(err, entity.ErrInvalidPayload):
		result = "invalid"
	default:
		result = "error"
		s.metrics.ErrorsCount.WithLabelValues("booking_" + operation).Inc()
	}
	s.metrics.StoreOperations.WithLabelValues(operation, result).Inc()
}
