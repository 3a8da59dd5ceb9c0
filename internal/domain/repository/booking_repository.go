package repository

import (
	"integration-hub/internal/domain/entity"
)

// BookingStore defines the interface for booking record storage
type BookingStore interface {
	Query(criteria entity.Criteria) (*entity.PagedResult, error)
	Get(id int64) (entity.Record, error)
	Create(record entity.Record) entity.Record
	Update(id int64, partial entity.Record) (entity.Record, error)
	Len() int
}
