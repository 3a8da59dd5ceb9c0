// Package tabular implements a schema-free, single-table record store with
// exact-match filtering, pagination and field projection.
package tabular

import "integration-hub/internal/domain/entity"

// IDField is the name of the system-assigned identity field.
const IDField = entity.IDField

// The store works on the domain record types.
type (
	Record      = entity.Record
	Criteria    = entity.Criteria
	PagedResult = entity.PagedResult
)

// NewRecord builds a record from alternating field/value pairs, in order.
func NewRecord(keysAndValues ...any) Record {
	return entity.NewRecord(keysAndValues...)
}
