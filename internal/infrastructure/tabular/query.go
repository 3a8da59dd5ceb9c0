package tabular

import (
	"fmt"
	"math"
	"strconv"

	"integration-hub/internal/domain/entity"
)

// Query filters, paginates and projects the record set. The result is a
// deterministic function of the store state and the criteria.
func (s *Store) Query(c Criteria) (*PagedResult, error) {
	if c.Page < 1 {
		return nil, fmt.Errorf("page must be >= 1, got %d: %w", c.Page, ErrInvalidArgument)
	}
	if c.Size < 1 {
		return nil, fmt.Errorf("size must be >= 1, got %d: %w", c.Size, ErrInvalidArgument)
	}

	filters := activeFilters(c.Filters)
	fields := dedupe(c.Fields)

	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]int, 0, len(s.rows))
	for i := range s.rows {
		if matches(&s.rows[i], filters) {
			matched = append(matched, i)
		}
	}
	total := len(matched)

	// (page-1)*size is computed only when it cannot exceed total.
	start := total
	if c.Page-1 <= total/c.Size {
		start = min((c.Page-1)*c.Size, total)
	}
	end := total
	if c.Size < total-start {
		end = start + c.Size
	}

	data := make([]Record, 0, end-start)
	for _, pos := range matched[start:end] {
		data = append(data, project(&s.rows[pos], fields))
	}

	result := &PagedResult{
		Data:  data,
		Total: total,
		Page:  c.Page,
		Size:  c.Size,
	}
	if end < total {
		token := strconv.Itoa(c.Page + 1)
		result.NextPageToken = &token
	}
	return result, nil
}

type filter struct {
	field string
	value any
}

func activeFilters(in map[string]any) []filter {
	out := make([]filter, 0, len(in))
	for field, v := range in {
		v = entity.Normalize(v)
		if v == nil {
			continue
		}
		out = append(out, filter{field: field, value: v})
	}
	return out
}

// matches reports whether a record satisfies every filter. A record that
// lacks a filtered field does not match.
func matches(r *Record, filters []filter) bool {
	for _, f := range filters {
		v, ok := r.Get(f.field)
		if !ok || !valuesEqual(v, f.value) {
			return false
		}
	}
	return true
}

// valuesEqual compares two normalized scalars. Numbers compare by value
// across int64/float64; strings never equal numbers.
func valuesEqual(a, b any) bool {
	switch va := a.(type) {
	case string:
		vb, ok := b.(string)
		return ok && va == vb
	case int64:
		switch vb := b.(type) {
		case int64:
			return va == vb
		case float64:
			return float64(va) == vb
		}
	case float64:
		if math.IsNaN(va) {
			return false
		}
		switch vb := b.(type) {
		case int64:
			return va == float64(vb)
		case float64:
			return va == vb
		}
	case nil:
		return b == nil
	}
	return false
}

// project copies the requested fields that exist on r, in request order.
// With no projection every field is kept.
func project(r *Record, fields []string) Record {
	if len(fields) == 0 {
		return r.Clone()
	}
	var out Record
	for _, f := range fields {
		if v, ok := r.Get(f); ok {
			out.Set(f, v)
		}
	}
	return out
}

func dedupe(fields []string) []string {
	if len(fields) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(fields))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f == "" {
			continue
		}
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}
