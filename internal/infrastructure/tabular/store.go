package tabular

import (
	"fmt"
	"sync"
)

// Store holds the ordered record set and assigns identities.
// A single RWMutex guards rows, the id index and the id counter together:
// readers share the lock, Create and Update hold it exclusively.
type Store struct {
	mu sync.RWMutex

	rows   []Record
	index  map[int64]int // id -> position in rows
	nextID int64
}

// New returns an empty store.
func New() *Store {
	return &Store{
		rows:  []Record{},
		index: make(map[int64]int),
	}
}

// newFromRows builds a store from loaded rows, assigning each row an id equal
// to its position. Any id already present in a row is overwritten.
func newFromRows(rows []Record) *Store {
	s := &Store{
		rows:  make([]Record, 0, len(rows)),
		index: make(map[int64]int, len(rows)),
	}
	for i, row := range rows {
		row.Set(IDField, int64(i))
		s.rows = append(s.rows, row)
		s.index[int64(i)] = i
	}
	s.nextID = int64(len(rows))
	return s
}

// Len returns the number of records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rows)
}

// Get returns a copy of the record with the given id. It is observably
// equivalent to Query with the single filter {id: id}, page 1, size 1.
func (s *Store) Get(id int64) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pos, ok := s.index[id]
	if !ok {
		return Record{}, fmt.Errorf("id %d: %w", id, ErrNotFound)
	}
	return s.rows[pos].Clone(), nil
}

// Create stores a new record and returns it with its assigned id.
// Any id supplied by the caller is discarded; the id is always placed last.
func (s *Store) Create(rec Record) Record {
	row := rec.Clone()
	row.Delete(IDField)

	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	row.Set(IDField, id)
	s.rows = append(s.rows, row)
	s.index[id] = len(s.rows) - 1
	s.nextID++

	return row.Clone()
}

// Update overwrites, in place, every field of partial whose value is non-nil.
// Fields absent from partial or set to nil are left untouched, and the id
// field is never written. Unknown fields are added to this record only.
func (s *Store) Update(id int64, partial Record) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos, ok := s.index[id]
	if !ok {
		return Record{}, fmt.Errorf("id %d: %w", id, ErrNotFound)
	}

	row := &s.rows[pos]
	for _, field := range partial.Fields() {
		if field == IDField {
			continue
		}
		v, _ := partial.Get(field)
		if v == nil {
			continue
		}
		row.Set(field, v)
	}
	return row.Clone(), nil
}

// Snapshot returns copies of all records in store order.
func (s *Store) Snapshot() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Record, len(s.rows))
	for i, row := range s.rows {
		out[i] = row.Clone()
	}
	return out
}
