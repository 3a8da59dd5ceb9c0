package tabular

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// loadRows builds a store from n CSV rows alternating between two hotels.
func loadRows(t *testing.T, n int) *Store {
	t.Helper()
	var b strings.Builder
	b.WriteString("hotel,is_canceled,adults,adr\n")
	for i := 0; i < n; i++ {
		hotel := "Resort Hotel"
		if i%2 == 1 {
			hotel = "City Hotel"
		}
		fmt.Fprintf(&b, "%s,%d,%d,%d.5\n", hotel, i%3%2, i%4+1, 50+i)
	}
	s, err := Load(strings.NewReader(b.String()))
	require.NoError(t, err)
	return s
}

func TestStore_Create(t *testing.T) {
	t.Run("first id on empty store is zero", func(t *testing.T) {
		s := New()

		first := s.Create(NewRecord("hotel", "A"))
		second := s.Create(NewRecord("hotel", "B"))

		id, ok := first.ID()
		require.True(t, ok)
		assert.Equal(t, int64(0), id)
		id, _ = second.ID()
		assert.Equal(t, int64(1), id)
		assert.Equal(t, 2, s.Len())
	})

	t.Run("continues after loaded rows", func(t *testing.T) {
		s := loadRows(t, 10)

		rec := s.Create(NewRecord("hotel", "New"))

		id, _ := rec.ID()
		assert.Equal(t, int64(10), id)
		assert.Equal(t, 11, s.Len())
	})

	t.Run("ignores caller supplied id and places id last", func(t *testing.T) {
		s := loadRows(t, 3)

		rec := s.Create(NewRecord("id", int64(99), "hotel", "X", "adults", 2))

		id, _ := rec.ID()
		assert.Equal(t, int64(3), id)
		assert.Equal(t, []string{"hotel", "adults", "id"}, rec.Fields())
	})

	t.Run("ids stay increasing after updates", func(t *testing.T) {
		s := loadRows(t, 4)
		_, err := s.Update(3, NewRecord("adults", 7))
		require.NoError(t, err)

		rec := s.Create(NewRecord("hotel", "Y"))

		id, _ := rec.ID()
		assert.Equal(t, int64(4), id)
	})

	t.Run("returned record is a copy", func(t *testing.T) {
		s := New()
		rec := s.Create(NewRecord("hotel", "A"))
		rec.Set("hotel", "mutated")

		got, err := s.Get(0)
		require.NoError(t, err)
		v, _ := got.Get("hotel")
		assert.Equal(t, "A", v)
	})
}

func TestStore_Update(t *testing.T) {
	t.Run("null fields are left unchanged", func(t *testing.T) {
		s := New()
		s.Create(NewRecord("hotel", "A", "adults", 2))
		s.Create(NewRecord("hotel", "A", "adults", 2))

		rec, err := s.Update(1, NewRecord("hotel", "B", "adults", nil))
		require.NoError(t, err)

		hotel, _ := rec.Get("hotel")
		adults, _ := rec.Get("adults")
		assert.Equal(t, "B", hotel)
		assert.Equal(t, int64(2), adults)
	})

	t.Run("changes only named fields", func(t *testing.T) {
		s := loadRows(t, 5)
		before, err := s.Get(2)
		require.NoError(t, err)

		after, err := s.Update(2, NewRecord("adr", 10.25))
		require.NoError(t, err)

		for _, f := range before.Fields() {
			if f == "adr" {
				continue
			}
			want, _ := before.Get(f)
			got, _ := after.Get(f)
			assert.Equal(t, want, got, f)
		}
		adr, _ := after.Get("adr")
		assert.Equal(t, 10.25, adr)
	})

	t.Run("id is immutable", func(t *testing.T) {
		s := loadRows(t, 3)

		rec, err := s.Update(1, NewRecord("id", int64(42), "hotel", "Z"))
		require.NoError(t, err)

		id, _ := rec.ID()
		assert.Equal(t, int64(1), id)
		_, err = s.Get(42)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("unknown field is added to that record only", func(t *testing.T) {
		s := loadRows(t, 3)

		rec, err := s.Update(0, NewRecord("vip", "yes"))
		require.NoError(t, err)

		v, ok := rec.Get("vip")
		assert.True(t, ok)
		assert.Equal(t, "yes", v)
		other, err := s.Get(1)
		require.NoError(t, err)
		_, ok = other.Get("vip")
		assert.False(t, ok)
	})

	t.Run("missing id returns not found and mutates nothing", func(t *testing.T) {
		s := loadRows(t, 3)
		before := s.Snapshot()

		_, err := s.Update(7, NewRecord("hotel", "nope"))

		assert.ErrorIs(t, err, ErrNotFound)
		assert.Equal(t, before, s.Snapshot())
	})
}

func TestStore_Get(t *testing.T) {
	s := loadRows(t, 6)

	t.Run("matches the query path", func(t *testing.T) {
		for id := int64(0); id < 6; id++ {
			got, err := s.Get(id)
			require.NoError(t, err)

			res, err := s.Query(Criteria{Filters: map[string]any{"id": id}, Page: 1, Size: 1})
			require.NoError(t, err)
			require.Len(t, res.Data, 1)
			assert.Equal(t, res.Data[0], got)
		}
	})

	t.Run("missing id", func(t *testing.T) {
		_, err := s.Get(6)
		assert.ErrorIs(t, err, ErrNotFound)

		res, err := s.Query(Criteria{Filters: map[string]any{"id": 6}, Page: 1, Size: 1})
		require.NoError(t, err)
		assert.Empty(t, res.Data)
	})
}

func TestStore_ConcurrentAccess(t *testing.T) {
	s := loadRows(t, 20)

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(3)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				s.Create(NewRecord("hotel", "Concurrent"))
			}
		}()
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				_, err := s.Update(int64(w), NewRecord("adults", i))
				assert.NoError(t, err)
			}
		}(w)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				res, err := s.Query(Criteria{Page: 1, Size: 5})
				assert.NoError(t, err)
				assert.LessOrEqual(t, len(res.Data), 5)
				assert.GreaterOrEqual(t, res.Total, 20)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 20+8*50, s.Len())
	seen := make(map[int64]bool)
	for _, rec := range s.Snapshot() {
		id, ok := rec.ID()
		require.True(t, ok)
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
	for id := int64(0); id < int64(s.Len()); id++ {
		assert.True(t, seen[id], "missing id %d", id)
	}
}
