package tabular

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(t *testing.T, recs []Record) []int64 {
	t.Helper()
	out := make([]int64, 0, len(recs))
	for _, r := range recs {
		id, ok := r.ID()
		require.True(t, ok)
		out = append(out, id)
	}
	return out
}

func TestQuery_Pagination(t *testing.T) {
	s := loadRows(t, 10)

	tests := []struct {
		name      string
		page      int
		size      int
		wantIDs   []int64
		wantToken string
	}{
		{name: "second page of three", page: 2, size: 3, wantIDs: []int64{3, 4, 5}, wantToken: "3"},
		{name: "last partial page", page: 4, size: 3, wantIDs: []int64{9}},
		{name: "exact last page", page: 2, size: 5, wantIDs: []int64{5, 6, 7, 8, 9}},
		{name: "out of range page is empty", page: 9, size: 3, wantIDs: []int64{}},
		{name: "huge page does not overflow", page: int(^uint(0) >> 1), size: 100, wantIDs: []int64{}},
		{name: "size larger than total", page: 1, size: 50, wantIDs: []int64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := s.Query(Criteria{Page: tt.page, Size: tt.size})
			require.NoError(t, err)

			assert.Equal(t, tt.wantIDs, ids(t, res.Data))
			assert.Equal(t, 10, res.Total)
			assert.Equal(t, tt.page, res.Page)
			assert.Equal(t, tt.size, res.Size)
			if tt.wantToken == "" {
				assert.Nil(t, res.NextPageToken)
			} else {
				require.NotNil(t, res.NextPageToken)
				assert.Equal(t, tt.wantToken, *res.NextPageToken)
			}
		})
	}
}

func TestQuery_InvalidArgument(t *testing.T) {
	s := loadRows(t, 2)

	for _, c := range []Criteria{{Page: 0, Size: 1}, {Page: 1, Size: 0}, {Page: -1, Size: -1}} {
		_, err := s.Query(c)
		assert.ErrorIs(t, err, ErrInvalidArgument)
	}
}

func TestQuery_Filters(t *testing.T) {
	s := loadRows(t, 12)

	t.Run("conjunctive exact match", func(t *testing.T) {
		res, err := s.Query(Criteria{
			Filters: map[string]any{"hotel": "City Hotel", "is_canceled": 1},
			Page:    1,
			Size:    100,
		})
		require.NoError(t, err)

		all := s.Snapshot()
		want := 0
		for _, r := range all {
			h, _ := r.Get("hotel")
			c, _ := r.Get("is_canceled")
			if h == "City Hotel" && c == int64(1) {
				want++
			}
		}
		assert.Equal(t, want, res.Total)
		assert.Len(t, res.Data, want)
		for _, r := range res.Data {
			h, _ := r.Get("hotel")
			c, _ := r.Get("is_canceled")
			assert.Equal(t, "City Hotel", h)
			assert.Equal(t, int64(1), c)
		}
	})

	t.Run("nil filter values are ignored", func(t *testing.T) {
		res, err := s.Query(Criteria{Filters: map[string]any{"hotel": nil}, Page: 1, Size: 100})
		require.NoError(t, err)
		assert.Equal(t, 12, res.Total)
	})

	t.Run("numbers compare across int and float", func(t *testing.T) {
		res, err := s.Query(Criteria{Filters: map[string]any{"adr": 51.5}, Page: 1, Size: 10})
		require.NoError(t, err)
		assert.Equal(t, []int64{1}, ids(t, res.Data))

		res, err = s.Query(Criteria{Filters: map[string]any{"adults": 1.0}, Page: 1, Size: 10})
		require.NoError(t, err)
		assert.Equal(t, []int64{0, 4, 8}, ids(t, res.Data))
	})

	t.Run("strings never equal numbers", func(t *testing.T) {
		res, err := s.Query(Criteria{Filters: map[string]any{"adults": "1"}, Page: 1, Size: 10})
		require.NoError(t, err)
		assert.Zero(t, res.Total)
	})

	t.Run("records lacking the field do not match", func(t *testing.T) {
		res, err := s.Query(Criteria{Filters: map[string]any{"missing": "x"}, Page: 1, Size: 10})
		require.NoError(t, err)
		assert.Zero(t, res.Total)
	})

	t.Run("total is independent of page and size", func(t *testing.T) {
		f := map[string]any{"hotel": "Resort Hotel"}
		first, err := s.Query(Criteria{Filters: f, Page: 1, Size: 1})
		require.NoError(t, err)
		later, err := s.Query(Criteria{Filters: f, Page: 40, Size: 7})
		require.NoError(t, err)
		assert.Equal(t, first.Total, later.Total)
	})
}

func TestQuery_TokenIterationVisitsEveryMatchOnce(t *testing.T) {
	s := loadRows(t, 23)
	s.Create(NewRecord("hotel", "City Hotel", "is_canceled", 0))
	filters := map[string]any{"hotel": "City Hotel"}

	for _, size := range []int{1, 2, 3, 5, 11, 100} {
		t.Run(strconv.Itoa(size), func(t *testing.T) {
			var got []int64
			page := 1
			for {
				res, err := s.Query(Criteria{Filters: filters, Page: page, Size: size})
				require.NoError(t, err)
				got = append(got, ids(t, res.Data)...)
				if res.NextPageToken == nil {
					break
				}
				page, err = strconv.Atoi(*res.NextPageToken)
				require.NoError(t, err)
			}

			want := []int64{1, 3, 5, 7, 9, 11, 13, 15, 17, 19, 21, 23}
			assert.Equal(t, want, got)
		})
	}
}

func TestQuery_Projection(t *testing.T) {
	s := loadRows(t, 3)

	t.Run("keeps requested fields in request order", func(t *testing.T) {
		res, err := s.Query(Criteria{Fields: []string{"adr", "id", "hotel"}, Page: 1, Size: 1})
		require.NoError(t, err)
		require.Len(t, res.Data, 1)
		assert.Equal(t, []string{"adr", "id", "hotel"}, res.Data[0].Fields())
	})

	t.Run("drops unknown fields silently", func(t *testing.T) {
		res, err := s.Query(Criteria{Fields: []string{"hotel", "nope"}, Page: 1, Size: 3})
		require.NoError(t, err)
		for _, r := range res.Data {
			assert.Equal(t, []string{"hotel"}, r.Fields())
		}
	})

	t.Run("no projection returns every field", func(t *testing.T) {
		res, err := s.Query(Criteria{Page: 1, Size: 1})
		require.NoError(t, err)
		assert.Equal(t, []string{"hotel", "is_canceled", "adults", "adr", "id"}, res.Data[0].Fields())
	})

	t.Run("filters apply before projection", func(t *testing.T) {
		res, err := s.Query(Criteria{
			Filters: map[string]any{"hotel": "City Hotel"},
			Fields:  []string{"adults"},
			Page:    1,
			Size:    10,
		})
		require.NoError(t, err)
		require.Len(t, res.Data, 1)
		v, _ := res.Data[0].Get("adults")
		assert.Equal(t, int64(2), v)
	})
}
