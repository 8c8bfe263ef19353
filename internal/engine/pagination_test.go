package engine_test

import (
	"testing"

	"fedadmin/internal/engine"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fiveRows() *fakeBackend {
	return newFakeBackend(
		row{ID: 1, Status: "pending"}, row{ID: 2, Status: "pending"}, row{ID: 3, Status: "active"},
		row{ID: 4, Status: "pending"}, row{ID: 5, Status: "active"},
	)
}

func TestTotalPages(t *testing.T) {
	cases := []struct {
		total, size, want int
	}{
		{0, 20, 1},
		{1, 20, 1},
		{20, 20, 1},
		{21, 20, 2},
		{45, 20, 3},
	}
	for _, tc := range cases {
		p := engine.Pagination{Page: 1, PageSize: tc.size, TotalCount: tc.total}
		assert.Equal(t, tc.want, p.TotalPages(), "total=%d size=%d", tc.total, tc.size)
	}
}

func TestNewPaginationDefaultsPageSize(t *testing.T) {
	p := engine.NewPagination(0)
	assert.Equal(t, engine.DefaultPageSize, p.PageSize)
	assert.Equal(t, 1, p.Page)
	assert.False(t, p.HasNext())
	assert.False(t, p.HasPrev())
}

func TestOutOfRangePageIsNoop(t *testing.T) {
	b := fiveRows()
	v := loaded(b)
	before := v.Pagination()
	calls := b.lists()
	require.Equal(t, 3, before.TotalPages())

	for _, page := range []int{0, -1, 4, 99} {
		_, ok := v.GoToPage(page)
		assert.False(t, ok, "page %d", page)
	}

	assert.Equal(t, before, v.Pagination())
	assert.Equal(t, calls, b.lists(), "no fetch was issued")
	assert.Equal(t, engine.StatusIdle, v.Collection().Status())
}

func TestPageChangeFetchesAndUpdatesAtomically(t *testing.T) {
	b := fiveRows()
	v := loaded(b)

	req, ok := v.GoToPage(3)
	require.True(t, ok)
	assert.Equal(t, 1, v.Pagination().Page, "pagination moves only when the page arrives")

	require.NoError(t, v.FetchNow(req))
	assert.Equal(t, 3, v.Pagination().Page)
	assert.Equal(t, 5, v.Pagination().TotalCount)
	assert.Equal(t, []int64{5}, ids(v.Collection().Items()))

	_, ok = v.NextPage()
	assert.False(t, ok)
	prev, ok := v.PrevPage()
	require.True(t, ok)
	assert.Equal(t, 2, prev.Query.Page)
}

func TestFilterChangeResetsToFirstPage(t *testing.T) {
	b := fiveRows()
	v := loaded(b)
	req, ok := v.GoToPage(2)
	require.True(t, ok)
	require.NoError(t, v.FetchNow(req))

	req, err := v.UpdateFilter("status", "pending")
	require.NoError(t, err)
	assert.Equal(t, 1, req.Query.Page)
	require.NoError(t, v.FetchNow(req))

	assert.Equal(t, 1, v.Pagination().Page)
	assert.Equal(t, 3, v.Pagination().TotalCount)
	assert.Equal(t, 2, v.Pagination().TotalPages())
}

func TestShrinkingTotalClampsPage(t *testing.T) {
	b := fiveRows()
	v := loaded(b)
	req, _ := v.GoToPage(3)
	require.NoError(t, v.FetchNow(req))

	b.rows = b.rows[:2]
	require.NoError(t, v.FetchNow(v.Refresh()))

	assert.Equal(t, 1, v.Pagination().TotalPages())
	assert.Equal(t, 1, v.Pagination().Page)
}
