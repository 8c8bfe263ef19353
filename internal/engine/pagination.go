package engine

// DefaultPageSize is used when a view is configured without a page size.
const DefaultPageSize = 20

// Pagination tracks the page shown and the total derived from the last
// successful fetch.
type Pagination struct {
	Page       int
	PageSize   int
	TotalCount int
}

func NewPagination(pageSize int) Pagination {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return Pagination{Page: 1, PageSize: pageSize}
}

// TotalPages is ceil(TotalCount/PageSize), never less than one.
func (p Pagination) TotalPages() int {
	if p.PageSize <= 0 || p.TotalCount <= 0 {
		return 1
	}
	return (p.TotalCount + p.PageSize - 1) / p.PageSize
}

// CanGoTo reports whether page is within bounds.
func (p Pagination) CanGoTo(page int) bool {
	return page >= 1 && page <= p.TotalPages()
}

func (p Pagination) HasNext() bool { return p.Page < p.TotalPages() }
func (p Pagination) HasPrev() bool { return p.Page > 1 }

// update folds the metadata of a successful fetch into the pagination.
// The page number is clamped so it never exceeds the page count.
func (p *Pagination) update(page, pageSize, total int) {
	if pageSize > 0 {
		p.PageSize = pageSize
	}
	if total < 0 {
		total = 0
	}
	p.TotalCount = total
	if page < 1 {
		page = 1
	}
	if last := p.TotalPages(); page > last {
		page = last
	}
	p.Page = page
}
