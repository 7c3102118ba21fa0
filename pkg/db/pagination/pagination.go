package pagination

const (
	DefaultPageSize = 10
	MaxPageSize     = 250
)

type Pagination struct {
	Page     int `form:"page,default=1" validate:"gte=1"`
	PageSize int `form:"page_size,default=10" validate:"gte=1,lte=250"`
}

// Limit returns the page size clamped to the allowed range.
func (p Pagination) Limit() int {
	size := p.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return size
}

// Offset returns the row offset for the requested page.
func (p Pagination) Offset() int {
	if p.Page <= 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit()
}

type PageInfo struct {
	Page    int  `json:"page"`
	HasMore bool `json:"has_more"`
}

// BuildPageInfo trims an over-fetched result set (limit+1 rows) down to the
// requested page and reports whether more rows exist.
func BuildPageInfo[T any](data []*T, limit int) ([]*T, PageInfo) {
	info := PageInfo{}
	if len(data) > limit {
		info.HasMore = true
		data = data[:limit]
	}
	return data, info
}
