package app

// Pagination holds the server-side page-size policy. MaxPageSize keeps a
// caller from requesting an unbounded page.
type Pagination struct {
	DefaultPageSize int
	MaxPageSize     int
}

// Clamp normalizes caller-supplied page/limit and derives the offset.
// page < 1 becomes 1; limit < 1 becomes the default; limit above the
// maximum is cut down to it.
func (p Pagination) Clamp(page, limit int) (int, int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = p.DefaultPageSize
	}
	if limit > p.MaxPageSize {
		limit = p.MaxPageSize
	}
	return page, limit, (page - 1) * limit
}
