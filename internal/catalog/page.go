package catalog

// Page is a single page of results from a paginated upstream.
// A zero-content page is still structurally valid: Items is never nil.
type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	TotalPages int `json:"total_pages"`
	TotalItems int `json:"total_items"`
}

// NewPage builds a page and derives TotalPages from the item count.
func NewPage[T any](items []T, page, totalItems, pageSize int) Page[T] {
	p := Page[T]{
		Items:      items,
		Page:       page,
		TotalItems: totalItems,
	}
	if pageSize > 0 {
		p.TotalPages = (totalItems + pageSize - 1) / pageSize
	}
	return p.Normalize()
}

// Degraded is the value a failed source contributes to an aggregate view.
func Degraded[T any]() Page[T] {
	return Page[T]{
		Items:      []T{},
		Page:       1,
		TotalPages: 1,
		TotalItems: 0,
	}
}

// Normalize clamps fields that upstreams sometimes report out of range.
func (p Page[T]) Normalize() Page[T] {
	if p.Items == nil {
		p.Items = []T{}
	}
	if p.Page < 1 {
		p.Page = 1
	}
	if p.TotalItems < 0 {
		p.TotalItems = 0
	}
	if p.TotalItems < len(p.Items) {
		p.TotalItems = len(p.Items)
	}
	if p.TotalPages < 1 {
		p.TotalPages = 1
	}
	if p.TotalPages < p.Page {
		p.TotalPages = p.Page
	}
	return p
}

// HasNext reports whether another page can be requested.
func (p Page[T]) HasNext() bool {
	return p.Page < p.TotalPages
}
