package pagination

import "strconv"

const (
	// DefaultPageSize applies to list endpoints without an explicit size.
	DefaultPageSize = 10
	// MaxPageSize caps client supplied sizes.
	MaxPageSize = 100
)

// Params is a page request parsed from query values.
type Params struct {
	Page     int
	PageSize int
}

// ParseParams reads raw page and pageSize query values. Missing, malformed or
// non-positive values fall back to page 1 and defaultSize; sizes are capped
// at MaxPageSize.
func ParseParams(rawPage, rawSize string, defaultSize int) Params {
	if defaultSize <= 0 {
		defaultSize = DefaultPageSize
	}
	p := Params{Page: 1, PageSize: defaultSize}

	if n, err := strconv.Atoi(rawPage); err == nil && n > 0 {
		p.Page = n
	}
	if n, err := strconv.Atoi(rawSize); err == nil && n > 0 {
		p.PageSize = min(n, MaxPageSize)
	}
	return p
}

// Paginate is a shortcut for New(items, params.PageSize).Page(params.Page).
func Paginate[T any](items []T, params Params, opts ...Option) (Page[T], error) {
	p, err := New(items, params.PageSize, opts...)
	if err != nil {
		return Page[T]{}, err
	}
	return p.Page(params.Page), nil
}
