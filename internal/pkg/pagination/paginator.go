// Package pagination slices a fully materialised, ordered collection into
// numbered pages. It performs no I/O and never mutates its input.
package pagination

import (
	"errors"
	"fmt"
	"slices"
)

// DefaultBaseURL is used for navigation links when no base is configured.
const DefaultBaseURL = "/messages"

// ErrInvalidPageSize is returned by New when pageSize is not positive.
var ErrInvalidPageSize = errors.New("pagination: page size must be greater than zero")

// Page is one window over the paginated collection.
type Page[T any] struct {
	Page            int     `json:"page"`
	PageSize        int     `json:"pageSize"`
	Total           int     `json:"total"`
	TotalPages      int     `json:"totalPages"`
	Data            []T     `json:"data"`
	HasNextPage     bool    `json:"hasNextPage"`
	HasPreviousPage bool    `json:"hasPreviousPage"`
	NextPageURL     *string `json:"nextPageUrl"`
	PreviousPageURL *string `json:"previousPageUrl"`
}

// Paginator holds the collection and the page size.
type Paginator[T any] struct {
	items    []T
	pageSize int
	baseURL  string
}

// Option customises a Paginator.
type Option func(*options)

type options struct {
	baseURL string
}

// WithBaseURL sets the path used to build next/previous page links.
func WithBaseURL(base string) Option {
	return func(o *options) {
		if base != "" {
			o.baseURL = base
		}
	}
}

// New returns a Paginator over items. It fails fast when pageSize <= 0.
func New[T any](items []T, pageSize int, opts ...Option) (*Paginator[T], error) {
	if pageSize <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidPageSize, pageSize)
	}
	o := options{baseURL: DefaultBaseURL}
	for _, opt := range opts {
		opt(&o)
	}
	return &Paginator[T]{items: items, pageSize: pageSize, baseURL: o.baseURL}, nil
}

// TotalPages is ceil(len(items) / pageSize); 0 for an empty collection.
func (p *Paginator[T]) TotalPages() int {
	return (len(p.items) + p.pageSize - 1) / p.pageSize
}

// HasNextPage reports whether a page follows pageNumber.
func (p *Paginator[T]) HasNextPage(pageNumber int) bool {
	return pageNumber < p.TotalPages()
}

// HasPreviousPage reports whether a page precedes pageNumber.
func (p *Paginator[T]) HasPreviousPage(pageNumber int) bool {
	return pageNumber > 1
}

// Page returns page pageNumber (1-based). Numbers below 1 are treated as 1;
// numbers past the last page yield empty data.
func (p *Paginator[T]) Page(pageNumber int) Page[T] {
	if pageNumber < 1 {
		pageNumber = 1
	}

	data := []T{}
	start := (pageNumber - 1) * p.pageSize
	if start < len(p.items) {
		end := min(start+p.pageSize, len(p.items))
		data = slices.Clone(p.items[start:end])
	}

	page := Page[T]{
		Page:            pageNumber,
		PageSize:        p.pageSize,
		Total:           len(p.items),
		TotalPages:      p.TotalPages(),
		Data:            data,
		HasNextPage:     p.HasNextPage(pageNumber),
		HasPreviousPage: p.HasPreviousPage(pageNumber),
	}
	if page.HasNextPage {
		page.NextPageURL = p.url(pageNumber + 1)
	}
	if page.HasPreviousPage {
		page.PreviousPageURL = p.url(pageNumber - 1)
	}
	return page
}

func (p *Paginator[T]) url(pageNumber int) *string {
	u := fmt.Sprintf("%s?page=%d&pageSize=%d", p.baseURL, pageNumber, p.pageSize)
	return &u
}

// Map converts every item of page with fn, keeping the page metadata.
func Map[T, U any](page Page[T], fn func(T) U) Page[U] {
	out := make([]U, len(page.Data))
	for i, item := range page.Data {
		out[i] = fn(item)
	}
	return Page[U]{
		Page:            page.Page,
		PageSize:        page.PageSize,
		Total:           page.Total,
		TotalPages:      page.TotalPages,
		Data:            out,
		HasNextPage:     page.HasNextPage,
		HasPreviousPage: page.HasPreviousPage,
		NextPageURL:     page.NextPageURL,
		PreviousPageURL: page.PreviousPageURL,
	}
}
