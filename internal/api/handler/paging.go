package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/famcare/caregiving-api/internal/pkg/pagination"
)

// Default page sizes per list endpoint.
const (
	defaultListPageSize   = pagination.DefaultPageSize
	messagesByUserPerPage = 5
)

// paginate slices items according to the page and pageSize query values.
// Navigation links point back at the request path.
func paginate[T any](c echo.Context, items []T, defaultSize int) (pagination.Page[T], error) {
	params := pagination.ParseParams(c.QueryParam("page"), c.QueryParam("pageSize"), defaultSize)
	return pagination.Paginate(items, params, pagination.WithBaseURL(c.Request().URL.Path))
}
