package httpx

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"restaurant-orders/internal/models"
)

const (
	defaultPage    = 1
	defaultPerPage = 3
	maxPerPage     = 100
)

// OrderClause is one validated ORDER BY term
type OrderClause struct {
	Column string
	Desc   bool
}

// ListParams carries pagination and ordering for list endpoints
type ListParams struct {
	Page    int
	PerPage int
	Order   []OrderClause
}

// ParseListParams reads page, perpage and ordering query parameters.
// Ordering fields use the API names and a leading '-' for descending order;
// sortable maps each allowed field to its column name. Unknown fields are a
// validation error, never interpolated into SQL.
func ParseListParams(q url.Values, sortable map[string]string) (ListParams, error) {
	params := ListParams{Page: defaultPage, PerPage: defaultPerPage}

	if raw := q.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return params, models.ValidationError{Field: "page", Message: "page must be a positive integer"}
		}
		params.Page = page
	}

	if raw := q.Get("perpage"); raw != "" {
		perPage, err := strconv.Atoi(raw)
		if err != nil || perPage < 1 || perPage > maxPerPage {
			return params, models.ValidationError{
				Field:   "perpage",
				Message: fmt.Sprintf("perpage must be between 1 and %d", maxPerPage),
			}
		}
		params.PerPage = perPage
	}

	if raw := q.Get("ordering"); raw != "" {
		for _, field := range strings.Split(raw, ",") {
			field = strings.TrimSpace(field)
			desc := strings.HasPrefix(field, "-")
			field = strings.TrimPrefix(field, "-")

			column, ok := sortable[field]
			if !ok {
				return params, models.ValidationError{
					Field:   "ordering",
					Message: fmt.Sprintf("cannot order by %q", field),
				}
			}
			params.Order = append(params.Order, OrderClause{Column: column, Desc: desc})
		}
	}

	return params, nil
}

// Limit returns the SQL LIMIT value
func (p ListParams) Limit() int {
	return p.PerPage
}

// Offset returns the SQL OFFSET value. An out-of-range page simply yields an
// empty result set.
func (p ListParams) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// OrderBySQL renders the ORDER BY clause, falling back to defaultColumn when
// no ordering was requested
func (p ListParams) OrderBySQL(defaultColumn string) string {
	if len(p.Order) == 0 {
		return "ORDER BY " + defaultColumn
	}

	terms := make([]string, 0, len(p.Order))
	for _, clause := range p.Order {
		term := clause.Column
		if clause.Desc {
			term += " DESC"
		}
		terms = append(terms, term)
	}
	return "ORDER BY " + strings.Join(terms, ", ")
}
