// Package model holds the domain types shared by the repository,
// service and handler layers.
package model

import "math"

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// PageQuery is embedded by list requests.
type PageQuery struct {
	Page  int `query:"page" validate:"omitempty,min=1"`
	Limit int `query:"limit" validate:"omitempty,min=1,max=100"`
}

// Normalize applies the default page and limit.
func (p PageQuery) Normalize() PageQuery {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

func (p PageQuery) Offset() int {
	p = p.Normalize()
	return (p.Page - 1) * p.Limit
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
}

func NewPagination(q PageQuery, total int64) Pagination {
	q = q.Normalize()
	return Pagination{
		Page:       q.Page,
		Limit:      q.Limit,
		TotalItems: total,
		TotalPages: int(math.Ceil(float64(total) / float64(q.Limit))),
	}
}

// Page is one page of a list together with its pagination block.
type Page[T any] struct {
	Items      []T
	Pagination Pagination
}
