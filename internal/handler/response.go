package handler

import (
	"github.com/deppfellow/muslimah-travel/internal/model"
	"github.com/deppfellow/muslimah-travel/internal/validation"
)

// Response is the success envelope shared by every endpoint.
//
//	{"message": "...", "data": {...}, "pagination": {...}}
type Response struct {
	Message    string            `json:"message"`
	Data       any               `json:"data,omitempty"`
	Pagination *model.Pagination `json:"pagination,omitempty"`
}

func respond(message string, data any) Response {
	return Response{Message: message, Data: data}
}

// paginated never serialises a nil page as null.
func paginated[T any](message string, page model.Page[T]) Response {
	items := page.Items
	if items == nil {
		items = []T{}
	}
	pagination := page.Pagination
	return Response{Message: message, Data: items, Pagination: &pagination}
}

// list is respond for unpaginated slices.
func list[T any](message string, items []T) Response {
	if items == nil {
		items = []T{}
	}
	return Response{Message: message, Data: items}
}

// NoBody is the request type of endpoints that only take path parameters.
type NoBody struct{}

func (NoBody) Validate() error { return nil }

// IDParam is the request of endpoints addressed by a UUID path parameter.
type IDParam struct {
	ID string `param:"id" json:"-"`
}

func (r *IDParam) Validate() error {
	var f validation.Fields
	r.ID = f.UUID("id", r.ID)
	return f.Err()
}
