package service

import (
	"context"

	"github.com/deppfellow/muslimah-travel/internal/model"
	"github.com/deppfellow/muslimah-travel/internal/repository"
	"github.com/deppfellow/muslimah-travel/internal/server"
)

const (
	DefaultTestimonialLimit = 10
	MaxTestimonialLimit     = 50
)

// PlaceService serves destinations, locations and testimonials.
type PlaceService struct {
	server *server.Server
	places *repository.PlaceRepository
}

func NewPlaceService(s *server.Server, repos *repository.Repositories) *PlaceService {
	return &PlaceService{server: s, places: repos.Place}
}

func (s *PlaceService) SearchDestinations(ctx context.Context, f model.DestinationFilter, page model.PageQuery) (model.Page[model.Destination], error) {
	return s.places.SearchDestinations(ctx, f, page)
}

func (s *PlaceService) Destination(ctx context.Context, id string) (model.Destination, error) {
	return s.places.GetDestination(ctx, id)
}

func (s *PlaceService) Locations(ctx context.Context, region string) ([]model.Location, error) {
	return s.places.Locations(ctx, region)
}

func (s *PlaceService) Testimonials(ctx context.Context, featured *bool, limit int) ([]model.Testimonial, error) {
	switch {
	case limit <= 0:
		limit = DefaultTestimonialLimit
	case limit > MaxTestimonialLimit:
		limit = MaxTestimonialLimit
	}
	return s.places.Testimonials(ctx, featured, limit)
}
