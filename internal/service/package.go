package service

import (
	"context"

	"github.com/deppfellow/muslimah-travel/internal/lib/utils"
	"github.com/deppfellow/muslimah-travel/internal/model"
	"github.com/deppfellow/muslimah-travel/internal/repository"
	"github.com/deppfellow/muslimah-travel/internal/server"
)

// FeaturedPackagesLimit caps GET /packages/featured.
const FeaturedPackagesLimit = 6

type PackageService struct {
	server   *server.Server
	packages *repository.PackageRepository
}

func NewPackageService(s *server.Server, repos *repository.Repositories) *PackageService {
	return &PackageService{server: s, packages: repos.Package}
}

// List returns active packages only.
func (s *PackageService) List(ctx context.Context, f model.PackageFilter, page model.PageQuery) (model.Page[model.Package], error) {
	f.ActiveOnly = true
	result, err := s.packages.List(ctx, f, page)
	if err != nil {
		return result, err
	}
	labelDurations(result.Items)
	return result, nil
}

func (s *PackageService) Featured(ctx context.Context) ([]model.Package, error) {
	items, err := s.packages.Featured(ctx, FeaturedPackagesLimit)
	if err != nil {
		return nil, err
	}
	labelDurations(items)
	return items, nil
}

// Detail returns an active package with its day-by-day schedule.
func (s *PackageService) Detail(ctx context.Context, id string) (model.PackageDetail, error) {
	pkg, err := s.packages.GetByID(ctx, id, true)
	if err != nil {
		return model.PackageDetail{}, err
	}
	pkg.Duration = utils.DurationLabel(pkg.DurationDays)

	schedule, err := s.packages.Schedule(ctx, id, nil)
	if err != nil {
		return model.PackageDetail{}, err
	}
	return model.PackageDetail{Package: pkg, Schedule: schedule}, nil
}

// Itineraries lists the schedule of an active package, optionally one day.
func (s *PackageService) Itineraries(ctx context.Context, packageID string, day *int) ([]model.ItineraryScheduleDay, error) {
	if _, err := s.packages.GetByID(ctx, packageID, true); err != nil {
		return nil, err
	}
	return s.packages.Schedule(ctx, packageID, day)
}

func labelDurations(items []model.Package) {
	for i := range items {
		items[i].Duration = utils.DurationLabel(items[i].DurationDays)
	}
}
