package handler

import (
	"github.com/deppfellow/muslimah-travel/internal/model"
	"github.com/deppfellow/muslimah-travel/internal/server"
	"github.com/deppfellow/muslimah-travel/internal/service"
	"github.com/deppfellow/muslimah-travel/internal/validation"
	"github.com/labstack/echo/v4"
)

type PackageHandler struct {
	Handler
	packages *service.PackageService
}

func NewPackageHandler(s *server.Server, packages *service.PackageService) *PackageHandler {
	return &PackageHandler{Handler: NewHandler(s), packages: packages}
}

type ListPackagesRequest struct {
	model.PageQuery
	Featured    string `query:"featured"`
	Destination string `query:"destination"`
	MinPrice    string `query:"min_price"`
	MaxPrice    string `query:"max_price"`
	Search      string `query:"search" validate:"max=100"`

	filter model.PackageFilter
}

func (r *ListPackagesRequest) Validate() error {
	var f validation.Fields
	r.filter = model.PackageFilter{
		Featured: optionalBool(&f, "featured", r.Featured),
		MinPrice: optionalPrice(&f, "min_price", r.MinPrice),
		MaxPrice: optionalPrice(&f, "max_price", r.MaxPrice),
		Search:   r.Search,
	}
	if r.Destination != "" {
		r.filter.DestinationID = f.UUID("destination", r.Destination)
	}
	if r.filter.MinPrice != nil && r.filter.MaxPrice != nil && r.filter.MinPrice.GreaterThan(*r.filter.MaxPrice) {
		f.Add("min_price", errMinAboveMax)
	}
	return check(r, &f)
}

func (h *PackageHandler) List(c echo.Context, req *ListPackagesRequest) (Response, error) {
	page, err := h.packages.List(c.Request().Context(), req.filter, req.PageQuery)
	if err != nil {
		return Response{}, err
	}
	return paginated("Packages retrieved", page), nil
}

func (h *PackageHandler) Featured(c echo.Context, _ *NoBody) (Response, error) {
	items, err := h.packages.Featured(c.Request().Context())
	if err != nil {
		return Response{}, err
	}
	return list("Featured packages retrieved", items), nil
}

func (h *PackageHandler) Detail(c echo.Context, req *IDParam) (Response, error) {
	pkg, err := h.packages.Detail(c.Request().Context(), req.ID)
	if err != nil {
		return Response{}, err
	}
	return respond("Package retrieved", pkg), nil
}

type ItinerariesRequest struct {
	PackageID string `param:"package_id" json:"-"`
	Day       int    `query:"day" validate:"omitempty,min=1,max=365"`
}

func (r *ItinerariesRequest) Validate() error {
	var f validation.Fields
	r.PackageID = f.UUID("package_id", r.PackageID)
	return check(r, &f)
}

func (h *PackageHandler) Itineraries(c echo.Context, req *ItinerariesRequest) (Response, error) {
	var day *int
	if req.Day > 0 {
		day = &req.Day
	}
	days, err := h.packages.Itineraries(c.Request().Context(), req.PackageID, day)
	if err != nil {
		return Response{}, err
	}
	return list("Itineraries retrieved", days), nil
}
