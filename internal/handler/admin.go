package handler

import (
	"encoding/json"
	"time"

	"github.com/deppfellow/muslimah-travel/internal/database"
	"github.com/deppfellow/muslimah-travel/internal/model"
	"github.com/deppfellow/muslimah-travel/internal/repository"
	"github.com/deppfellow/muslimah-travel/internal/server"
	"github.com/deppfellow/muslimah-travel/internal/service"
	"github.com/deppfellow/muslimah-travel/internal/validation"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

const (
	MaxPackageDays  = 365
	MaxPackageQuota = 10000
)

// AdminHandler serves /admin. Every route sits behind RequireAdmin.
type AdminHandler struct {
	Handler
	admin *service.AdminService
}

func NewAdminHandler(s *server.Server, admin *service.AdminService) *AdminHandler {
	return &AdminHandler{Handler: NewHandler(s), admin: admin}
}

func (h *AdminHandler) Dashboard(c echo.Context, _ *NoBody) (Response, error) {
	stats, err := h.admin.Dashboard(c.Request().Context())
	if err != nil {
		return Response{}, err
	}
	return respond("Dashboard stats retrieved", stats), nil
}

// ---- users ----

type ListUsersRequest struct {
	model.PageQuery
	Query string `query:"q" validate:"max=100"`
}

func (r *ListUsersRequest) Validate() error {
	return validation.Struct(r)
}

func (h *AdminHandler) Users(c echo.Context, req *ListUsersRequest) (Response, error) {
	page, err := h.admin.Users(c.Request().Context(), req.Query, req.PageQuery)
	if err != nil {
		return Response{}, err
	}
	return paginated("Users retrieved", page), nil
}

func (h *AdminHandler) User(c echo.Context, req *IDParam) (Response, error) {
	user, err := h.admin.User(c.Request().Context(), req.ID)
	if err != nil {
		return Response{}, err
	}
	return respond("User retrieved", user), nil
}

var roles = []string{string(model.RoleUser), string(model.RoleAdmin), string(model.RoleSuperAdmin)}

type CreateUserRequest struct {
	Email       string  `json:"email"`
	Password    string  `json:"password"`
	Name        string  `json:"name"`
	PhoneNumber *string `json:"phone_number"`
	Role        string  `json:"role"`
}

func (r *CreateUserRequest) Validate() error {
	var f validation.Fields
	r.Email = f.Email("email", r.Email)
	f.Password("password", r.Password)
	name, err := validation.String(r.Name, 2, 100, true)
	f.Add("name", err)
	r.Name = name
	optionalPhone(&f, "phone_number", &r.PhoneNumber)
	if r.Role != "" {
		role, err := validation.Enum(r.Role, roles...)
		f.Add("role", err)
		r.Role = role
	}
	return f.Err()
}

func (h *AdminHandler) CreateUser(c echo.Context, req *CreateUserRequest) (Response, error) {
	user, err := h.admin.CreateUser(c.Request().Context(), service.CreateUserInput{
		Email:       req.Email,
		Password:    req.Password,
		Name:        req.Name,
		PhoneNumber: req.PhoneNumber,
		Role:        model.Role(req.Role),
	})
	if err != nil {
		return Response{}, err
	}
	return respond("User created", user), nil
}

type UpdateUserRequest struct {
	IDParam
	Name        *string `json:"name"`
	Email       *string `json:"email"`
	PhoneNumber *string `json:"phone_number"`
	Role        *string `json:"role"`
}

func (r *UpdateUserRequest) Validate() error {
	var f validation.Fields
	r.ID = f.UUID("id", r.ID)
	atLeastOne(&f, r.Name != nil, r.Email != nil, r.PhoneNumber != nil, r.Role != nil)
	optionalString(&f, "name", &r.Name, 2, 100)
	if r.Email != nil {
		email := f.Email("email", *r.Email)
		r.Email = &email
	}
	if r.PhoneNumber != nil {
		phone := f.Phone("phone_number", *r.PhoneNumber, true)
		r.PhoneNumber = &phone
	}
	if r.Role != nil {
		role, err := validation.Enum(*r.Role, roles...)
		f.Add("role", err)
		r.Role = &role
	}
	return f.Err()
}

func (h *AdminHandler) UpdateUser(c echo.Context, req *UpdateUserRequest) (Response, error) {
	in := service.UpdateUserInput{Name: req.Name, Email: req.Email, PhoneNumber: req.PhoneNumber}
	if req.Role != nil {
		role := model.Role(*req.Role)
		in.Role = &role
	}
	user, err := h.admin.UpdateUser(c.Request().Context(), req.ID, in)
	if err != nil {
		return Response{}, err
	}
	return respond("User updated", user), nil
}

func (h *AdminHandler) DeleteUser(c echo.Context, req *IDParam) (Response, error) {
	if err := h.admin.DeleteUser(c.Request().Context(), actor(c), req.ID); err != nil {
		return Response{}, err
	}
	return respond("User deleted", nil), nil
}

// ---- packages ----

type AdminListPackagesRequest struct {
	model.PageQuery
	Search      string `query:"search" validate:"max=100"`
	Destination string `query:"destination"`
	Featured    string `query:"featured"`

	filter model.PackageFilter
}

func (r *AdminListPackagesRequest) Validate() error {
	var f validation.Fields
	r.filter = model.PackageFilter{Search: r.Search, Featured: optionalBool(&f, "featured", r.Featured)}
	if r.Destination != "" {
		r.filter.DestinationID = f.UUID("destination", r.Destination)
	}
	return check(r, &f)
}

func (h *AdminHandler) Packages(c echo.Context, req *AdminListPackagesRequest) (Response, error) {
	page, err := h.admin.Packages(c.Request().Context(), req.filter, req.PageQuery)
	if err != nil {
		return Response{}, err
	}
	return paginated("Packages retrieved", page), nil
}

func (h *AdminHandler) Package(c echo.Context, req *IDParam) (Response, error) {
	pkg, err := h.admin.Package(c.Request().Context(), req.ID)
	if err != nil {
		return Response{}, err
	}
	return respond("Package retrieved", pkg), nil
}

type CreatePackageRequest struct {
	DestinationID string          `json:"destination_id"`
	Name          string          `json:"name"`
	Description   *string         `json:"description"`
	ImageURL      *string         `json:"image_url" validate:"omitempty,url"`
	StartDate     *string         `json:"start_date"`
	Price         decimal.Decimal `json:"price"`
	DurationDays  int             `json:"duration_days"`
	Itinerary     json.RawMessage `json:"itinerary"`
	Quota         int             `json:"quota" validate:"min=0"`
	IsActive      *bool           `json:"is_active"`
	IsFeatured    bool            `json:"is_featured"`

	params repository.CreatePackageParams
}

func (r *CreatePackageRequest) Validate() error {
	var f validation.Fields
	p := repository.CreatePackageParams{
		DestinationID: f.UUID("destination_id", r.DestinationID),
		Description:   r.Description,
		ImageURL:      r.ImageURL,
		Quota:         r.Quota,
		IsActive:      r.IsActive == nil || *r.IsActive,
		IsFeatured:    r.IsFeatured,
	}

	name, err := validation.String(r.Name, 3, 200, true)
	f.Add("name", err)
	p.Name = name

	p.Price, err = validation.Price(r.Price)
	f.Add("price", err)
	p.DurationDays, err = validation.PositiveInt(r.DurationDays, 1, MaxPackageDays)
	f.Add("duration_days", err)
	_, err = validation.PositiveInt(r.Quota, 0, MaxPackageQuota)
	f.Add("quota", err)

	p.StartDate = optionalDate(&f, "start_date", r.StartDate)
	p.Itinerary = itinerary(&f, r.Itinerary)

	r.params = p
	return check(r, &f)
}

func (h *AdminHandler) CreatePackage(c echo.Context, req *CreatePackageRequest) (Response, error) {
	pkg, err := h.admin.CreatePackage(c.Request().Context(), req.params)
	if err != nil {
		return Response{}, err
	}
	return respond("Package created", pkg), nil
}

type UpdatePackageRequest struct {
	IDParam
	DestinationID *string          `json:"destination_id"`
	Name          *string          `json:"name"`
	Description   *string          `json:"description"`
	ImageURL      *string          `json:"image_url" validate:"omitempty,url"`
	StartDate     *string          `json:"start_date"`
	Price         *decimal.Decimal `json:"price"`
	DurationDays  *int             `json:"duration_days"`
	Itinerary     json.RawMessage  `json:"itinerary"`
	Quota         *int             `json:"quota"`
	IsActive      *bool            `json:"is_active"`
	IsFeatured    *bool            `json:"is_featured"`

	set *database.UpdateSet
}

func (r *UpdatePackageRequest) Validate() error {
	var f validation.Fields
	r.ID = f.UUID("id", r.ID)
	set := database.NewUpdateSet()

	if r.DestinationID != nil {
		set.Add("destination_id", f.UUID("destination_id", *r.DestinationID))
	}
	optionalString(&f, "name", &r.Name, 3, 200)
	database.SetIfNotNil(set, "name", r.Name)
	database.SetIfNotNil(set, "description", r.Description)
	database.SetIfNotNil(set, "image_url", r.ImageURL)
	if date := optionalDate(&f, "start_date", r.StartDate); date != nil {
		set.Add("start_date", *date)
	}
	if r.Price != nil {
		price, err := validation.Price(*r.Price)
		f.Add("price", err)
		set.Add("price", price)
	}
	if r.DurationDays != nil {
		days, err := validation.PositiveInt(*r.DurationDays, 1, MaxPackageDays)
		f.Add("duration_days", err)
		set.Add("duration_days", days)
	}
	if len(r.Itinerary) > 0 {
		set.Add("itinerary", itinerary(&f, r.Itinerary))
	}
	if r.Quota != nil {
		quota, err := validation.PositiveInt(*r.Quota, 0, MaxPackageQuota)
		f.Add("quota", err)
		set.Add("quota", quota)
	}
	database.SetIfNotNil(set, "is_active", r.IsActive)
	database.SetIfNotNil(set, "is_featured", r.IsFeatured)

	if set.Len() == 0 {
		f.Add("request", errNoFields)
	}
	r.set = set
	return check(r, &f)
}

func (h *AdminHandler) UpdatePackage(c echo.Context, req *UpdatePackageRequest) (Response, error) {
	pkg, err := h.admin.UpdatePackage(c.Request().Context(), req.ID, req.set)
	if err != nil {
		return Response{}, err
	}
	return respond("Package updated", pkg), nil
}

func (h *AdminHandler) DeletePackage(c echo.Context, req *IDParam) (Response, error) {
	if err := h.admin.DeletePackage(c.Request().Context(), req.ID); err != nil {
		return Response{}, err
	}
	return respond("Package deleted", nil), nil
}

// optionalDate accepts any valid date, past ones included.
func optionalDate(f *validation.Fields, field string, v *string) *time.Time {
	if v == nil || *v == "" {
		return nil
	}
	t := f.Date(field, *v, true)
	if t.IsZero() {
		return nil
	}
	return &t
}

// itinerary validates the day list and re-encodes it sorted by day.
func itinerary(f *validation.Fields, raw json.RawMessage) json.RawMessage {
	days, err := validation.Itinerary(raw)
	if err != nil {
		f.Add("itinerary", err)
		return nil
	}
	out, err := json.Marshal(days)
	if err != nil {
		f.Add("itinerary", err)
		return nil
	}
	return out
}

// ---- orders ----

var (
	bookingStatuses = []string{
		string(model.BookingPending), string(model.BookingConfirmed),
		string(model.BookingCompleted), string(model.BookingCancelled),
	}
	paymentStatuses = []string{
		string(model.PaymentUnpaid), string(model.PaymentPaid), string(model.PaymentRefunded),
	}
)

type ListOrdersRequest struct {
	model.PageQuery
	Status string `query:"status"`
	Search string `query:"search" validate:"max=100"`
}

func (r *ListOrdersRequest) Validate() error {
	var f validation.Fields
	if r.Status != "" {
		status, err := validation.Enum(r.Status, bookingStatuses...)
		f.Add("status", err)
		r.Status = status
	}
	return check(r, &f)
}

type ordersResponse struct {
	Orders []model.Order    `json:"orders"`
	Stats  model.OrderStats `json:"stats"`
}

func (h *AdminHandler) Orders(c echo.Context, req *ListOrdersRequest) (Response, error) {
	result, err := h.admin.Orders(c.Request().Context(), model.OrderFilter{Status: req.Status, Search: req.Search}, req.PageQuery)
	if err != nil {
		return Response{}, err
	}
	orders := result.Items
	if orders == nil {
		orders = []model.Order{}
	}
	pagination := result.Pagination
	return Response{
		Message:    "Orders retrieved",
		Data:       ordersResponse{Orders: orders, Stats: result.Stats},
		Pagination: &pagination,
	}, nil
}

func (h *AdminHandler) Order(c echo.Context, req *IDParam) (Response, error) {
	order, err := h.admin.Order(c.Request().Context(), req.ID)
	if err != nil {
		return Response{}, err
	}
	return respond("Order retrieved", order), nil
}

type UpdateOrderStatusRequest struct {
	IDParam
	Status string `json:"status"`
}

func (r *UpdateOrderStatusRequest) Validate() error {
	var f validation.Fields
	r.ID = f.UUID("id", r.ID)
	status, err := validation.Enum(r.Status, bookingStatuses...)
	f.Add("status", err)
	r.Status = status
	return f.Err()
}

func (h *AdminHandler) UpdateOrderStatus(c echo.Context, req *UpdateOrderStatusRequest) (Response, error) {
	booking, err := h.admin.UpdateOrderStatus(c.Request().Context(), req.ID, model.BookingStatus(req.Status))
	if err != nil {
		return Response{}, err
	}
	return respond("Order status updated", booking), nil
}

type UpdatePaymentStatusRequest struct {
	IDParam
	PaymentStatus string `json:"payment_status"`
}

func (r *UpdatePaymentStatusRequest) Validate() error {
	var f validation.Fields
	r.ID = f.UUID("id", r.ID)
	status, err := validation.Enum(r.PaymentStatus, paymentStatuses...)
	f.Add("payment_status", err)
	r.PaymentStatus = status
	return f.Err()
}

func (h *AdminHandler) UpdatePaymentStatus(c echo.Context, req *UpdatePaymentStatusRequest) (Response, error) {
	order, err := h.admin.UpdatePaymentStatus(c.Request().Context(), req.ID, model.PaymentStatus(req.PaymentStatus))
	if err != nil {
		return Response{}, err
	}
	return respond("Payment status updated", order), nil
}
