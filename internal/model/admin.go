package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type DashboardTotals struct {
	TotalBookings   int64           `json:"total_booking" db:"total_booking"`
	TotalProfit     decimal.Decimal `json:"total_profit" db:"total_profit"`
	ActiveCustomers int64           `json:"active_customer" db:"active_customer"`
	Confirmed       int64           `json:"confirmed" db:"confirmed"`
	Pending         int64           `json:"pending" db:"pending"`
	Cancelled       int64           `json:"cancelled" db:"cancelled"`
}

type MonthlySales struct {
	Month int             `json:"month" db:"month"`
	Total decimal.Decimal `json:"total" db:"total"`
	Count int64           `json:"count" db:"count"`
}

type TopCustomer struct {
	UserID     string          `json:"user_id" db:"user_id"`
	Name       string          `json:"name" db:"name"`
	Email      string          `json:"email" db:"email"`
	TotalSpent decimal.Decimal `json:"total_spent" db:"total_spent"`
	Bookings   int64           `json:"bookings" db:"bookings"`
}

type UpcomingTrip struct {
	BookingID     string    `json:"booking_id" db:"booking_id"`
	BookingCode   string    `json:"booking_code" db:"booking_code"`
	PackageName   string    `json:"package_name" db:"package_name"`
	CustomerName  string    `json:"customer_name" db:"customer_name"`
	DepartureDate time.Time `json:"departure_date" db:"departure_date"`
	Participants  int       `json:"participants" db:"participants"`
}

type DashboardStats struct {
	DashboardTotals
	MonthlySales  []MonthlySales `json:"monthly_sales"`
	TopCustomers  []TopCustomer  `json:"top_customers"`
	UpcomingTrips []UpcomingTrip `json:"upcoming_trips"`
}

type CommunityPostStatus string

const (
	CommunityPending  CommunityPostStatus = "pending"
	CommunityApproved CommunityPostStatus = "approved"
	CommunityRejected CommunityPostStatus = "rejected"
)

type CommunityPost struct {
	ID         string              `json:"id" db:"id"`
	UserID     *string             `json:"user_id" db:"user_id"`
	AuthorName *string             `json:"author_name" db:"author_name"`
	Title      string              `json:"title" db:"title"`
	Content    string              `json:"content" db:"content"`
	ImageURL   *string             `json:"image_url" db:"image_url"`
	Status     CommunityPostStatus `json:"status" db:"status"`
	CreatedAt  time.Time           `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at" db:"updated_at"`
}
