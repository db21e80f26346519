package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

type PaymentStatus string

const (
	PaymentUnpaid   PaymentStatus = "unpaid"
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
	PaymentFailed   PaymentStatus = "failed"
)

const DefaultPaymentMethod = "bank_transfer"

// PaymentWindow is how long a new booking stays payable.
const PaymentWindow = 24 * time.Hour

type Booking struct {
	ID            string          `json:"id" db:"id"`
	BookingCode   string          `json:"booking_code" db:"booking_code"`
	UserID        string          `json:"user_id" db:"user_id"`
	PackageID     string          `json:"package_id" db:"package_id"`
	PackageName   *string         `json:"package_name,omitempty" db:"package_name"`
	ImageURL      *string         `json:"image_url,omitempty" db:"image_url"`
	DepartureDate time.Time       `json:"departure_date" db:"departure_date"`
	Participants  int             `json:"participants" db:"participants"`
	TotalPrice    decimal.Decimal `json:"total_price" db:"total_price"`
	Status        BookingStatus   `json:"status" db:"status"`
	PaymentStatus PaymentStatus   `json:"payment_status" db:"payment_status"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at" db:"updated_at"`
}

// BookingDetail adds the payment row and customer fields used by the
// owner and admin detail views.
type BookingDetail struct {
	Booking
	CustomerName  *string  `json:"customer_name,omitempty"`
	CustomerEmail *string  `json:"customer_email,omitempty"`
	CustomerPhone *string  `json:"customer_phone,omitempty"`
	Payment       *Payment `json:"payment"`
}

type Payment struct {
	ID              string          `json:"id" db:"id"`
	BookingID       string          `json:"booking_id" db:"booking_id"`
	BasePrice       decimal.Decimal `json:"base_price" db:"base_price"`
	AdditionalFees  decimal.Decimal `json:"additional_fees" db:"additional_fees"`
	TotalAmount     decimal.Decimal `json:"total_amount" db:"total_amount"`
	PaymentStatus   PaymentStatus   `json:"payment_status" db:"payment_status"`
	PaymentMethod   *string         `json:"payment_method" db:"payment_method"`
	PaymentProofURL *string         `json:"payment_proof_url" db:"payment_proof_url"`
	PaymentDeadline *time.Time      `json:"payment_deadline" db:"payment_deadline"`
	PaidAt          *time.Time      `json:"paid_at" db:"paid_at"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at" db:"updated_at"`
}

// PaymentDetail is a payment joined with its booking for the owner view.
type PaymentDetail struct {
	Payment
	BookingCode   string        `json:"booking_code" db:"booking_code"`
	BookingStatus BookingStatus `json:"booking_status" db:"booking_status"`
	PackageName   string        `json:"package_name" db:"package_name"`
	Participants  int           `json:"participants" db:"participants"`
}

type OrderFilter struct {
	Status string
	Search string
}

type OrderStats struct {
	Total     int64 `json:"total" db:"total"`
	Pending   int64 `json:"pending" db:"pending"`
	Confirmed int64 `json:"confirmed" db:"confirmed"`
	Completed int64 `json:"completed" db:"completed"`
	Cancelled int64 `json:"cancelled" db:"cancelled"`
}

// Order is the admin list row for a booking.
type Order struct {
	ID            string          `json:"id" db:"id"`
	BookingCode   string          `json:"booking_code" db:"booking_code"`
	CustomerName  string          `json:"customer_name" db:"customer_name"`
	CustomerEmail string          `json:"customer_email" db:"customer_email"`
	PackageName   string          `json:"package_name" db:"package_name"`
	DepartureDate time.Time       `json:"departure_date" db:"departure_date"`
	Participants  int             `json:"participants" db:"participants"`
	TotalPrice    decimal.Decimal `json:"total_price" db:"total_price"`
	Status        BookingStatus   `json:"status" db:"status"`
	PaymentStatus PaymentStatus   `json:"payment_status" db:"payment_status"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
}
