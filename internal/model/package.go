package model

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// ItineraryDay is one entry of a package's itinerary JSON column.
type ItineraryDay struct {
	Day        int      `json:"day"`
	Title      string   `json:"title"`
	Activities []string `json:"activities"`
}

type Package struct {
	ID              string          `json:"id" db:"id"`
	DestinationID   string          `json:"destination_id" db:"destination_id"`
	DestinationName *string         `json:"destination_name,omitempty" db:"destination_name"`
	Name            string          `json:"name" db:"name"`
	Description     *string         `json:"description" db:"description"`
	ImageURL        *string         `json:"image_url" db:"image_url"`
	StartDate       *time.Time      `json:"start_date" db:"start_date"`
	Price           decimal.Decimal `json:"price" db:"price"`
	DurationDays    int             `json:"duration_days" db:"duration_days"`
	Duration        string          `json:"duration" db:"-"`
	Itinerary       json.RawMessage `json:"itinerary" db:"itinerary"`
	Quota           int             `json:"quota" db:"quota"`
	IsActive        bool            `json:"is_active" db:"is_active"`
	IsFeatured      bool            `json:"is_featured" db:"is_featured"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at" db:"updated_at"`
}

// PackageDetail is a package together with its day-by-day schedule.
type PackageDetail struct {
	Package
	Schedule []ItineraryScheduleDay `json:"schedule"`
}

type ItineraryActivity struct {
	ID          string  `json:"id" db:"id"`
	Category    *string `json:"category" db:"category"`
	Title       string  `json:"title" db:"title"`
	Description *string `json:"description" db:"description"`
	OrderNumber int     `json:"order_number" db:"order_number"`
}

type ItineraryScheduleDay struct {
	ID         string              `json:"id"`
	DayNumber  int                 `json:"day_number"`
	Activities []ItineraryActivity `json:"activities"`
}

// PackageFilter narrows the public package list.
type PackageFilter struct {
	Featured      *bool
	DestinationID string
	MinPrice      *decimal.Decimal
	MaxPrice      *decimal.Decimal
	Search        string
	ActiveOnly    bool
}
