package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type WishlistItem struct {
	ID           string          `json:"id" db:"id"`
	PackageID    string          `json:"tour_package_id" db:"package_id"`
	PackageName  string          `json:"name" db:"name"`
	ImageURL     *string         `json:"image_url" db:"image_url"`
	Price        decimal.Decimal `json:"price" db:"price"`
	DurationDays int             `json:"duration_days" db:"duration_days"`
	Location     *string         `json:"location" db:"location"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
}
