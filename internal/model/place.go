package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Destination struct {
	ID              string          `json:"id" db:"id"`
	Name            string          `json:"name" db:"name"`
	Location        string          `json:"location" db:"location"`
	Description     *string         `json:"description" db:"description"`
	Category        *string         `json:"category" db:"category"`
	ImageURL        *string         `json:"image_url" db:"image_url"`
	Rating          decimal.Decimal `json:"rating" db:"rating"`
	IsHalalFriendly bool            `json:"is_halal_friendly" db:"is_halal_friendly"`
	PackageCount    int64           `json:"package_count" db:"package_count"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
}

type DestinationFilter struct {
	Search   string
	Category string
	Halal    *bool
}

type Location struct {
	ID      string  `json:"id" db:"id"`
	Country string  `json:"country" db:"country"`
	Region  string  `json:"region" db:"region"`
	FlagURL *string `json:"flag_url" db:"flag_url"`
}

type Testimonial struct {
	ID         string    `json:"id" db:"id"`
	Name       string    `json:"name" db:"name"`
	Location   *string   `json:"location" db:"location"`
	AvatarURL  *string   `json:"avatar_url" db:"avatar_url"`
	Content    string    `json:"content" db:"content"`
	Rating     int       `json:"rating" db:"rating"`
	IsFeatured bool      `json:"is_featured" db:"is_featured"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
