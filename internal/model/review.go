package model

import "time"

type Review struct {
	ID            string        `json:"id" db:"id"`
	UserID        string        `json:"user_id" db:"user_id"`
	BookingID     string        `json:"booking_id" db:"booking_id"`
	TourPackageID string        `json:"tour_package_id" db:"tour_package_id"`
	PackageName   *string       `json:"package_name,omitempty" db:"package_name"`
	Rating        int           `json:"rating" db:"rating"`
	Comment       *string       `json:"comment" db:"comment"`
	IsPublished   bool          `json:"is_published" db:"is_published"`
	Media         []ReviewMedia `json:"media" db:"-"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at" db:"updated_at"`
}

type ReviewMedia struct {
	ID        string    `json:"id" db:"id"`
	ReviewID  string    `json:"review_id" db:"review_id"`
	MediaURL  string    `json:"media_url" db:"media_url"`
	MediaType string    `json:"media_type" db:"media_type"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
