package model

import "time"

type Role string

const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

// IsAdmin reports whether the role may use the admin API.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

type User struct {
	ID                   string     `json:"id" db:"id"`
	Email                string     `json:"email" db:"email"`
	PasswordHash         string     `json:"-" db:"password"`
	FullName             string     `json:"name" db:"full_name"`
	PhoneNumber          *string    `json:"phone_number" db:"phone_number"`
	AvatarURL            *string    `json:"avatar_url" db:"avatar_url"`
	AvatarPublicID       *string    `json:"-" db:"avatar_public_id"`
	Role                 Role       `json:"role" db:"role"`
	ResetPasswordToken   *string    `json:"-" db:"reset_password_token"`
	ResetPasswordExpires *time.Time `json:"-" db:"reset_password_expires"`
	CreatedAt            time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at" db:"updated_at"`
}

// UserSummary is the admin list row.
type UserSummary struct {
	ID           string    `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	FullName     string    `json:"name" db:"full_name"`
	PhoneNumber  *string   `json:"phone_number" db:"phone_number"`
	Role         Role      `json:"role" db:"role"`
	BookingCount int64     `json:"booking_count" db:"booking_count"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
