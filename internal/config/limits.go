package config

import (
	"fmt"
	"time"
)

// MediaConfig configures image storage.
//
// CloudinaryURL has the form cloudinary://<key>:<secret>@<cloud>. When it
// is empty uploads are rejected with 503 instead of failing at startup.
type MediaConfig struct {
	CloudinaryURL  string `koanf:"cloudinary_url"`
	RootFolder     string `koanf:"root_folder"`
	MaxImageBytes  int64  `koanf:"max_image_bytes"`
	MaxReviewFile  int64  `koanf:"max_review_file_bytes"`
	MaxReviewMedia int    `koanf:"max_review_media"`
}

// DefaultMediaConfig mirrors the limits enforced by the upload handlers.
func DefaultMediaConfig() *MediaConfig {
	return &MediaConfig{
		RootFolder:     "muslimah-travel",
		MaxImageBytes:  3 << 20,
		MaxReviewFile:  5 << 20,
		MaxReviewMedia: 5,
	}
}

func (m *MediaConfig) applyDefaults() {
	defaults := DefaultMediaConfig()
	if m.RootFolder == "" {
		m.RootFolder = defaults.RootFolder
	}
	if m.MaxImageBytes <= 0 {
		m.MaxImageBytes = defaults.MaxImageBytes
	}
	if m.MaxReviewFile <= 0 {
		m.MaxReviewFile = defaults.MaxReviewFile
	}
	if m.MaxReviewMedia <= 0 {
		m.MaxReviewMedia = defaults.MaxReviewMedia
	}
}

// RateLimitRule is a fixed window: at most Max requests per Window.
type RateLimitRule struct {
	Window time.Duration `koanf:"window"`
	Max    int           `koanf:"max"`
}

// RateLimitConfig holds one rule per route scope.
type RateLimitConfig struct {
	Enabled bool          `koanf:"enabled"`
	General RateLimitRule `koanf:"general"`
	Auth    RateLimitRule `koanf:"auth"`
	Admin   RateLimitRule `koanf:"admin"`
	Public  RateLimitRule `koanf:"public"`
	Upload  RateLimitRule `koanf:"upload"`
	Search  RateLimitRule `koanf:"search"`
}

// DefaultRateLimitConfig returns the production limits.
func DefaultRateLimitConfig() *RateLimitConfig {
	window := 15 * time.Minute
	return &RateLimitConfig{
		Enabled: true,
		General: RateLimitRule{Window: window, Max: 100},
		Auth:    RateLimitRule{Window: window, Max: 5},
		Admin:   RateLimitRule{Window: window, Max: 200},
		Public:  RateLimitRule{Window: window, Max: 50},
		Upload:  RateLimitRule{Window: window, Max: 20},
		Search:  RateLimitRule{Window: time.Minute, Max: 30},
	}
}

// Validate rejects rules that would block every request or never reset.
func (c *RateLimitConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	rules := map[string]RateLimitRule{
		"general": c.General,
		"auth":    c.Auth,
		"admin":   c.Admin,
		"public":  c.Public,
		"upload":  c.Upload,
		"search":  c.Search,
	}
	for name, rule := range rules {
		if rule.Window < time.Second {
			return fmt.Errorf("%s window must be at least 1s", name)
		}
		if rule.Max < 1 {
			return fmt.Errorf("%s max must be positive", name)
		}
	}
	return nil
}
