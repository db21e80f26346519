package email

import "embed"

// Template names a file under templates/.
type Template string

const (
	TemplateWelcome        Template = "welcome"
	TemplatePasswordReset  Template = "password_reset"
	TemplateBookingCreated Template = "booking_created"
)

//go:embed templates/*.html
var templateFS embed.FS
