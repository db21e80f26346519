package email

import "strconv"

// BookingEmail is the data shown in the booking confirmation.
type BookingEmail struct {
	Name            string
	BookingCode     string
	PackageName     string
	DepartureDate   string
	Participants    int
	TotalPrice      string
	PaymentDeadline string
}

func (c *Client) SendWelcomeEmail(to, name string) error {
	return c.SendEmail(to, "Selamat datang di Muslimah Travel", TemplateWelcome, map[string]string{
		"UserName": name,
	})
}

func (c *Client) SendPasswordResetEmail(to, name, token string, validHours int) error {
	return c.SendEmail(to, "Reset password Muslimah Travel", TemplatePasswordReset, map[string]string{
		"UserName":   name,
		"ResetToken": token,
		"ValidHours": strconv.Itoa(validHours),
	})
}

func (c *Client) SendBookingCreatedEmail(to string, b BookingEmail) error {
	return c.SendEmail(to, "Booking "+b.BookingCode+" diterima", TemplateBookingCreated, map[string]string{
		"UserName":        b.Name,
		"BookingCode":     b.BookingCode,
		"PackageName":     b.PackageName,
		"DepartureDate":   b.DepartureDate,
		"Participants":    strconv.Itoa(b.Participants),
		"TotalPrice":      b.TotalPrice,
		"PaymentDeadline": b.PaymentDeadline,
	})
}
