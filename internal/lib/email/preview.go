package email

import "github.com/pkg/errors"

// PreviewData holds sample values for rendering each template locally
// with `travel email-preview <template>`.
var PreviewData = map[Template]map[string]string{
	TemplateWelcome: {
		"UserName": "Siti Aisyah",
	},
	TemplatePasswordReset: {
		"UserName":   "Siti Aisyah",
		"ResetToken": "3f1c2a9e-7b4d-4c1a-9e2f-8a6b5c4d3e2f",
		"ValidHours": "6",
	},
	TemplateBookingCreated: {
		"UserName":        "Siti Aisyah",
		"BookingCode":     "MT-20250310-A1B2C3",
		"PackageName":     "Umrah Plus Turki 12 Hari",
		"DepartureDate":   "2025-04-14",
		"Participants":    "2",
		"TotalPrice":      "Rp 70.000.000",
		"PaymentDeadline": "2025-03-11 15:00",
	},
}

// Preview renders templateName with its sample data.
func (c *Client) Preview(templateName Template) (string, error) {
	data, ok := PreviewData[templateName]
	if !ok {
		return "", errors.Errorf("unknown email template %q", templateName)
	}
	return c.Render(templateName, data)
}
