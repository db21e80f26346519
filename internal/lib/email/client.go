// Package email renders the embedded HTML templates and delivers them
// through Resend.
package email

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/deppfellow/muslimah-travel/internal/config"
	"github.com/pkg/errors"
	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"
)

// Sender is what the job handlers need from the client.
type Sender interface {
	SendWelcomeEmail(to, name string) error
	SendPasswordResetEmail(to, name, token string, validHours int) error
	SendBookingCreatedEmail(to string, b BookingEmail) error
}

type Client struct {
	client    *resend.Client
	from      string
	templates *template.Template
	logger    *zerolog.Logger
}

// NewClient parses every embedded template up front so a broken template
// fails at startup.
func NewClient(cfg *config.Config, logger *zerolog.Logger) (*Client, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, errors.Wrap(err, "parse email templates")
	}

	return &Client{
		client:    resend.NewClient(cfg.Integration.ResendAPIKey),
		from:      cfg.Integration.MailFrom,
		templates: tmpl,
		logger:    logger,
	}, nil
}

// Render executes templateName with data.
func (c *Client) Render(templateName Template, data map[string]string) (string, error) {
	var body bytes.Buffer
	if err := c.templates.ExecuteTemplate(&body, string(templateName)+".html", data); err != nil {
		return "", errors.Wrapf(err, "failed to execute email template %s", templateName)
	}
	return body.String(), nil
}

// SendEmail renders templateName and sends it to a single recipient.
func (c *Client) SendEmail(to, subject string, templateName Template, data map[string]string) error {
	html, err := c.Render(templateName, data)
	if err != nil {
		return err
	}

	sent, err := c.client.Emails.Send(&resend.SendEmailRequest{
		From:    c.from,
		To:      []string{to},
		Subject: subject,
		Html:    html,
	})
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	c.logger.Debug().
		Str("template", string(templateName)).
		Str("email_id", sent.Id).
		Msg("email accepted by provider")

	return nil
}
