package email

import (
	"fmt"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Service sends catalog notifications via SendGrid
type Service struct {
	apiKey      string
	notifyEmail string
}

// NewService creates a new email service instance
func NewService(apiKey, notifyEmail string) *Service {
	return &Service{
		apiKey:      apiKey,
		notifyEmail: notifyEmail,
	}
}

// Enabled reports whether catalog notifications are configured
func (s *Service) Enabled() bool {
	return s.apiKey != "" && s.notifyEmail != ""
}

// SendProductInsertedEmail notifies the configured address that a new
// product was added with an AI-generated description.
func (s *Service) SendProductInsertedEmail(productName, description string) error {
	if !s.Enabled() {
		return fmt.Errorf("catalog notifications not configured")
	}

	from := mail.NewEmail("Smart Retail Catalog", "noreply@smartretail.local")
	to := mail.NewEmail("Catalog Owner", s.notifyEmail)

	subject := fmt.Sprintf("New product added: %s", productName)
	body := fmt.Sprintf(`A new product was inserted into the catalog.

Product: %s
Generated description: %s
Timestamp: %s`, productName, description, time.Now().UTC().Format(time.RFC3339))

	message := mail.NewSingleEmail(from, subject, to, body, body)

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	if response.StatusCode >= 400 {
		return fmt.Errorf("SendGrid API error: status %d, body: %s", response.StatusCode, response.Body)
	}

	return nil
}
