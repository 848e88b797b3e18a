// utils/email.go
package utils

import (
	"fmt"
	"log"
	"os"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// EmailService sends transactional email through SendGrid. Sends are
// best-effort: callers log failures and carry on.
type EmailService struct {
	client *sendgrid.Client
	sender string
}

// NewEmailService initializes the service from SENDGRID_API_KEY and
// EMAIL_SENDER. Without an API key it returns nil and email is disabled.
func NewEmailService() *EmailService {
	apiKey := os.Getenv("SENDGRID_API_KEY")
	if apiKey == "" {
		log.Println("SENDGRID_API_KEY not set. Email notifications disabled.")
		return nil
	}
	return &EmailService{
		client: sendgrid.NewSendClient(apiKey),
		sender: os.Getenv("EMAIL_SENDER"),
	}
}

// SendEmail sends a basic email to the specified recipient
func (es *EmailService) SendEmail(toEmail, subject, htmlContent string) error {
	from := mail.NewEmail("KisanCart", es.sender)
	to := mail.NewEmail("", toEmail)
	message := mail.NewSingleEmail(from, subject, to, htmlContent, htmlContent)

	resp, err := es.client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("failed to send email: status %d", resp.StatusCode)
	}
	return nil
}

// SendWelcomeEmail greets a newly registered user.
func (es *EmailService) SendWelcomeEmail(toEmail, name string) error {
	subject := "Welcome to KisanCart"
	htmlContent := fmt.Sprintf(
		"<strong>Hi %s,</strong><br><br>Your KisanCart account is ready. Happy trading!",
		name,
	)
	return es.SendEmail(toEmail, subject, htmlContent)
}

// SendOrderPlacedEmail notifies a farmer that a buyer placed an order.
func (es *EmailService) SendOrderPlacedEmail(toEmail string, orderID string, totalAmount float64) error {
	subject := "New Order Received"
	htmlContent := fmt.Sprintf(
		"<strong>You have a new order!</strong><br><br>Order ID: %s<br>Total Amount: <strong>₹%.2f</strong><br><br>Log in to KisanCart to accept it.",
		orderID,
		totalAmount,
	)
	return es.SendEmail(toEmail, subject, htmlContent)
}
