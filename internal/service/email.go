package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"fleet-rental-backend/internal/config"
)

type sendGridEmailService struct {
	apiKey     string
	fromEmail  string
	fromName   string
	adminEmail string
}

func NewEmailService(cfg config.SendGridConfig) EmailService {
	return &sendGridEmailService{
		apiKey:     cfg.APIKey,
		fromEmail:  cfg.FromEmail,
		fromName:   cfg.FromName,
		adminEmail: cfg.AdminEmail,
	}
}

func (s *sendGridEmailService) send(toEmail, toName, subject, plainText, htmlContent string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, recipient, plainText, htmlContent)

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	return nil
}

func (s *sendGridEmailService) SendReservationConfirmation(ctx context.Context, toEmail, toName, code, vehicleName string, start, end time.Time, totalCents int64) error {
	subject := fmt.Sprintf("Reservation %s confirmed", code)
	plainText := fmt.Sprintf("Your reservation %s for %s from %s to %s is confirmed. Total: %s.",
		code, vehicleName, start.Format("Jan 2, 2006"), end.Format("Jan 2, 2006"), formatCents(totalCents))
	htmlContent := fmt.Sprintf(`
		<html>
			<body>
				<h2>Reservation Confirmed</h2>
				<p>Hi %s,</p>
				<p>Your reservation <strong>%s</strong> for <strong>%s</strong> is confirmed.</p>
				<p>Pickup: %s<br>Return: %s<br>Total: %s</p>
			</body>
		</html>
	`, toName, code, vehicleName, start.Format("Jan 2, 2006"), end.Format("Jan 2, 2006"), formatCents(totalCents))
	return s.send(toEmail, toName, subject, plainText, htmlContent)
}

func (s *sendGridEmailService) SendRentalCreated(ctx context.Context, toEmail, toName, contractNumber, vehicleName string, start, end time.Time, totalCents int64) error {
	subject := fmt.Sprintf("Rental contract %s", contractNumber)
	plainText := fmt.Sprintf("Your rental contract %s for %s runs %s to %s. Total: %s.",
		contractNumber, vehicleName, start.Format("Jan 2, 2006"), end.Format("Jan 2, 2006"), formatCents(totalCents))
	htmlContent := fmt.Sprintf(`
		<html>
			<body>
				<h2>Rental Contract Created</h2>
				<p>Hi %s,</p>
				<p>Your contract <strong>%s</strong> for <strong>%s</strong> is active.</p>
				<p>Start: %s<br>Expected return: %s<br>Total: %s</p>
			</body>
		</html>
	`, toName, contractNumber, vehicleName, start.Format("Jan 2, 2006"), end.Format("Jan 2, 2006"), formatCents(totalCents))
	return s.send(toEmail, toName, subject, plainText, htmlContent)
}

func (s *sendGridEmailService) SendOverdueReminder(ctx context.Context, toEmail, toName, contractNumber string, expectedEnd time.Time) error {
	subject := fmt.Sprintf("Rental %s is overdue", contractNumber)
	plainText := fmt.Sprintf("Your rental %s was due back on %s. Please return the vehicle or contact us to extend.",
		contractNumber, expectedEnd.Format("Jan 2, 2006"))
	htmlContent := fmt.Sprintf(`
		<html>
			<body>
				<h2>Vehicle Return Overdue</h2>
				<p>Hi %s,</p>
				<p>Contract <strong>%s</strong> was due back on <strong>%s</strong>.</p>
				<p>Please return the vehicle or contact us to extend your rental.</p>
			</body>
		</html>
	`, toName, contractNumber, expectedEnd.Format("Jan 2, 2006"))
	return s.send(toEmail, toName, subject, plainText, htmlContent)
}

func (s *sendGridEmailService) SendAdminNotification(ctx context.Context, subject, message string) error {
	if s.adminEmail == "" {
		return nil
	}
	htmlContent := fmt.Sprintf("<html><body><p>%s</p></body></html>", message)
	return s.send(s.adminEmail, "Admin", subject, message, htmlContent)
}

func formatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}
