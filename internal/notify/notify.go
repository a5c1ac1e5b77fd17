// Package notify e-mails renters when a booking changes status.
package notify

import (
	"context"
	"fmt"
	"time"

	"equiprent/internal/domain"
	"equiprent/internal/logger"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// BookingNotice describes one status change of one booking.
type BookingNotice struct {
	RenterEmail      string
	EquipmentTitle   string
	Status           domain.BookingStatus
	StartDate        time.Time
	EndDate          time.Time
	TotalAmountCents int64
}

type Notifier interface {
	BookingStatusChanged(ctx context.Context, n BookingNotice) error
}

// New returns a SendGrid notifier, or a no-op one when apiKey is empty.
func New(apiKey, fromEmail, fromName string) Notifier {
	if apiKey == "" {
		logger.Info("SendGrid API key not set, booking e-mails disabled")
		return Noop{}
	}
	return &sendGridNotifier{
		client: sendgrid.NewSendClient(apiKey),
		from:   mail.NewEmail(fromName, fromEmail),
	}
}

type Noop struct{}

func (Noop) BookingStatusChanged(context.Context, BookingNotice) error { return nil }

type sendGridNotifier struct {
	client *sendgrid.Client
	from   *mail.Email
}

func (s *sendGridNotifier) BookingStatusChanged(ctx context.Context, n BookingNotice) error {
	if n.RenterEmail == "" {
		return nil
	}
	subject, body := Render(n)
	message := mail.NewSingleEmail(s.from, subject, mail.NewEmail("", n.RenterEmail), body, "")

	logger.ExternalServiceCall("SendGrid", "send", "to", n.RenterEmail, "status", n.Status)
	response, err := s.client.SendWithContext(ctx, message)
	if err == nil && response.StatusCode >= 400 {
		err = fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	logger.ExternalServiceResult("SendGrid", "send", err, "to", n.RenterEmail)
	if err != nil {
		return fmt.Errorf("failed to send booking e-mail: %w", err)
	}
	return nil
}

// Render builds the subject and plain-text body for a notice.
func Render(n BookingNotice) (subject, body string) {
	dates := fmt.Sprintf("%s to %s", n.StartDate.Format("2006-01-02"), n.EndDate.Format("2006-01-02"))
	switch n.Status {
	case domain.BookingStatusActive:
		subject = fmt.Sprintf("Booking approved: %s", n.EquipmentTitle)
		body = fmt.Sprintf("Your booking of %s for %s has been approved.", n.EquipmentTitle, dates)
	case domain.BookingStatusRejected:
		subject = fmt.Sprintf("Booking declined: %s", n.EquipmentTitle)
		body = fmt.Sprintf("Your booking of %s for %s was declined by the owner.", n.EquipmentTitle, dates)
	case domain.BookingStatusCompleted:
		subject = fmt.Sprintf("Rental complete: %s", n.EquipmentTitle)
		body = fmt.Sprintf("Your rental of %s (%s) is complete. Total: %s.", n.EquipmentTitle, dates, FormatCents(n.TotalAmountCents))
	default:
		subject = fmt.Sprintf("Booking update: %s", n.EquipmentTitle)
		body = fmt.Sprintf("Your booking of %s for %s is now %s.", n.EquipmentTitle, dates, n.Status)
	}
	return subject, body + "\n\nThe Equipment Rentals Team"
}

func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign, cents = "-", -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}
