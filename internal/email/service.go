package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/jwalitptl/dental-api/internal/model"
)

// Service sends the patient facing booking emails.
type Service interface {
	SendBookingReceived(ctx context.Context, event *model.BookingEvent) error
	SendBookingConfirmed(ctx context.Context, event *model.BookingEvent) error
	SendBookingCancelled(ctx context.Context, event *model.BookingEvent) error
}

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	// ClinicName signs every email.
	ClinicName string
}

type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type smtpService struct {
	sender sender
	config Config
}

func NewSMTPService(cfg Config) Service {
	return &smtpService{
		sender: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		config: cfg,
	}
}

func (s *smtpService) SendBookingReceived(ctx context.Context, event *model.BookingEvent) error {
	body := fmt.Sprintf(
		"Dear %s,\n\nWe have received your request for %s on %s at %s. "+
			"We will contact you shortly to confirm the appointment.\n\n%s",
		event.PatientName, event.Service, event.BookingDate, event.BookingTime, s.config.ClinicName)
	return s.send(ctx, event.Email, "We received your booking request", body)
}

func (s *smtpService) SendBookingConfirmed(ctx context.Context, event *model.BookingEvent) error {
	body := fmt.Sprintf(
		"Dear %s,\n\nYour appointment for %s on %s at %s is confirmed.\n\n%s",
		event.PatientName, event.Service, event.BookingDate, event.BookingTime, s.config.ClinicName)
	return s.send(ctx, event.Email, "Your appointment is confirmed", body)
}

func (s *smtpService) SendBookingCancelled(ctx context.Context, event *model.BookingEvent) error {
	body := fmt.Sprintf(
		"Dear %s,\n\nYour appointment for %s on %s at %s has been cancelled. "+
			"Please contact us to book another time.\n\n%s",
		event.PatientName, event.Service, event.BookingDate, event.BookingTime, s.config.ClinicName)
	return s.send(ctx, event.Email, "Your appointment was cancelled", body)
}

func (s *smtpService) send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.config.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", fmt.Sprintf("%s: %s", s.config.ClinicName, subject))
	m.SetBody("text/plain", body)

	if err := s.sender.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}
