// Package services содержит сервис отправки писем о событиях записи на приём.
package services

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/doctor-booking/internal/lib/sl"
	"github.com/magabrotheeeer/doctor-booking/internal/lib/smtp"
	"github.com/magabrotheeeer/doctor-booking/internal/models"
)

// SenderService отправляет письма-уведомления по событиям из очереди.
type SenderService struct {
	transport smtp.TransportInterface
	log       *slog.Logger
}

// NewSenderService создает новый экземпляр SenderService.
func NewSenderService(log *slog.Logger, transport smtp.TransportInterface) *SenderService {
	return &SenderService{
		transport: transport,
		log:       log,
	}
}

// SendAppointmentBooked отправляет подтверждение бронирования.
func (s *SenderService) SendAppointmentBooked(body []byte) error {
	var event models.AppointmentEvent
	if err := json.Unmarshal(body, &event); err != nil {
		s.log.Error("failed to unmarshal message body", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	to := []string{event.Email}
	subject := "Appointment confirmed"
	bodyText := fmt.Sprintf("Hello, %s!\n\nYour appointment with %s is confirmed for %s at %s.",
		event.UserName, event.DoctorName, event.SlotDate, event.SlotTime)

	return s.sendEmail(to, subject, bodyText)
}

// SendAppointmentCancelled отправляет уведомление об отмене записи.
func (s *SenderService) SendAppointmentCancelled(body []byte) error {
	var event models.AppointmentEvent
	if err := json.Unmarshal(body, &event); err != nil {
		s.log.Error("failed to unmarshal message body", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	to := []string{event.Email}
	subject := "Appointment cancelled"
	bodyText := fmt.Sprintf("Hello, %s!\n\nYour appointment with %s for %s at %s has been cancelled.",
		event.UserName, event.DoctorName, event.SlotDate, event.SlotTime)

	return s.sendEmail(to, subject, bodyText)
}

func (s *SenderService) sendEmail(to []string, subject, bodyText string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.GetSMTPUser(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		return fmt.Errorf("failed to connect to smtp server: %w", err)
	}
	defer func() {
		if err := client.Close(); err != nil {
			s.log.Warn("failed to close smtp client", sl.Err(err))
		}
	}()

	if err := client.Mail(s.transport.GetSMTPUser()); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			return fmt.Errorf("failed to set recipient %s: %w", addr, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to open data writer: %w", err)
	}
	if _, err := w.Write([]byte(msg)); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	if err := client.Quit(); err != nil {
		s.log.Warn("failed to quit smtp session", sl.Err(err))
	}

	s.log.Info("email sent", slog.String("subject", subject))
	return nil
}
