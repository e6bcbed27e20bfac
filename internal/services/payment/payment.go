// Package services содержит бизнес-логику двухфазной оплаты приёма:
// создание заказа у платёжного провайдера и идемпотентный capture
// по идентификатору заказа после одобрения плательщиком.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/magabrotheeeer/doctor-booking/internal/models"
	"github.com/magabrotheeeer/doctor-booking/internal/paymentprovider"
)

// PaymentRepository определяет методы хранилища, нужные оплате.
type PaymentRepository interface {
	GetAppointment(ctx context.Context, appointmentUID string) (*models.Appointment, error)
	GetAppointmentByOrderID(ctx context.Context, orderID string) (*models.Appointment, error)
	SetPaymentOrderID(ctx context.Context, appointmentUID, orderID string) error
	// MarkPaid выполняет update только при paid = false, что делает
	// повторный capture безопасным.
	MarkPaid(ctx context.Context, orderID string, details []byte) error
}

// ProviderClient описывает клиента платёжного провайдера.
type ProviderClient interface {
	CreateOrder(ctx context.Context, req paymentprovider.CreateOrderRequest) (*paymentprovider.Order, error)
	CaptureOrder(ctx context.Context, orderID string) (*paymentprovider.CaptureResult, error)
}

// PaymentService реализует создание заказа и capture платежа за приём.
type PaymentService struct {
	repo        PaymentRepository
	provider    ProviderClient
	currency    string
	frontendURL string
	log         *slog.Logger
}

// New создает новый экземпляр PaymentService.
func New(repo PaymentRepository, provider ProviderClient, currency, frontendURL string, log *slog.Logger) *PaymentService {
	return &PaymentService{
		repo:        repo,
		provider:    provider,
		currency:    currency,
		frontendURL: frontendURL,
		log:         log,
	}
}

// CreateOrder создает заказ у провайдера на сумму записи и возвращает
// ссылку одобрения. Оплатить можно только собственную запись.
// Идентификатор заказа сохраняется на записи, чтобы capture можно было
// связать с ней без доверия к данным callback-а.
func (s *PaymentService) CreateOrder(ctx context.Context, userUID, appointmentUID string) (string, error) {
	appt, err := s.repo.GetAppointment(ctx, appointmentUID)
	if err != nil {
		return "", err
	}
	if appt.UserUID != userUID {
		return "", models.ErrUnauthorized
	}
	if appt.Cancelled {
		return "", models.ErrAlreadyCancelled
	}
	if appt.Paid {
		return "", models.ErrAlreadyPaid
	}

	req := paymentprovider.CreateOrderRequest{
		Intent: "CAPTURE",
		PurchaseUnits: []paymentprovider.PurchaseUnit{{
			Amount: paymentprovider.Amount{
				CurrencyCode: s.currency,
				Value:        strconv.Itoa(appt.Amount),
			},
			Description: fmt.Sprintf("Payment for appointment with %s", appt.DoctorSnapshot.Name),
		}},
		ApplicationContext: paymentprovider.ApplicationContext{
			ReturnURL: fmt.Sprintf("%s/payment-success?appointmentId=%s", s.frontendURL, appointmentUID),
			CancelURL: fmt.Sprintf("%s/payment-cancel?appointmentId=%s", s.frontendURL, appointmentUID),
		},
	}

	order, err := s.provider.CreateOrder(ctx, req)
	if err != nil {
		return "", fmt.Errorf("create order: %w", err)
	}

	var approvalLink string
	for _, link := range order.Links {
		if link.Rel == "approve" {
			approvalLink = link.Href
			break
		}
	}
	if approvalLink == "" {
		return "", fmt.Errorf("create order: no approve link in provider response")
	}

	if err := s.repo.SetPaymentOrderID(ctx, appointmentUID, order.ID); err != nil {
		return "", err
	}

	s.log.Info("payment order created",
		slog.String("appointment_uid", appointmentUID),
		slog.String("order_id", order.ID))

	return approvalLink, nil
}

// Capture подтверждает платеж у провайдера и помечает запись оплаченной.
// Операция идемпотентна: для уже оплаченной записи возвращается
// models.ErrAlreadyPaid без обращения к провайдеру и без изменения данных.
// Любой статус, кроме COMPLETED, оставляет запись нетронутой.
func (s *PaymentService) Capture(ctx context.Context, orderID string) error {
	appt, err := s.repo.GetAppointmentByOrderID(ctx, orderID)
	if err != nil {
		return err
	}
	if appt.Cancelled {
		return models.ErrAlreadyCancelled
	}
	if appt.Paid {
		return models.ErrAlreadyPaid
	}

	result, err := s.provider.CaptureOrder(ctx, orderID)
	if err != nil {
		return fmt.Errorf("capture order: %w", err)
	}
	if result.Status != "COMPLETED" {
		s.log.Warn("payment capture not completed",
			slog.String("order_id", orderID),
			slog.String("status", result.Status))
		return models.ErrPaymentNotCompleted
	}

	if err := s.repo.MarkPaid(ctx, orderID, result.Raw); err != nil {
		return err
	}

	s.log.Info("payment captured",
		slog.String("appointment_uid", appt.UID),
		slog.String("order_id", orderID))
	return nil
}
