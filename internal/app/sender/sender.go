// Package sender собирает приложение отправки email-уведомлений
// о бронированиях и отменах из очередей RabbitMQ.
package sender

import (
	"context"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/doctor-booking/internal/config"
	"github.com/magabrotheeeer/doctor-booking/internal/lib/smtp"
	"github.com/magabrotheeeer/doctor-booking/internal/rabbitmq"
	senderservice "github.com/magabrotheeeer/doctor-booking/internal/services/sender"
)

// App инкапсулирует подключение к брокеру и сервис отправки писем.
type App struct {
	conn          *amqp.Connection
	ch            *amqp.Channel
	senderService *senderservice.SenderService
	logger        *slog.Logger
}

// New подключается к RabbitMQ, объявляет очереди уведомлений
// и собирает сервис отправки писем.
func New(_ context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, err
	}

	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetNotificationQueues())
	if err != nil {
		conn.Close()
		return nil, err
	}

	transport := smtp.NewTransport(cfg, logger)
	senderService := senderservice.NewSenderService(logger, transport)

	return &App{
		conn:          conn,
		ch:            ch,
		senderService: senderService,
		logger:        logger,
	}, nil
}

// Run запускает потребителей очередей и блокируется до отмены контекста.
func (a *App) Run(ctx context.Context) error {
	err := rabbitmq.ConsumerMessage(ctx, a.ch, rabbitmq.BookedQueue, a.senderService.SendAppointmentBooked)
	if err != nil {
		a.logger.Error("failed to start appointment_booked_queue consumer", slog.Any("err", err))
		return err
	}

	err = rabbitmq.ConsumerMessage(ctx, a.ch, rabbitmq.CancelledQueue, a.senderService.SendAppointmentCancelled)
	if err != nil {
		a.logger.Error("failed to start appointment_cancelled_queue consumer", slog.Any("err", err))
		return err
	}

	<-ctx.Done()
	a.logger.Info("sender service shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", slog.Any("err", err))
	}

	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", slog.Any("err", err))
	}

	return nil
}
