// Package doctorbooking собирает HTTP-приложение записи к врачу:
// хранилище, кеш, брокер уведомлений, сервисы и маршруты.
package doctorbooking

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/doctor-booking/internal/cache"
	"github.com/magabrotheeeer/doctor-booking/internal/config"
	"github.com/magabrotheeeer/doctor-booking/internal/lib/jwt"
	"github.com/magabrotheeeer/doctor-booking/internal/migrations"
	"github.com/magabrotheeeer/doctor-booking/internal/paymentprovider"
	"github.com/magabrotheeeer/doctor-booking/internal/rabbitmq"
	authservice "github.com/magabrotheeeer/doctor-booking/internal/services/auth"
	bookingservice "github.com/magabrotheeeer/doctor-booking/internal/services/booking"
	paymentservice "github.com/magabrotheeeer/doctor-booking/internal/services/payment"
	"github.com/magabrotheeeer/doctor-booking/internal/storage"
)

// App инкапсулирует HTTP-сервер и его зависимости.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *storage.Storage
	amqp   *amqp.Connection
}

// New создает приложение: подключает Postgres, применяет миграции,
// поднимает Redis и RabbitMQ, собирает сервисы и регистрирует маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := storage.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, err
	}
	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetNotificationQueues())
	if err != nil {
		conn.Close()
		return nil, err
	}
	publisher := rabbitmq.NewPublisher(ch, "notifications")

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	providerClient := paymentprovider.NewClient(cfg.PayPalClientID, cfg.PayPalClientSecret, cfg.PayPalAPIURL)

	authService := authservice.NewAuthService(db, jwtMaker)
	bookingService := bookingservice.NewBookingService(db, cacheRedis, publisher, logger)
	paymentService := paymentservice.New(db, providerClient, cfg.Currency, cfg.FrontendURL, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, authService, bookingService, paymentService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		amqp:   conn,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его при отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.amqp.Close()
		a.db.DB.Close()
		return err
	}
}
