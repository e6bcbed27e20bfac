// Package doctorbooking предоставляет маршруты для основного приложения.
package doctorbooking

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/doctor-booking/internal/http/handlers/appointment/book"
	appointmentcancel "github.com/magabrotheeeer/doctor-booking/internal/http/handlers/appointment/cancel"
	appointmentlist "github.com/magabrotheeeer/doctor-booking/internal/http/handlers/appointment/list"
	"github.com/magabrotheeeer/doctor-booking/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/doctor-booking/internal/http/handlers/auth/register"
	doctorlist "github.com/magabrotheeeer/doctor-booking/internal/http/handlers/doctor/list"
	"github.com/magabrotheeeer/doctor-booking/internal/http/handlers/payment/paymentcapture"
	"github.com/magabrotheeeer/doctor-booking/internal/http/handlers/payment/paymentcreate"
	"github.com/magabrotheeeer/doctor-booking/internal/http/handlers/user/profileget"
	"github.com/magabrotheeeer/doctor-booking/internal/http/handlers/user/profileupdate"
	"github.com/magabrotheeeer/doctor-booking/internal/http/middlewarectx"
	authservice "github.com/magabrotheeeer/doctor-booking/internal/services/auth"
	bookingservice "github.com/magabrotheeeer/doctor-booking/internal/services/booking"
	paymentservice "github.com/magabrotheeeer/doctor-booking/internal/services/payment"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, authService *authservice.AuthService, bookingService *bookingservice.BookingService, paymentService *paymentservice.PaymentService) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, authService).ServeHTTP)
		r.Post("/login", login.New(logger, authService).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(authService, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Get("/users/profile", profileget.New(logger, authService).ServeHTTP)
			r.Put("/users/profile", profileupdate.New(logger, authService).ServeHTTP)
			r.Get("/doctors", doctorlist.New(logger, bookingService).ServeHTTP)
			r.Post("/appointments", book.New(logger, bookingService).ServeHTTP)
			r.Get("/appointments", appointmentlist.New(logger, bookingService).ServeHTTP)
			r.Post("/appointments/{id}/cancel", appointmentcancel.New(logger, bookingService).ServeHTTP)
			r.Post("/payments", paymentcreate.New(logger, paymentService).ServeHTTP)
		})

		// Redirect плательщика возвращается без JWT, ордер связывает
		// запрос с записью.
		r.Post("/payments/capture", paymentcapture.New(logger, paymentService).ServeHTTP)
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
