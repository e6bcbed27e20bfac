// Package paymentcreate реализует HTTP-обработчик создания платежного ордера.
//
// Обработчик создает ордер у платежного провайдера и возвращает ссылку
// подтверждения, по которой пациент завершает оплату.
package paymentcreate

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/doctor-booking/internal/http/middlewarectx"
	"github.com/magabrotheeeer/doctor-booking/internal/http/response"
	"github.com/magabrotheeeer/doctor-booking/internal/lib/sl"
	"github.com/magabrotheeeer/doctor-booking/internal/models"
)

// Handler управляет HTTP-запросами на создание платежного ордера.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики платежей.
type Service interface {
	CreateOrder(ctx context.Context, userUID, appointmentUID string) (string, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Создать платежный ордер
// @Description Создает ордер у платежного провайдера для записи на приём и возвращает ссылку подтверждения.
// @Tags Payments
// @Accept  json
// @Produce  json
// @Param request body models.DummyPaymentCreate true "UID записи"
// @Success 200 {object} map[string]any "Ссылка подтверждения оплаты"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Запись принадлежит другому пациенту"
// @Failure 404 {object} response.ErrorResponse "Запись не найдена"
// @Failure 409 {object} response.ErrorResponse "Запись отменена или уже оплачена"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 502 {object} response.ErrorResponse "Ошибка платежного провайдера"
// @Security BearerAuth
// @Router /payments [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.paymentcreate"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyPaymentCreate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	approveURL, err := h.service.CreateOrder(r.Context(), userUID, req.AppointmentUID)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrAppointmentNotFound):
			log.Error("appointment not found",
				slog.String("appointment_uid", req.AppointmentUID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("appointment not found"))
		case errors.Is(err, models.ErrUnauthorized):
			log.Error("appointment belongs to another user",
				slog.String("appointment_uid", req.AppointmentUID))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("unauthorized action"))
		case errors.Is(err, models.ErrAlreadyCancelled):
			log.Error("appointment is cancelled",
				slog.String("appointment_uid", req.AppointmentUID))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("appointment is cancelled"))
		case errors.Is(err, models.ErrAlreadyPaid):
			log.Error("appointment already paid",
				slog.String("appointment_uid", req.AppointmentUID))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("appointment already paid"))
		default:
			log.Error("failed to create payment order", sl.Err(err))
			w.WriteHeader(http.StatusBadGateway)
			render.JSON(w, r, response.Error("could not create payment order"))
		}
		return
	}

	log.Info("payment order created", slog.String("appointment_uid", req.AppointmentUID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"approve_url": approveURL,
	}))
}
