// Package paymentcapture реализует HTTP-обработчик подтверждения платежа.
//
// Обработчик вызывается после возврата плательщика со страницы провайдера
// и выполняет capture платежного ордера. Повторный вызов для уже оплаченной
// записи безопасен и возвращает успешный ответ.
package paymentcapture

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/doctor-booking/internal/http/response"
	"github.com/magabrotheeeer/doctor-booking/internal/lib/sl"
	"github.com/magabrotheeeer/doctor-booking/internal/models"
)

// Handler управляет HTTP-запросами на подтверждение платежа.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики capture платежа.
type Service interface {
	Capture(ctx context.Context, orderID string) error
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
// @Summary Подтвердить платеж
// @Description Выполняет capture платежного ордера после одобрения плательщиком. Повторный вызов идемпотентен.
// @Tags Payments
// @Accept  json
// @Produce  json
// @Param request body models.DummyPaymentCapture true "Идентификатор ордера"
// @Success 200 {object} response.Response "Платеж подтвержден"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 404 {object} response.ErrorResponse "Ордер не найден"
// @Failure 409 {object} response.ErrorResponse "Запись отменена"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации или платеж не завершен"
// @Failure 502 {object} response.ErrorResponse "Ошибка платежного провайдера"
// @Router /payments/capture [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.paymentcapture"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyPaymentCapture
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

	err := h.service.Capture(r.Context(), req.OrderID)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrAlreadyPaid):
			// Повторный redirect плательщика не должен заканчиваться ошибкой.
			log.Info("payment already captured", slog.String("order_id", req.OrderID))
			render.JSON(w, r, response.OK())
		case errors.Is(err, models.ErrAppointmentNotFound):
			log.Error("order not linked to an appointment",
				slog.String("order_id", req.OrderID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("payment order not found"))
		case errors.Is(err, models.ErrAlreadyCancelled):
			log.Error("appointment is cancelled", slog.String("order_id", req.OrderID))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("appointment is cancelled"))
		case errors.Is(err, models.ErrPaymentNotCompleted):
			log.Error("payment not completed", slog.String("order_id", req.OrderID))
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error("payment not completed"))
		default:
			log.Error("failed to capture payment", sl.Err(err))
			w.WriteHeader(http.StatusBadGateway)
			render.JSON(w, r, response.Error("could not capture payment"))
		}
		return
	}

	log.Info("payment captured", slog.String("order_id", req.OrderID))
	render.JSON(w, r, response.OK())
}
