// Package book реализует HTTP-обработчик бронирования записи на приём.
//
// Handler принимает JSON-запрос с врачом и слотом, валидирует его, извлекает
// идентификатор пациента из контекста, вызывает бизнес-логику бронирования
// и возвращает созданную запись в JSON-формате.
//
// Конфликт слота и недоступность врача отражаются статусом 409.
package book

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

// Handler управляет HTTP-запросами на бронирование записей.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики бронирования.
type Service interface {
	Book(ctx context.Context, userUID string, req models.DummyBooking) (*models.Appointment, error)
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
// @Summary Записаться на приём
// @Description Бронирует слот у врача и создает запись на приём для текущего пациента.
// @Tags Appointments
// @Accept  json
// @Produce  json
// @Param request body models.DummyBooking true "Врач и слот"
// @Success 200 {object} map[string]any "Созданная запись"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Врач или пациент не найден"
// @Failure 409 {object} response.ErrorResponse "Слот занят или врач недоступен"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /appointments [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.appointment.book"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyBooking
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.Any("request", req))

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

	appt, err := h.service.Book(r.Context(), userUID, req)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrSlotUnavailable):
			log.Error("slot not available",
				slog.String("slot_date", req.SlotDate), slog.String("slot_time", req.SlotTime))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("slot not available"))
		case errors.Is(err, models.ErrDoctorUnavailable):
			log.Error("doctor not available", slog.String("doctor_uid", req.DoctorUID))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("doctor not available"))
		case errors.Is(err, models.ErrDoctorNotFound):
			log.Error("doctor not found", slog.String("doctor_uid", req.DoctorUID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("doctor not found"))
		case errors.Is(err, models.ErrUserNotFound):
			log.Error("user not found", slog.String("user_uid", userUID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
		default:
			log.Error("failed to book appointment", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not book appointment"))
		}
		return
	}

	log.Info("appointment booked", slog.String("appointment_uid", appt.UID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"appointment": appt,
	}))
}
