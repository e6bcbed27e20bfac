// Package cancel реализует HTTP-обработчик отмены записи на приём.
//
// Отменить запись может только её владелец. Повторная отмена возвращает 409,
// чужая запись — 403.
package cancel

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/doctor-booking/internal/http/middlewarectx"
	"github.com/magabrotheeeer/doctor-booking/internal/http/response"
	"github.com/magabrotheeeer/doctor-booking/internal/lib/sl"
	"github.com/magabrotheeeer/doctor-booking/internal/models"
)

// Handler управляет HTTP-запросами на отмену записей.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики отмены.
type Service interface {
	Cancel(ctx context.Context, userUID, appointmentUID string) error
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Отменить запись на приём
// @Description Отменяет запись текущего пациента и освобождает слот врача.
// @Tags Appointments
// @Produce  json
// @Param id path string true "UID записи"
// @Success 200 {object} response.Response "Запись отменена"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Запись принадлежит другому пациенту"
// @Failure 404 {object} response.ErrorResponse "Запись не найдена"
// @Failure 409 {object} response.ErrorResponse "Запись уже отменена"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /appointments/{id}/cancel [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.appointment.cancel"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	appointmentUID := chi.URLParam(r, "id")
	if appointmentUID == "" {
		log.Error("appointment uid is empty")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("appointment id is required"))
		return
	}

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	err := h.service.Cancel(r.Context(), userUID, appointmentUID)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrAppointmentNotFound):
			log.Error("appointment not found", slog.String("appointment_uid", appointmentUID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("appointment not found"))
		case errors.Is(err, models.ErrUnauthorized):
			log.Error("appointment belongs to another user",
				slog.String("appointment_uid", appointmentUID))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("unauthorized action"))
		case errors.Is(err, models.ErrAlreadyCancelled):
			log.Error("appointment already cancelled",
				slog.String("appointment_uid", appointmentUID))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("appointment already cancelled"))
		default:
			log.Error("failed to cancel appointment", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not cancel appointment"))
		}
		return
	}

	log.Info("appointment cancelled", slog.String("appointment_uid", appointmentUID))
	render.JSON(w, r, response.OK())
}
