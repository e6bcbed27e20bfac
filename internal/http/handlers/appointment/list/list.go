// Package list реализует HTTP-обработчик получения списка записей пациента.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/doctor-booking/internal/http/middlewarectx"
	"github.com/magabrotheeeer/doctor-booking/internal/http/response"
	"github.com/magabrotheeeer/doctor-booking/internal/lib/sl"
	"github.com/magabrotheeeer/doctor-booking/internal/models"
)

// Handler управляет HTTP-запросами на получение списка записей.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики списка записей.
type Service interface {
	List(ctx context.Context, userUID string) ([]*models.Appointment, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список записей пациента
// @Description Возвращает все записи текущего пациента, новые первыми.
// @Tags Appointments
// @Produce  json
// @Success 200 {object} map[string]any "Список записей"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /appointments [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.appointment.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	appts, err := h.service.List(r.Context(), userUID)
	if err != nil {
		log.Error("failed to list appointments", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list appointments"))
		return
	}

	log.Info("appointments listed", slog.Int("count", len(appts)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"appointments": appts,
	}))
}
