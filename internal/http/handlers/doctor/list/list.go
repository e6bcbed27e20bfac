// Package list реализует HTTP-обработчик списка врачей.
//
// Список отдается с картами занятых слотов и кешируется бизнес-логикой.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/doctor-booking/internal/http/response"
	"github.com/magabrotheeeer/doctor-booking/internal/lib/sl"
	"github.com/magabrotheeeer/doctor-booking/internal/models"
)

// Handler управляет HTTP-запросами на список врачей.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики списка врачей.
type Service interface {
	ListDoctors(ctx context.Context) ([]*models.Doctor, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список врачей
// @Description Возвращает всех врачей с картами занятых слотов.
// @Tags Doctors
// @Produce  json
// @Success 200 {object} map[string]any "Список врачей"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /doctors [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.doctor.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	doctors, err := h.service.ListDoctors(r.Context())
	if err != nil {
		log.Error("failed to list doctors", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list doctors"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"doctors": doctors,
	}))
}
