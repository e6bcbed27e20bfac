// Package login реализует HTTP-обработчик входа пациентов.
//
// Handler принимает JSON-запрос с email и паролем, проверяет их через
// бизнес-логику и возвращает JWT токен в JSON-формате.
package login

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

// Handler управляет HTTP-запросами на вход пациентов.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики входа.
type Service interface {
	Login(ctx context.Context, req models.DummyLogin) (string, error)
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
// @Summary Войти в систему
// @Description Проверяет email и пароль пациента, возвращает JWT токен.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body models.DummyLogin true "Данные входа"
// @Success 200 {object} map[string]any "Токен доступа"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Неверные учётные данные"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /login [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyLogin
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

	token, err := h.service.Login(r.Context(), req)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) || errors.Is(err, models.ErrInvalidCredentials) {
			log.Error("invalid credentials", slog.String("email", req.Email))
			w.WriteHeader(http.StatusUnauthorized)
			render.JSON(w, r, response.Error("invalid credentials"))
			return
		}
		log.Error("failed to login user", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not login user"))
		return
	}

	log.Info("user logged in")
	render.JSON(w, r, response.OKWithData(map[string]any{
		"token": token,
	}))
}
