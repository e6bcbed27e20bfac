package register

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/doctor-booking/internal/models"
)

// MockService реализует интерфейс register.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Register(ctx context.Context, req models.DummyRegister) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func TestRegisterHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	validBody := `{"name":"Ivan Petrov","email":"ivan@example.com","password":"supersecret"}`

	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "успешная регистрация",
			body: validBody,
			setupMock: func(m *MockService) {
				m.On("Register", mock.Anything, mock.MatchedBy(func(r models.DummyRegister) bool {
					return r.Email == "ivan@example.com"
				})).Return("jwt-token", nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"token":"jwt-token"`,
		},
		{
			name:           "некорректный JSON",
			body:           `{invalid`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"invalid request body"}`,
		},
		{
			name:           "короткий пароль",
			body:           `{"name":"Ivan Petrov","email":"ivan@example.com","password":"short"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `"status":"Error"`,
		},
		{
			name:           "некорректный email",
			body:           `{"name":"Ivan Petrov","email":"not-an-email","password":"supersecret"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `"status":"Error"`,
		},
		{
			name: "email уже занят",
			body: validBody,
			setupMock: func(m *MockService) {
				m.On("Register", mock.Anything, mock.Anything).
					Return("", models.ErrEmailTaken)
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `{"status":"Error","error":"email already registered"}`,
		},
		{
			name: "ошибка сервиса",
			body: validBody,
			setupMock: func(m *MockService) {
				m.On("Register", mock.Anything, mock.Anything).
					Return("", errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"could not register user"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
