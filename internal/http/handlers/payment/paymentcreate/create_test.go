package paymentcreate

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

	"github.com/magabrotheeeer/doctor-booking/internal/http/middlewarectx"
	"github.com/magabrotheeeer/doctor-booking/internal/models"
)

// MockService реализует интерфейс paymentcreate.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) CreateOrder(ctx context.Context, userUID, appointmentUID string) (string, error) {
	args := m.Called(ctx, userUID, appointmentUID)
	return args.String(0), args.Error(1)
}

func TestCreateHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	apptUID := "3e2f9d6a-5b1c-4c8e-9f7a-2d4b6c8e0a1f"
	validBody := `{"appointment_uid":"` + apptUID + `"}`

	tests := []struct {
		name           string
		body           string
		userUID        string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:    "успешное создание ордера",
			body:    validBody,
			userUID: "user-1",
			setupMock: func(m *MockService) {
				m.On("CreateOrder", mock.Anything, "user-1", apptUID).
					Return("https://provider.example/approve", nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"approve_url":"https://provider.example/approve"`,
		},
		{
			name:           "некорректный JSON",
			body:           `{invalid`,
			userUID:        "user-1",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"invalid request body"}`,
		},
		{
			name:           "отсутствует appointment_uid",
			body:           `{}`,
			userUID:        "user-1",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `"status":"Error"`,
		},
		{
			name:           "нет UID пользователя в контексте",
			body:           validBody,
			userUID:        "",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"status":"Error","error":"unauthorized"}`,
		},
		{
			name:    "запись не найдена",
			body:    validBody,
			userUID: "user-1",
			setupMock: func(m *MockService) {
				m.On("CreateOrder", mock.Anything, "user-1", apptUID).
					Return("", models.ErrAppointmentNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"status":"Error","error":"appointment not found"}`,
		},
		{
			name:    "чужая запись",
			body:    validBody,
			userUID: "user-2",
			setupMock: func(m *MockService) {
				m.On("CreateOrder", mock.Anything, "user-2", apptUID).
					Return("", models.ErrUnauthorized)
			},
			expectedStatus: http.StatusForbidden,
			expectedBody:   `{"status":"Error","error":"unauthorized action"}`,
		},
		{
			name:    "запись отменена",
			body:    validBody,
			userUID: "user-1",
			setupMock: func(m *MockService) {
				m.On("CreateOrder", mock.Anything, "user-1", apptUID).
					Return("", models.ErrAlreadyCancelled)
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `{"status":"Error","error":"appointment is cancelled"}`,
		},
		{
			name:    "запись уже оплачена",
			body:    validBody,
			userUID: "user-1",
			setupMock: func(m *MockService) {
				m.On("CreateOrder", mock.Anything, "user-1", apptUID).
					Return("", models.ErrAlreadyPaid)
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `{"status":"Error","error":"appointment already paid"}`,
		},
		{
			name:    "ошибка провайдера",
			body:    validBody,
			userUID: "user-1",
			setupMock: func(m *MockService) {
				m.On("CreateOrder", mock.Anything, "user-1", apptUID).
					Return("", errors.New("provider unavailable"))
			},
			expectedStatus: http.StatusBadGateway,
			expectedBody:   `{"status":"Error","error":"could not create payment order"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/payments", strings.NewReader(tt.body))
			if tt.userUID != "" {
				req = req.WithContext(context.WithValue(req.Context(), middlewarectx.UserUID, tt.userUID))
			}

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
