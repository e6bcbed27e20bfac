package paymentcapture

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

// MockService реализует интерфейс paymentcapture.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Capture(ctx context.Context, orderID string) error {
	return m.Called(ctx, orderID).Error(0)
}

func TestCaptureHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "успешный capture",
			body: `{"token":"order-1"}`,
			setupMock: func(m *MockService) {
				m.On("Capture", mock.Anything, "order-1").Return(nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"OK"}`,
		},
		{
			name: "повторный capture возвращает успех",
			body: `{"token":"order-1"}`,
			setupMock: func(m *MockService) {
				m.On("Capture", mock.Anything, "order-1").Return(models.ErrAlreadyPaid)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"OK"}`,
		},
		{
			name:           "некорректный JSON",
			body:           `{invalid`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"invalid request body"}`,
		},
		{
			name:           "отсутствует token",
			body:           `{}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `"status":"Error"`,
		},
		{
			name: "неизвестный ордер",
			body: `{"token":"order-404"}`,
			setupMock: func(m *MockService) {
				m.On("Capture", mock.Anything, "order-404").
					Return(models.ErrAppointmentNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"status":"Error","error":"payment order not found"}`,
		},
		{
			name: "запись отменена",
			body: `{"token":"order-1"}`,
			setupMock: func(m *MockService) {
				m.On("Capture", mock.Anything, "order-1").
					Return(models.ErrAlreadyCancelled)
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `{"status":"Error","error":"appointment is cancelled"}`,
		},
		{
			name: "платеж не завершен",
			body: `{"token":"order-1"}`,
			setupMock: func(m *MockService) {
				m.On("Capture", mock.Anything, "order-1").
					Return(models.ErrPaymentNotCompleted)
			},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `{"status":"Error","error":"payment not completed"}`,
		},
		{
			name: "ошибка провайдера",
			body: `{"token":"order-1"}`,
			setupMock: func(m *MockService) {
				m.On("Capture", mock.Anything, "order-1").
					Return(errors.New("provider unavailable"))
			},
			expectedStatus: http.StatusBadGateway,
			expectedBody:   `{"status":"Error","error":"could not capture payment"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/payments/capture", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
