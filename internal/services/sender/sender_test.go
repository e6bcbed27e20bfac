package services

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/doctor-booking/internal/lib/smtp"
	"github.com/magabrotheeeer/doctor-booking/internal/models"
)

type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) Connect() (smtp.Client, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(smtp.Client), args.Error(1)
}

func (m *MockTransport) GetSMTPUser() string {
	args := m.Called()
	return args.String(0)
}

type MockSMTPClient struct {
	mock.Mock
}

func (m *MockSMTPClient) Mail(from string) error {
	args := m.Called(from)
	return args.Error(0)
}

func (m *MockSMTPClient) Rcpt(to string) error {
	args := m.Called(to)
	return args.Error(0)
}

func (m *MockSMTPClient) Data() (io.WriteCloser, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.WriteCloser), args.Error(1)
}

func (m *MockSMTPClient) Close() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockSMTPClient) Quit() error {
	args := m.Called()
	return args.Error(0)
}

type MockSMTPWriter struct {
	mock.Mock
}

func (m *MockSMTPWriter) Write(p []byte) (n int, err error) {
	args := m.Called(p)
	return args.Int(0), args.Error(1)
}

func (m *MockSMTPWriter) Close() error {
	args := m.Called()
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func testEventBody(t *testing.T) []byte {
	body, err := json.Marshal(models.AppointmentEvent{
		AppointmentUID: "appt-1",
		Email:          "ivan@example.com",
		UserName:       "Ivan Petrov",
		DoctorName:     "Dr. Richard James",
		SlotDate:       "2026-09-15",
		SlotTime:       "10:30",
	})
	assert.NoError(t, err)
	return body
}

func TestSenderService_SendAppointmentBooked(t *testing.T) {
	tests := []struct {
		name       string
		body       []byte
		setupMocks func(tr *MockTransport, cl *MockSMTPClient, w *MockSMTPWriter)
		wantErr    bool
	}{
		{
			name: "success send",
			setupMocks: func(tr *MockTransport, cl *MockSMTPClient, w *MockSMTPWriter) {
				tr.On("GetSMTPUser").Return("noreply@clinic.example")
				tr.On("Connect").Return(cl, nil).Once()
				cl.On("Mail", "noreply@clinic.example").Return(nil).Once()
				cl.On("Rcpt", "ivan@example.com").Return(nil).Once()
				cl.On("Data").Return(w, nil).Once()
				w.On("Write", mock.Anything).Return(0, nil).Once()
				w.On("Close").Return(nil).Once()
				cl.On("Quit").Return(nil).Once()
				cl.On("Close").Return(nil).Once()
			},
		},
		{
			name:       "invalid message body",
			body:       []byte(`{invalid`),
			setupMocks: func(_ *MockTransport, _ *MockSMTPClient, _ *MockSMTPWriter) {},
			wantErr:    true,
		},
		{
			name: "connect failure",
			setupMocks: func(tr *MockTransport, _ *MockSMTPClient, _ *MockSMTPWriter) {
				tr.On("GetSMTPUser").Return("noreply@clinic.example")
				tr.On("Connect").Return(nil, errors.New("connection refused")).Once()
			},
			wantErr: true,
		},
		{
			name: "recipient rejected",
			setupMocks: func(tr *MockTransport, cl *MockSMTPClient, _ *MockSMTPWriter) {
				tr.On("GetSMTPUser").Return("noreply@clinic.example")
				tr.On("Connect").Return(cl, nil).Once()
				cl.On("Mail", "noreply@clinic.example").Return(nil).Once()
				cl.On("Rcpt", "ivan@example.com").Return(errors.New("mailbox unavailable")).Once()
				cl.On("Close").Return(nil).Once()
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transport := new(MockTransport)
			client := new(MockSMTPClient)
			writer := new(MockSMTPWriter)
			tt.setupMocks(transport, client, writer)

			body := tt.body
			if body == nil {
				body = testEventBody(t)
			}

			svc := NewSenderService(newNoopLogger(), transport)
			err := svc.SendAppointmentBooked(body)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			transport.AssertExpectations(t)
			client.AssertExpectations(t)
			writer.AssertExpectations(t)
		})
	}
}

func TestSenderService_SendAppointmentCancelled(t *testing.T) {
	transport := new(MockTransport)
	client := new(MockSMTPClient)
	writer := new(MockSMTPWriter)

	var written []byte
	transport.On("GetSMTPUser").Return("noreply@clinic.example")
	transport.On("Connect").Return(client, nil).Once()
	client.On("Mail", "noreply@clinic.example").Return(nil).Once()
	client.On("Rcpt", "ivan@example.com").Return(nil).Once()
	client.On("Data").Return(writer, nil).Once()
	writer.On("Write", mock.Anything).Run(func(args mock.Arguments) {
		written = args.Get(0).([]byte)
	}).Return(0, nil).Once()
	writer.On("Close").Return(nil).Once()
	client.On("Quit").Return(nil).Once()
	client.On("Close").Return(nil).Once()

	svc := NewSenderService(newNoopLogger(), transport)
	err := svc.SendAppointmentCancelled(testEventBody(t))

	assert.NoError(t, err)
	assert.Contains(t, string(written), "Subject: Appointment cancelled")
	assert.Contains(t, string(written), "Dr. Richard James")
	transport.AssertExpectations(t)
	client.AssertExpectations(t)
	writer.AssertExpectations(t)
}
