// Package services содержит бизнес-логику бронирования и отмены записей на приём.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/doctor-booking/internal/lib/sl"
	"github.com/magabrotheeeer/doctor-booking/internal/models"
	"github.com/magabrotheeeer/doctor-booking/internal/rabbitmq"
)

// doctorsCacheKey — ключ кеша списка врачей; инвалидируется при каждом
// изменении занятых слотов.
const doctorsCacheKey = "doctors:list"

// BookingRepository определяет методы хранилища, нужные бронированию.
type BookingRepository interface {
	// GetDoctor возвращает врача по UID вместе с картой занятых слотов.
	GetDoctor(ctx context.Context, doctorUID string) (*models.Doctor, error)
	// ListDoctors возвращает всех врачей.
	ListDoctors(ctx context.Context) ([]*models.Doctor, error)
	// GetUser возвращает пациента по UID.
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	// CreateAppointmentWithReservation создает запись и бронирует слот атомарно.
	CreateAppointmentWithReservation(ctx context.Context, appt models.Appointment) (string, error)
	// GetAppointment возвращает запись по UID.
	GetAppointment(ctx context.Context, appointmentUID string) (*models.Appointment, error)
	// ListAppointmentsByUser возвращает записи пациента.
	ListAppointmentsByUser(ctx context.Context, userUID string) ([]*models.Appointment, error)
	// CancelAppointmentWithRelease отменяет запись и освобождает слот атомарно.
	CancelAppointmentWithRelease(ctx context.Context, appointmentUID string) error
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// EventPublisher публикует события бронирования в очередь уведомлений.
type EventPublisher interface {
	Publish(routingKey string, message any) error
}

// BookingService реализует бронирование, отмену и просмотр записей на приём.
type BookingService struct {
	repo      BookingRepository
	cache     Cache
	publisher EventPublisher
	log       *slog.Logger
}

// NewBookingService создает новый экземпляр BookingService.
func NewBookingService(repo BookingRepository, cache Cache, publisher EventPublisher, log *slog.Logger) *BookingService {
	return &BookingService{
		repo:      repo,
		cache:     cache,
		publisher: publisher,
		log:       log,
	}
}

// Book бронирует слот (дата + время) у врача и создает запись на приём
// со снимками профилей и стоимостью, скопированной из fees врача.
// Слот и запись фиксируются одной транзакцией хранилища: параллельное
// бронирование того же слота получает models.ErrSlotUnavailable.
func (s *BookingService) Book(ctx context.Context, userUID string, req models.DummyBooking) (*models.Appointment, error) {
	if _, err := time.Parse("2006-01-02", req.SlotDate); err != nil {
		return nil, fmt.Errorf("invalid slot date: %w", err)
	}
	if _, err := time.Parse("15:04", req.SlotTime); err != nil {
		return nil, fmt.Errorf("invalid slot time: %w", err)
	}

	doctor, err := s.repo.GetDoctor(ctx, req.DoctorUID)
	if err != nil {
		return nil, err
	}
	if !doctor.Available {
		return nil, models.ErrDoctorUnavailable
	}

	user, err := s.repo.GetUser(ctx, userUID)
	if err != nil {
		return nil, err
	}

	appt := models.Appointment{
		UserUID:   userUID,
		DoctorUID: doctor.UID,
		SlotDate:  req.SlotDate,
		SlotTime:  req.SlotTime,
		Amount:    doctor.Fees,
		UserSnapshot: models.UserSnapshot{
			Name:     user.Name,
			Email:    user.Email,
			Phone:    user.Phone,
			DOB:      user.DOB,
			Gender:   user.Gender,
			ImageURL: user.ImageURL,
		},
		DoctorSnapshot: models.DoctorSnapshot{
			Name:         doctor.Name,
			Speciality:   doctor.Speciality,
			Degree:       doctor.Degree,
			Fees:         doctor.Fees,
			AddressLine1: doctor.AddressLine1,
			AddressLine2: doctor.AddressLine2,
			ImageURL:     doctor.ImageURL,
		},
	}

	uid, err := s.repo.CreateAppointmentWithReservation(ctx, appt)
	if err != nil {
		return nil, err
	}
	appt.UID = uid

	s.log.Info("appointment booked",
		slog.String("appointment_uid", uid),
		slog.String("doctor_uid", doctor.UID),
		slog.String("slot_date", req.SlotDate),
		slog.String("slot_time", req.SlotTime))

	if err := s.cache.Invalidate(doctorsCacheKey); err != nil {
		s.log.Warn("failed to invalidate doctors cache", sl.Err(err))
	}
	s.publishEvent(rabbitmq.BookedRoutingKey, &appt)

	return &appt, nil
}

// Cancel отменяет запись на приём и освобождает слот. Отменить запись может
// только её владелец, повторная отмена возвращает models.ErrAlreadyCancelled.
func (s *BookingService) Cancel(ctx context.Context, userUID, appointmentUID string) error {
	appt, err := s.repo.GetAppointment(ctx, appointmentUID)
	if err != nil {
		return err
	}
	if appt.UserUID != userUID {
		return models.ErrUnauthorized
	}
	if appt.Cancelled {
		return models.ErrAlreadyCancelled
	}

	if err := s.repo.CancelAppointmentWithRelease(ctx, appointmentUID); err != nil {
		return err
	}

	s.log.Info("appointment cancelled", slog.String("appointment_uid", appointmentUID))

	if err := s.cache.Invalidate(doctorsCacheKey); err != nil {
		s.log.Warn("failed to invalidate doctors cache", sl.Err(err))
	}
	s.publishEvent(rabbitmq.CancelledRoutingKey, appt)

	return nil
}

// List возвращает записи пациента, новые первыми.
func (s *BookingService) List(ctx context.Context, userUID string) ([]*models.Appointment, error) {
	return s.repo.ListAppointmentsByUser(ctx, userUID)
}

// ListDoctors возвращает список врачей с картами занятых слотов,
// используя кеш или хранилище.
func (s *BookingService) ListDoctors(ctx context.Context) ([]*models.Doctor, error) {
	var result []*models.Doctor
	found, err := s.cache.Get(doctorsCacheKey, &result)
	if err != nil {
		return nil, err
	}
	if found {
		return result, nil
	}
	result, err = s.repo.ListDoctors(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(doctorsCacheKey, result, time.Minute); err != nil {
		s.log.Warn("failed to cache doctors list", sl.Err(err))
	}
	return result, nil
}

// publishEvent отправляет событие в очередь уведомлений; ошибка публикации
// не прерывает основную операцию.
func (s *BookingService) publishEvent(routingKey string, appt *models.Appointment) {
	event := models.AppointmentEvent{
		AppointmentUID: appt.UID,
		Email:          appt.UserSnapshot.Email,
		UserName:       appt.UserSnapshot.Name,
		DoctorName:     appt.DoctorSnapshot.Name,
		SlotDate:       appt.SlotDate,
		SlotTime:       appt.SlotTime,
	}
	if err := s.publisher.Publish(routingKey, event); err != nil {
		s.log.Warn("failed to publish appointment event",
			slog.String("routing_key", routingKey), sl.Err(err))
	}
}
