// Package models определяет доменные ошибки сервиса записи к врачу.
// Слои хранилища и бизнес-логики возвращают их обёрнутыми через %w,
// обработчики сопоставляют через errors.Is с HTTP-статусами.
package models

import "errors"

var (
	// ErrUserNotFound — пациент не найден.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailTaken — электронная почта уже зарегистрирована.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials — неверная пара email/пароль.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrDoctorNotFound — врач не найден.
	ErrDoctorNotFound = errors.New("doctor not found")
	// ErrDoctorUnavailable — врач не принимает записи.
	ErrDoctorUnavailable = errors.New("doctor not available")
	// ErrSlotUnavailable — слот уже занят.
	ErrSlotUnavailable = errors.New("slot not available")

	// ErrAppointmentNotFound — запись на приём не найдена.
	ErrAppointmentNotFound = errors.New("appointment not found")
	// ErrUnauthorized — запись принадлежит другому пациенту.
	ErrUnauthorized = errors.New("unauthorized action")
	// ErrAlreadyCancelled — запись уже отменена.
	ErrAlreadyCancelled = errors.New("appointment already cancelled")

	// ErrAlreadyPaid — приём уже оплачен, повторный capture не выполняется.
	ErrAlreadyPaid = errors.New("appointment already paid")
	// ErrPaymentNotCompleted — провайдер вернул статус, отличный от COMPLETED.
	ErrPaymentNotCompleted = errors.New("payment not completed")
)
