// Package models содержит доменную модель записи на приём.
//
// Appointment связывает пациента, врача и слот (дата + время) и хранит
// неизменяемые снимки профилей на момент бронирования: последующие правки
// профиля не меняют уже созданные записи.
package models

import (
	"encoding/json"
	"time"
)

// Appointment представляет запись пациента на приём к врачу.
type Appointment struct {
	UID            string          `json:"uid"`
	UserUID        string          `json:"user_uid"`
	DoctorUID      string          `json:"doctor_uid"`
	SlotDate       string          `json:"slot_date"` // Дата слота в формате 2006-01-02
	SlotTime       string          `json:"slot_time"` // Время слота в формате 15:04
	Amount         int             `json:"amount"`    // Стоимость, копируется из fees врача
	Cancelled      bool            `json:"cancelled"`
	Paid           bool            `json:"paid"`
	PaymentOrderID string          `json:"-"`                         // Идентификатор заказа у платёжного провайдера
	PaymentDetails json.RawMessage `json:"payment_details,omitempty"` // Сырой ответ провайдера после capture
	UserSnapshot   UserSnapshot    `json:"user_data"`
	DoctorSnapshot DoctorSnapshot  `json:"doc_data"`
	CreatedAt      time.Time       `json:"created_at"`
}

// UserSnapshot — снимок профиля пациента на момент бронирования, без хэша пароля.
type UserSnapshot struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	DOB      string `json:"dob"`
	Gender   string `json:"gender"`
	ImageURL string `json:"image_url"`
}

// DoctorSnapshot — снимок профиля врача на момент бронирования, без хэша пароля
// и без карты занятых слотов.
type DoctorSnapshot struct {
	Name         string `json:"name"`
	Speciality   string `json:"speciality"`
	Degree       string `json:"degree"`
	Fees         int    `json:"fees"`
	AddressLine1 string `json:"address_line1"`
	AddressLine2 string `json:"address_line2"`
	ImageURL     string `json:"image_url"`
}

// DummyBooking используется для приёма данных бронирования из JSON-запроса.
// Дата и время приходят строками и парсятся в бизнес-логике.
type DummyBooking struct {
	DoctorUID string `json:"doctor_uid" validate:"required,uuid"`
	SlotDate  string `json:"slot_date" validate:"required"` // 2006-01-02
	SlotTime  string `json:"slot_time" validate:"required"` // 15:04
}

// DummyPaymentCreate используется для приёма запроса на создание платёжного заказа.
type DummyPaymentCreate struct {
	AppointmentUID string `json:"appointment_uid" validate:"required,uuid"`
}

// DummyPaymentCapture используется для приёма callback-запроса на подтверждение
// платежа. Поле token — идентификатор заказа, который провайдер добавляет
// к redirect-ссылке.
type DummyPaymentCapture struct {
	OrderID string `json:"token" validate:"required"`
}

// AppointmentEvent — сообщение для очереди уведомлений о бронировании
// или отмене записи.
type AppointmentEvent struct {
	AppointmentUID string `json:"appointment_uid"`
	Email          string `json:"email"`
	UserName       string `json:"user_name"`
	DoctorName     string `json:"doctor_name"`
	SlotDate       string `json:"slot_date"`
	SlotTime       string `json:"slot_time"`
}
