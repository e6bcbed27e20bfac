// Package models содержит доменную модель пациента сервиса записи к врачу,
// включающую учётные данные, профиль и дату создания.
// Структура используется в бизнес‑логике и при работе с хранилищем.
package models

import "time"

// User представляет зарегистрированного пациента.
type User struct {
	UID          string    `json:"uid"`           // Уникальный идентификатор пользователя
	Name         string    `json:"name"`          // Имя пользователя
	Email        string    `json:"email"`         // Электронная почта (уникальная)
	PasswordHash string    `json:"-"`             // Хэш пароля, наружу не отдается
	Phone        string    `json:"phone"`         // Телефон
	AddressLine1 string    `json:"address_line1"` // Адрес, строка 1
	AddressLine2 string    `json:"address_line2"` // Адрес, строка 2
	DOB          string    `json:"dob"`           // Дата рождения
	Gender       string    `json:"gender"`        // Пол
	ImageURL     string    `json:"image_url"`     // Ссылка на аватар
	CreatedAt    time.Time `json:"created_at"`
}

// DummyRegister используется для приёма данных регистрации из JSON-запроса.
type DummyRegister struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"` // Минимум 8 символов
}

// DummyLogin используется для приёма данных входа из JSON-запроса.
type DummyLogin struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// DummyProfile используется для приёма данных обновления профиля из JSON-запроса.
// Состав обязательных полей повторяет форму профиля в веб-клиенте.
type DummyProfile struct {
	Name         string `json:"name" validate:"required"`
	Phone        string `json:"phone" validate:"required"`
	AddressLine1 string `json:"address_line1"`
	AddressLine2 string `json:"address_line2"`
	DOB          string `json:"dob" validate:"required"`
	Gender       string `json:"gender" validate:"required"`
	ImageURL     string `json:"image_url"`
}
