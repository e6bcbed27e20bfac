// Package models содержит доменную модель врача.
// SlotsBooked собирается из таблицы бронирований при чтении:
// ключ — дата в формате 2006-01-02, значение — упорядоченный список времён.
package models

import "time"

// Doctor представляет врача, доступного для записи.
type Doctor struct {
	UID          string              `json:"uid"`           // Уникальный идентификатор врача
	Name         string              `json:"name"`          // Имя врача
	Email        string              `json:"email"`         // Электронная почта (уникальная)
	PasswordHash string              `json:"-"`             // Хэш пароля, наружу не отдается
	Speciality   string              `json:"speciality"`    // Специальность
	Degree       string              `json:"degree"`        // Учёная степень
	Experience   string              `json:"experience"`    // Стаж
	About        string              `json:"about"`         // Описание
	Fees         int                 `json:"fees"`          // Стоимость приёма
	AddressLine1 string              `json:"address_line1"` // Адрес клиники, строка 1
	AddressLine2 string              `json:"address_line2"` // Адрес клиники, строка 2
	ImageURL     string              `json:"image_url"`     // Фотография
	Available    bool                `json:"available"`     // Принимает ли врач записи
	SlotsBooked  map[string][]string `json:"slots_booked"`  // Занятые слоты: дата -> времена
	CreatedAt    time.Time           `json:"created_at"`
}
