// Package storage реализует хранилище данных на основе PostgreSQL
// для пациентов, врачей и записей на приём. Бронирование слота и создание
// записи выполняются в одной транзакции, уникальный индекс по
// (врач, дата, время) защищает от двойного бронирования.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Storage инкапсулирует соединение с базой данных PostgreSQL
// и реализует методы работы с пациентами, врачами и записями.
type Storage struct {
	DB *sql.DB
}

// New создаёт подключение к PostgreSQL.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

// CheckDatabaseReady проверяет готовность базы данных.
func CheckDatabaseReady(storage *Storage) error {
	var exists bool
	err := storage.DB.QueryRow(`SELECT EXISTS (
        SELECT FROM information_schema.tables
        WHERE table_name = 'appointments'
    )`).Scan(&exists)
	if err != nil || !exists {
		return fmt.Errorf("required table appointments missing or query error: %w", err)
	}
	return nil
}
