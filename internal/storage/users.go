package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/magabrotheeeer/doctor-booking/internal/models"
)

// RegisterUser сохраняет нового пациента в базу данных и возвращает его UID.
// При конфликте по email возвращает models.ErrEmailTaken.
func (s *Storage) RegisterUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.RegisterUser"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newUID string
	query := `INSERT INTO users (name, email, password_hash)
			  VALUES ($1, $2, $3)
			  RETURNING uid;`
	if err := s.DB.QueryRowContext(ctx, query,
		user.Name, user.Email, user.PasswordHash).Scan(&newUID); err != nil {
		var pgErr *pgconn.PgError
		// 23505 - unique_violation
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return "", fmt.Errorf("%s: %w", op, models.ErrEmailTaken)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newUID, nil
}

// GetUserByEmail возвращает пациента по его email.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, name, email, password_hash, phone, address_line1, address_line2,
			      dob, gender, image_url, created_at
			  FROM users
			  WHERE email = $1`
	u := &models.User{}
	row := s.DB.QueryRowContext(ctx, query, email)
	if err := row.Scan(&u.UID, &u.Name, &u.Email, &u.PasswordHash, &u.Phone,
		&u.AddressLine1, &u.AddressLine2, &u.DOB, &u.Gender, &u.ImageURL, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetUser возвращает пациента по его UID.
func (s *Storage) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	const op = "storage.GetUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, name, email, password_hash, phone, address_line1, address_line2,
			      dob, gender, image_url, created_at
			  FROM users
			  WHERE uid = $1`
	u := &models.User{}
	row := s.DB.QueryRowContext(ctx, query, userUID)
	if err := row.Scan(&u.UID, &u.Name, &u.Email, &u.PasswordHash, &u.Phone,
		&u.AddressLine1, &u.AddressLine2, &u.DOB, &u.Gender, &u.ImageURL, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// UpdateUserProfile обновляет профиль пациента.
func (s *Storage) UpdateUserProfile(ctx context.Context, userUID string, profile models.DummyProfile) error {
	const op = "storage.UpdateUserProfile"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET name = $1, phone = $2, address_line1 = $3, address_line2 = $4,
			      dob = $5, gender = $6,
			      image_url = CASE WHEN $7 <> '' THEN $7 ELSE image_url END
			  WHERE uid = $8`
	result, err := s.DB.ExecContext(ctx, query,
		profile.Name, profile.Phone, profile.AddressLine1, profile.AddressLine2,
		profile.DOB, profile.Gender, profile.ImageURL, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, models.ErrUserNotFound)
	}
	return nil
}
