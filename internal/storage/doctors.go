package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/doctor-booking/internal/models"
)

// CreateDoctor сохраняет нового врача и возвращает его UID.
func (s *Storage) CreateDoctor(ctx context.Context, doctor models.Doctor) (string, error) {
	const op = "storage.CreateDoctor"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newUID string
	query := `INSERT INTO doctors (name, email, password_hash, speciality, degree,
			      experience, about, fees, address_line1, address_line2, image_url, available)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			  RETURNING uid;`
	if err := s.DB.QueryRowContext(ctx, query,
		doctor.Name, doctor.Email, doctor.PasswordHash, doctor.Speciality, doctor.Degree,
		doctor.Experience, doctor.About, doctor.Fees, doctor.AddressLine1, doctor.AddressLine2,
		doctor.ImageURL, doctor.Available).Scan(&newUID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newUID, nil
}

// GetDoctor возвращает врача по UID вместе с картой занятых слотов.
func (s *Storage) GetDoctor(ctx context.Context, doctorUID string) (*models.Doctor, error) {
	const op = "storage.GetDoctor"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, name, email, password_hash, speciality, degree, experience,
			      about, fees, address_line1, address_line2, image_url, available, created_at
			  FROM doctors
			  WHERE uid = $1`
	d := &models.Doctor{}
	row := s.DB.QueryRowContext(ctx, query, doctorUID)
	if err := row.Scan(&d.UID, &d.Name, &d.Email, &d.PasswordHash, &d.Speciality, &d.Degree,
		&d.Experience, &d.About, &d.Fees, &d.AddressLine1, &d.AddressLine2, &d.ImageURL,
		&d.Available, &d.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrDoctorNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	slots, err := s.listSlots(ctx, doctorUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	d.SlotsBooked = slots
	return d, nil
}

// ListDoctors возвращает всех врачей с их картами занятых слотов.
func (s *Storage) ListDoctors(ctx context.Context) ([]*models.Doctor, error) {
	const op = "storage.ListDoctors"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, name, email, password_hash, speciality, degree, experience,
			      about, fees, address_line1, address_line2, image_url, available, created_at
			  FROM doctors
			  ORDER BY name`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Doctor
	for rows.Next() {
		var d models.Doctor
		if err = rows.Scan(&d.UID, &d.Name, &d.Email, &d.PasswordHash, &d.Speciality,
			&d.Degree, &d.Experience, &d.About, &d.Fees, &d.AddressLine1, &d.AddressLine2,
			&d.ImageURL, &d.Available, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		d.SlotsBooked = map[string][]string{}
		result = append(result, &d)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	byUID := make(map[string]*models.Doctor, len(result))
	for _, d := range result {
		byUID[d.UID] = d
	}
	if err = s.fillSlots(ctx, byUID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// listSlots собирает карту занятых слотов одного врача.
func (s *Storage) listSlots(ctx context.Context, doctorUID string) (map[string][]string, error) {
	query := `SELECT slot_date, slot_time
			  FROM slot_reservations
			  WHERE doctor_uid = $1
			  ORDER BY slot_date, slot_time`
	rows, err := s.DB.QueryContext(ctx, query, doctorUID)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	slots := map[string][]string{}
	for rows.Next() {
		var slotDate, slotTime string
		if err = rows.Scan(&slotDate, &slotTime); err != nil {
			return nil, err
		}
		slots[slotDate] = append(slots[slotDate], slotTime)
	}
	return slots, rows.Err()
}

// fillSlots заполняет карты занятых слотов для набора врачей одним запросом.
func (s *Storage) fillSlots(ctx context.Context, doctors map[string]*models.Doctor) error {
	query := `SELECT doctor_uid, slot_date, slot_time
			  FROM slot_reservations
			  ORDER BY slot_date, slot_time`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer func() {
		_ = rows.Close()
	}()

	for rows.Next() {
		var doctorUID, slotDate, slotTime string
		if err = rows.Scan(&doctorUID, &slotDate, &slotTime); err != nil {
			return err
		}
		if d, ok := doctors[doctorUID]; ok {
			d.SlotsBooked[slotDate] = append(d.SlotsBooked[slotDate], slotTime)
		}
	}
	return rows.Err()
}
