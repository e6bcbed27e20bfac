package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/doctor-booking/internal/models"
)

// CreateAppointmentWithReservation создает запись на приём и бронирует слот
// в одной транзакции. Вставка в slot_reservations идёт с ON CONFLICT DO NOTHING
// по уникальному индексу (врач, дата, время): ноль затронутых строк означает,
// что слот уже занят, транзакция откатывается с models.ErrSlotUnavailable.
func (s *Storage) CreateAppointmentWithReservation(ctx context.Context, appt models.Appointment) (string, error) {
	const op = "storage.CreateAppointmentWithReservation"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	userSnapshot, err := json.Marshal(appt.UserSnapshot)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	doctorSnapshot, err := json.Marshal(appt.DoctorSnapshot)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var newUID string
	query := `INSERT INTO appointments (user_uid, doctor_uid, slot_date, slot_time,
			      amount, user_snapshot, doctor_snapshot)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING uid`
	if err = tx.QueryRowContext(ctx, query,
		appt.UserUID, appt.DoctorUID, appt.SlotDate, appt.SlotTime,
		appt.Amount, userSnapshot, doctorSnapshot).Scan(&newUID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	query = `INSERT INTO slot_reservations (doctor_uid, slot_date, slot_time, appointment_uid)
			 VALUES ($1, $2, $3, $4)
			 ON CONFLICT ON CONSTRAINT slot_reservations_doctor_slot_key DO NOTHING`
	result, err := tx.ExecContext(ctx, query, appt.DoctorUID, appt.SlotDate, appt.SlotTime, newUID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return "", fmt.Errorf("%s: %w", op, models.ErrSlotUnavailable)
	}

	if err = tx.Commit(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newUID, nil
}

// GetAppointment возвращает запись на приём по UID.
func (s *Storage) GetAppointment(ctx context.Context, appointmentUID string) (*models.Appointment, error) {
	const op = "storage.GetAppointment"
	return s.getAppointment(ctx, op, `WHERE uid = $1`, appointmentUID)
}

// GetAppointmentByOrderID возвращает запись по идентификатору платёжного заказа.
func (s *Storage) GetAppointmentByOrderID(ctx context.Context, orderID string) (*models.Appointment, error) {
	const op = "storage.GetAppointmentByOrderID"
	return s.getAppointment(ctx, op, `WHERE payment_order_id = $1 AND payment_order_id <> ''`, orderID)
}

func (s *Storage) getAppointment(ctx context.Context, op, where, arg string) (*models.Appointment, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, user_uid, doctor_uid, slot_date, slot_time, amount, cancelled,
			      paid, payment_order_id, payment_details, user_snapshot, doctor_snapshot,
			      created_at
			  FROM appointments ` + where
	a := &models.Appointment{}
	var paymentDetails sql.NullString
	var userSnapshot, doctorSnapshot []byte
	row := s.DB.QueryRowContext(ctx, query, arg)
	if err := row.Scan(&a.UID, &a.UserUID, &a.DoctorUID, &a.SlotDate, &a.SlotTime,
		&a.Amount, &a.Cancelled, &a.Paid, &a.PaymentOrderID, &paymentDetails,
		&userSnapshot, &doctorSnapshot, &a.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrAppointmentNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if paymentDetails.Valid {
		a.PaymentDetails = json.RawMessage(paymentDetails.String)
	}
	if err := json.Unmarshal(userSnapshot, &a.UserSnapshot); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := json.Unmarshal(doctorSnapshot, &a.DoctorSnapshot); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return a, nil
}

// ListAppointmentsByUser возвращает записи пациента, новые первыми.
func (s *Storage) ListAppointmentsByUser(ctx context.Context, userUID string) ([]*models.Appointment, error) {
	const op = "storage.ListAppointmentsByUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, user_uid, doctor_uid, slot_date, slot_time, amount, cancelled,
			      paid, payment_order_id, payment_details, user_snapshot, doctor_snapshot,
			      created_at
			  FROM appointments
			  WHERE user_uid = $1
			  ORDER BY created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Appointment
	for rows.Next() {
		var a models.Appointment
		var paymentDetails sql.NullString
		var userSnapshot, doctorSnapshot []byte
		if err = rows.Scan(&a.UID, &a.UserUID, &a.DoctorUID, &a.SlotDate, &a.SlotTime,
			&a.Amount, &a.Cancelled, &a.Paid, &a.PaymentOrderID, &paymentDetails,
			&userSnapshot, &doctorSnapshot, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if paymentDetails.Valid {
			a.PaymentDetails = json.RawMessage(paymentDetails.String)
		}
		if err = json.Unmarshal(userSnapshot, &a.UserSnapshot); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if err = json.Unmarshal(doctorSnapshot, &a.DoctorSnapshot); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// CancelAppointmentWithRelease помечает запись отменённой и освобождает её слот
// в одной транзакции. Ноль затронутых строк в update означает, что запись
// уже была отменена.
func (s *Storage) CancelAppointmentWithRelease(ctx context.Context, appointmentUID string) error {
	const op = "storage.CancelAppointmentWithRelease"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `UPDATE appointments
			  SET cancelled = true
			  WHERE uid = $1 AND cancelled = false`
	result, err := tx.ExecContext(ctx, query, appointmentUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, models.ErrAlreadyCancelled)
	}

	query = `DELETE FROM slot_reservations WHERE appointment_uid = $1`
	if _, err = tx.ExecContext(ctx, query, appointmentUID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// SetPaymentOrderID сохраняет идентификатор заказа платёжного провайдера.
func (s *Storage) SetPaymentOrderID(ctx context.Context, appointmentUID, orderID string) error {
	const op = "storage.SetPaymentOrderID"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE appointments
			  SET payment_order_id = $1
			  WHERE uid = $2`
	result, err := s.DB.ExecContext(ctx, query, orderID, appointmentUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, models.ErrAppointmentNotFound)
	}
	return nil
}

// MarkPaid помечает запись оплаченной и сохраняет сырой ответ провайдера.
// Обновление идёт по идентификатору заказа и только при paid = false,
// поэтому повторный capture того же заказа ничего не меняет и возвращает
// models.ErrAlreadyPaid.
func (s *Storage) MarkPaid(ctx context.Context, orderID string, details []byte) error {
	const op = "storage.MarkPaid"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE appointments
			  SET paid = true, payment_details = $1
			  WHERE payment_order_id = $2 AND paid = false AND cancelled = false`
	result, err := s.DB.ExecContext(ctx, query, details, orderID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, models.ErrAlreadyPaid)
	}
	return nil
}
