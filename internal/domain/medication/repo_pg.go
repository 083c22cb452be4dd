package medication

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medtrack/medtrack/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

func conn(ctx context.Context, pool *pgxpool.Pool) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return pool
}

type medicationRepoPG struct{ pool *pgxpool.Pool }

func NewMedicationRepoPG(pool *pgxpool.Pool) MedicationRepository {
	return &medicationRepoPG{pool: pool}
}

const medCols = `id, patient_id, name, dosage, frequency_per_day, with_food,
	min_hours_between_doses, special_instructions, preferred_times, status,
	start_date, end_date, created_at, updated_at`

func scanMedication(row pgx.Row) (*Medication, error) {
	var m Medication
	err := row.Scan(&m.ID, &m.PatientID, &m.Name, &m.Dosage, &m.FrequencyPerDay,
		&m.WithFood, &m.MinHoursBetweenDoses, &m.SpecialInstructions, &m.PreferredTimes,
		&m.Status, &m.StartDate, &m.EndDate, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *medicationRepoPG) Create(ctx context.Context, m *Medication) error {
	m.ID = uuid.New()
	_, err := conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO medication (id, patient_id, name, dosage, frequency_per_day, with_food,
			min_hours_between_doses, special_instructions, preferred_times, status, start_date, end_date)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		m.ID, m.PatientID, m.Name, m.Dosage, m.FrequencyPerDay, m.WithFood,
		m.MinHoursBetweenDoses, m.SpecialInstructions, m.PreferredTimes, m.Status,
		m.StartDate, m.EndDate)
	return err
}

func (r *medicationRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Medication, error) {
	return scanMedication(conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+medCols+` FROM medication WHERE id = $1`, id))
}

func (r *medicationRepoPG) Update(ctx context.Context, m *Medication) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `
		UPDATE medication SET name=$2, dosage=$3, frequency_per_day=$4, with_food=$5,
			min_hours_between_doses=$6, special_instructions=$7, preferred_times=$8,
			status=$9, start_date=$10, end_date=$11, updated_at=NOW()
		WHERE id = $1`,
		m.ID, m.Name, m.Dosage, m.FrequencyPerDay, m.WithFood,
		m.MinHoursBetweenDoses, m.SpecialInstructions, m.PreferredTimes,
		m.Status, m.StartDate, m.EndDate)
	return err
}

func (r *medicationRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM medication WHERE id = $1`, id)
	return err
}

func (r *medicationRepoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, status string, limit, offset int) ([]*Medication, int, error) {
	q := conn(ctx, r.pool)

	where := `WHERE patient_id = $1`
	args := []interface{}{patientID}
	if status != "" {
		where += ` AND status = $2`
		args = append(args, status)
	}

	var total int
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM medication `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, offset)
	n := len(args)
	rows, err := q.Query(ctx, fmt.Sprintf(
		`SELECT `+medCols+` FROM medication `+where+` ORDER BY created_at LIMIT $%d OFFSET $%d`,
		n-1, n), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var meds []*Medication
	for rows.Next() {
		var m Medication
		if err := rows.Scan(&m.ID, &m.PatientID, &m.Name, &m.Dosage, &m.FrequencyPerDay,
			&m.WithFood, &m.MinHoursBetweenDoses, &m.SpecialInstructions, &m.PreferredTimes,
			&m.Status, &m.StartDate, &m.EndDate, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, 0, err
		}
		meds = append(meds, &m)
	}
	return meds, total, rows.Err()
}

type doseLogRepoPG struct{ pool *pgxpool.Pool }

func NewDoseLogRepoPG(pool *pgxpool.Pool) DoseLogRepository {
	return &doseLogRepoPG{pool: pool}
}

const doseLogCols = `id, medication_id, patient_id, log_date, scheduled_time, status, notes, logged_at`

func (r *doseLogRepoPG) Create(ctx context.Context, l *DoseLog) error {
	l.ID = uuid.New()
	_, err := conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO dose_log (id, medication_id, patient_id, log_date, scheduled_time, status, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		l.ID, l.MedicationID, l.PatientID, l.LogDate, l.ScheduledTime, l.Status, l.Notes)
	return err
}

func (r *doseLogRepoPG) ListByPatientAndDate(ctx context.Context, patientID uuid.UUID, date time.Time) ([]*DoseLog, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, `
		SELECT `+doseLogCols+` FROM dose_log
		WHERE patient_id = $1 AND log_date = $2 ORDER BY scheduled_time`, patientID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDoseLogs(rows)
}

func (r *doseLogRepoPG) ListByMedication(ctx context.Context, medicationID uuid.UUID, limit, offset int) ([]*DoseLog, int, error) {
	q := conn(ctx, r.pool)

	var total int
	if err := q.QueryRow(ctx, `
		SELECT COUNT(*) FROM dose_log WHERE medication_id = $1`, medicationID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := q.Query(ctx, `
		SELECT `+doseLogCols+` FROM dose_log
		WHERE medication_id = $1 ORDER BY log_date DESC, scheduled_time DESC
		LIMIT $2 OFFSET $3`, medicationID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	logs, err := scanDoseLogs(rows)
	return logs, total, err
}

func scanDoseLogs(rows pgx.Rows) ([]*DoseLog, error) {
	var logs []*DoseLog
	for rows.Next() {
		var l DoseLog
		if err := rows.Scan(&l.ID, &l.MedicationID, &l.PatientID, &l.LogDate,
			&l.ScheduledTime, &l.Status, &l.Notes, &l.LoggedAt); err != nil {
			return nil, err
		}
		logs = append(logs, &l)
	}
	return logs, rows.Err()
}
