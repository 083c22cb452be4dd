package schedule

import (
	"context"
	"errors"
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

type scheduleRepoPG struct{ pool *pgxpool.Pool }

func NewScheduleRepoPG(pool *pgxpool.Pool) ScheduleRepository {
	return &scheduleRepoPG{pool: pool}
}

func (r *scheduleRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

// Save replaces any existing schedule for the same patient and date.
func (r *scheduleRepoPG) Save(ctx context.Context, sched *DailySchedule) error {
	q := r.conn(ctx)

	if sched.ID == uuid.Nil {
		sched.ID = uuid.New()
	}
	_, err := q.Exec(ctx, `
		INSERT INTO daily_schedule (id, patient_id, schedule_date, warnings, optimization_notes)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (patient_id, schedule_date) DO UPDATE
		SET warnings = EXCLUDED.warnings,
		    optimization_notes = EXCLUDED.optimization_notes,
		    created_at = NOW()`,
		sched.ID, sched.PatientID, sched.ScheduleDate, sched.Warnings, sched.OptimizationNotes)
	if err != nil {
		return err
	}

	// The upsert may have kept an older row id.
	var id uuid.UUID
	err = q.QueryRow(ctx, `
		SELECT id FROM daily_schedule WHERE patient_id = $1 AND schedule_date = $2`,
		sched.PatientID, sched.ScheduleDate).Scan(&id)
	if err != nil {
		return err
	}
	sched.ID = id

	if _, err := q.Exec(ctx, `DELETE FROM schedule_item WHERE schedule_id = $1`, id); err != nil {
		return err
	}
	for pos, item := range sched.Items {
		_, err := q.Exec(ctx, `
			INSERT INTO schedule_item (id, schedule_id, position, medication_name, dosage,
				scheduled_minutes, meal_relation, priority, with_food, with_water, special_instructions)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
			uuid.New(), id, pos, item.MedicationName, item.Dosage,
			int(item.ScheduledTime), string(item.MealRelation), string(item.Priority),
			item.WithFood, item.WithWater, item.SpecialInstructions)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *scheduleRepoPG) GetByPatientAndDate(ctx context.Context, patientID uuid.UUID, date time.Time) (*DailySchedule, error) {
	q := r.conn(ctx)

	var sched DailySchedule
	err := q.QueryRow(ctx, `
		SELECT id, patient_id, schedule_date, warnings, optimization_notes, created_at
		FROM daily_schedule WHERE patient_id = $1 AND schedule_date = $2`,
		patientID, date).Scan(&sched.ID, &sched.PatientID, &sched.ScheduleDate,
		&sched.Warnings, &sched.OptimizationNotes, &sched.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := r.loadItems(ctx, &sched); err != nil {
		return nil, err
	}
	return &sched, nil
}

func (r *scheduleRepoPG) loadItems(ctx context.Context, sched *DailySchedule) error {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT medication_name, dosage, scheduled_minutes, meal_relation, priority,
			with_food, with_water, special_instructions
		FROM schedule_item WHERE schedule_id = $1 ORDER BY position`, sched.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	sched.Items = []ScheduleItem{}
	sched.TimeSlots = map[string][]string{}
	for rows.Next() {
		var item ScheduleItem
		var minutes int
		var mealRelation, priority string
		if err := rows.Scan(&item.MedicationName, &item.Dosage, &minutes, &mealRelation,
			&priority, &item.WithFood, &item.WithWater, &item.SpecialInstructions); err != nil {
			return err
		}
		item.ScheduledTime = TimeOfDay(minutes)
		item.MealRelation = MealRelation(mealRelation)
		item.Priority = SlotPriority(priority)
		sched.Items = append(sched.Items, item)

		key := item.ScheduledTime.String()
		sched.TimeSlots[key] = append(sched.TimeSlots[key], item.MedicationName)
	}
	return rows.Err()
}

func (r *scheduleRepoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*DailySchedule, int, error) {
	q := r.conn(ctx)

	var total int
	if err := q.QueryRow(ctx, `
		SELECT COUNT(*) FROM daily_schedule WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := q.Query(ctx, `
		SELECT id, patient_id, schedule_date, warnings, optimization_notes, created_at
		FROM daily_schedule WHERE patient_id = $1
		ORDER BY schedule_date DESC LIMIT $2 OFFSET $3`, patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var schedules []*DailySchedule
	for rows.Next() {
		var sched DailySchedule
		if err := rows.Scan(&sched.ID, &sched.PatientID, &sched.ScheduleDate,
			&sched.Warnings, &sched.OptimizationNotes, &sched.CreatedAt); err != nil {
			return nil, 0, err
		}
		schedules = append(schedules, &sched)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for _, sched := range schedules {
		if err := r.loadItems(ctx, sched); err != nil {
			return nil, 0, err
		}
	}
	return schedules, total, nil
}

func (r *scheduleRepoPG) DeleteByPatientAndDate(ctx context.Context, patientID uuid.UUID, date time.Time) error {
	_, err := r.conn(ctx).Exec(ctx, `
		DELETE FROM daily_schedule WHERE patient_id = $1 AND schedule_date = $2`, patientID, date)
	return err
}

type preferencesRepoPG struct{ pool *pgxpool.Pool }

func NewPreferencesRepoPG(pool *pgxpool.Pool) PreferencesRepository {
	return &preferencesRepoPG{pool: pool}
}

func (r *preferencesRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

func (r *preferencesRepoPG) Get(ctx context.Context, patientID uuid.UUID) (*PatientPreferences, error) {
	var p PatientPreferences
	var wake, sleep, breakfast, lunch, dinner int
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT wake_minutes, sleep_minutes, breakfast_minutes, lunch_minutes, dinner_minutes,
			preferred_reminder_minutes, work_schedule
		FROM patient_preferences WHERE patient_id = $1`, patientID).
		Scan(&wake, &sleep, &breakfast, &lunch, &dinner, &p.PreferredReminderMinutes, &p.WorkSchedule)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	p.WakeTime = TimeOfDay(wake)
	p.SleepTime = TimeOfDay(sleep)
	p.BreakfastTime = TimeOfDay(breakfast)
	p.LunchTime = TimeOfDay(lunch)
	p.DinnerTime = TimeOfDay(dinner)
	return &p, nil
}

func (r *preferencesRepoPG) Upsert(ctx context.Context, patientID uuid.UUID, prefs *PatientPreferences) error {
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO patient_preferences (patient_id, wake_minutes, sleep_minutes,
			breakfast_minutes, lunch_minutes, dinner_minutes, preferred_reminder_minutes, work_schedule)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		ON CONFLICT (patient_id) DO UPDATE
		SET wake_minutes = EXCLUDED.wake_minutes,
		    sleep_minutes = EXCLUDED.sleep_minutes,
		    breakfast_minutes = EXCLUDED.breakfast_minutes,
		    lunch_minutes = EXCLUDED.lunch_minutes,
		    dinner_minutes = EXCLUDED.dinner_minutes,
		    preferred_reminder_minutes = EXCLUDED.preferred_reminder_minutes,
		    work_schedule = EXCLUDED.work_schedule,
		    updated_at = NOW()`,
		patientID, int(prefs.WakeTime), int(prefs.SleepTime), int(prefs.BreakfastTime),
		int(prefs.LunchTime), int(prefs.DinnerTime), prefs.PreferredReminderMinutes, prefs.WorkSchedule)
	return err
}
