package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MedicationSource supplies a patient's active regimen when the caller
// does not list medications explicitly. Implemented by an adapter over
// the medication service.
type MedicationSource interface {
	ActiveMedications(ctx context.Context, patientID uuid.UUID) ([]MedicationInput, error)
}

type Service struct {
	schedules ScheduleRepository
	prefs     PreferencesRepository
	meds      MedicationSource
	planner   *Planner
	replanner *ReplanEngine
}

func NewService(schedules ScheduleRepository, prefs PreferencesRepository, meds MedicationSource, planner *Planner, replanner *ReplanEngine) *Service {
	return &Service{
		schedules: schedules,
		prefs:     prefs,
		meds:      meds,
		planner:   planner,
		replanner: replanner,
	}
}

// preferencesFor loads the patient's stored preferences, falling back to
// the default daytime rhythm when none are recorded.
func (s *Service) preferencesFor(ctx context.Context, patientID uuid.UUID) (PatientPreferences, error) {
	p, err := s.prefs.Get(ctx, patientID)
	if err != nil {
		return PatientPreferences{}, err
	}
	if p == nil {
		return DefaultPreferences(), nil
	}
	return *p, nil
}

// PlanDay builds and persists a schedule for the given date. When the
// medication list is empty the patient's active regimen is used instead.
func (s *Service) PlanDay(ctx context.Context, patientID uuid.UUID, date time.Time, medications []MedicationInput) (*DailySchedule, error) {
	if patientID == uuid.Nil {
		return nil, fmt.Errorf("patient_id is required")
	}

	if len(medications) == 0 {
		var err error
		medications, err = s.meds.ActiveMedications(ctx, patientID)
		if err != nil {
			return nil, fmt.Errorf("load active medications: %w", err)
		}
		if len(medications) == 0 {
			return nil, fmt.Errorf("patient has no active medications to schedule")
		}
	}

	prefs, err := s.preferencesFor(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("load preferences: %w", err)
	}

	sched, err := s.planner.BuildSchedule(patientID, date, medications, prefs)
	if err != nil {
		return nil, err
	}
	if err := s.schedules.Save(ctx, sched); err != nil {
		return nil, fmt.Errorf("save schedule: %w", err)
	}
	return sched, nil
}

func (s *Service) GetSchedule(ctx context.Context, patientID uuid.UUID, date time.Time) (*DailySchedule, error) {
	return s.schedules.GetByPatientAndDate(ctx, patientID, date)
}

func (s *Service) ListSchedules(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*DailySchedule, int, error) {
	return s.schedules.ListByPatient(ctx, patientID, limit, offset)
}

// Replan loads the schedule for the date, applies the disruption policy
// and persists the adjusted copy in its place.
func (s *Service) Replan(ctx context.Context, patientID uuid.UUID, date time.Time, disruption, details string) (*DailySchedule, error) {
	current, err := s.schedules.GetByPatientAndDate(ctx, patientID, date)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, fmt.Errorf("no schedule found for %s", date.Format("2006-01-02"))
	}

	prefs, err := s.preferencesFor(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("load preferences: %w", err)
	}

	adjusted := s.replanner.Replan(current, ParseDisruption(disruption), details, prefs)
	if err := s.schedules.Save(ctx, adjusted); err != nil {
		return nil, fmt.Errorf("save schedule: %w", err)
	}
	return adjusted, nil
}

// NextDose returns the next scheduled item strictly after the given
// time, or nil when nothing remains that day.
func (s *Service) NextDose(ctx context.Context, patientID uuid.UUID, date time.Time, at TimeOfDay) (*ScheduleItem, error) {
	sched, err := s.schedules.GetByPatientAndDate(ctx, patientID, date)
	if err != nil {
		return nil, err
	}
	if sched == nil {
		return nil, fmt.Errorf("no schedule found for %s", date.Format("2006-01-02"))
	}
	return NextDose(sched, at), nil
}

// Reminders derives reminder send times for the day's schedule using the
// patient's preferred lead time.
func (s *Service) Reminders(ctx context.Context, patientID uuid.UUID, date time.Time) ([]Reminder, error) {
	sched, err := s.schedules.GetByPatientAndDate(ctx, patientID, date)
	if err != nil {
		return nil, err
	}
	if sched == nil {
		return nil, fmt.Errorf("no schedule found for %s", date.Format("2006-01-02"))
	}
	prefs, err := s.preferencesFor(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("load preferences: %w", err)
	}
	return ReminderTimes(sched, prefs.PreferredReminderMinutes), nil
}

func (s *Service) GetPreferences(ctx context.Context, patientID uuid.UUID) (PatientPreferences, error) {
	return s.preferencesFor(ctx, patientID)
}

func (s *Service) SavePreferences(ctx context.Context, patientID uuid.UUID, prefs *PatientPreferences) error {
	if patientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if prefs.PreferredReminderMinutes < 0 {
		return fmt.Errorf("preferred_reminder_minutes must not be negative")
	}
	return s.prefs.Upsert(ctx, patientID, prefs)
}
