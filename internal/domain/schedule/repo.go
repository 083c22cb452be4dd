package schedule

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type ScheduleRepository interface {
	Save(ctx context.Context, sched *DailySchedule) error
	GetByPatientAndDate(ctx context.Context, patientID uuid.UUID, date time.Time) (*DailySchedule, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*DailySchedule, int, error)
	DeleteByPatientAndDate(ctx context.Context, patientID uuid.UUID, date time.Time) error
}

type PreferencesRepository interface {
	Get(ctx context.Context, patientID uuid.UUID) (*PatientPreferences, error)
	Upsert(ctx context.Context, patientID uuid.UUID, prefs *PatientPreferences) error
}
