package medication

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type MedicationRepository interface {
	Create(ctx context.Context, m *Medication) error
	GetByID(ctx context.Context, id uuid.UUID) (*Medication, error)
	Update(ctx context.Context, m *Medication) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByPatient(ctx context.Context, patientID uuid.UUID, status string, limit, offset int) ([]*Medication, int, error)
}

type DoseLogRepository interface {
	Create(ctx context.Context, l *DoseLog) error
	ListByPatientAndDate(ctx context.Context, patientID uuid.UUID, date time.Time) ([]*DoseLog, error)
	ListByMedication(ctx context.Context, medicationID uuid.UUID, limit, offset int) ([]*DoseLog, int, error)
}
