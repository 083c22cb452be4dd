package medication

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/medtrack/medtrack/internal/domain/interaction"
)

var validMedStatuses = map[string]bool{
	"active": true, "paused": true, "discontinued": true, "completed": true,
}

var validDoseStatuses = map[string]bool{
	"taken": true, "missed": true, "skipped": true,
}

type Service struct {
	medications MedicationRepository
	doseLogs    DoseLogRepository
	checker     *interaction.Checker
}

func NewService(medications MedicationRepository, doseLogs DoseLogRepository, checker *interaction.Checker) *Service {
	return &Service{medications: medications, doseLogs: doseLogs, checker: checker}
}

func (s *Service) validate(m *Medication) error {
	if m.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if strings.TrimSpace(m.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if m.FrequencyPerDay < 1 {
		return fmt.Errorf("frequency_per_day must be at least 1, got %d", m.FrequencyPerDay)
	}
	if m.Status != "" && !validMedStatuses[m.Status] {
		return fmt.Errorf("invalid status: %s", m.Status)
	}
	return nil
}

// AddMedication validates and stores a new medication, returning any
// interaction conflicts against the patient's existing active regimen so
// the caller can surface them before the first dose.
func (s *Service) AddMedication(ctx context.Context, m *Medication) ([]string, error) {
	if err := s.validate(m); err != nil {
		return nil, err
	}
	if m.Status == "" {
		m.Status = "active"
	}
	if m.MinHoursBetweenDoses <= 0 {
		m.MinHoursBetweenDoses = 4
	}

	existing, _, err := s.medications.ListByPatient(ctx, m.PatientID, "active", 100, 0)
	if err != nil {
		return nil, err
	}

	var conflicts []string
	for _, other := range existing {
		ok, reason := s.checker.CanTakeTogether(m.Name, other.Name)
		if !ok {
			conflicts = append(conflicts, fmt.Sprintf("%s + %s: %s", m.Name, other.Name, reason))
		}
	}

	if err := s.medications.Create(ctx, m); err != nil {
		return nil, err
	}
	return conflicts, nil
}

func (s *Service) GetMedication(ctx context.Context, id uuid.UUID) (*Medication, error) {
	return s.medications.GetByID(ctx, id)
}

func (s *Service) UpdateMedication(ctx context.Context, m *Medication) error {
	if m.ID == uuid.Nil {
		return fmt.Errorf("medication id is required")
	}
	if err := s.validate(m); err != nil {
		return err
	}
	return s.medications.Update(ctx, m)
}

// DiscontinueMedication ends a medication without deleting its history.
func (s *Service) DiscontinueMedication(ctx context.Context, id uuid.UUID) error {
	m, err := s.medications.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if m == nil {
		return fmt.Errorf("medication not found")
	}
	m.Status = "discontinued"
	now := time.Now().UTC()
	m.EndDate = &now
	return s.medications.Update(ctx, m)
}

func (s *Service) DeleteMedication(ctx context.Context, id uuid.UUID) error {
	return s.medications.Delete(ctx, id)
}

func (s *Service) ListMedications(ctx context.Context, patientID uuid.UUID, status string, limit, offset int) ([]*Medication, int, error) {
	if status != "" && !validMedStatuses[status] {
		return nil, 0, fmt.Errorf("invalid status: %s", status)
	}
	return s.medications.ListByPatient(ctx, patientID, status, limit, offset)
}

// LogDose records the outcome of one scheduled dose.
func (s *Service) LogDose(ctx context.Context, l *DoseLog) error {
	if l.MedicationID == uuid.Nil {
		return fmt.Errorf("medication_id is required")
	}
	if !validDoseStatuses[l.Status] {
		return fmt.Errorf("invalid dose status: %s", l.Status)
	}

	m, err := s.medications.GetByID(ctx, l.MedicationID)
	if err != nil {
		return err
	}
	if m == nil {
		return fmt.Errorf("medication not found")
	}
	l.PatientID = m.PatientID
	if l.LogDate.IsZero() {
		now := time.Now().UTC()
		l.LogDate = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	}
	return s.doseLogs.Create(ctx, l)
}

func (s *Service) DoseLogsForDay(ctx context.Context, patientID uuid.UUID, date time.Time) ([]*DoseLog, error) {
	return s.doseLogs.ListByPatientAndDate(ctx, patientID, date)
}

func (s *Service) DoseHistory(ctx context.Context, medicationID uuid.UUID, limit, offset int) ([]*DoseLog, int, error) {
	return s.doseLogs.ListByMedication(ctx, medicationID, limit, offset)
}
