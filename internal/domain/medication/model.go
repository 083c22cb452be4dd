package medication

import (
	"time"

	"github.com/google/uuid"
)

// Medication is one drug in a patient's regimen.
type Medication struct {
	ID                   uuid.UUID  `json:"id"`
	PatientID            uuid.UUID  `json:"patient_id"`
	Name                 string     `json:"name"`
	Dosage               string     `json:"dosage"`
	FrequencyPerDay      int        `json:"frequency_per_day"`
	WithFood             bool       `json:"with_food"`
	MinHoursBetweenDoses float64    `json:"min_hours_between_doses"`
	SpecialInstructions  *string    `json:"special_instructions,omitempty"`
	PreferredTimes       []string   `json:"preferred_times,omitempty"`
	Status               string     `json:"status"`
	StartDate            *time.Time `json:"start_date,omitempty"`
	EndDate              *time.Time `json:"end_date,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

// DoseLog records what actually happened to one scheduled dose.
type DoseLog struct {
	ID            uuid.UUID `json:"id"`
	MedicationID  uuid.UUID `json:"medication_id"`
	PatientID     uuid.UUID `json:"patient_id"`
	LogDate       time.Time `json:"log_date"`
	ScheduledTime string    `json:"scheduled_time"` // "HH:MM"
	Status        string    `json:"status"`
	Notes         *string   `json:"notes,omitempty"`
	LoggedAt      time.Time `json:"logged_at"`
}
