package schedule

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MealRelation describes when a dose should be taken relative to meals.
type MealRelation string

const (
	MealBefore  MealRelation = "before"        // 30-60 min before a meal
	MealWith    MealRelation = "with"          // during a meal
	MealAfter   MealRelation = "after"         // within an hour after a meal
	MealBetween MealRelation = "between_meals" // away from all meals
	MealAny     MealRelation = "any"           // no meal restriction
)

// SlotPriority controls how freely a scheduled time may be moved.
type SlotPriority string

const (
	PriorityFixed    SlotPriority = "fixed"
	PriorityHigh     SlotPriority = "high"
	PriorityNormal   SlotPriority = "normal"
	PriorityFlexible SlotPriority = "flexible"
)

// DisruptionKind is the closed set of replanning triggers. Free-text
// disruption descriptions are mapped onto it at the API boundary.
type DisruptionKind string

const (
	DisruptionTravel     DisruptionKind = "travel"
	DisruptionIllness    DisruptionKind = "illness"
	DisruptionMissedDose DisruptionKind = "missed_dose"
	DisruptionOther      DisruptionKind = "other"
)

// ParseDisruption maps a caller-supplied disruption description onto a
// DisruptionKind by keyword, defaulting to DisruptionOther.
func ParseDisruption(s string) DisruptionKind {
	lower := strings.ToLower(s)
	switch {
	case strings.Contains(lower, "travel"):
		return DisruptionTravel
	case strings.Contains(lower, "illness"), strings.Contains(lower, "sick"):
		return DisruptionIllness
	case strings.Contains(lower, "missed"):
		return DisruptionMissedDose
	default:
		return DisruptionOther
	}
}

// MedicationInput is one medication to place on the timetable.
type MedicationInput struct {
	Name                 string   `json:"name"`
	Dosage               string   `json:"dosage"`
	FrequencyPerDay      int      `json:"frequency_per_day"`
	WithFood             bool     `json:"with_food"`
	MinHoursBetweenDoses float64  `json:"min_hours_between_doses"`
	SpecialInstructions  *string  `json:"special_instructions,omitempty"`
	PreferredTimes       []string `json:"preferred_times,omitempty"`
}

func (m *MedicationInput) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return fmt.Errorf("medication name is required")
	}
	if m.FrequencyPerDay < 1 {
		return fmt.Errorf("frequency_per_day must be at least 1, got %d", m.FrequencyPerDay)
	}
	return nil
}

// PatientPreferences captures the daily rhythm scheduling works around.
// SleepTime numerically before WakeTime means the waking window wraps
// past midnight (night shift).
type PatientPreferences struct {
	WakeTime                 TimeOfDay `json:"wake_time"`
	SleepTime                TimeOfDay `json:"sleep_time"`
	BreakfastTime            TimeOfDay `json:"breakfast_time"`
	LunchTime                TimeOfDay `json:"lunch_time"`
	DinnerTime               TimeOfDay `json:"dinner_time"`
	PreferredReminderMinutes int       `json:"preferred_reminder_minutes"`
	WorkSchedule             *string   `json:"work_schedule,omitempty"`
}

// DefaultPreferences returns the standard daytime rhythm used when a
// patient has not recorded preferences.
func DefaultPreferences() PatientPreferences {
	return PatientPreferences{
		WakeTime:                 MustTimeOfDay("08:00"),
		SleepTime:                MustTimeOfDay("22:00"),
		BreakfastTime:            MustTimeOfDay("08:00"),
		LunchTime:                MustTimeOfDay("12:00"),
		DinnerTime:               MustTimeOfDay("18:00"),
		PreferredReminderMinutes: 15,
	}
}

// ScheduleItem is a single dose placed on the daily timetable.
type ScheduleItem struct {
	MedicationName      string       `json:"medication_name"`
	Dosage              string       `json:"dosage"`
	ScheduledTime       TimeOfDay    `json:"scheduled_time"`
	MealRelation        MealRelation `json:"meal_relation"`
	Priority            SlotPriority `json:"priority"`
	WithFood            bool         `json:"with_food"`
	WithWater           bool         `json:"with_water"`
	SpecialInstructions *string      `json:"special_instructions,omitempty"`
	Conflicts           []string     `json:"conflicts,omitempty"`
}

// DailySchedule is the complete timetable for one patient for one day.
// TimeSlots maps "HH:MM" to the medication names due at that time.
type DailySchedule struct {
	ID                uuid.UUID           `json:"id,omitempty"`
	PatientID         uuid.UUID           `json:"patient_id"`
	ScheduleDate      time.Time           `json:"schedule_date"`
	Items             []ScheduleItem      `json:"items"`
	TimeSlots         map[string][]string `json:"time_slots"`
	Warnings          []string            `json:"warnings"`
	OptimizationNotes []string            `json:"optimization_notes"`
	CreatedAt         time.Time           `json:"created_at,omitempty"`
}
