package schedule

// ReplanEngine adjusts an existing schedule after a disruption. It is a
// policy dispatch, not a re-optimizer: items are carried over verbatim
// and each disruption kind contributes its own advisory. No timezone
// math is performed for travel and no interaction re-check happens.
type ReplanEngine struct{}

func NewReplanEngine() *ReplanEngine {
	return &ReplanEngine{}
}

// Replan produces an adjusted copy of the schedule for the given
// disruption. The input schedule is never mutated; the time slot map of
// the result is rebuilt from the copied items.
func (e *ReplanEngine) Replan(current *DailySchedule, kind DisruptionKind, details string, prefs PatientPreferences) *DailySchedule {
	out := &DailySchedule{
		PatientID:         current.PatientID,
		ScheduleDate:      current.ScheduleDate,
		Items:             make([]ScheduleItem, 0, len(current.Items)),
		TimeSlots:         map[string][]string{},
		Warnings:          []string{},
		OptimizationNotes: []string{},
	}

	switch kind {
	case DisruptionTravel:
		out.Warnings = append(out.Warnings,
			"🌍 Travel detected - schedule adjusted. Maintain consistent intervals.")
	case DisruptionIllness:
		out.Warnings = append(out.Warnings,
			"🤒 Illness detected - contact provider if unable to take medications.")
	case DisruptionMissedDose:
		out.OptimizationNotes = append(out.OptimizationNotes,
			"Doses rescheduled to maintain proper spacing.")
	case DisruptionOther:
	}

	for _, item := range current.Items {
		out.Items = append(out.Items, ScheduleItem{
			MedicationName:      item.MedicationName,
			Dosage:              item.Dosage,
			ScheduledTime:       item.ScheduledTime,
			MealRelation:        item.MealRelation,
			Priority:            item.Priority,
			WithFood:            item.WithFood,
			WithWater:           item.WithWater,
			SpecialInstructions: item.SpecialInstructions,
		})
	}

	for _, item := range out.Items {
		key := item.ScheduledTime.String()
		out.TimeSlots[key] = append(out.TimeSlots[key], item.MedicationName)
	}
	return out
}
