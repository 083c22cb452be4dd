package schedule

// SlotGrid generates evenly spaced candidate dose times between wake and
// sleep, inclusive. When the sleep time is numerically at or before the
// wake time the window wraps past midnight, so a night-shift patient with
// wake=19:00 sleep=07:00 gets slots on both sides of midnight.
func SlotGrid(prefs PatientPreferences, intervalMinutes int) []TimeOfDay {
	if intervalMinutes <= 0 {
		intervalMinutes = 60
	}

	start := int(prefs.WakeTime)
	end := int(prefs.SleepTime)
	if end <= start {
		end += minutesPerDay
	}

	var slots []TimeOfDay
	for m := start; m <= end; m += intervalMinutes {
		t := TimeOfDay(m % minutesPerDay)
		if WithinWakingHours(t, prefs) {
			slots = append(slots, t)
		}
	}
	return slots
}

// WithinWakingHours reports whether t falls inside the patient's waking
// window, inclusive on both ends, accounting for midnight wraparound.
func WithinWakingHours(t TimeOfDay, prefs PatientPreferences) bool {
	if prefs.WakeTime < prefs.SleepTime {
		return t >= prefs.WakeTime && t <= prefs.SleepTime
	}
	return t >= prefs.WakeTime || t <= prefs.SleepTime
}

// ClassifyMealRelation labels a dose time relative to the patient's
// meals. Within 15 minutes of a meal counts as with it, up to an hour
// before or after gets before/after, anything else is between meals
// unless the medication requires food, in which case the best effort is
// to call it with a meal anyway.
func ClassifyMealRelation(t TimeOfDay, prefs PatientPreferences, needsFood bool) MealRelation {
	for _, meal := range []TimeOfDay{prefs.BreakfastTime, prefs.LunchTime, prefs.DinnerTime} {
		diff := int(t) - int(meal)
		switch {
		case diff >= -15 && diff <= 15:
			return MealWith
		case diff >= -60 && diff < -15:
			return MealBefore
		case diff > 15 && diff <= 60:
			return MealAfter
		}
	}
	if needsFood {
		return MealWith
	}
	return MealBetween
}
