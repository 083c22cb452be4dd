package schedule

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/medtrack/medtrack/internal/domain/interaction"
)

func newTestPlanner() *Planner {
	checker := interaction.NewChecker(interaction.NewStaticRepository(interaction.ReferenceTable()))
	return NewPlanner(checker, NewGreedyResolver(8), 60)
}

func buildSchedule(t *testing.T, meds []MedicationInput, prefs PatientPreferences) *DailySchedule {
	t.Helper()
	p := newTestPlanner()
	sched, err := p.BuildSchedule(uuid.New(), time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC), meds, prefs)
	if err != nil {
		t.Fatalf("BuildSchedule: %v", err)
	}
	return sched
}

func itemTimes(sched *DailySchedule, name string) []TimeOfDay {
	var times []TimeOfDay
	for _, item := range sched.Items {
		if item.MedicationName == name {
			times = append(times, item.ScheduledTime)
		}
	}
	return times
}

func TestBuildSchedule_TwiceDailyWithFood(t *testing.T) {
	sched := buildSchedule(t, []MedicationInput{
		{Name: "metformin", Dosage: "500mg", FrequencyPerDay: 2, WithFood: true},
	}, dayPrefs())

	times := itemTimes(sched, "metformin")
	if len(times) != 2 {
		t.Fatalf("expected 2 doses, got %d", len(times))
	}
	if times[0] != MustTimeOfDay("08:00") || times[1] != MustTimeOfDay("18:00") {
		t.Errorf("expected doses at breakfast and dinner, got %s and %s", times[0], times[1])
	}
	for _, item := range sched.Items {
		if item.MealRelation != MealWith {
			t.Errorf("dose at %s should be with a meal, got %s", item.ScheduledTime, item.MealRelation)
		}
	}
}

func TestBuildSchedule_FrequencyHeuristics(t *testing.T) {
	// Wake an hour before breakfast so the pre-breakfast and post-wake
	// placements stay inside the waking window.
	prefs := dayPrefs()
	prefs.WakeTime = MustTimeOfDay("07:00")

	cases := []struct {
		name     string
		med      MedicationInput
		expected []string
	}{
		{"once daily fasting", MedicationInput{Name: "levothyroxine", Dosage: "50mcg", FrequencyPerDay: 1}, []string{"07:30"}},
		{"once daily with food", MedicationInput{Name: "prednisone", Dosage: "5mg", FrequencyPerDay: 1, WithFood: true}, []string{"08:00"}},
		{"twice daily fasting", MedicationInput{Name: "amoxicillin", Dosage: "500mg", FrequencyPerDay: 2}, []string{"07:30", "17:00"}},
		{"three times daily", MedicationInput{Name: "ibuprofen", Dosage: "400mg", FrequencyPerDay: 3}, []string{"08:00", "12:00", "18:00"}},
		{"four times daily", MedicationInput{Name: "acetaminophen", Dosage: "500mg", FrequencyPerDay: 4}, []string{"08:00", "12:00", "18:00", "21:30"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sched := buildSchedule(t, []MedicationInput{tc.med}, prefs)
			times := itemTimes(sched, tc.med.Name)
			if len(times) != len(tc.expected) {
				t.Fatalf("expected %d doses, got %d", len(tc.expected), len(times))
			}
			for i, want := range tc.expected {
				if times[i] != MustTimeOfDay(want) {
					t.Errorf("dose %d: expected %s, got %s", i, want, times[i])
				}
			}
		})
	}
}

func TestBuildSchedule_PreBreakfastDoseClampedToWakeEdge(t *testing.T) {
	// Default prefs wake at breakfast time, so the fasting heuristic's
	// 07:30 placement falls outside the window and moves to 08:00.
	sched := buildSchedule(t, []MedicationInput{
		{Name: "levothyroxine", Dosage: "50mcg", FrequencyPerDay: 1},
	}, dayPrefs())

	times := itemTimes(sched, "levothyroxine")
	if len(times) != 1 || times[0] != MustTimeOfDay("08:00") {
		t.Fatalf("expected dose clamped to 08:00, got %v", times)
	}

	moved := false
	for _, w := range sched.Warnings {
		if strings.Contains(w, "moved levothyroxine dose from 07:30 to 08:00") {
			moved = true
		}
	}
	if !moved {
		t.Errorf("expected a moved-dose warning, got %v", sched.Warnings)
	}
}

func TestBuildSchedule_HighFrequencyDistributesEvenly(t *testing.T) {
	sched := buildSchedule(t, []MedicationInput{
		{Name: "eyedrops", Dosage: "1 drop", FrequencyPerDay: 6},
	}, dayPrefs())

	times := itemTimes(sched, "eyedrops")
	if len(times) != 6 {
		t.Fatalf("expected 6 doses, got %d", len(times))
	}
	// 14h window / 6 doses = 140 min buckets, dose at each midpoint.
	for i, want := range []string{"09:10", "11:30", "13:50", "16:10", "18:30", "20:50"} {
		if times[i] != MustTimeOfDay(want) {
			t.Errorf("dose %d: expected %s, got %s", i, want, times[i])
		}
	}
}

func TestBuildSchedule_PreferredTimesWin(t *testing.T) {
	sched := buildSchedule(t, []MedicationInput{
		{Name: "insulin", Dosage: "10 units", FrequencyPerDay: 2, PreferredTimes: []string{"09:15", "21:15"}},
	}, dayPrefs())

	times := itemTimes(sched, "insulin")
	if len(times) != 2 || times[0] != MustTimeOfDay("09:15") || times[1] != MustTimeOfDay("21:15") {
		t.Errorf("expected preferred times to be used verbatim, got %v", times)
	}
}

func TestBuildSchedule_MalformedPreferredTimeFallsBack(t *testing.T) {
	sched := buildSchedule(t, []MedicationInput{
		{Name: "insulin", Dosage: "10 units", FrequencyPerDay: 2, PreferredTimes: []string{"9am", "21:15"}},
	}, dayPrefs())

	times := itemTimes(sched, "insulin")
	// Only one preferred time parses, so heuristics take over.
	if len(times) != 2 || times[0] != MustTimeOfDay("08:30") || times[1] != MustTimeOfDay("17:00") {
		t.Errorf("expected heuristic fallback, got %v", times)
	}

	noted := false
	for _, n := range sched.OptimizationNotes {
		if strings.Contains(n, "unparsable preferred time") {
			noted = true
		}
	}
	if !noted {
		t.Error("expected a note about the skipped preferred time")
	}
}

func TestBuildSchedule_MajorInteractionWarning(t *testing.T) {
	sched := buildSchedule(t, []MedicationInput{
		{Name: "warfarin", Dosage: "5mg", FrequencyPerDay: 1},
		{Name: "aspirin", Dosage: "81mg", FrequencyPerDay: 1},
	}, dayPrefs())

	found := false
	for _, w := range sched.Warnings {
		if strings.Contains(w, "MAJOR") && strings.Contains(w, "warfarin") && strings.Contains(w, "aspirin") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a MAJOR warning naming both drugs, got %v", sched.Warnings)
	}
}

func TestBuildSchedule_SeparationEnforced(t *testing.T) {
	sched := buildSchedule(t, []MedicationInput{
		{Name: "levothyroxine", Dosage: "50mcg", FrequencyPerDay: 1},
		{Name: "calcium", Dosage: "600mg", FrequencyPerDay: 1},
	}, dayPrefs())

	levo := itemTimes(sched, "levothyroxine")
	cal := itemTimes(sched, "calcium")
	if len(levo) != 1 || len(cal) != 1 {
		t.Fatalf("expected one dose each, got %d and %d", len(levo), len(cal))
	}

	diff := int(levo[0]) - int(cal[0])
	if diff < 0 {
		diff = -diff
	}
	if diff < 4*60 {
		warned := false
		for _, w := range sched.Warnings {
			if strings.Contains(w, "could not satisfy") {
				warned = true
			}
		}
		if !warned {
			t.Errorf("doses %s and %s are %d min apart with no inability warning", levo[0], cal[0], diff)
		}
	}
}

func TestBuildSchedule_SeparationMeasuredAcrossMidnight(t *testing.T) {
	// 23:00 and 01:00 are 22h apart on the clock face but only 2h apart
	// in circular time, so the 4h requirement must shift a dose or warn.
	prefs := nightPrefs()
	sched := buildSchedule(t, []MedicationInput{
		{Name: "levothyroxine", Dosage: "50mcg", FrequencyPerDay: 1, PreferredTimes: []string{"23:00"}},
		{Name: "calcium", Dosage: "600mg", FrequencyPerDay: 1, PreferredTimes: []string{"01:00"}},
	}, prefs)

	levo := itemTimes(sched, "levothyroxine")
	cal := itemTimes(sched, "calcium")
	if len(levo) != 1 || len(cal) != 1 {
		t.Fatalf("expected one dose each, got %d and %d", len(levo), len(cal))
	}

	if gap := circularDistance(levo[0], cal[0]); gap < 4*60 {
		warned := false
		for _, w := range sched.Warnings {
			if strings.Contains(w, "could not satisfy") {
				warned = true
			}
		}
		if !warned {
			t.Errorf("doses %s and %s have a %d min circular gap with no inability warning", levo[0], cal[0], gap)
		}
	}
}

func TestBuildSchedule_ClampedShiftKeepsSeparationWarning(t *testing.T) {
	// Resolving calcium against late-evening levothyroxine pushes it
	// past midnight; the clamp pulls it back to the sleep edge, which
	// re-violates the 4h separation, and the final check must say so.
	sched := buildSchedule(t, []MedicationInput{
		{Name: "levothyroxine", Dosage: "50mcg", FrequencyPerDay: 1, PreferredTimes: []string{"21:00"}},
		{Name: "calcium", Dosage: "600mg", FrequencyPerDay: 1, PreferredTimes: []string{"21:30"}},
	}, dayPrefs())

	cal := itemTimes(sched, "calcium")
	if len(cal) != 1 || cal[0] != MustTimeOfDay("22:00") {
		t.Fatalf("expected calcium clamped to 22:00, got %v", cal)
	}

	var moved, unsatisfied bool
	for _, w := range sched.Warnings {
		if strings.Contains(w, "moved calcium dose") {
			moved = true
		}
		if strings.Contains(w, "could not satisfy 4h separation between levothyroxine and calcium") {
			unsatisfied = true
		}
	}
	if !moved {
		t.Errorf("expected a moved-dose warning, got %v", sched.Warnings)
	}
	if !unsatisfied {
		t.Errorf("expected an unsatisfied-separation warning, got %v", sched.Warnings)
	}
}

func TestBuildSchedule_UnsatisfiableSeparationWarns(t *testing.T) {
	// 48h separation can never fit in one day, so the resolver must give
	// up and say so instead of shifting forever.
	sched := buildSchedule(t, []MedicationInput{
		{Name: "metformin", Dosage: "500mg", FrequencyPerDay: 1},
		{Name: "contrast dye", Dosage: "", FrequencyPerDay: 1},
	}, dayPrefs())

	warned := false
	for _, w := range sched.Warnings {
		if strings.Contains(w, "could not satisfy 48h separation") {
			warned = true
		}
	}
	if !warned {
		t.Errorf("expected an unsatisfied-separation warning, got %v", sched.Warnings)
	}
}

func TestBuildSchedule_StaysWithinWakingWindow(t *testing.T) {
	prefs := dayPrefs()
	// A separation shift would push calcium past midnight; it must be
	// pulled back inside the waking window instead.
	sched := buildSchedule(t, []MedicationInput{
		{Name: "levothyroxine", Dosage: "50mcg", FrequencyPerDay: 1, PreferredTimes: []string{"21:00"}},
		{Name: "calcium", Dosage: "600mg", FrequencyPerDay: 1, PreferredTimes: []string{"21:30"}},
	}, prefs)

	for _, item := range sched.Items {
		if !WithinWakingHours(item.ScheduledTime, prefs) {
			t.Errorf("%s dose at %s is outside waking hours", item.MedicationName, item.ScheduledTime)
		}
	}
}

func TestBuildSchedule_NightShiftWindow(t *testing.T) {
	prefs := nightPrefs()
	sched := buildSchedule(t, []MedicationInput{
		{Name: "eyedrops", Dosage: "1 drop", FrequencyPerDay: 6},
		{Name: "melatonin", Dosage: "3mg", FrequencyPerDay: 1, WithFood: true},
	}, prefs)

	for _, item := range sched.Items {
		if !WithinWakingHours(item.ScheduledTime, prefs) {
			t.Errorf("%s dose at %s is outside the wrapped waking window", item.MedicationName, item.ScheduledTime)
		}
	}
}

func TestBuildSchedule_Deterministic(t *testing.T) {
	meds := []MedicationInput{
		{Name: "levothyroxine", Dosage: "50mcg", FrequencyPerDay: 1},
		{Name: "calcium", Dosage: "600mg", FrequencyPerDay: 2},
		{Name: "warfarin", Dosage: "5mg", FrequencyPerDay: 1},
		{Name: "metformin", Dosage: "500mg", FrequencyPerDay: 2, WithFood: true},
	}
	first := buildSchedule(t, meds, dayPrefs())
	second := buildSchedule(t, meds, dayPrefs())

	if !reflect.DeepEqual(first.TimeSlots, second.TimeSlots) {
		t.Errorf("time slots differ between identical runs:\n%v\n%v", first.TimeSlots, second.TimeSlots)
	}
	if !reflect.DeepEqual(first.Warnings, second.Warnings) {
		t.Errorf("warnings differ between identical runs")
	}
	if !reflect.DeepEqual(first.OptimizationNotes, second.OptimizationNotes) {
		t.Errorf("notes differ between identical runs")
	}
}

func TestBuildSchedule_OptimizationNotes(t *testing.T) {
	// Wake before breakfast so the levothyroxine dose keeps its 07:30
	// empty-stomach placement and counts as a before-meals dose.
	prefs := dayPrefs()
	prefs.WakeTime = MustTimeOfDay("07:00")

	sched := buildSchedule(t, []MedicationInput{
		{Name: "med1", Dosage: "1mg", FrequencyPerDay: 3},
		{Name: "med2", Dosage: "1mg", FrequencyPerDay: 3, WithFood: true},
		{Name: "med3", Dosage: "1mg", FrequencyPerDay: 3},
		{Name: "med4", Dosage: "1mg", FrequencyPerDay: 3},
		{Name: "levothyroxine", Dosage: "50mcg", FrequencyPerDay: 1},
	}, prefs)

	var crowded, withFood, beforeMeal bool
	for _, n := range sched.OptimizationNotes {
		if strings.Contains(n, "consider splitting") {
			crowded = true
		}
		if strings.Contains(n, "with food") {
			withFood = true
		}
		if strings.Contains(n, "before meals") {
			beforeMeal = true
		}
	}
	if !crowded {
		t.Error("expected a crowded-slot note for 4 medications at the same time")
	}
	if !withFood {
		t.Error("expected a with-food note")
	}
	if !beforeMeal {
		t.Error("expected a before-meals note for the 07:30 levothyroxine dose")
	}
}

func TestBuildSchedule_InvalidMedication(t *testing.T) {
	p := newTestPlanner()
	_, err := p.BuildSchedule(uuid.New(), time.Now(), []MedicationInput{
		{Name: "metformin", Dosage: "500mg", FrequencyPerDay: 0},
	}, dayPrefs())
	if err == nil {
		t.Error("expected error for zero frequency")
	}
	_, err = p.BuildSchedule(uuid.New(), time.Now(), []MedicationInput{
		{Name: "   ", Dosage: "500mg", FrequencyPerDay: 1},
	}, dayPrefs())
	if err == nil {
		t.Error("expected error for blank name")
	}
}

func TestNextDose(t *testing.T) {
	sched := buildSchedule(t, []MedicationInput{
		{Name: "metformin", Dosage: "500mg", FrequencyPerDay: 2, WithFood: true}, // 08:00, 18:00
		{Name: "ibuprofen", Dosage: "400mg", FrequencyPerDay: 3},                 // 08:00, 12:00, 18:00
	}, dayPrefs())

	next := NextDose(sched, MustTimeOfDay("09:00"))
	if next == nil || next.ScheduledTime != MustTimeOfDay("12:00") {
		t.Fatalf("expected 12:00 dose, got %+v", next)
	}

	// Strictly after: a query at exactly 18:00 skips the 18:00 doses.
	if next := NextDose(sched, MustTimeOfDay("18:00")); next != nil {
		t.Errorf("expected no dose after 18:00, got %+v", next)
	}

	// Tie at 18:00 resolves to the first item in input order.
	next = NextDose(sched, MustTimeOfDay("12:30"))
	if next == nil || next.MedicationName != "metformin" {
		t.Errorf("expected metformin to win the 18:00 tie, got %+v", next)
	}
}

func TestReminderTimes(t *testing.T) {
	sched := buildSchedule(t, []MedicationInput{
		{Name: "metformin", Dosage: "500mg", FrequencyPerDay: 2, WithFood: true},
	}, dayPrefs())

	reminders := ReminderTimes(sched, 15)
	if len(reminders) != 2 {
		t.Fatalf("expected 2 reminders, got %d", len(reminders))
	}
	if reminders[0].RemindAt != MustTimeOfDay("07:45") || reminders[1].RemindAt != MustTimeOfDay("17:45") {
		t.Errorf("unexpected reminder times: %v", reminders)
	}
	if reminders[0].ScheduledTime != MustTimeOfDay("08:00") {
		t.Errorf("reminder should reference its dose time")
	}
}

func TestGreedyResolver_ShiftsLater(t *testing.T) {
	r := NewGreedyResolver(8)
	ledger := Ledger{}
	ledger.Record(MustTimeOfDay("08:00"), "levothyroxine")

	times, warns := r.Resolve([]TimeOfDay{MustTimeOfDay("09:00")}, ledger, "levothyroxine", 4)
	if len(warns) != 0 {
		t.Fatalf("unexpected warnings: %v", warns)
	}
	// Deficit is 180 min, shift is deficit plus a 30 min buffer.
	if times[0] != MustTimeOfDay("12:30") {
		t.Errorf("expected shift to 12:30, got %s", times[0])
	}
}

func TestGreedyResolver_NoShiftWhenSatisfied(t *testing.T) {
	r := NewGreedyResolver(8)
	ledger := Ledger{}
	ledger.Record(MustTimeOfDay("08:00"), "levothyroxine")

	times, warns := r.Resolve([]TimeOfDay{MustTimeOfDay("13:00")}, ledger, "levothyroxine", 4)
	if len(warns) != 0 || times[0] != MustTimeOfDay("13:00") {
		t.Errorf("satisfied constraint should leave the time alone, got %s %v", times[0], warns)
	}
}
