package schedule

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/medtrack/medtrack/internal/domain/interaction"
)

// Ledger is the running map of committed dose times for one planning
// call, keyed by "HH:MM". It is local to a single BuildSchedule call and
// is the only mutable state the planner threads through the medication
// loop.
type Ledger map[string][]string

// Record commits a dose time for a medication.
func (l Ledger) Record(t TimeOfDay, medication string) {
	key := t.String()
	l[key] = append(l[key], medication)
}

// TimesFor returns every committed time for a medication, sorted.
func (l Ledger) TimesFor(medication string) []TimeOfDay {
	var times []TimeOfDay
	for key, meds := range l {
		for _, m := range meds {
			if m == medication {
				if t, err := ParseTimeOfDay(key); err == nil {
					times = append(times, t)
				}
				break
			}
		}
	}
	sort.Slice(times, func(i, j int) bool { return times[i] < times[j] })
	return times
}

// ConflictResolver adjusts a medication's candidate dose times so they
// respect a required separation from another medication's committed
// times. Implementations return the adjusted times plus any warnings
// about constraints they could not satisfy.
type ConflictResolver interface {
	Resolve(times []TimeOfDay, ledger Ledger, otherMed string, sepHours int) ([]TimeOfDay, []string)
}

// greedyResolver pushes a violating dose later by the separation deficit
// plus a 30 minute buffer, one dose at a time, without backtracking. The
// result depends on medication input order. maxShifts bounds how many
// times a single dose may be pushed before the resolver gives up and
// reports the constraint as unsatisfied.
type greedyResolver struct {
	maxShifts int
}

// NewGreedyResolver returns the default order-dependent conflict
// resolver.
func NewGreedyResolver(maxShifts int) ConflictResolver {
	if maxShifts <= 0 {
		maxShifts = 8
	}
	return &greedyResolver{maxShifts: maxShifts}
}

func (r *greedyResolver) Resolve(times []TimeOfDay, ledger Ledger, otherMed string, sepHours int) ([]TimeOfDay, []string) {
	sepMins := sepHours * 60
	otherTimes := ledger.TimesFor(otherMed)

	adjusted := make([]TimeOfDay, 0, len(times))
	var warnings []string

	for _, t := range times {
		shifts := 0
		for {
			deficit := worstDeficit(t, otherTimes, sepMins)
			if deficit == 0 {
				break
			}
			if shifts >= r.maxShifts {
				warnings = append(warnings, fmt.Sprintf(
					"could not satisfy %dh separation from %s for dose at %s", sepHours, otherMed, t))
				break
			}
			t = t.Add(deficit + 30)
			shifts++
		}
		adjusted = append(adjusted, t)
	}
	return adjusted, warnings
}

// worstDeficit returns how many more minutes of separation the
// candidate time needs against the closest committed time, or 0 when the
// requirement already holds. Gaps are circular so that doses on either
// side of midnight are measured by their true distance.
func worstDeficit(t TimeOfDay, committed []TimeOfDay, sepMins int) int {
	worst := 0
	for _, other := range committed {
		gap := circularDistance(t, other)
		if gap < sepMins && sepMins-gap > worst {
			worst = sepMins - gap
		}
	}
	return worst
}

// Planner builds conflict-aware daily medication timetables.
type Planner struct {
	checker      *interaction.Checker
	resolver     ConflictResolver
	slotInterval int
}

// NewPlanner wires a planner with its interaction checker and conflict
// resolver. slotIntervalMinutes controls slot grid granularity for
// evenly distributed dosing; 0 means hourly.
func NewPlanner(checker *interaction.Checker, resolver ConflictResolver, slotIntervalMinutes int) *Planner {
	if slotIntervalMinutes <= 0 {
		slotIntervalMinutes = 60
	}
	return &Planner{checker: checker, resolver: resolver, slotInterval: slotIntervalMinutes}
}

// BuildSchedule creates the daily timetable for one patient. Medications
// are placed in input order: explicit preferred times win, otherwise
// frequency heuristics anchored on the patient's meals apply, then each
// medication's times are nudged to respect separation requirements
// against everything already committed to the ledger. A final pass
// re-checks every separation against the committed times and records an
// inability warning for any pair still closer than required.
func (p *Planner) BuildSchedule(patientID uuid.UUID, scheduleDate time.Time, medications []MedicationInput, prefs PatientPreferences) (*DailySchedule, error) {
	for i := range medications {
		if err := medications[i].Validate(); err != nil {
			return nil, fmt.Errorf("medication %d: %w", i, err)
		}
	}

	sched := &DailySchedule{
		PatientID:         patientID,
		ScheduleDate:      scheduleDate,
		Items:             []ScheduleItem{},
		TimeSlots:         map[string][]string{},
		Warnings:          []string{},
		OptimizationNotes: []string{},
	}

	names := make([]string, len(medications))
	for i, m := range medications {
		names[i] = m.Name
	}

	interactions := p.checker.CheckAllInteractions(names)
	separations := p.checker.SeparationRequirements(names)

	for _, in := range interactions {
		if in.Severity == interaction.SeverityContraindicated || in.Severity == interaction.SeverityMajor {
			sched.Warnings = append(sched.Warnings, fmt.Sprintf(
				"⚠️ %s: %s + %s - %s",
				strings.ToUpper(string(in.Severity)), in.DrugA, in.DrugB, in.Description))
		}
	}

	ledger := Ledger{}

	for _, med := range medications {
		times, notes := p.placeMedication(med, prefs)
		sched.OptimizationNotes = append(sched.OptimizationNotes, notes...)

		for _, other := range names {
			if other == med.Name {
				continue
			}
			sepHours := separations[interaction.PairKey(med.Name, other)]
			if sepHours == 0 {
				continue
			}
			var warns []string
			times, warns = p.resolver.Resolve(times, ledger, other, sepHours)
			sched.Warnings = append(sched.Warnings, warns...)
		}

		times = p.clampToWakingWindow(times, prefs, med.Name, sched)

		for _, t := range times {
			sched.Items = append(sched.Items, ScheduleItem{
				MedicationName:      med.Name,
				Dosage:              med.Dosage,
				ScheduledTime:       t,
				MealRelation:        ClassifyMealRelation(t, prefs, med.WithFood),
				Priority:            PriorityNormal,
				WithFood:            med.WithFood,
				WithWater:           true,
				SpecialInstructions: med.SpecialInstructions,
			})
			ledger.Record(t, med.Name)
		}
	}

	sched.Warnings = append(sched.Warnings, verifySeparations(names, separations, ledger)...)

	sched.TimeSlots = map[string][]string(ledger)
	sched.OptimizationNotes = append(sched.OptimizationNotes, p.optimizationNotes(sched, interactions)...)
	return sched, nil
}

// verifySeparations re-checks every separation requirement against the
// final committed times. Pulling a dose back inside the waking window
// can undo the shift the resolver made for it, so any pair still closer
// than its requirement gets an explicit inability warning here. One
// warning per pair, for the closest violating dose pair.
func verifySeparations(names []string, separations map[string]int, ledger Ledger) []string {
	var warnings []string
	for i := 0; i < len(names); i++ {
		for j := i + 1; j < len(names); j++ {
			sepHours := separations[interaction.PairKey(names[i], names[j])]
			if sepHours == 0 {
				continue
			}
			sepMins := sepHours * 60
			closest := -1
			var at, bt TimeOfDay
			for _, a := range ledger.TimesFor(names[i]) {
				for _, b := range ledger.TimesFor(names[j]) {
					if gap := circularDistance(a, b); gap < sepMins && (closest < 0 || gap < closest) {
						closest, at, bt = gap, a, b
					}
				}
			}
			if closest >= 0 {
				warnings = append(warnings, fmt.Sprintf(
					"could not satisfy %dh separation between %s and %s (doses at %s and %s)",
					sepHours, names[i], names[j], at, bt))
			}
		}
	}
	return warnings
}

// placeMedication picks initial candidate times for a medication before
// any conflict resolution. Explicit preferred times are honored when
// every entry parses and the count matches the dose frequency; malformed
// entries are skipped with a note so a partial match falls through to
// the heuristics.
func (p *Planner) placeMedication(med MedicationInput, prefs PatientPreferences) ([]TimeOfDay, []string) {
	var notes []string

	if len(med.PreferredTimes) > 0 {
		limit := med.PreferredTimes
		if len(limit) > med.FrequencyPerDay {
			limit = limit[:med.FrequencyPerDay]
		}
		var times []TimeOfDay
		for _, raw := range limit {
			t, err := ParseTimeOfDay(raw)
			if err != nil {
				notes = append(notes, fmt.Sprintf("ignored unparsable preferred time %q for %s", raw, med.Name))
				continue
			}
			times = append(times, t)
		}
		if len(times) == med.FrequencyPerDay {
			return times, notes
		}
	}

	switch med.FrequencyPerDay {
	case 1:
		if med.WithFood {
			return []TimeOfDay{prefs.BreakfastTime}, notes
		}
		return []TimeOfDay{prefs.BreakfastTime.Add(-30)}, notes
	case 2:
		if med.WithFood {
			return []TimeOfDay{prefs.BreakfastTime, prefs.DinnerTime}, notes
		}
		return []TimeOfDay{prefs.WakeTime.Add(30), prefs.DinnerTime.Add(-60)}, notes
	case 3:
		return []TimeOfDay{prefs.BreakfastTime, prefs.LunchTime, prefs.DinnerTime}, notes
	case 4:
		return []TimeOfDay{prefs.BreakfastTime, prefs.LunchTime, prefs.DinnerTime, prefs.SleepTime.Add(-30)}, notes
	default:
		return distributeEvenly(med.FrequencyPerDay, prefs.WakeTime, prefs.SleepTime), notes
	}
}

// distributeEvenly spreads doses across the waking window, placing each
// at the midpoint of its bucket, with wraparound handling for night
// shift windows.
func distributeEvenly(count int, wake, sleep TimeOfDay) []TimeOfDay {
	start := int(wake)
	end := int(sleep)
	if end < start {
		end += minutesPerDay
	}

	interval := (end - start) / count
	times := make([]TimeOfDay, 0, count)
	for i := 0; i < count; i++ {
		m := start + i*interval + interval/2
		times = append(times, TimeOfDay(m%minutesPerDay))
	}
	return times
}

// clampToWakingWindow moves any dose outside the waking window to the
// nearest window edge, so the timetable never asks a patient to dose
// while asleep. This applies to heuristic placements too: a pre-breakfast
// dose lands on the wake edge when wake and breakfast coincide.
func (p *Planner) clampToWakingWindow(times []TimeOfDay, prefs PatientPreferences, medication string, sched *DailySchedule) []TimeOfDay {
	clamped := make([]TimeOfDay, 0, len(times))
	for _, t := range times {
		if WithinWakingHours(t, prefs) {
			clamped = append(clamped, t)
			continue
		}
		edge := prefs.SleepTime
		if circularDistance(t, prefs.WakeTime) < circularDistance(t, prefs.SleepTime) {
			edge = prefs.WakeTime
		}
		sched.Warnings = append(sched.Warnings, fmt.Sprintf(
			"moved %s dose from %s to %s to stay within waking hours", medication, t, edge))
		clamped = append(clamped, edge)
	}
	return clamped
}

func circularDistance(a, b TimeOfDay) int {
	diff := int(a) - int(b)
	if diff < 0 {
		diff = -diff
	}
	if diff > minutesPerDay/2 {
		diff = minutesPerDay - diff
	}
	return diff
}

// optimizationNotes surfaces human-relevant observations about the
// finished timetable, in a deterministic order.
func (p *Planner) optimizationNotes(sched *DailySchedule, interactions []interaction.DrugInteraction) []string {
	var notes []string

	keys := make([]string, 0, len(sched.TimeSlots))
	for k := range sched.TimeSlots {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if n := len(sched.TimeSlots[k]); n > 3 {
			notes = append(notes, fmt.Sprintf("📋 %s has %d medications - consider splitting if difficult", k, n))
		}
	}

	moderatePlus := 0
	for _, in := range interactions {
		if in.Severity == interaction.SeverityModerate || in.Severity == interaction.SeverityMajor {
			moderatePlus++
		}
	}
	if moderatePlus > 0 {
		notes = append(notes, fmt.Sprintf("⚠️ %d drug interaction(s) to be aware of", moderatePlus))
	}

	withFood := 0
	beforeMeals := 0
	for _, item := range sched.Items {
		if item.WithFood {
			withFood++
		}
		if item.MealRelation == MealBefore {
			beforeMeals++
		}
	}
	if withFood > 0 {
		notes = append(notes, fmt.Sprintf("🍽️ %d medication(s) should be taken with food", withFood))
	}
	if beforeMeals > 0 {
		notes = append(notes, fmt.Sprintf("⏰ %d medication(s) should be taken before meals", beforeMeals))
	}
	return notes
}

// NextDose returns the first item scheduled strictly after the given
// time, or nil when nothing remains today. Ties keep input order.
func NextDose(sched *DailySchedule, at TimeOfDay) *ScheduleItem {
	var best *ScheduleItem
	bestDiff := 0
	for i := range sched.Items {
		item := &sched.Items[i]
		diff := int(item.ScheduledTime) - int(at)
		if diff <= 0 {
			continue
		}
		if best == nil || diff < bestDiff {
			best = item
			bestDiff = diff
		}
	}
	return best
}

// Reminder is a notification send time derived from a scheduled dose.
type Reminder struct {
	RemindAt       TimeOfDay `json:"remind_at"`
	ScheduledTime  TimeOfDay `json:"scheduled_time"`
	MedicationName string    `json:"medication_name"`
}

// ReminderTimes derives reminder send times for every dose, each
// leadMinutes before its scheduled time, sorted by send time then by
// item order.
func ReminderTimes(sched *DailySchedule, leadMinutes int) []Reminder {
	if leadMinutes < 0 {
		leadMinutes = 0
	}
	reminders := make([]Reminder, 0, len(sched.Items))
	for _, item := range sched.Items {
		reminders = append(reminders, Reminder{
			RemindAt:       item.ScheduledTime.Add(-leadMinutes),
			ScheduledTime:  item.ScheduledTime,
			MedicationName: item.MedicationName,
		})
	}
	sort.SliceStable(reminders, func(i, j int) bool { return reminders[i].RemindAt < reminders[j].RemindAt })
	return reminders
}
